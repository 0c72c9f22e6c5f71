package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/fps-sim/internal/api"
	"github.com/annel0/fps-sim/internal/app"
	"github.com/annel0/fps-sim/internal/auth"
	"github.com/annel0/fps-sim/internal/config"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/observability"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config path (default: $FPS_CONFIG)")
		seed       = flag.Int64("seed", 0, "Arena seed override")
		printToken = flag.Bool("admin-token", false, "Print an admin token at startup")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	if cfg.Logging.Dir != "" {
		logging.SetLogDir(cfg.Logging.Dir)
	}
	if err := logging.InitDefaultLogger("sim"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.SetDefaultLevel(logging.ParseLevel(cfg.Logging.Level))
	loggers := logging.GetLoggerManager()
	if err := loggers.ApplyLevels(cfg.Logging.Components); err != nil {
		logging.Warn("⚠️ %v", err)
	}
	defer loggers.CloseAll()

	logging.Info("🎮 Запуск fps-sim: сид %d, арена %.0fм, врагов %d, ключей %d",
		cfg.World.Seed, cfg.World.ArenaSize, cfg.World.Enemies, cfg.World.RequiredKeys)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		os.Exit(1)
	}
	defer shutdownTelemetry(context.Background())

	sim, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		logging.Error("❌ Ошибка запуска симуляции: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := sim.Close(); err != nil {
			logging.Error("❌ Ошибка остановки: %v", err)
		}
	}()

	issuer, err := auth.NewIssuer(cfg.Server.GetAdminSecret(), 24*time.Hour)
	if err != nil {
		logging.Error("❌ Ошибка настройки токенов: %v", err)
		os.Exit(1)
	}
	if *printToken {
		token, err := issuer.Issue("console", true)
		if err != nil {
			logging.Error("❌ Ошибка выпуска токена: %v", err)
			os.Exit(1)
		}
		fmt.Println(token)
	}

	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server := api.NewRestServer(api.Config{
		Port:    restPort,
		Sim:     sim.World(),
		Journal: sim.Journal(),
		Issuer:  issuer,
	})
	server.Start()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   📈 Prometheus: http://localhost%s/metrics", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)

	if err := sim.Run(ctx); err != nil {
		logging.Error("❌ Симуляция завершилась с ошибкой: %v", err)
	}

	// === GRACEFUL SHUTDOWN ===
	logging.Info("📡 Получен сигнал, завершение работы...")
	if err := server.Stop(context.Background()); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	logging.Info("👋 Симуляция остановлена")
}
