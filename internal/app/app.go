package app

import (
	"context"
	"fmt"
	"time"

	"github.com/annel0/fps-sim/internal/config"
	"github.com/annel0/fps-sim/internal/eventbus"
	"github.com/annel0/fps-sim/internal/gate"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/observability"
	"github.com/annel0/fps-sim/internal/storage"
	"github.com/annel0/fps-sim/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

// App собирает арену, шину событий, журнал и метрики в один процесс
type App struct {
	cfg     *config.Config
	world   *world.World
	layout  world.ArenaLayout
	bus     eventbus.EventBus
	journal storage.Journal

	recorder   *Recorder
	metrics    *observability.CombatMetrics
	busMetrics *eventbus.MetricsExporter
	busLog     eventbus.Subscription

	log *logging.Logger
}

// Options - внешние зависимости App
type Options struct {
	Registerer prometheus.Registerer // nil - глобальный регистр
	Loader     gate.SceneLoader      // nil - сцена только логируется
}

// New открывает шину и журнал, генерирует арену и заселяет её
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{cfg: cfg, log: logging.GetComponentLogger("app")}

	bus, err := openBus(cfg.EventBus)
	if err != nil {
		return nil, err
	}
	a.bus = bus

	a.journal, err = storage.Open(cfg.Journal)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("журнал: %w", err)
	}

	a.recorder = NewRecorder(a.journal)
	if err := a.recorder.Attach(ctx, bus); err != nil {
		a.Close()
		return nil, err
	}
	if a.busLog, err = eventbus.StartLoggingListener(bus); err != nil {
		a.Close()
		return nil, err
	}

	a.metrics = observability.NewCombatMetrics(opts.Registerer)
	a.busMetrics = eventbus.NewMetricsExporter(bus, opts.Registerer)

	loader := opts.Loader
	if loader == nil {
		loader = world.SceneLoaderFunc(func(name string) {
			a.log.Info("🚪 загрузка сцены %s", name)
		})
	}

	wc := cfg.World
	a.layout = world.GenerateArena(wc.Seed, wc.ArenaSize, wc.Enemies, wc.RequiredKeys)
	wc.Door.Position = a.layout.Door

	a.world = world.New(wc, world.Deps{
		Sink:   world.MultiSink{world.NewBusSink(bus, "arena"), a.metrics},
		Loader: loader,
		OnTick: func(took time.Duration) { a.metrics.ObserveTick(took.Seconds()) },
	})
	a.world.Populate(a.layout)
	return a, nil
}

func openBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	switch cfg.Backend {
	case "jetstream":
		bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
		if err != nil {
			return nil, fmt.Errorf("шина событий: %w", err)
		}
		logging.Info("📨 шина событий: JetStream %s", cfg.URL)
		return bus, nil
	default:
		buf := cfg.Buffer
		if buf <= 0 {
			buf = 1024
		}
		return eventbus.NewMemoryBus(buf), nil
	}
}

func (a *App) World() *world.World       { return a.world }
func (a *App) Layout() world.ArenaLayout { return a.layout }
func (a *App) Bus() eventbus.EventBus    { return a.bus }
func (a *App) Journal() storage.Journal  { return a.journal }
func (a *App) Config() *config.Config    { return a.cfg }

func (a *App) Metrics() *observability.CombatMetrics { return a.metrics }

// Run крутит симуляцию до отмены ctx
func (a *App) Run(ctx context.Context) error {
	a.busMetrics.Start()
	defer a.busMetrics.Stop()

	a.world.Run(ctx)
	return nil
}

// Close останавливает шину, дожидаясь записи событий, и закрывает журнал
func (a *App) Close() error {
	if a.busLog != nil {
		a.busLog.Unsubscribe()
	}
	var firstErr error
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			firstErr = err
		}
	}
	if a.recorder != nil {
		a.recorder.Detach()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
