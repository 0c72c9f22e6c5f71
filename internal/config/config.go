package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/fps-sim/internal/observability"
	"github.com/annel0/fps-sim/internal/storage"
	"github.com/annel0/fps-sim/internal/world"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World     world.Config                  `yaml:"world"`
	EventBus  EventBusConfig                `yaml:"eventbus"`
	Journal   storage.Options               `yaml:"journal"`
	Server    ServerConfig                  `yaml:"server"`
	Telemetry observability.TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig                 `yaml:"logging"`
}

type EventBusConfig struct {
	Backend   string `yaml:"backend"` // memory | jetstream
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

type ServerConfig struct {
	RESTPort    int    `yaml:"rest_port"`    // там же отдаётся /metrics
	AdminSecret string `yaml:"admin_secret"` // base64, не короче 32 байт
}

type LoggingConfig struct {
	Level      string            `yaml:"level"`
	Dir        string            `yaml:"dir"`
	Components map[string]string `yaml:"components"` // уровень по компоненту: enemy: debug
}

// Default возвращает конфигурацию, с которой симуляция запускается без файла
func Default() *Config {
	return &Config{
		World: world.DefaultConfig(),
		EventBus: EventBusConfig{
			Backend:   "memory",
			Stream:    "COMBAT",
			Retention: 24,
			Buffer:    1024,
		},
		Journal: storage.Options{
			Backend: storage.BackendMemory,
			MaxLen:  10000,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "FPS_REST_PORT", 8088)
}

// GetAdminSecret возвращает секрет подписи админ-токенов: config -> env
func (s *ServerConfig) GetAdminSecret() string {
	if s.AdminSecret != "" {
		return s.AdminSecret
	}
	return os.Getenv("FPS_ADMIN_SECRET")
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает .env (если есть) и YAML файл поверх Default().
// Если path == "", берётся ENV FPS_CONFIG; без файла возвращаются дефолты.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("FPS_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("чтение конфигурации: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
		}
	}

	if v := os.Getenv("FPS_JOURNAL_BACKEND"); v != "" {
		cfg.Journal.Backend = storage.Backend(v)
	}
	if v := os.Getenv("FPS_NATS_URL"); v != "" {
		cfg.EventBus.Backend = "jetstream"
		cfg.EventBus.URL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate отклоняет невозможные настройки
func (c *Config) Validate() error {
	var errs []error
	w := c.World
	if w.TickRate <= 0 {
		errs = append(errs, errors.New("world.tick_rate должен быть больше 0"))
	}
	if w.ArenaSize < 20 {
		errs = append(errs, errors.New("world.arena_size не меньше 20"))
	}
	if w.Enemies < 0 || w.RequiredKeys < 0 {
		errs = append(errs, errors.New("world.enemies и world.required_keys не могут быть отрицательными"))
	}
	if w.Player.MaxHP <= 0 || w.Enemy.MaxHP <= 0 {
		errs = append(errs, errors.New("max_hp должен быть больше 0"))
	}
	if len(w.Player.Weapons) == 0 {
		errs = append(errs, errors.New("у игрока должно быть хотя бы одно оружие"))
	}
	for i, wc := range w.Player.Weapons {
		if wc.Capacity <= 0 {
			errs = append(errs, fmt.Errorf("world.player.weapons[%d]: capacity должен быть больше 0", i))
		}
		if wc.FireInterval <= 0 {
			errs = append(errs, fmt.Errorf("world.player.weapons[%d]: fire_interval должен быть больше 0", i))
		}
	}
	if w.Player.RespawnDelay < 0 {
		errs = append(errs, errors.New("world.player.respawn_delay не может быть отрицательным"))
	}

	switch c.EventBus.Backend {
	case "", "memory":
	case "jetstream":
		if c.EventBus.URL == "" {
			errs = append(errs, errors.New("eventbus.url обязателен для jetstream"))
		}
	default:
		errs = append(errs, fmt.Errorf("неизвестный eventbus.backend: %s", c.EventBus.Backend))
	}

	switch c.Journal.Backend {
	case "", storage.BackendMemory, storage.BackendBadger, storage.BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("неизвестный journal.backend: %s", c.Journal.Backend))
	}
	return errors.Join(errs...)
}
