package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/fps-sim/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("FPS_CONFIG", "")
	t.Setenv("FPS_REST_PORT", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.World.TickRate)
	assert.Equal(t, storage.BackendMemory, cfg.Journal.Backend)
	assert.Equal(t, 8088, cfg.Server.GetRESTPort())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := []byte(`
world:
  seed: 42
  required_keys: 2
  player:
    respawn_delay: 1.5
journal:
  backend: badger
  path: /tmp/fps
server:
  rest_port: 9000
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, 2, cfg.World.RequiredKeys)
	assert.Equal(t, 1.5, cfg.World.Player.RespawnDelay)
	assert.Equal(t, 100, cfg.World.Player.MaxHP, "незаданные поля остаются по умолчанию")
	assert.Equal(t, storage.BackendBadger, cfg.Journal.Backend)
	assert.Equal(t, 9000, cfg.Server.GetRESTPort())
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("impossible tuning", func(t *testing.T) {
		cfg := Default()
		cfg.World.TickRate = 0
		cfg.World.Player.Weapons[0].Capacity = 0
		cfg.EventBus.Backend = "jetstream"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tick_rate")
		assert.Contains(t, err.Error(), "capacity")
		assert.Contains(t, err.Error(), "eventbus.url")
	})
}

func TestPortEnvFallback(t *testing.T) {
	t.Setenv("FPS_REST_PORT", "3000")
	s := ServerConfig{}
	assert.Equal(t, 3000, s.GetRESTPort())

	s.RESTPort = 4000
	assert.Equal(t, 4000, s.GetRESTPort(), "значение из конфига приоритетнее env")
}
