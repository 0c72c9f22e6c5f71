package observability

import (
	"context"
	"testing"

	"github.com/annel0/fps-sim/internal/eventbus"
	"github.com/annel0/fps-sim/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombatMetrics_Emit(t *testing.T) {
	m := NewCombatMetrics(prometheus.NewRegistry())

	m.Emit(world.Event{Type: world.EventWeaponFired, Name: "rifle"})
	m.Emit(world.Event{Type: world.EventWeaponFired, Name: "rifle"})
	m.Emit(world.Event{Type: world.EventActorDied, Detail: "Enemy"})
	m.Emit(world.Event{Type: world.EventKeyCollected, Value: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.shots.WithLabelValues("rifle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deaths.WithLabelValues("Enemy")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.keys))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues(string(world.EventWeaponFired))))
}

func TestCombatMetrics_AttachToBus(t *testing.T) {
	m := NewCombatMetrics(prometheus.NewRegistry())
	bus := eventbus.NewMemoryBus(8)

	_, err := m.Attach(context.Background(), bus)
	require.NoError(t, err)

	world.NewBusSink(bus, "test").Emit(world.Event{Type: world.EventPickupCollected, Detail: "ammo"})
	require.NoError(t, bus.Close())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.pickups.WithLabelValues("ammo")))
}

func TestInitTelemetry_Disabled(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), TelemetryConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
