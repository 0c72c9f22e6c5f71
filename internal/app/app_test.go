package app

import (
	"context"
	"testing"

	"github.com/annel0/fps-sim/internal/config"
	"github.com/annel0/fps-sim/internal/eventbus"
	"github.com/annel0/fps-sim/internal/storage"
	"github.com/annel0/fps-sim/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_RecordsCombatEvents(t *testing.T) {
	cfg := config.Default()
	cfg.World.Enemies = 2
	ctx := context.Background()

	a, err := New(ctx, cfg, Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)

	snap := a.World().Snapshot()
	require.NotNil(t, snap.Player)
	assert.Len(t, snap.Enemies, 2)
	assert.Equal(t, a.Layout().Door, a.World().Door().ClosedAt(), "дверь стоит там, где её положил генератор")

	pc := a.World().Player()
	a.World().Enqueue(world.Damage(pc.ID(), 150))
	a.World().Step(0.1)
	require.True(t, pc.IsDead())

	j := a.Journal()
	require.NoError(t, a.bus.Close(), "закрытие шины дожидается записи в журнал")

	entries, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	var types []string
	for _, e := range entries {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, string(world.EventActorDamaged))
	assert.Contains(t, types, string(world.EventActorDied))
	assert.NoError(t, a.Close())
}

func TestRecorder_Record(t *testing.T) {
	j := storage.NewMemoryJournal(0)
	r := NewRecorder(j)
	ctx := context.Background()

	env, err := world.EnvelopeFor(world.Event{
		Type: world.EventDoorOpened, Tick: 12, Actor: 7, Detail: "north",
	}, "arena")
	require.NoError(t, err)
	require.NoError(t, r.Record(ctx, env))

	t.Run("broken payload", func(t *testing.T) {
		err := r.Record(ctx, &eventbus.Envelope{ID: "x", Payload: []byte("{")})
		assert.Error(t, err)
	})

	entries, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, env.ID, entries[0].ID)
	assert.Equal(t, "DoorOpened", entries[0].Type)
	assert.Equal(t, uint64(12), entries[0].Tick)
	assert.Equal(t, uint64(7), entries[0].Actor)
	assert.Equal(t, "north", entries[0].Detail)
}
