package world

import (
	"context"
	"testing"
	"time"

	"github.com/annel0/fps-sim/internal/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusSink_FullBusDoesNotStallTick(t *testing.T) {
	bus := eventbus.NewMemoryBus(1)
	ctx := context.Background()

	release := make(chan struct{})
	var seen []string
	_, err := bus.Subscribe(ctx, eventbus.Filter{}, func(_ context.Context, ev *eventbus.Envelope) {
		<-release
		seen = append(seen, ev.EventType)
	})
	require.NoError(t, err)

	sink := NewBusSink(bus, "arena")
	sink.SetTimeout(20 * time.Millisecond)

	// Первое событие занимает обработчик, второе - единственное место в буфере
	sink.Emit(Event{Type: EventActorDamaged, Actor: 1})
	require.Eventually(t, func() bool { return bus.Metrics().InFlight == 0 }, time.Second, time.Millisecond)
	sink.Emit(Event{Type: EventActorDamaged, Actor: 1})

	start := time.Now()
	sink.Emit(Event{Type: EventActorDied, Actor: 1, Detail: "Enemy"})
	assert.Less(t, time.Since(start), 500*time.Millisecond, "важное событие не держит тик дольше таймаута")

	close(release)
	require.NoError(t, bus.Close())
	assert.Equal(t, []string{"ActorDamaged", "ActorDamaged"}, seen, "событие сверх буфера отброшено")
	assert.Equal(t, uint64(2), bus.Metrics().Published)
}

func TestEnvelopeFor_RoundTrip(t *testing.T) {
	ev := Event{Type: EventKeyCollected, Tick: 12, Actor: 3, Value: 2}
	env, err := EnvelopeFor(ev, "arena")
	require.NoError(t, err)
	assert.Equal(t, "KeyCollected", env.EventType)
	assert.Equal(t, eventbus.HighPriority, env.Priority)

	back, err := DecodeEvent(env)
	require.NoError(t, err)
	assert.Equal(t, ev, back)
}
