package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu    sync.Mutex
	types []string
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.types = append(c.types, ev.EventType)
	c.mu.Unlock()
}

func (c *collector) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.types...)
}

func TestMemoryBus_DeliversInOrderWithFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	ctx := context.Background()

	all := &collector{}
	deaths := &collector{}
	_, err := bus.Subscribe(ctx, Filter{}, all.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, Filter{Types: []string{"actor_died"}}, deaths.handle)
	require.NoError(t, err)

	for _, typ := range []string{"actor_damaged", "actor_died", "door_opened"} {
		require.NoError(t, bus.Publish(ctx, &Envelope{EventType: typ, Source: "arena"}))
	}
	require.NoError(t, bus.Close())

	assert.Equal(t, []string{"actor_damaged", "actor_died", "door_opened"}, all.seen())
	assert.Equal(t, []string{"actor_died"}, deaths.seen())

	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(4), stats.Consumed)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	ctx := context.Background()
	c := &collector{}
	sub, err := bus.Subscribe(ctx, Filter{}, c.handle)
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "weapon_fired"}))
	require.NoError(t, bus.Close())
	assert.Empty(t, c.seen())
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	ctx := context.Background()

	release := make(chan struct{})
	_, err := bus.Subscribe(ctx, Filter{}, func(context.Context, *Envelope) { <-release })
	require.NoError(t, err)

	// Первое событие занимает обработчик, второе - буфер
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "a"}))
	require.Eventually(t, func() bool { return bus.Metrics().InFlight == 0 }, time.Second, time.Millisecond)
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "b"}))
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "c", Priority: 1}))
	assert.Equal(t, uint64(1), bus.Metrics().Dropped)

	t.Run("high priority blocks until context done", func(t *testing.T) {
		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		err := bus.Publish(cctx, &Envelope{EventType: "d", Priority: 7})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	close(release)
	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish(ctx, &Envelope{EventType: "e"}), ErrBusClosed)
}

func TestMetricsExporter_Sync(t *testing.T) {
	bus := NewMemoryBus(8)
	reg := prometheus.NewRegistry()
	me := NewMetricsExporter(bus, reg)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "actor_died"}))
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "actor_died"}))
	me.Sync()
	me.Sync()

	assert.Equal(t, 2.0, testutil.ToFloat64(me.published), "повторный Sync не удваивает счётчик")
	require.NoError(t, bus.Close())
}

func TestGlobalPublishWithoutBus(t *testing.T) {
	Init(nil)
	assert.NoError(t, Publish(context.Background(), &Envelope{}))
	assert.Nil(t, Global())
}
