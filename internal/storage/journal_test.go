package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(i int) Entry {
	return Entry{
		ID:    fmt.Sprintf("ev-%d", i),
		Time:  time.Unix(int64(i), 0).UTC(),
		Tick:  uint64(i * 10),
		Type:  "actor_damaged",
		Actor: 1000,
		Value: i,
	}
}

// exerciseJournal проверяет общий контракт любого журнала
func exerciseJournal(t *testing.T, j Journal) {
	ctx := context.Background()

	t.Run("Append numbers entries", func(t *testing.T) {
		for i := 1; i <= 5; i++ {
			seq, err := j.Append(ctx, entry(i))
			require.NoError(t, err)
			assert.Equal(t, uint64(i), seq)
		}
		n, err := j.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})

	t.Run("Recent returns tail in order", func(t *testing.T) {
		got, err := j.Recent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, uint64(3), got[0].Seq)
		assert.Equal(t, uint64(5), got[2].Seq)
		assert.Equal(t, "ev-5", got[2].ID)
		assert.Equal(t, 5, got[2].Value)
		assert.True(t, entry(5).Time.Equal(got[2].Time))
	})

	t.Run("Recent without limit", func(t *testing.T) {
		got, err := j.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})

	t.Run("Closed journal", func(t *testing.T) {
		require.NoError(t, j.Close())
		_, err := j.Append(ctx, entry(6))
		assert.ErrorIs(t, err, ErrClosed)
		assert.NoError(t, j.Close(), "повторное закрытие безопасно")
	})
}

func TestMemoryJournal(t *testing.T) {
	exerciseJournal(t, NewMemoryJournal(0))
}

func TestMemoryJournal_MaxLen(t *testing.T) {
	j := NewMemoryJournal(2)
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		_, err := j.Append(ctx, entry(i))
		require.NoError(t, err)
	}

	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(3), got[0].Seq, "старые записи вытеснены")
	assert.Equal(t, uint64(4), got[1].Seq)
}

func TestMemoryJournal_CancelledContext(t *testing.T) {
	j := NewMemoryJournal(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := j.Append(ctx, entry(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadgerJournal_InMemory(t *testing.T) {
	j, err := NewBadgerJournal("")
	require.NoError(t, err)
	exerciseJournal(t, j)
}

func TestBadgerJournal_ReopenKeepsSequence(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "journal-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	ctx := context.Background()
	j, err := NewBadgerJournal(tempDir)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := j.Append(ctx, entry(i))
		require.NoError(t, err)
	}
	require.NoError(t, j.Close())

	j, err = NewBadgerJournal(tempDir)
	require.NoError(t, err)
	defer j.Close()

	seq, err := j.Append(ctx, entry(4))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), seq, "нумерация продолжается после перезапуска")

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRedisJournal(t *testing.T) {
	addr := os.Getenv("FPS_TEST_REDIS")
	if addr == "" {
		t.Skip("FPS_TEST_REDIS не задан")
	}
	cfg := DefaultRedisConfig()
	cfg.Addr = addr
	cfg.Key = fmt.Sprintf("fps:test:%d", time.Now().UnixNano())

	j, err := NewRedisJournal(cfg)
	require.NoError(t, err)
	defer j.client.Del(context.Background(), cfg.Key, cfg.Key+":seq")
	exerciseJournal(t, j)
}

func TestOpen(t *testing.T) {
	j, err := Open(Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryJournal{}, j)

	_, err = Open(Options{Backend: "sqlite"})
	assert.Error(t, err)
}
