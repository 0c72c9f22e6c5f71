package storage

import (
	"context"
	"sync"
)

// MemoryJournal хранит журнал в памяти.
// Используется по умолчанию и в тестах. Данные теряются при перезапуске.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
	seq     uint64
	maxLen  int
	closed  bool
}

// NewMemoryJournal создаёт журнал в памяти. maxLen <= 0 - без ограничения.
func NewMemoryJournal(maxLen int) *MemoryJournal {
	return &MemoryJournal{maxLen: maxLen}
}

func (j *MemoryJournal) Append(ctx context.Context, e Entry) (uint64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return 0, ErrClosed
	}

	j.seq++
	e.Seq = j.seq
	j.entries = append(j.entries, e)
	if j.maxLen > 0 && len(j.entries) > j.maxLen {
		// Старые записи вытесняются
		j.entries = append([]Entry(nil), j.entries[len(j.entries)-j.maxLen:]...)
	}
	return e.Seq, nil
}

func (j *MemoryJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil, ErrClosed
	}

	start := 0
	if limit > 0 && len(j.entries) > limit {
		start = len(j.entries) - limit
	}
	out := make([]Entry, len(j.entries)-start)
	copy(out, j.entries[start:])
	return out, nil
}

func (j *MemoryJournal) Count(ctx context.Context) (int, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries), nil
}

func (j *MemoryJournal) Close() error {
	j.mu.Lock()
	j.closed = true
	j.mu.Unlock()
	return nil
}
