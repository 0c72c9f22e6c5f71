package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsInDueOrder(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.After(1, 0.5, func() { order = append(order, "b") })
	s.After(2, 0.2, func() { order = append(order, "a") })
	s.After(1, 0.5, func() { order = append(order, "c") })

	assert.Equal(t, 0, s.Advance(0.1))
	assert.Equal(t, 1, s.Advance(0.1))
	assert.Equal(t, 2, s.Advance(0.3))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_CancelOwner(t *testing.T) {
	s := NewScheduler()
	fired := 0

	s.After(7, 1, func() { fired++ })
	s.After(7, 2, func() { fired++ })
	s.After(8, 1, func() { fired++ })

	assert.Equal(t, 2, s.Pending(7))
	assert.Equal(t, 2, s.CancelOwner(7))
	assert.Equal(t, 0, s.Pending(7))

	s.Advance(5)
	assert.Equal(t, 1, fired, "выполняется только продолжение другого владельца")
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.After(1, 1, func() { fired = true })

	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id), "повторная отмена ничего не делает")
	s.Advance(2)
	assert.False(t, fired)
}

func TestScheduler_ContinuationScheduledDuringAdvanceWaits(t *testing.T) {
	s := NewScheduler()
	steps := 0

	s.After(1, 0, func() {
		steps++
		s.After(1, 0, func() { steps++ })
	})

	s.Advance(0.016)
	assert.Equal(t, 1, steps, "вложенное продолжение не выполняется в том же тике")
	s.Advance(0.016)
	assert.Equal(t, 2, steps)
}

func TestScheduler_CancelFromCallback(t *testing.T) {
	s := NewScheduler()
	fired := false

	s.After(1, 1, func() { s.CancelOwner(2) })
	s.After(2, 1, func() { fired = true })

	s.Advance(1)
	assert.False(t, fired, "продолжение, отменённое соседом в том же тике, не выполняется")
	assert.Equal(t, 1.0, s.Now())
}
