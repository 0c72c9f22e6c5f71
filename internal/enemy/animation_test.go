package enemy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipFor(t *testing.T) {
	tests := []struct {
		state       StateID
		withinShoot bool
		variant     int
		want        string
	}{
		{StateIdle, false, 0, ClipIdle},
		{StateChase, false, 0, ClipRun},
		{StateChase, true, 0, ClipShoot},
		{StateGoToLastKnownPosition, false, 0, ClipWalk},
		{StateWait, true, 0, ClipIdle},
		{StateReturning, false, 0, ClipWalk},
		{StateDying, false, 0, ClipDeathA},
		{StateDying, false, 1, ClipDeathB},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ClipFor(tt.state, tt.withinShoot, tt.variant))
		})
	}
}

func TestChooseDrop(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	t.Run("нулевая вероятность", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			_, ok := ChooseDrop(rng, 0, []string{"ammo", "health"})
			assert.False(t, ok)
		}
	})

	t.Run("один предмет", func(t *testing.T) {
		item, ok := ChooseDrop(rng, 1, []string{"", "health"})
		assert.True(t, ok)
		assert.Equal(t, "health", item)
	})

	t.Run("нет предметов", func(t *testing.T) {
		_, ok := ChooseDrop(rng, 1, nil)
		assert.False(t, ok)
	})

	t.Run("два предмета выпадают оба", func(t *testing.T) {
		seen := map[string]int{}
		for i := 0; i < 200; i++ {
			item, ok := ChooseDrop(rng, 1, []string{"ammo", "health"})
			assert.True(t, ok)
			seen[item]++
		}
		assert.Greater(t, seen["ammo"], 50)
		assert.Greater(t, seen["health"], 50)
	})
}
