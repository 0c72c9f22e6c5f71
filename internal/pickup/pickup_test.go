package pickup

import (
	"testing"

	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mags, healed, keys int
}

func (c *collector) AddMagazines(n int) { c.mags += n }
func (c *collector) Heal(n int)         { c.healed += n }
func (c *collector) AddKey() bool       { c.keys++; return true }

func TestPickup_CollectOnceAndDespawn(t *testing.T) {
	sched := tasks.NewScheduler()
	var removed []uint64
	p := New(11, KindAmmo, vec.Vec3{X: 2}, DefaultConfig(), Deps{
		Scheduler: sched,
		Remove:    func(id uint64) { removed = append(removed, id) },
	})
	c := &collector{}

	assert.False(t, p.OnTriggerEnter(combat.TagEnemy, c), "враги предметы не подбирают")
	require.True(t, p.OnTriggerEnter(combat.TagPlayer, c))
	assert.False(t, p.OnTriggerEnter(combat.TagPlayer, c))
	assert.Equal(t, 5, c.mags)
	assert.False(t, p.Touches(vec.Vec3{X: 2}), "подобранный предмет больше не триггерит")

	sched.Advance(0.5)
	assert.Empty(t, removed)
	sched.Advance(0.5)
	assert.Equal(t, []uint64{11}, removed)
}

func TestPickup_Kinds(t *testing.T) {
	c := &collector{}
	New(1, KindHealth, vec.Zero, DefaultConfig(), Deps{}).OnTriggerEnter(combat.TagPlayer, c)
	New(2, KindKey, vec.Zero, DefaultConfig(), Deps{}).OnTriggerEnter(combat.TagPlayer, c)
	assert.Equal(t, 25, c.healed)
	assert.Equal(t, 1, c.keys)
}

func TestPickup_Bob(t *testing.T) {
	p := New(1, KindKey, vec.Vec3{Y: 1}, DefaultConfig(), Deps{})
	for i := 0; i < 100; i++ {
		p.Update(0.05)
		assert.InDelta(t, 1.0, p.Position().Y, 0.5+1e-9)
		assert.Equal(t, 0.0, p.Position().X)
	}
	assert.True(t, p.Touches(vec.Vec3{X: 0.5, Y: 3}))
	assert.False(t, p.Touches(vec.Vec3{X: 2}))
}
