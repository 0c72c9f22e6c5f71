package combat

import (
	"testing"

	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestProjectile_FlightAndLifetime(t *testing.T) {
	p := NewProjectile(1, 9, vec.Zero)
	p.Fire(vec.Vec3{Z: 100}, 10, 0.5, 20, true)
	p.Fire(vec.Vec3{X: 100}, 99, 10, 1, false)

	from, to := p.Step(0.25)
	assert.Equal(t, vec.Zero, from)
	assert.InDelta(t, 5.0, to.Z, 1e-9)
	assert.Equal(t, 10, p.Damage(), "повторный запуск игнорируется")
	assert.False(t, p.Expired())

	p.Step(0.25)
	assert.True(t, p.Expired())
}

func TestProjectile_HitRules(t *testing.T) {
	tests := []struct {
		name      string
		isPrimary bool
		tag       Tag
		wantHP    int
	}{
		{"игрок попадает во врага", true, TagEnemy, 90},
		{"враг попадает в игрока", false, TagPlayer, 90},
		{"игрок не ранит себя", true, TagPlayer, 100},
		{"враги не ранят друг друга", false, TagEnemy, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewHealth(HealthConfig{Name: "target", Tag: tt.tag, MaxHP: 100, Owner: &dieCounter{}, PlayerHandler: &respawnCounter{}})
			p := NewProjectile(1, 1, vec.Zero)
			p.Fire(vec.Forward, 10, 3, 20, tt.isPrimary)

			p.Hit(target)
			assert.True(t, p.Destroyed(), "снаряд уничтожается при любом столкновении")
			assert.Equal(t, tt.wantHP, target.Current())

			p.Hit(target)
			assert.Equal(t, tt.wantHP, target.Current(), "урон наносится не больше одного раза")
		})
	}
}

func TestProjectile_HitObstacle(t *testing.T) {
	p := NewProjectile(1, 1, vec.Zero)
	p.Fire(vec.Forward, 10, 3, 20, true)
	assert.False(t, p.Hit(nil))
	assert.True(t, p.Destroyed())

	from, to := p.Step(1)
	assert.Equal(t, from, to, "уничтоженный снаряд не двигается")
}

func TestHitFlash(t *testing.T) {
	sched := tasks.NewScheduler()
	f := NewHitFlash(4, sched, 3, 0.6)

	f.Play()
	assert.True(t, f.Lit())
	f.Play()
	assert.Equal(t, 1, f.Flashes(), "повторный запуск во время мигания игнорируется")

	for i := 0; i < 10; i++ {
		sched.Advance(0.1)
	}
	assert.False(t, f.Playing())
	assert.False(t, f.Lit())
	assert.Equal(t, 3, f.Flashes())
}
