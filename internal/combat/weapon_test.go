package combat

import (
	"testing"

	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDisplay struct {
	mock.Mock
}

func (m *mockDisplay) RefreshAmmoText(w *Weapon) {
	m.Called(w)
}

type fixedAim struct {
	origin, forward, muzzle vec.Vec3
}

func (a fixedAim) AimOrigin() vec.Vec3  { return a.origin }
func (a fixedAim) AimForward() vec.Vec3 { return a.forward }
func (a fixedAim) Muzzle() vec.Vec3     { return a.muzzle }

type stubRay struct {
	hit    vec.Vec3
	ok     bool
	ignore uint64
}

func (r *stubRay) Raycast(origin, dir vec.Vec3, maxDist float64, ignore uint64) (vec.Vec3, bool) {
	r.ignore = ignore
	return r.hit, r.ok
}

type projectileSink struct {
	spawned []*Projectile
}

func (s *projectileSink) SpawnProjectile(owner uint64, at vec.Vec3) *Projectile {
	p := NewProjectile(uint64(len(s.spawned)+1), owner, at)
	s.spawned = append(s.spawned, p)
	return p
}

type clipRecorder struct{ clips []string }

func (c *clipRecorder) PlayOneShot(source uint64, clip string) { c.clips = append(c.clips, clip) }

func newTestWeapon(cfg WeaponConfig) (*Weapon, *tasks.Scheduler, *projectileSink) {
	sched := tasks.NewScheduler()
	sink := &projectileSink{}
	w := NewWeapon(cfg, WeaponDeps{
		Owner:     7,
		Aim:       fixedAim{origin: vec.Vec3{Y: 1.6}, forward: vec.Forward, muzzle: vec.Vec3{Y: 1.5, Z: 0.5}},
		Spawner:   sink,
		Scheduler: sched,
	})
	return w, sched, sink
}

func TestWeapon_FireIsSingleFlight(t *testing.T) {
	w, sched, sink := newTestWeapon(DefaultWeaponConfig())
	fired := 0
	w.Fired.Connect(func() { fired++ })

	w.Fire(true)
	require.Equal(t, 29, w.Ammo())
	assert.True(t, w.Firing())

	w.Fire(true)
	w.Fire(true)
	assert.Equal(t, 29, w.Ammo(), "повторный выстрел до конца интервала игнорируется")
	assert.Len(t, sink.spawned, 1)

	sched.Advance(0.1)
	w.Fire(true)
	assert.Equal(t, 29, w.Ammo())

	sched.Advance(0.1)
	assert.False(t, w.Firing())
	w.Fire(true)
	assert.Equal(t, 28, w.Ammo())
	assert.Equal(t, 2, fired)
}

func TestWeapon_AutoReloadAndEmpty(t *testing.T) {
	cfg := DefaultWeaponConfig()
	cfg.Ammo = 0
	cfg.Magazines = 1
	w, sched, _ := newTestWeapon(cfg)
	empty := 0
	w.AmmoEmpty.Connect(func() { empty++ })

	w.Fire(false)
	assert.Equal(t, 29, w.Ammo(), "перезарядка и выстрел в одном вызове")
	assert.Equal(t, 0, w.Magazines())

	// Опустошаем магазин
	for i := 0; i < 29; i++ {
		sched.Advance(cfg.FireInterval)
		w.Fire(false)
	}
	require.Equal(t, 0, w.Ammo())

	sched.Advance(cfg.FireInterval)
	w.Fire(false)
	assert.Equal(t, 1, empty)
	assert.False(t, w.Firing(), "защита снимается сразу при пустом оружии")
	assert.Equal(t, 0, w.Ammo())
}

func TestWeapon_AddAmmoOverflow(t *testing.T) {
	tests := []struct {
		name     string
		ammo     int
		mags     int
		add      int
		wantAmmo int
		wantMags int
	}{
		{"пример с переполнением", 25, 2, 40, 30, 3},
		{"без переполнения", 10, 0, 15, 25, 0},
		{"ровно до ёмкости", 0, 0, 30, 30, 0},
		{"остаток отбрасывается", 29, 1, 62, 30, 3},
		{"неположительное количество", 5, 1, -3, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultWeaponConfig()
			cfg.Ammo = tt.ammo
			cfg.Magazines = tt.mags
			w, _, _ := newTestWeapon(cfg)

			w.AddAmmo(tt.add)
			assert.Equal(t, tt.wantAmmo, w.Ammo())
			assert.Equal(t, tt.wantMags, w.Magazines())
			assert.LessOrEqual(t, w.Ammo(), w.Capacity())
		})
	}
}

func TestWeapon_TargetedDisplayRefresh(t *testing.T) {
	display := &mockDisplay{}
	rifle := DefaultWeaponConfig()
	pistol := DefaultWeaponConfig()
	pistol.Name = "pistol"
	pistol.Capacity = 12
	pistol.Ammo = 12
	a, _, _ := newTestWeapon(rifle)
	b, _, _ := newTestWeapon(pistol)
	a.BindDisplay(display)
	b.BindDisplay(display)

	display.On("RefreshAmmoText", b).Return().Once()
	b.AddMagazines(2)
	display.AssertExpectations(t)
	display.AssertNotCalled(t, "RefreshAmmoText", a)

	display.On("RefreshAmmoText", a).Return().Once()
	a.Fire(true)
	display.AssertExpectations(t)
}

func TestWeapon_AimAndProjectile(t *testing.T) {
	sched := tasks.NewScheduler()
	sink := &projectileSink{}
	ray := &stubRay{hit: vec.Vec3{Y: 1.5, Z: 10.5}, ok: true}
	audio := &clipRecorder{}
	w := NewWeapon(DefaultWeaponConfig(), WeaponDeps{
		Owner:     3,
		Aim:       fixedAim{origin: vec.Vec3{Y: 1.5}, forward: vec.Forward, muzzle: vec.Vec3{Y: 1.5, Z: 0.5}},
		Ray:       ray,
		Spawner:   sink,
		Audio:     audio,
		Scheduler: sched,
	})

	w.Fire(true)
	require.Len(t, sink.spawned, 1)
	p := sink.spawned[0]
	assert.Equal(t, uint64(3), ray.ignore, "луч не задевает стрелка")
	assert.True(t, p.Fired())
	assert.True(t, p.IsPrimary())
	assert.Equal(t, 10, p.Damage())
	assert.InDelta(t, 1.0, p.Direction().Dot(vec.Forward), 1e-9)
	assert.Equal(t, []string{"player_fire"}, audio.clips)

	ray.ok = false
	sched.Advance(1)
	w.Fire(false)
	assert.Equal(t, []string{"player_fire", "enemy_fire"}, audio.clips)
}

func TestWeapon_MissingSpawnerDegrades(t *testing.T) {
	w := NewWeapon(DefaultWeaponConfig(), WeaponDeps{Owner: 1})
	assert.NotPanics(t, func() { w.Fire(true) })
	assert.Equal(t, 29, w.Ammo())
	assert.False(t, w.Firing(), "без планировщика защита снимается сразу")
}
