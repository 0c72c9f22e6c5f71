package ui

import (
	"testing"

	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/gate"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
	"github.com/stretchr/testify/assert"
)

type fixedPlayer struct{ pos vec.Vec3 }

func (p fixedPlayer) PlayerPosition() (vec.Vec3, bool) { return p.pos, true }

func TestPlayerUI_AmmoAndHealth(t *testing.T) {
	sched := tasks.NewScheduler()
	text, fill := NewText(), NewFill()
	u := NewPlayerUI(1, text, fill, sched)

	cfg := combat.DefaultWeaponConfig()
	cfg.Ammo = 0
	cfg.Magazines = 0
	w := combat.NewWeapon(cfg, combat.WeaponDeps{Owner: 1, Scheduler: sched})
	w.BindDisplay(u)
	u.BindWeapon(w)

	w.AddAmmo(25)
	assert.Equal(t, "25/30 | 0", text.String())

	h := combat.NewHealth(combat.HealthConfig{Name: "player", Tag: combat.TagPlayer, MaxHP: 100})
	u.BindHealth(h)
	h.Attack(40)
	assert.InDelta(t, 0.6, fill.Amount(), 1e-9)

	empty := combat.NewWeapon(cfg, combat.WeaponDeps{Owner: 1, Scheduler: sched})
	u.BindWeapon(empty)
	empty.Fire(true)
	_, color, scale := text.Get()
	assert.True(t, u.Highlighted())
	assert.Equal(t, "red", color)
	assert.Equal(t, 1.5, scale)

	sched.Advance(0.5)
	_, color, scale = text.Get()
	assert.False(t, u.Highlighted())
	assert.Equal(t, "white", color)
	assert.Equal(t, 1.0, scale)
}

func TestPlayerUI_MissingWidgets(t *testing.T) {
	u := NewPlayerUI(1, nil, nil, nil)
	assert.NotPanics(t, func() {
		u.RefreshAmmoText(nil)
		u.RefreshAmmoText(combat.NewWeapon(combat.DefaultWeaponConfig(), combat.WeaponDeps{}))
		u.RefreshHealthBar(nil)
		u.HighlightAmmoText()
	})
}

func TestEnemyUI_FacesPlayerHorizontally(t *testing.T) {
	bar := NewBar(func() vec.Vec3 { return vec.Vec3{X: 0, Z: 0} }, vec.Vec3{Y: 2.2})
	fill := NewFill()
	u := NewEnemyUI(bar, fill, fixedPlayer{pos: vec.Vec3{X: 10, Y: 0}})

	u.Update()
	f := bar.Forward()
	assert.InDelta(t, 1.0, f.X, 1e-9)
	assert.InDelta(t, 0.0, f.Y, 1e-9, "полоса не наклоняется")

	h := combat.NewHealth(combat.HealthConfig{Name: "enemy", MaxHP: 50})
	u.BindHealth(h)
	h.Attack(10)
	assert.InDelta(t, 0.8, fill.Amount(), 1e-9)
}

func TestKeyUI_Polls(t *testing.T) {
	text := NewText()
	km := gate.NewKeyManager(5, nil)
	u := NewKeyUI(text, km)
	assert.Equal(t, "Keys: 0/5", text.String())

	km.AddKey()
	km.AddKey()
	u.Update()
	assert.Equal(t, "Keys: 2/5", text.String())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "7/30 | 2", AmmoText(7, 30, 2))
	assert.Equal(t, "Keys: 5/5", KeyText(5, 5))
}
