package world

import (
	"slices"

	"github.com/annel0/fps-sim/internal/vec"
)

// ActorView - состояние актёра в снимке
type ActorView struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Position vec.Vec3 `json:"position"`
	Aim      vec.Vec3 `json:"aim"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"max_hp"`
	Rate     float64  `json:"rate"`
	State    string   `json:"state,omitempty"`
	Clip     string   `json:"clip,omitempty"`
	Dying    bool     `json:"dying,omitempty"`
	Weapon   string   `json:"weapon,omitempty"`
	Ammo     int      `json:"ammo"`
	Mags     int      `json:"mags"`
	Flash    bool     `json:"flash,omitempty"`
	BarFill  float64  `json:"bar_fill,omitempty"`
}

// PlayerView - состояние игрока в снимке
type PlayerView struct {
	ActorView
	Dead         bool     `json:"dead"`
	Deaths       int      `json:"deaths"`
	RespawnPoint vec.Vec3 `json:"respawn_point"`
	Slot         int      `json:"slot"`
	Motor        bool     `json:"motor_enabled"`
}

// PickupView - предмет в снимке
type PickupView struct {
	ID        uint64   `json:"id"`
	Kind      string   `json:"kind"`
	Position  vec.Vec3 `json:"position"`
	Collected bool     `json:"collected"`
}

// DoorView - дверь в снимке
type DoorView struct {
	Position  vec.Vec3 `json:"position"`
	Open      bool     `json:"open"`
	Moving    bool     `json:"moving"`
	Loading   bool     `json:"loading"`
	NextScene string   `json:"next_scene"`
}

// HUDView - содержимое виджетов интерфейса
type HUDView struct {
	AmmoText    string  `json:"ammo_text"`
	AmmoColor   string  `json:"ammo_color"`
	AmmoScale   float64 `json:"ammo_scale"`
	HealthFill  float64 `json:"health_fill"`
	KeyText     string  `json:"key_text"`
	Highlighted bool    `json:"highlighted"`
}

// Snapshot - неизменяемый снимок арены после тика
type Snapshot struct {
	Tick         uint64       `json:"tick"`
	Time         float64      `json:"time"`
	Player       *PlayerView  `json:"player,omitempty"`
	Enemies      []ActorView  `json:"enemies"`
	Pickups      []PickupView `json:"pickups"`
	Projectiles  int          `json:"projectiles"`
	Keys         int          `json:"keys"`
	RequiredKeys int          `json:"required_keys"`
	Door         DoorView     `json:"door"`
	HUD          HUDView      `json:"hud"`
	Scene        string       `json:"scene,omitempty"`
	Pending      int          `json:"pending_tasks"`
}

// Enemy ищет врага в снимке
func (s *Snapshot) Enemy(id uint64) (ActorView, bool) {
	for _, e := range s.Enemies {
		if e.ID == id {
			return e, true
		}
	}
	return ActorView{}, false
}

func (w *World) viewOf(a *Actor) ActorView {
	v := ActorView{
		ID:       a.ID,
		Name:     a.Name,
		Kind:     a.Kind.String(),
		Position: a.Position(),
		Aim:      a.AimForward(),
	}
	if a.Health != nil {
		v.HP = a.Health.Current()
		v.MaxHP = a.Health.Max()
		v.Rate = a.Health.Rate()
	}
	if a.Weapon != nil {
		v.Weapon = a.Weapon.Name()
		v.Ammo = a.Weapon.Ammo()
		v.Mags = a.Weapon.Magazines()
	}
	if a.Flash != nil {
		v.Flash = a.Flash.Lit()
	}
	if a.Behavior != nil {
		v.State = a.Behavior.State().String()
		v.Clip = a.Behavior.Clip()
		v.Dying = a.Behavior.Dying()
	}
	if b, ok := w.bars[a.ID]; ok {
		v.BarFill = b.fill.Amount()
	}
	return v
}

// publish собирает снимок и атомарно заменяет предыдущий
func (w *World) publish() {
	s := &Snapshot{
		Tick:         w.tick,
		Time:         w.elapsed,
		Projectiles:  len(w.projectiles),
		Keys:         w.keys.KeyCount(),
		RequiredKeys: w.keys.RequiredKeys(),
		Door: DoorView{
			Position:  w.door.Position(),
			Open:      w.door.IsOpen(),
			Moving:    w.door.Moving(),
			Loading:   w.door.Loading(),
			NextScene: w.door.NextScene(),
		},
		Scene:   w.scene,
		Pending: w.sched.Len(),
	}

	text, color, scale := w.hud.Ammo.Get()
	s.HUD = HUDView{
		AmmoText:   text,
		AmmoColor:  color,
		AmmoScale:  scale,
		HealthFill: w.hud.Health.Amount(),
		KeyText:    w.hud.Keys.String(),
	}
	if w.playerUI != nil {
		s.HUD.Highlighted = w.playerUI.Highlighted()
	}

	ids := make([]uint64, 0, len(w.actors))
	for id := range w.actors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		a := w.actors[id]
		if a.Kind == ActorPlayer {
			continue
		}
		s.Enemies = append(s.Enemies, w.viewOf(a))
	}

	if w.playerActor != nil && w.controller != nil {
		s.Player = &PlayerView{
			ActorView:    w.viewOf(w.playerActor),
			Dead:         w.controller.IsDead(),
			Deaths:       w.controller.Deaths(),
			RespawnPoint: w.controller.GetRespawnPoint(),
			Slot:         w.inventory.Index(),
			Motor:        w.controller.Motor().Enabled(),
		}
	}

	pids := make([]uint64, 0, len(w.pickups))
	for id := range w.pickups {
		pids = append(pids, id)
	}
	slices.Sort(pids)
	for _, id := range pids {
		p := w.pickups[id]
		s.Pickups = append(s.Pickups, PickupView{
			ID:        id,
			Kind:      string(p.Kind),
			Position:  p.Position(),
			Collected: p.Collected(),
		})
	}

	w.snapshot.Store(s)
}
