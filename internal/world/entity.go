package world

import (
	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/enemy"
	"github.com/annel0/fps-sim/internal/physics"
	"github.com/annel0/fps-sim/internal/vec"
)

// ActorKind определяет тип актёра
type ActorKind uint8

const (
	ActorPlayer ActorKind = iota
	ActorEnemy
)

func (k ActorKind) String() string {
	if k == ActorPlayer {
		return "player"
	}
	return "enemy"
}

// Actor - тело актёра в арене и его боевые компоненты.
// Компоненты собираются явно при создании актёра.
type Actor struct {
	ID   uint64
	Name string
	Kind ActorKind

	pos       vec.Vec3
	aim       vec.Vec3
	eyeHeight float64
	collider  physics.BoxCollider

	Health   *combat.Health
	Weapon   *combat.Weapon
	Flash    *combat.HitFlash
	Behavior *enemy.Behavior
	Nav      *StraightNav
	Anim     *ClipAnimator
}

func newActor(id uint64, name string, kind ActorKind, at vec.Vec3) *Actor {
	return &Actor{
		ID:        id,
		Name:      name,
		Kind:      kind,
		pos:       at,
		aim:       vec.Forward,
		eyeHeight: 1.6,
		collider:  physics.NewBoxCollider(0.4, 1.8, 0.4),
	}
}

func (a *Actor) Position() vec.Vec3   { return a.pos }
func (a *Actor) Teleport(p vec.Vec3)  { a.pos = p }
func (a *Actor) AimForward() vec.Vec3 { return a.aim }
func (a *Actor) AimOrigin() vec.Vec3  { return a.pos.Add(vec.Up.Mul(a.eyeHeight)) }

// SetAimForward задаёт направление прицела. Нулевой вектор игнорируется.
func (a *Actor) SetAimForward(dir vec.Vec3) {
	dir = dir.Normalized()
	if dir.IsZero() {
		return
	}
	a.aim = dir
}

// Muzzle - точка вылета снаряда перед глазами
func (a *Actor) Muzzle() vec.Vec3 {
	return a.AimOrigin().Add(a.aim.Mul(0.6))
}

// Bounds возвращает мировой прямоугольник коллайдера
func (a *Actor) Bounds() physics.AABB {
	return a.collider.AABB(a.pos)
}

// Tag возвращает тег здоровья
func (a *Actor) Tag() combat.Tag {
	if a.Kind == ActorPlayer {
		return combat.TagPlayer
	}
	return combat.TagEnemy
}
