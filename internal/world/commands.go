package world

import (
	"github.com/annel0/fps-sim/internal/pickup"
	"github.com/annel0/fps-sim/internal/player"
	"github.com/annel0/fps-sim/internal/vec"
)

// SetIntent передаёт игроку намерение движения
func SetIntent(in player.Intent) Command {
	return func(w *World) {
		if w.controller == nil {
			return
		}
		w.controller.Motor().SetIntent(in)
	}
}

// Fire стреляет из активного оружия игрока
func Fire() Command {
	return func(w *World) {
		if w.controller == nil {
			return
		}
		w.controller.Fire()
	}
}

// SwitchWeapon переключает оружие в направлении знака direction
func SwitchWeapon(direction int) Command {
	return func(w *World) {
		if w.inventory == nil {
			return
		}
		w.inventory.SwitchWeapon(direction)
	}
}

// UnlockSlot открывает слот колеса оружия
func UnlockSlot(i int) Command {
	return func(w *World) {
		if w.inventory == nil {
			return
		}
		w.inventory.Unlock(i)
	}
}

// Damage наносит урон актёру
func Damage(id uint64, amount int) Command {
	return func(w *World) {
		a, ok := w.actors[id]
		if !ok || a.Health == nil {
			w.log.Warn("урон по несуществующему актёру %d", id)
			return
		}
		a.Health.Attack(amount)
	}
}

// SpawnEnemyAt создаёт врага
func SpawnEnemyAt(name string, at vec.Vec3) Command {
	return func(w *World) { w.SpawnEnemy(name, at) }
}

// SpawnPickupAt создаёт предмет
func SpawnPickupAt(kind pickup.Kind, at vec.Vec3) Command {
	return func(w *World) { w.SpawnPickup(kind, at) }
}

// SetRespawnPoint переносит точку возрождения игрока
func SetRespawnPoint(p vec.Vec3) Command {
	return func(w *World) {
		if w.controller != nil {
			w.controller.SetRespawnPoint(p)
		}
	}
}
