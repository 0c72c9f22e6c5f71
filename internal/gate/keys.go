// Package gate реализует сбор ключей и дверь-портал, открывающуюся
// после сбора нужного числа ключей.
package gate

import (
	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/logging"
)

// DefaultRequiredKeys - число ключей для открытия двери
const DefaultRequiredKeys = 5

// KeyManager считает собранные ключи. Достижение порога срабатывает один раз,
// после этого AddKey ничего не делает до ResetKeys.
type KeyManager struct {
	required int
	count    int
	complete bool
	door     *Door

	Changed      combat.Signal
	AllCollected combat.Signal

	log *logging.Logger
}

// NewKeyManager создаёт счётчик. door может быть nil.
func NewKeyManager(required int, door *Door) *KeyManager {
	if required < 1 {
		required = DefaultRequiredKeys
	}
	km := &KeyManager{
		required: required,
		door:     door,
		log:      logging.GetComponentLogger("gate"),
	}
	km.log.Info("нужно ключей: %d", required)
	return km
}

func (km *KeyManager) KeyCount() int     { return km.count }
func (km *KeyManager) RequiredKeys() int { return km.required }
func (km *KeyManager) Complete() bool    { return km.complete }

// AddKey учитывает подобранный ключ. Возвращает false, если порог уже был достигнут.
func (km *KeyManager) AddKey() bool {
	if km.complete {
		return false
	}
	km.count++
	km.log.Info("🔑 ключ подобран: %d/%d", km.count, km.required)
	km.Changed.Emit()

	if km.count >= km.required {
		km.complete = true
		km.AllCollected.Emit()
		km.openDoor()
	}
	return true
}

func (km *KeyManager) openDoor() {
	if km.door == nil {
		km.log.Warn("все ключи собраны, но дверь не назначена")
		return
	}
	km.door.Open()
}

// ResetKeys обнуляет счётчик для нового уровня
func (km *KeyManager) ResetKeys() {
	km.count = 0
	km.complete = false
	km.log.Info("ключи сброшены")
	km.Changed.Emit()
}
