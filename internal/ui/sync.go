package ui

import (
	"fmt"

	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
)

// AmmoText форматирует надпись патронов: "<патроны>/<ёмкость> | <магазины>"
func AmmoText(ammo, capacity, mags int) string {
	return fmt.Sprintf("%d/%d | %d", ammo, capacity, mags)
}

// KeyText форматирует надпись ключей
func KeyText(count, required int) string {
	return fmt.Sprintf("Keys: %d/%d", count, required)
}

// PlayerUI - индикаторы игрока: патроны и здоровье
type PlayerUI struct {
	owner  uint64
	ammo   TextWidget
	health FillWidget
	sched  *tasks.Scheduler

	highlightTime float64
	highlighted   bool

	log *logging.Logger
}

// NewPlayerUI создаёт индикаторы. Отсутствующие виджеты дают предупреждение.
func NewPlayerUI(owner uint64, ammo TextWidget, health FillWidget, sched *tasks.Scheduler) *PlayerUI {
	u := &PlayerUI{
		owner:         owner,
		ammo:          ammo,
		health:        health,
		sched:         sched,
		highlightTime: 0.5,
		log:           logging.GetComponentLogger("ui"),
	}
	if ammo == nil {
		u.log.Warn("надпись патронов не назначена")
	}
	if health == nil {
		u.log.Warn("полоса здоровья игрока не назначена")
	}
	return u
}

// RefreshAmmoText показывает патроны переданного оружия
func (u *PlayerUI) RefreshAmmoText(w *combat.Weapon) {
	if w == nil {
		u.log.Warn("обновление патронов без оружия")
		return
	}
	if u.ammo == nil {
		return
	}
	text := AmmoText(w.Ammo(), w.Capacity(), w.Magazines())
	u.ammo.SetText(text)
	u.log.Trace("патроны: %s (%s)", text, w.Name())
}

// RefreshHealthBar показывает здоровье
func (u *PlayerUI) RefreshHealthBar(h *combat.Health) {
	if u.health == nil || h == nil {
		return
	}
	u.health.SetFill(h.Rate())
}

// BindHealth подписывает полосу здоровья на изменения
func (u *PlayerUI) BindHealth(h *combat.Health) {
	if h == nil {
		u.log.Warn("нет здоровья для привязки полосы")
		return
	}
	u.RefreshHealthBar(h)
	h.Changed.Connect(func() { u.RefreshHealthBar(h) })
}

// BindWeapon подсвечивает надпись, когда у оружия кончились патроны
func (u *PlayerUI) BindWeapon(w *combat.Weapon) {
	if w == nil {
		return
	}
	w.AmmoEmpty.Connect(u.HighlightAmmoText)
}

// Highlighted сообщает, подсвечена ли надпись патронов
func (u *PlayerUI) Highlighted() bool { return u.highlighted }

// HighlightAmmoText подсвечивает надпись красным и увеличивает её. Повтор во время подсветки игнорируется.
func (u *PlayerUI) HighlightAmmoText() {
	if u.highlighted || u.ammo == nil {
		return
	}
	u.highlighted = true
	u.ammo.SetColor("red")
	u.ammo.SetScale(1.5)

	restore := func() {
		u.ammo.SetColor("white")
		u.ammo.SetScale(1)
		u.highlighted = false
	}
	if u.sched == nil {
		restore()
		return
	}
	u.sched.After(u.owner, u.highlightTime, restore)
}

// PlayerLocator сообщает позицию игрока
type PlayerLocator interface {
	PlayerPosition() (vec.Vec3, bool)
}

// EnemyUI - полоса здоровья над врагом, повёрнутая к игроку
type EnemyUI struct {
	bar    Billboard
	fill   FillWidget
	player PlayerLocator
}

// NewEnemyUI создаёт полосу врага
func NewEnemyUI(bar Billboard, fill FillWidget, player PlayerLocator) *EnemyUI {
	return &EnemyUI{bar: bar, fill: fill, player: player}
}

// Update поворачивает полосу к игроку по горизонтали
func (u *EnemyUI) Update() {
	if u.bar == nil || u.player == nil {
		return
	}
	p, ok := u.player.PlayerPosition()
	if !ok {
		return
	}
	p.Y = u.bar.Position().Y
	u.bar.LookAt(p)
}

// RefreshHealthBar показывает здоровье врага
func (u *EnemyUI) RefreshHealthBar(h *combat.Health) {
	if u.fill == nil || h == nil {
		return
	}
	u.fill.SetFill(h.Rate())
}

// BindHealth подписывает полосу на изменения здоровья
func (u *EnemyUI) BindHealth(h *combat.Health) {
	if h == nil {
		return
	}
	u.RefreshHealthBar(h)
	h.Changed.Connect(func() { u.RefreshHealthBar(h) })
}

// KeySource - счётчик ключей
type KeySource interface {
	KeyCount() int
	RequiredKeys() int
}

// KeyUI - надпись собранных ключей, обновляется опросом каждый тик
type KeyUI struct {
	text TextWidget
	keys KeySource
}

// NewKeyUI создаёт надпись и сразу заполняет её
func NewKeyUI(text TextWidget, keys KeySource) *KeyUI {
	u := &KeyUI{text: text, keys: keys}
	u.Update()
	return u
}

// Update перечитывает счётчик
func (u *KeyUI) Update() {
	if u.text == nil || u.keys == nil {
		return
	}
	u.text.SetText(KeyText(u.keys.KeyCount(), u.keys.RequiredKeys()))
}
