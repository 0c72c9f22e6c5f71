package player

import (
	"slices"

	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/logging"
)

// Slot - слот колеса оружия
type Slot struct {
	Weapon   *combat.Weapon
	Unlocked bool
}

// Inventory - колесо оружия игрока. Активен ровно один слот.
type Inventory struct {
	slots   []Slot
	index   int
	display combat.AmmoDisplay
	log     *logging.Logger
}

// NewInventory создаёт колесо и активирует первый открытый слот
// (слот 0, если открытых нет). display привязывается к каждому оружию колеса.
func NewInventory(display combat.AmmoDisplay, slots ...Slot) *Inventory {
	inv := &Inventory{
		slots:   slots,
		display: display,
		log:     logging.GetPlayerLogger(),
	}
	if display == nil {
		inv.log.Warn("индикатор патронов не найден, колесо оружия работает без UI")
	}
	for _, s := range slots {
		if s.Weapon != nil && display != nil {
			s.Weapon.BindDisplay(display)
		}
	}
	if len(slots) > 0 {
		if i := slices.IndexFunc(slots, func(s Slot) bool { return s.Unlocked }); i >= 0 {
			inv.index = i
		} else {
			inv.log.Warn("все слоты колеса закрыты, активен слот 1")
		}
		inv.updateActive()
	}
	return inv
}

// Index возвращает индекс активного слота
func (inv *Inventory) Index() int { return inv.index }

// Len возвращает число слотов
func (inv *Inventory) Len() int { return len(inv.slots) }

// Slot возвращает слот по индексу
func (inv *Inventory) Slot(i int) (Slot, bool) {
	if i < 0 || i >= len(inv.slots) {
		return Slot{}, false
	}
	return inv.slots[i], true
}

// Current возвращает оружие активного слота или nil
func (inv *Inventory) Current() *combat.Weapon {
	if len(inv.slots) == 0 {
		return nil
	}
	return inv.slots[inv.index].Weapon
}

// Unlock открывает слот. Возвращает false для неверного индекса.
func (inv *Inventory) Unlock(i int) bool {
	if i < 0 || i >= len(inv.slots) {
		return false
	}
	inv.slots[i].Unlocked = true
	return true
}

// SwitchWeapon переключает оружие по кругу в направлении знака direction,
// пропуская закрытые слоты. Если открытого слота кроме текущего нет, ничего не меняется.
func (inv *Inventory) SwitchWeapon(direction int) {
	n := len(inv.slots)
	if n == 0 || direction == 0 {
		return
	}
	step := 1
	if direction < 0 {
		step = -1
	}

	start := inv.index
	next := start
	for {
		next = (next + step + n) % n
		if next == start {
			return
		}
		if inv.slots[next].Unlocked {
			break
		}
	}

	inv.index = next
	inv.updateActive()
}

func (inv *Inventory) updateActive() {
	for i := range inv.slots {
		if inv.slots[i].Weapon != nil {
			inv.slots[i].Weapon.SetActive(false)
		}
	}
	current := inv.Current()
	if current == nil {
		inv.log.Warn("в слоте %d нет оружия", inv.index)
		return
	}
	current.SetActive(true)
	current.RefreshDisplay()
	inv.log.Debug("активное оружие %s (слот %d): %d/%d | %d",
		current.Name(), inv.index+1, current.Ammo(), current.Capacity(), current.Magazines())
}

// Fire стреляет из активного оружия от лица игрока
func (inv *Inventory) Fire() {
	if w := inv.Current(); w != nil {
		w.Fire(true)
	}
}

// AddMagazines добавляет магазины активному оружию
func (inv *Inventory) AddMagazines(n int) {
	w := inv.Current()
	if w == nil {
		inv.log.Warn("нет активного оружия для пополнения магазинов")
		return
	}
	w.AddMagazines(n)
}
