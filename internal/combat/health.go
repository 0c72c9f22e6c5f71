package combat

import (
	"github.com/annel0/fps-sim/internal/logging"
)

// Tag определяет сторону актёра
type Tag uint8

const (
	TagEnemy Tag = iota
	TagPlayer
)

// String возвращает имя тега
func (t Tag) String() string {
	if t == TagPlayer {
		return "Player"
	}
	return "Enemy"
}

// Dier - контроллер поведения, который умеет умирать (enemy.Behavior)
type Dier interface {
	Die()
}

// PlayerDeathHandler принимает смерть игрока (player.Controller)
type PlayerDeathHandler interface {
	OnPlayerDeath()
}

// ControllerLocator ищет контроллер поведения у владельца и его предков.
// Возвращает nil, если контроллер не найден.
type ControllerLocator func() Dier

// HealthConfig описывает здоровье при создании актёра
type HealthConfig struct {
	Name          string
	Tag           Tag
	MaxHP         int
	CurrentHP     int // 0 - полное здоровье
	Owner         Dier
	PlayerHandler PlayerDeathHandler
	Logger        *logging.Logger
}

// Health хранит очки здоровья актёра и рассылает сигналы урона, лечения и смерти.
// Инвариант: 0 <= cur <= max.
type Health struct {
	name string
	tag  Tag
	cur  int
	max  int

	owner         Dier
	playerHandler PlayerDeathHandler
	autoConnected bool

	Changed  Signal
	Attacked Signal
	Healed   Signal
	Died     Signal

	log *logging.Logger
}

// NewHealth создаёт здоровье по конфигурации. MaxHP меньше 1 поднимается до 1.
func NewHealth(cfg HealthConfig) *Health {
	if cfg.MaxHP < 1 {
		cfg.MaxHP = 1
	}
	cur := cfg.CurrentHP
	if cur <= 0 || cur > cfg.MaxHP {
		cur = cfg.MaxHP
	}
	log := cfg.Logger
	if log == nil {
		log = logging.GetCombatLogger()
	}
	return &Health{
		name:          cfg.Name,
		tag:           cfg.Tag,
		cur:           cur,
		max:           cfg.MaxHP,
		owner:         cfg.Owner,
		playerHandler: cfg.PlayerHandler,
		log:           log,
	}
}

func (h *Health) Name() string { return h.name }
func (h *Health) Tag() Tag     { return h.tag }
func (h *Health) Current() int { return h.cur }
func (h *Health) Max() int     { return h.max }

// Dead сообщает, что здоровье исчерпано
func (h *Health) Dead() bool { return h.cur == 0 }

// Rate возвращает долю здоровья в [0,1] для индикаторов
func (h *Health) Rate() float64 {
	return float64(h.cur) / float64(h.max)
}

// BindOwner задаёт контроллер поведения, которому доставляется смерть
func (h *Health) BindOwner(owner Dier) { h.owner = owner }

// BindPlayerHandler задаёт обработчик смерти игрока
func (h *Health) BindPlayerHandler(handler PlayerDeathHandler) { h.playerHandler = handler }

// AutoConnect - запасной путь связывания для актёров, собранных без явного владельца.
// Срабатывает только если у Died нет слушателей и владелец не задан; повторные вызовы
// ничего не делают.
func (h *Health) AutoConnect(locate ControllerLocator) {
	if h.autoConnected || h.tag == TagPlayer {
		return
	}
	h.autoConnected = true

	if h.Died.Len() > 0 || h.owner != nil {
		h.log.Debug("%s: смерть уже связана, автоподключение не требуется", h.name)
		return
	}
	if locate == nil {
		h.log.Warn("%s: нет способа найти контроллер для сигнала смерти", h.name)
		return
	}

	controller := locate()
	if controller == nil {
		h.log.Warn("%s: контроллер поведения не найден, сигнал смерти не связан", h.name)
		return
	}

	h.log.Info("%s: сигнал смерти автоматически связан с контроллером владельца", h.name)
	h.owner = controller
	h.Died.Connect(controller.Die)
}

// Attack наносит урон. Отрицательный урон считается нулевым.
func (h *Health) Attack(amount int) {
	if amount < 0 {
		amount = 0
	}
	prev := h.cur
	h.cur -= amount
	if h.cur < 0 {
		h.cur = 0
	}

	h.log.Debug("%s: HP %d -> %d (урон %d, max %d)", h.name, prev, h.cur, amount, h.max)

	h.Changed.Emit()
	h.Attacked.Emit()

	// Смерть фиксируется только при переходе через ноль, поэтому повторные удары не дублируют её
	if prev > 0 && h.cur == 0 {
		h.die()
	}
}

func (h *Health) die() {
	h.log.Debug("%s: HP исчерпано, рассылаем смерть", h.name)
	h.Died.Emit()

	if h.tag == TagPlayer {
		if h.playerHandler == nil {
			h.log.Warn("%s: игрок погиб, но обработчик возрождения не задан", h.name)
			return
		}
		h.playerHandler.OnPlayerDeath()
		return
	}

	// Die идемпотентен
	if h.owner == nil {
		h.log.Warn("%s: HP = 0, но контроллер поведения не найден", h.name)
		return
	}
	h.owner.Die()
}

// Heal восстанавливает здоровье, не превышая максимум
func (h *Health) Heal(amount int) {
	if amount < 0 {
		amount = 0
	}
	h.cur += amount
	if h.cur > h.max {
		h.cur = h.max
	}
	h.Changed.Emit()
	h.Healed.Emit()
}

// SetHP административно задаёт здоровье без сигналов урона и смерти
func (h *Health) SetHP(hp int) {
	if hp < 0 {
		hp = 0
	}
	if hp > h.max {
		hp = h.max
	}
	h.cur = hp
	h.Changed.Emit()
}

// RestoreFull восстанавливает полное здоровье (возрождение)
func (h *Health) RestoreFull() {
	h.cur = h.max
	h.Changed.Emit()
}
