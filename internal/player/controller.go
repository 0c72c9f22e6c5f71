// Package player содержит контроллер игрока: смерть и возрождение,
// колесо оружия и передвижение.
package player

import (
	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
)

// DefaultRespawnDelay - задержка возрождения в секундах
const DefaultRespawnDelay = 3.0

// Body - тело игрока в мире
type Body interface {
	Position() vec.Vec3
	Teleport(p vec.Vec3)
}

// ControllerDeps - зависимости контроллера, передаваемые при сборке игрока
type ControllerDeps struct {
	ID           uint64
	Body         Body
	Health       *combat.Health
	Motor        *Motor
	Inventory    *Inventory
	Scheduler    *tasks.Scheduler
	RespawnDelay float64
	Logger       *logging.Logger
}

// Controller отвечает за смерть и возрождение игрока и даёт доступ к его позиции
type Controller struct {
	id           uint64
	body         Body
	health       *combat.Health
	motor        *Motor
	inventory    *Inventory
	sched        *tasks.Scheduler
	respawnDelay float64

	respawnPoint vec.Vec3
	dead         bool
	deaths       int

	Respawned combat.Signal

	log *logging.Logger
}

// NewController создаёт контроллер. Точкой возрождения становится текущая позиция тела.
// Контроллер сам регистрируется обработчиком смерти у здоровья игрока.
func NewController(deps ControllerDeps) *Controller {
	log := deps.Logger
	if log == nil {
		log = logging.GetPlayerLogger()
	}
	delay := deps.RespawnDelay
	if delay <= 0 {
		delay = DefaultRespawnDelay
	}
	c := &Controller{
		id:           deps.ID,
		body:         deps.Body,
		health:       deps.Health,
		motor:        deps.Motor,
		inventory:    deps.Inventory,
		sched:        deps.Scheduler,
		respawnDelay: delay,
		log:          log,
	}
	if c.body != nil {
		c.respawnPoint = c.body.Position()
	}
	if c.health != nil {
		c.health.BindPlayerHandler(c)
	} else {
		log.Warn("у игрока нет компонента здоровья")
	}
	log.Info("точка возрождения: %+v", c.respawnPoint)
	return c
}

func (c *Controller) ID() uint64                { return c.id }
func (c *Controller) IsDead() bool              { return c.dead }
func (c *Controller) Deaths() int               { return c.deaths }
func (c *Controller) Health() *combat.Health    { return c.health }
func (c *Controller) Motor() *Motor             { return c.motor }
func (c *Controller) Inventory() *Inventory     { return c.inventory }
func (c *Controller) GetRespawnPoint() vec.Vec3 { return c.respawnPoint }

// SetRespawnPoint задаёт новую точку возрождения (контрольные точки)
func (c *Controller) SetRespawnPoint(p vec.Vec3) {
	c.respawnPoint = p
	c.log.Info("точка возрождения обновлена: %+v", p)
}

// PlayerPosition возвращает позицию игрока для врагов и UI
func (c *Controller) PlayerPosition() (vec.Vec3, bool) {
	if c.body == nil {
		return vec.Zero, false
	}
	return c.body.Position(), true
}

// OnPlayerDeath выключает управление и планирует возрождение. Повторные вызовы игнорируются.
func (c *Controller) OnPlayerDeath() {
	if c.dead {
		return
	}
	c.dead = true
	c.deaths++
	c.log.Info("☠️ игрок погиб, возрождение через %.1f с", c.respawnDelay)

	if c.motor != nil {
		c.motor.Disable()
	}
	if c.sched == nil {
		c.log.Warn("планировщик не задан, возрождаем сразу")
		c.RespawnPlayer()
		return
	}
	c.sched.After(c.id, c.respawnDelay, c.RespawnPlayer)
}

// RespawnPlayer переносит игрока на точку возрождения и восстанавливает здоровье
func (c *Controller) RespawnPlayer() {
	if c.body != nil {
		c.body.Teleport(c.respawnPoint)
	}
	if c.health != nil {
		c.health.RestoreFull()
	} else {
		c.log.Warn("у игрока нет компонента здоровья")
	}
	if c.motor != nil {
		c.motor.Enable()
	}
	c.dead = false
	c.log.Info("🔄 игрок возрождён в %+v", c.respawnPoint)
	c.Respawned.Emit()
}

// Fire стреляет из активного оружия. Мёртвый игрок не стреляет.
func (c *Controller) Fire() {
	if c.dead || c.inventory == nil {
		return
	}
	c.inventory.Fire()
}

// AddMagazines передаёт магазины активному оружию
func (c *Controller) AddMagazines(n int) {
	if c.inventory == nil {
		c.log.Warn("у игрока нет колеса оружия")
		return
	}
	c.inventory.AddMagazines(n)
}
