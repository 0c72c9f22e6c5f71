package api

import (
	"net/http"

	"github.com/annel0/fps-sim/internal/pickup"
	"github.com/annel0/fps-sim/internal/player"
	"github.com/annel0/fps-sim/internal/vec"
	"github.com/annel0/fps-sim/internal/world"
	"github.com/gin-gonic/gin"
)

// Админ-команды не исполняются сразу: они встают в очередь арены
// и применяются в начале следующего тика.

type DamageRequest struct {
	Actor  uint64 `json:"actor" binding:"required"`
	Amount int    `json:"amount" binding:"required,gt=0"`
}

type SwitchRequest struct {
	Direction int `json:"direction" binding:"required,oneof=-1 1"`
}

type UnlockRequest struct {
	Slot int `json:"slot" binding:"gte=0"`
}

type SpawnEnemyRequest struct {
	Name     string   `json:"name"`
	Position vec.Vec3 `json:"position"`
}

type SpawnPickupRequest struct {
	Kind     pickup.Kind `json:"kind" binding:"required,oneof=ammo health key"`
	Position vec.Vec3    `json:"position"`
}

type PositionRequest struct {
	Position vec.Vec3 `json:"position"`
}

func (rs *RestServer) enqueue(c *gin.Context, msg string, cmd world.Command) {
	rs.sim.Enqueue(cmd)
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: msg})
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return false
	}
	return true
}

func (rs *RestServer) handleIntent(c *gin.Context) {
	var in player.Intent
	if !bind(c, &in) {
		return
	}
	if in.Forward < -1 || in.Forward > 1 || in.Strafe < -1 || in.Strafe > 1 {
		fail(c, http.StatusBadRequest, "forward и strafe в диапазоне -1..1")
		return
	}
	rs.enqueue(c, "Намерение принято", world.SetIntent(in))
}

func (rs *RestServer) handleFire(c *gin.Context) {
	rs.enqueue(c, "Выстрел в очереди", world.Fire())
}

func (rs *RestServer) handleSwitchWeapon(c *gin.Context) {
	var req SwitchRequest
	if bind(c, &req) {
		rs.enqueue(c, "Смена оружия в очереди", world.SwitchWeapon(req.Direction))
	}
}

func (rs *RestServer) handleUnlockSlot(c *gin.Context) {
	var req UnlockRequest
	if bind(c, &req) {
		rs.enqueue(c, "Слот открывается", world.UnlockSlot(req.Slot))
	}
}

func (rs *RestServer) handleDamage(c *gin.Context) {
	var req DamageRequest
	if bind(c, &req) {
		rs.enqueue(c, "Урон в очереди", world.Damage(req.Actor, req.Amount))
	}
}

func (rs *RestServer) handleSpawnEnemy(c *gin.Context) {
	var req SpawnEnemyRequest
	if bind(c, &req) {
		rs.enqueue(c, "Враг появится на следующем тике", world.SpawnEnemyAt(req.Name, req.Position))
	}
}

func (rs *RestServer) handleSpawnPickup(c *gin.Context) {
	var req SpawnPickupRequest
	if bind(c, &req) {
		rs.enqueue(c, "Предмет появится на следующем тике", world.SpawnPickupAt(req.Kind, req.Position))
	}
}

func (rs *RestServer) handleRespawnPoint(c *gin.Context) {
	var req PositionRequest
	if bind(c, &req) {
		rs.enqueue(c, "Точка возрождения обновлена", world.SetRespawnPoint(req.Position))
	}
}
