// Package pickup реализует подбираемые предметы: магазины, аптечки и ключи.
package pickup

import (
	"math"

	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
)

// Kind - тип предмета
type Kind string

const (
	KindAmmo   Kind = "ammo"
	KindHealth Kind = "health"
	KindKey    Kind = "key"
)

// Collector - то, что получает содержимое предмета (игрок и счётчик ключей)
type Collector interface {
	AddMagazines(n int)
	Heal(n int)
	AddKey() bool
}

// SoundPlayer проигрывает звук без ожидания результата
type SoundPlayer interface {
	PlayOneShot(source uint64, clip string)
}

// Config - параметры предметов
type Config struct {
	AmmoMagazines int     `yaml:"ammo_magazines"`
	HealAmount    int     `yaml:"heal_amount"`
	DespawnDelay  float64 `yaml:"despawn_delay"`
	Sound         string  `yaml:"sound"`
	FloatHeight   float64 `yaml:"float_height"`
	FloatSpeed    float64 `yaml:"float_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	Radius        float64 `yaml:"radius"`
}

// DefaultConfig возвращает стандартные параметры предметов
func DefaultConfig() Config {
	return Config{
		AmmoMagazines: 5,
		HealAmount:    25,
		DespawnDelay:  1,
		Sound:         "pickup",
		FloatHeight:   0.5,
		FloatSpeed:    2,
		RotationSpeed: 90,
		Radius:        0.75,
	}
}

// Deps - коллабораторы предмета
type Deps struct {
	Scheduler *tasks.Scheduler
	Audio     SoundPlayer
	Remove    func(id uint64)
}

// Pickup - предмет на сцене. Подбирается один раз, затем через DespawnDelay удаляется.
type Pickup struct {
	ID   uint64
	Kind Kind

	cfg    Config
	deps   Deps
	origin vec.Vec3
	pos    vec.Vec3
	yaw    float64
	clock  float64

	collected bool
	removed   bool

	log *logging.Logger
}

// New создаёт предмет в точке at
func New(id uint64, kind Kind, at vec.Vec3, cfg Config, deps Deps) *Pickup {
	return &Pickup{
		ID:     id,
		Kind:   kind,
		cfg:    cfg,
		deps:   deps,
		origin: at,
		pos:    at,
		log:    logging.GetComponentLogger("pickup"),
	}
}

func (p *Pickup) Position() vec.Vec3 { return p.pos }
func (p *Pickup) Yaw() float64       { return p.yaw }
func (p *Pickup) Collected() bool    { return p.collected }
func (p *Pickup) Removed() bool      { return p.removed }

// Update покачивает и вращает предмет
func (p *Pickup) Update(dt float64) {
	if p.collected {
		return
	}
	p.clock += dt
	p.yaw = math.Mod(p.yaw+p.cfg.RotationSpeed*dt, 360)
	p.pos = vec.Vec3{
		X: p.origin.X,
		Y: p.origin.Y + math.Sin(p.clock*p.cfg.FloatSpeed)*p.cfg.FloatHeight,
		Z: p.origin.Z,
	}
}

// Touches проверяет, касается ли точка триггера предмета
func (p *Pickup) Touches(at vec.Vec3) bool {
	if p.collected {
		return false
	}
	return p.origin.Flat().DistanceTo(at.Flat()) <= p.cfg.Radius
}

// OnTriggerEnter выдаёт содержимое, если в триггер вошёл игрок.
// Возвращает true, если предмет подобран этим вызовом.
func (p *Pickup) OnTriggerEnter(tag combat.Tag, c Collector) bool {
	if tag != combat.TagPlayer || p.collected {
		return false
	}
	if c == nil {
		p.log.Warn("предмет %d: некому выдать %s", p.ID, p.Kind)
		return false
	}
	p.collected = true

	if p.deps.Audio != nil && p.cfg.Sound != "" {
		p.deps.Audio.PlayOneShot(p.ID, p.cfg.Sound)
	}

	switch p.Kind {
	case KindAmmo:
		c.AddMagazines(p.cfg.AmmoMagazines)
	case KindHealth:
		c.Heal(p.cfg.HealAmount)
	case KindKey:
		c.AddKey()
	default:
		p.log.Warn("предмет %d: неизвестный тип %q", p.ID, p.Kind)
	}
	p.log.Debug("предмет %d (%s) подобран", p.ID, p.Kind)

	if p.deps.Scheduler == nil {
		p.remove()
		return true
	}
	p.deps.Scheduler.After(p.ID, p.cfg.DespawnDelay, p.remove)
	return true
}

func (p *Pickup) remove() {
	if p.removed {
		return
	}
	p.removed = true
	if p.deps.Remove != nil {
		p.deps.Remove(p.ID)
	}
}
