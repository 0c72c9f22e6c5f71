// Package enemy реализует поведение врага: конечный автомат восприятия,
// преследования, стрельбы и смерти.
package enemy

import (
	"math/rand"

	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
)

// Body - тело врага в мире: позиция и направление прицела
type Body interface {
	Position() vec.Vec3
	AimOrigin() vec.Vec3
	AimForward() vec.Vec3
	SetAimForward(dir vec.Vec3)
}

// Navigator ведёт тело к точке назначения. Движение выполняет мир после Update.
type Navigator interface {
	SetDestination(p vec.Vec3)
	Stop()
}

// PlayerLocator сообщает позицию игрока. ok=false, если игрока нет.
type PlayerLocator interface {
	PlayerPosition() (vec.Vec3, bool)
}

// Firer - оружие врага
type Firer interface {
	Fire(isPrimary bool)
}

// Animator проигрывает клипы и сообщает длительность текущего
type Animator interface {
	Play(clip string)
	CurrentLength() float64
}

// SoundPlayer проигрывает звук без ожидания результата
type SoundPlayer interface {
	PlayOneShot(source uint64, clip string)
}

// DropSpawner создаёт выпавший предмет
type DropSpawner interface {
	SpawnDrop(item string, at vec.Vec3)
}

// Config - параметры поведения врага
type Config struct {
	ChaseDistance   float64 `yaml:"chase_distance"`
	MoveSpeed       float64 `yaml:"move_speed"`
	AngularVelocity float64 `yaml:"angular_velocity"` // градусов в секунду
	StopDistance    float64 `yaml:"stop_distance"`
	StopTime        float64 `yaml:"stop_time"`
	ShootDistance   float64 `yaml:"shoot_distance"`
	ShootAngle      float64 `yaml:"shoot_angle"` // градусов
	TargetHeight    float64 `yaml:"target_height"`

	DropRate   float64  `yaml:"drop_rate"`
	DropItems  []string `yaml:"drop_items"`
	DropHeight float64  `yaml:"drop_height"`

	DeathSound             string  `yaml:"death_sound"`
	DeathExtraDelay        float64 `yaml:"death_extra_delay"`
	DefaultDeathClipLength float64 `yaml:"default_death_clip_length"`
	NoAnimatorDeathDelay   float64 `yaml:"no_animator_death_delay"`
}

// DefaultConfig возвращает стандартные параметры солдата
func DefaultConfig() Config {
	return Config{
		ChaseDistance:          10,
		MoveSpeed:              3.5,
		AngularVelocity:        120,
		StopDistance:           2,
		StopTime:               2,
		ShootDistance:          8,
		ShootAngle:             30,
		TargetHeight:           1,
		DropRate:               1,
		DropItems:              []string{"ammo", "health"},
		DropHeight:             0.5,
		DeathSound:             "enemy_death",
		DeathExtraDelay:        4,
		DefaultDeathClipLength: 2,
		NoAnimatorDeathDelay:   0.5,
	}
}

// Deps - коллабораторы врага, передаваемые при сборке актёра
type Deps struct {
	ID        uint64
	Name      string
	Body      Body
	Nav       Navigator
	Player    PlayerLocator
	Weapon    Firer
	Animator  Animator
	Audio     SoundPlayer
	Drops     DropSpawner
	Despawn   func(id uint64)
	Scheduler *tasks.Scheduler
	Rand      *rand.Rand
	Logger    *logging.Logger
}

// Behavior - контроллер врага. В каждый момент активно ровно одно состояние.
type Behavior struct {
	id   uint64
	name string
	cfg  Config

	body     Body
	nav      Navigator
	player   PlayerLocator
	weapon   Firer
	animator Animator
	audio    SoundPlayer
	drops    DropSpawner
	despawn  func(id uint64)
	sched    *tasks.Scheduler
	rng      *rand.Rand

	state     State
	home      vec.Vec3
	lastKnown vec.Vec3
	clip      string
	dying     bool
	destroyed bool
	shots     int

	log *logging.Logger
}

// NewBehavior создаёт поведение в состоянии Idle. Точкой возвращения становится
// текущая позиция тела.
func NewBehavior(cfg Config, deps Deps) *Behavior {
	log := deps.Logger
	if log == nil {
		log = logging.GetEnemyLogger()
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(int64(deps.ID)))
	}
	sched := deps.Scheduler
	if sched == nil {
		sched = tasks.NewScheduler()
		log.Warn("%s: планировщик не задан, отложенные действия не будут выполняться", deps.Name)
	}

	b := &Behavior{
		id:       deps.ID,
		name:     deps.Name,
		cfg:      cfg,
		body:     deps.Body,
		nav:      deps.Nav,
		player:   deps.Player,
		weapon:   deps.Weapon,
		animator: deps.Animator,
		audio:    deps.Audio,
		drops:    deps.Drops,
		despawn:  deps.Despawn,
		sched:    sched,
		rng:      rng,
		log:      log,
	}
	if b.animator == nil {
		log.Warn("%s: аниматор не найден, анимации проигрываться не будут", b.name)
	}
	if b.weapon == nil {
		log.Warn("%s: оружие не назначено, враг не стреляет", b.name)
	}
	if b.body != nil {
		b.home = b.body.Position()
	}
	b.setDestination(b.home)
	b.setState(&idleState{})
	return b
}

func (b *Behavior) ID() uint64          { return b.id }
func (b *Behavior) Name() string        { return b.name }
func (b *Behavior) Config() Config      { return b.cfg }
func (b *Behavior) Home() vec.Vec3      { return b.home }
func (b *Behavior) LastKnown() vec.Vec3 { return b.lastKnown }
func (b *Behavior) Clip() string        { return b.clip }
func (b *Behavior) Dying() bool         { return b.dying }
func (b *Behavior) Destroyed() bool     { return b.destroyed }
func (b *Behavior) Shots() int          { return b.shots }

// State возвращает идентификатор текущего состояния
func (b *Behavior) State() StateID { return b.state.ID() }

// Update выполняет один тик автомата. Во время смерти ничего не делает.
func (b *Behavior) Update(dt float64) {
	if b.dying || b.body == nil || b.player == nil {
		return
	}
	target, ok := b.player.PlayerPosition()
	if !ok {
		return
	}

	p := Perception{
		Player:   target,
		Distance: b.body.Position().DistanceTo(target),
		DT:       dt,
	}

	next := b.state.Update(b, p)
	if next != b.state {
		b.setState(next)
	}
}

// Die запускает последовательность смерти. Повторные вызовы игнорируются.
func (b *Behavior) Die() {
	if b.dying {
		return
	}
	b.dying = true
	b.log.Info("💀 %s: смерть в состоянии %s", b.name, b.state.ID())

	if b.nav != nil {
		b.nav.Stop()
	}
	if n := b.sched.CancelOwner(b.id); n > 0 {
		b.log.Debug("%s: отменено отложенных действий: %d", b.name, n)
	}

	b.setState(&dyingState{})
}

func (b *Behavior) setState(next State) {
	if b.state != nil {
		if b.state.ID() == next.ID() {
			return
		}
		b.state.Exit(b)
		b.log.Debug("%s: %s -> %s", b.name, b.state.ID(), next.ID())
	}
	b.state = next
	b.state.Enter(b)
}

// playClip запускает клип. Повторный выбор текущего клипа ничего не делает.
func (b *Behavior) playClip(clip string) {
	if b.animator == nil || clip == b.clip {
		return
	}
	b.animator.Play(clip)
	b.clip = clip
}

func (b *Behavior) setDestination(p vec.Vec3) {
	if b.nav != nil {
		b.nav.SetDestination(p)
	}
}

func (b *Behavior) after(delay float64, fn func()) {
	b.sched.After(b.id, delay, fn)
}

func (b *Behavior) aimTarget(p Perception) vec.Vec3 {
	return p.Player.Add(vec.Up.Mul(b.cfg.TargetHeight))
}

// aimAt поворачивает прицел к игроку с ограниченной угловой скоростью
func (b *Behavior) aimAt(p Perception) {
	dir := b.aimTarget(p).Sub(b.body.AimOrigin())
	if dir.IsZero() {
		return
	}
	maxDegrees := b.cfg.AngularVelocity * p.DT
	b.body.SetAimForward(vec.RotateTowards(b.body.AimForward(), dir, maxDegrees))
}

// facing проверяет, что игрок внутри конуса стрельбы
func (b *Behavior) facing(p Perception) bool {
	dir := b.aimTarget(p).Sub(b.body.AimOrigin())
	return vec.Angle(b.body.AimForward(), dir) <= b.cfg.ShootAngle
}

func (b *Behavior) fire() {
	if b.weapon == nil {
		return
	}
	b.shots++
	b.weapon.Fire(false)
}

func (b *Behavior) playDeathSound() {
	if b.audio == nil || b.cfg.DeathSound == "" {
		return
	}
	b.audio.PlayOneShot(b.id, b.cfg.DeathSound)
}

func (b *Behavior) dropItem() {
	item, ok := ChooseDrop(b.rng, b.cfg.DropRate, b.cfg.DropItems)
	if !ok {
		return
	}
	if b.drops == nil {
		b.log.Warn("%s: некому создать выпавший предмет %s", b.name, item)
		return
	}
	at := b.home
	if b.body != nil {
		at = b.body.Position()
	}
	at = at.Add(vec.Up.Mul(b.cfg.DropHeight))
	b.drops.SpawnDrop(item, at)
	b.log.Debug("%s: выпал предмет %s в %+v", b.name, item, at)
}

func (b *Behavior) destroy() {
	b.destroyed = true
	if b.despawn == nil {
		b.log.Warn("%s: нет способа удалить актёра после смерти", b.name)
		return
	}
	b.despawn(b.id)
}
