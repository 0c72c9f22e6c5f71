// Package world собирает боевые компоненты в арену и продвигает её по тикам.
// Всё состояние симуляции принадлежит одному потоку, который вызывает Step.
// Остальные горутины читают только опубликованный снимок и передают команды через Enqueue.
package world

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/enemy"
	"github.com/annel0/fps-sim/internal/gate"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/physics"
	"github.com/annel0/fps-sim/internal/pickup"
	"github.com/annel0/fps-sim/internal/player"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/ui"
	"github.com/annel0/fps-sim/internal/vec"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PlayerConfig - параметры игрока
type PlayerConfig struct {
	MaxHP         int                   `yaml:"max_hp"`
	RespawnDelay  float64               `yaml:"respawn_delay"`
	Motor         player.MotorConfig    `yaml:"motor"`
	Weapons       []combat.WeaponConfig `yaml:"weapons"`
	UnlockedSlots int                   `yaml:"unlocked_slots"`
}

// EnemyConfig - параметры врагов
type EnemyConfig struct {
	MaxHP    int                 `yaml:"max_hp"`
	Behavior enemy.Config        `yaml:"behavior"`
	Weapon   combat.WeaponConfig `yaml:"weapon"`
}

// Config - параметры арены
type Config struct {
	TickRate     int                `yaml:"tick_rate"`
	Seed         int64              `yaml:"seed"`
	ArenaSize    float64            `yaml:"arena_size"`
	Enemies      int                `yaml:"enemies"`
	RequiredKeys int                `yaml:"required_keys"`
	Player       PlayerConfig       `yaml:"player"`
	Enemy        EnemyConfig        `yaml:"enemy"`
	Pickup       pickup.Config      `yaml:"pickup"`
	Door         gate.DoorConfig    `yaml:"door"`
	ClipLengths  map[string]float64 `yaml:"clip_lengths"`
	FlashTimes   int                `yaml:"flash_times"`
	FlashTime    float64            `yaml:"flash_time"`
	DoorRadius   float64            `yaml:"door_radius"`
}

// DefaultConfig возвращает параметры стандартной арены
func DefaultConfig() Config {
	pistol := combat.DefaultWeaponConfig()
	pistol.Name = "pistol"
	pistol.FireInterval = 0.4
	pistol.Damage = 15
	pistol.Capacity = 12
	pistol.Ammo = 12
	pistol.Magazines = 4

	enemyGun := combat.DefaultWeaponConfig()
	enemyGun.Name = "enemy_rifle"
	enemyGun.FireInterval = 0.6
	enemyGun.Damage = 5
	enemyGun.Magazines = 100

	door := gate.DefaultDoorConfig()
	door.NextScene = "level_2"

	return Config{
		TickRate:     60,
		Seed:         1,
		ArenaSize:    60,
		Enemies:      4,
		RequiredKeys: gate.DefaultRequiredKeys,
		Player: PlayerConfig{
			MaxHP:         100,
			RespawnDelay:  player.DefaultRespawnDelay,
			Motor:         player.DefaultMotorConfig(),
			Weapons:       []combat.WeaponConfig{combat.DefaultWeaponConfig(), pistol},
			UnlockedSlots: 1,
		},
		Enemy: EnemyConfig{
			MaxHP:    50,
			Behavior: enemy.DefaultConfig(),
			Weapon:   enemyGun,
		},
		Pickup: pickup.DefaultConfig(),
		Door:   door,
		ClipLengths: map[string]float64{
			enemy.ClipDeathA: 1.8,
			enemy.ClipDeathB: 2.4,
		},
		FlashTimes: 3,
		FlashTime:  0.5,
		DoorRadius: 1.5,
	}
}

// Deps - внешние коллабораторы мира
type Deps struct {
	Sink   EventSink
	Loader gate.SceneLoader
	Logger *logging.Logger
	OnTick func(took time.Duration) // вызывается Run после каждого шага
}

// Command выполняется в потоке симуляции в начале следующего тика
type Command func(w *World)

// HUD - виджеты интерфейса игрока
type HUD struct {
	Ammo   *ui.Text
	Health *ui.Fill
	Keys   *ui.Text
}

type enemyBar struct {
	sync *ui.EnemyUI
	bar  *ui.Bar
	fill *ui.Fill
}

// World - арена: актёры по ID, снаряды, предметы, препятствия и дверь
type World struct {
	cfg   Config
	sched *tasks.Scheduler
	log   *logging.Logger
	sink  EventSink

	nextID      uint64
	actors      map[uint64]*Actor
	projectiles []*combat.Projectile
	pickups     map[uint64]*pickup.Pickup
	obstacles   []physics.AABB

	playerActor *Actor
	controller  *player.Controller
	inventory   *player.Inventory

	keys       *gate.KeyManager
	door       *gate.Door
	insideDoor bool
	audio      *AudioLog
	loader     gate.SceneLoader
	scene      string

	hud      HUD
	playerUI *ui.PlayerUI
	keyUI    *ui.KeyUI
	bars     map[uint64]*enemyBar

	tick    uint64
	elapsed float64

	cmdMu    sync.Mutex
	commands []Command

	snapshot atomic.Pointer[Snapshot]
	tracer   trace.Tracer
	onTick   func(time.Duration)
}

// New создаёт пустую арену с дверью и счётчиком ключей
func New(cfg Config, deps Deps) *World {
	log := deps.Logger
	if log == nil {
		log = logging.GetWorldLogger()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.DoorRadius <= 0 {
		cfg.DoorRadius = 1.5
	}

	w := &World{
		cfg:     cfg,
		sched:   tasks.NewScheduler(),
		log:     log,
		sink:    deps.Sink,
		nextID:  1000,
		actors:  make(map[uint64]*Actor),
		pickups: make(map[uint64]*pickup.Pickup),
		audio:   NewAudioLog(),
		bars:    make(map[uint64]*enemyBar),
		tracer:  otel.Tracer("fps-sim/world"),
		onTick:  deps.OnTick,
		hud: HUD{
			Ammo:   ui.NewText(),
			Health: ui.NewFill(),
			Keys:   ui.NewText(),
		},
	}

	w.loader = SceneLoaderFunc(func(name string) {
		w.scene = name
		w.emit(Event{Type: EventSceneLoad, Actor: w.door.ID(), Detail: name})
		if deps.Loader != nil {
			deps.Loader.LoadScene(name)
		}
	})

	w.door = gate.NewDoor(cfg.Door, gate.DoorDeps{
		ID:        w.newID(),
		Scheduler: w.sched,
		Audio:     w.audio,
		Loader:    w.loader,
	})
	w.door.Opened.Connect(func() {
		w.emit(Event{Type: EventDoorOpened, Actor: w.door.ID()})
	})

	w.keys = gate.NewKeyManager(cfg.RequiredKeys, w.door)
	w.keys.Changed.Connect(func() {
		if w.keys.KeyCount() > 0 {
			w.emit(Event{Type: EventKeyCollected, Value: w.keys.KeyCount()})
		}
	})
	w.keyUI = ui.NewKeyUI(w.hud.Keys, w.keys)

	w.publish()
	log.Info("🌍 арена создана (seed=%d, tick=%d Гц)", cfg.Seed, cfg.TickRate)
	return w
}

func (w *World) newID() uint64 {
	w.nextID++
	return w.nextID
}

func (w *World) Config() Config              { return w.cfg }
func (w *World) Scheduler() *tasks.Scheduler { return w.sched }
func (w *World) Tick() uint64                { return w.tick }
func (w *World) Elapsed() float64            { return w.elapsed }
func (w *World) Player() *player.Controller  { return w.controller }
func (w *World) PlayerActor() *Actor         { return w.playerActor }
func (w *World) Keys() *gate.KeyManager      { return w.keys }
func (w *World) Door() *gate.Door            { return w.door }
func (w *World) Audio() *AudioLog            { return w.audio }
func (w *World) HUD() HUD                    { return w.hud }
func (w *World) PlayerUI() *ui.PlayerUI      { return w.playerUI }
func (w *World) Projectiles() int            { return len(w.projectiles) }
func (w *World) LoadedScene() string         { return w.scene }

// Pickup возвращает предмет по ID или nil
func (w *World) Pickup(id uint64) *pickup.Pickup { return w.pickups[id] }

// Actor возвращает актёра по ID
func (w *World) Actor(id uint64) (*Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

// Snapshot возвращает последний опубликованный снимок. Безопасно из любой горутины.
func (w *World) Snapshot() *Snapshot { return w.snapshot.Load() }

// Enqueue ставит команду в очередь. Безопасно из любой горутины.
func (w *World) Enqueue(cmd Command) {
	if cmd == nil {
		return
	}
	w.cmdMu.Lock()
	w.commands = append(w.commands, cmd)
	w.cmdMu.Unlock()
}

// AddObstacle добавляет статическое препятствие
func (w *World) AddObstacle(box physics.AABB) {
	w.obstacles = append(w.obstacles, box)
}

// SpawnPlayer создаёт игрока. Повторный вызов возвращает существующего.
func (w *World) SpawnPlayer(at vec.Vec3) *player.Controller {
	if w.controller != nil {
		w.log.Warn("игрок уже существует, повторное создание пропущено")
		return w.controller
	}
	id := w.newID()
	a := newActor(id, "player", ActorPlayer, at)

	a.Health = combat.NewHealth(combat.HealthConfig{
		Name:  "player",
		Tag:   combat.TagPlayer,
		MaxHP: w.cfg.Player.MaxHP,
	})
	a.Flash = combat.NewHitFlash(id, w.sched, w.cfg.FlashTimes, w.cfg.FlashTime)
	w.wireHealth(a)

	w.playerUI = ui.NewPlayerUI(id, w.hud.Ammo, w.hud.Health, w.sched)
	w.playerUI.BindHealth(a.Health)

	slots := make([]player.Slot, 0, len(w.cfg.Player.Weapons))
	for i, wc := range w.cfg.Player.Weapons {
		wp := w.newWeapon(a, wc)
		w.playerUI.BindWeapon(wp)
		slots = append(slots, player.Slot{Weapon: wp, Unlocked: i < w.cfg.Player.UnlockedSlots})
	}
	w.inventory = player.NewInventory(w.playerUI, slots...)
	if cur := w.inventory.Current(); cur != nil {
		a.Weapon = cur
	}

	motor := player.NewMotor(id, w.cfg.Player.Motor, w.audio)
	w.controller = player.NewController(player.ControllerDeps{
		ID:           id,
		Body:         a,
		Health:       a.Health,
		Motor:        motor,
		Inventory:    w.inventory,
		Scheduler:    w.sched,
		RespawnDelay: w.cfg.Player.RespawnDelay,
	})
	w.controller.Respawned.Connect(func() {
		w.emit(Event{Type: EventPlayerRespawned, Actor: id, Name: a.Name})
	})

	w.actors[id] = a
	w.playerActor = a
	w.log.Info("🧍 игрок %d создан в %+v", id, at)
	return w.controller
}

// SpawnEnemy создаёт врага и возвращает его ID
func (w *World) SpawnEnemy(name string, at vec.Vec3) uint64 {
	id := w.newID()
	if name == "" {
		name = fmt.Sprintf("soldier-%d", id)
	}
	a := newActor(id, name, ActorEnemy, at)
	bcfg := w.cfg.Enemy.Behavior

	a.Health = combat.NewHealth(combat.HealthConfig{
		Name:  name,
		Tag:   combat.TagEnemy,
		MaxHP: w.cfg.Enemy.MaxHP,
	})
	a.Flash = combat.NewHitFlash(id, w.sched, w.cfg.FlashTimes, w.cfg.FlashTime)
	a.Weapon = w.newWeapon(a, w.cfg.Enemy.Weapon)
	a.Nav = NewStraightNav(bcfg.MoveSpeed, bcfg.StopDistance/2)
	a.Anim = NewClipAnimator(w.cfg.ClipLengths)

	a.Behavior = enemy.NewBehavior(bcfg, enemy.Deps{
		ID:        id,
		Name:      name,
		Body:      a,
		Nav:       a.Nav,
		Player:    w,
		Weapon:    a.Weapon,
		Animator:  a.Anim,
		Audio:     w.audio,
		Drops:     w,
		Despawn:   w.despawnActor,
		Scheduler: w.sched,
		Rand:      rand.New(rand.NewSource(w.cfg.Seed + int64(id))),
	})
	a.Health.BindOwner(a.Behavior)
	w.wireHealth(a)

	bar := ui.NewBar(a.Position, vec.Vec3{Y: 2.2})
	fill := ui.NewFill()
	eb := &enemyBar{sync: ui.NewEnemyUI(bar, fill, w), bar: bar, fill: fill}
	eb.sync.BindHealth(a.Health)
	w.bars[id] = eb

	w.actors[id] = a
	w.log.Debug("враг %s (%d) создан в %+v", name, id, at)
	return id
}

// SpawnPickup создаёт предмет и возвращает его ID
func (w *World) SpawnPickup(kind pickup.Kind, at vec.Vec3) uint64 {
	id := w.newID()
	w.pickups[id] = pickup.New(id, kind, at, w.cfg.Pickup, pickup.Deps{
		Scheduler: w.sched,
		Audio:     w.audio,
		Remove:    func(id uint64) { delete(w.pickups, id) },
	})
	return id
}

// SpawnDrop создаёт предмет, выпавший из врага
func (w *World) SpawnDrop(item string, at vec.Vec3) {
	w.SpawnPickup(pickup.Kind(item), at)
}

// SpawnProjectile регистрирует снаряд в арене
func (w *World) SpawnProjectile(owner uint64, at vec.Vec3) *combat.Projectile {
	p := combat.NewProjectile(w.newID(), owner, at)
	w.projectiles = append(w.projectiles, p)
	return p
}

// PlayerPosition возвращает позицию игрока для врагов и полос здоровья
func (w *World) PlayerPosition() (vec.Vec3, bool) {
	if w.controller == nil {
		return vec.Zero, false
	}
	return w.controller.PlayerPosition()
}

// Raycast ищет ближайшее попадание луча в препятствие или актёра, кроме ignore
func (w *World) Raycast(origin, dir vec.Vec3, maxDist float64, ignore uint64) (vec.Vec3, bool) {
	best := maxDist
	found := false
	try := func(box physics.AABB) {
		if d, ok := box.IntersectRay(origin, dir, best); ok && d <= best {
			best = d
			found = true
		}
	}
	for _, box := range w.obstacles {
		try(box)
	}
	for id, a := range w.actors {
		if id == ignore {
			continue
		}
		try(a.Bounds())
	}
	if !found {
		return vec.Zero, false
	}
	return origin.Add(dir.Mul(best)), true
}

func (w *World) newWeapon(a *Actor, cfg combat.WeaponConfig) *combat.Weapon {
	wp := combat.NewWeapon(cfg, combat.WeaponDeps{
		Owner:     a.ID,
		Aim:       a,
		Ray:       w,
		Spawner:   w,
		Audio:     w.audio,
		Scheduler: w.sched,
	})
	wp.Fired.Connect(func() {
		w.emit(Event{Type: EventWeaponFired, Actor: a.ID, Name: wp.Name(), Value: wp.Ammo()})
	})
	wp.AmmoEmpty.Connect(func() {
		w.emit(Event{Type: EventAmmoEmpty, Actor: a.ID, Name: wp.Name()})
	})
	return wp
}

// wireHealth связывает сигналы здоровья с событиями и вспышкой попадания
func (w *World) wireHealth(a *Actor) {
	h := a.Health
	h.Attacked.Connect(func() {
		if a.Flash != nil && !h.Dead() {
			a.Flash.Play()
		}
		w.emit(Event{Type: EventActorDamaged, Actor: a.ID, Name: a.Name, Value: h.Current()})
	})
	h.Died.Connect(func() {
		if a.Flash != nil {
			a.Flash.Reset()
		}
		w.emit(Event{Type: EventActorDied, Actor: a.ID, Name: a.Name, Detail: a.Tag().String()})
	})
}

func (w *World) despawnActor(id uint64) {
	a, ok := w.actors[id]
	if !ok {
		return
	}
	delete(w.actors, id)
	delete(w.bars, id)
	w.sched.CancelOwner(id)
	w.log.Debug("актёр %s (%d) удалён", a.Name, id)
}

func (w *World) emit(ev Event) {
	if w.sink == nil {
		return
	}
	ev.Tick = w.tick
	ev.Time = w.elapsed
	w.sink.Emit(ev)
}

// Run продвигает мир с частотой TickRate до отмены контекста
func (w *World) Run(ctx context.Context) {
	interval := time.Second / time.Duration(w.cfg.TickRate)
	dt := 1.0 / float64(w.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Info("▶️ симуляция запущена, шаг %v", interval)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("⏹️ симуляция остановлена на тике %d", w.tick)
			return
		case <-ticker.C:
			start := time.Now()
			w.StepContext(ctx, dt)
			if w.onTick != nil {
				w.onTick(time.Since(start))
			}
		}
	}
}

// Step выполняет один тик симуляции
func (w *World) Step(dt float64) {
	w.StepContext(context.Background(), dt)
}

// StepContext выполняет один тик и записывает его в трассировку
func (w *World) StepContext(ctx context.Context, dt float64) {
	_, span := w.tracer.Start(ctx, "world.Step")
	defer span.End()

	w.drainCommands()
	w.sched.Advance(dt)
	w.updateActors(dt)
	w.updateProjectiles(dt)
	w.updateTriggers(dt)
	w.updateUI()

	w.tick++
	w.elapsed += dt
	w.publish()

	span.SetAttributes(
		attribute.Int64("tick", int64(w.tick)),
		attribute.Int("actors", len(w.actors)),
		attribute.Int("projectiles", len(w.projectiles)),
	)
}

func (w *World) drainCommands() {
	w.cmdMu.Lock()
	cmds := w.commands
	w.commands = nil
	w.cmdMu.Unlock()

	for _, cmd := range cmds {
		cmd(w)
	}
}

// updateActors обновляет актёров по возрастанию ID: сначала поведение, затем движение
func (w *World) updateActors(dt float64) {
	ids := make([]uint64, 0, len(w.actors))
	for id := range w.actors {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		a, ok := w.actors[id]
		if !ok {
			continue
		}
		switch a.Kind {
		case ActorPlayer:
			w.updatePlayer(a, dt)
		case ActorEnemy:
			a.Behavior.Update(dt)
			if !a.Behavior.Dying() {
				a.pos = a.Nav.Step(a.pos, dt)
			}
		}
	}
}

func (w *World) updatePlayer(a *Actor, dt float64) {
	if w.controller == nil || w.controller.IsDead() {
		return
	}
	motor := w.controller.Motor()
	a.SetAimForward(motor.LookForward())
	a.pos = motor.Step(a.pos, dt)
	if cur := w.inventory.Current(); cur != nil {
		a.Weapon = cur
	}
}

// updateProjectiles двигает снаряды и обрабатывает первое столкновение на пройденном отрезке
func (w *World) updateProjectiles(dt float64) {
	alive := w.projectiles[:0]
	for _, p := range w.projectiles {
		from, to := p.Step(dt)
		if from != to {
			target, hit := w.firstHit(p.Owner, from, to)
			if hit {
				var h *combat.Health
				if target != nil {
					h = target.Health
				}
				p.Hit(h)
			}
		}
		if p.Expired() {
			p.Destroy()
		}
		if !p.Destroyed() {
			alive = append(alive, p)
		}
	}
	for i := len(alive); i < len(w.projectiles); i++ {
		w.projectiles[i] = nil
	}
	w.projectiles = alive
}

// firstHit возвращает ближайшего актёра на отрезке. nil при hit=true означает препятствие.
func (w *World) firstHit(owner uint64, from, to vec.Vec3) (*Actor, bool) {
	best := 2.0
	var target *Actor
	for _, box := range w.obstacles {
		if t, ok := box.IntersectSegment(from, to); ok && t < best {
			best = t
			target = nil
		}
	}
	for id, a := range w.actors {
		if id == owner {
			continue
		}
		if t, ok := a.Bounds().IntersectSegment(from, to); ok && t < best {
			best = t
			target = a
		}
	}
	return target, best <= 1
}

// updateTriggers обрабатывает предметы и вход в дверь
func (w *World) updateTriggers(dt float64) {
	w.door.Update(dt)

	if w.playerActor == nil || w.controller.IsDead() {
		w.insideDoor = false
		for _, p := range w.pickups {
			p.Update(dt)
		}
		return
	}
	pos := w.playerActor.Position()

	ids := make([]uint64, 0, len(w.pickups))
	for id := range w.pickups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	collector := playerCollector{w: w}
	for _, id := range ids {
		p := w.pickups[id]
		p.Update(dt)
		if p.Touches(pos) && p.OnTriggerEnter(combat.TagPlayer, collector) {
			w.emit(Event{Type: EventPickupCollected, Actor: id, Detail: string(p.Kind)})
		}
	}

	inside := w.door.IsOpen() && pos.Flat().DistanceTo(w.door.ClosedAt().Flat()) <= w.cfg.DoorRadius
	if inside && !w.insideDoor {
		w.door.OnPlayerEnter()
	}
	// Пока дверь движется, вход не засчитывается: игрок должен войти заново
	w.insideDoor = inside && !w.door.Moving()
}

func (w *World) updateUI() {
	w.keyUI.Update()
	for _, b := range w.bars {
		b.sync.Update()
	}
}

// playerCollector выдаёт содержимое предметов игроку и счётчику ключей
type playerCollector struct{ w *World }

func (c playerCollector) AddMagazines(n int) { c.w.controller.AddMagazines(n) }
func (c playerCollector) Heal(n int)         { c.w.playerActor.Health.Heal(n) }
func (c playerCollector) AddKey() bool       { return c.w.keys.AddKey() }
