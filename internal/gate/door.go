package gate

import (
	"github.com/annel0/fps-sim/internal/combat"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
)

// SceneLoader заменяет текущий мир новой сценой
type SceneLoader interface {
	LoadScene(name string)
}

// SoundPlayer проигрывает звук без ожидания результата
type SoundPlayer interface {
	PlayOneShot(source uint64, clip string)
}

// DoorConfig - параметры двери
type DoorConfig struct {
	Position       vec.Vec3 `yaml:"position"`
	OpenOffset     vec.Vec3 `yaml:"open_offset"`
	OpenSpeed      float64  `yaml:"open_speed"`
	NextScene      string   `yaml:"next_scene"`
	LoadOnEnter    bool     `yaml:"load_on_enter"`
	SceneLoadDelay float64  `yaml:"scene_load_delay"`
	OpenSound      string   `yaml:"open_sound"`
	PortalSound    string   `yaml:"portal_sound"`
}

// DefaultDoorConfig возвращает стандартные параметры двери
func DefaultDoorConfig() DoorConfig {
	return DoorConfig{
		OpenOffset:     vec.Vec3{Y: 5},
		OpenSpeed:      2,
		LoadOnEnter:    true,
		SceneLoadDelay: 1,
		OpenSound:      "door_open",
		PortalSound:    "portal",
	}
}

// DoorDeps - коллабораторы двери
type DoorDeps struct {
	ID        uint64
	Scheduler *tasks.Scheduler
	Audio     SoundPlayer
	Loader    SceneLoader
}

// Door - дверь-портал. Закрытая дверь неактивна, открытие идемпотентно.
type Door struct {
	id   uint64
	cfg  DoorConfig
	deps DoorDeps

	pos      vec.Vec3
	target   vec.Vec3
	open     bool
	moving   bool
	elapsed  float64
	duration float64
	loading  bool

	Opened  combat.Signal
	Entered combat.Signal

	log *logging.Logger
}

// NewDoor создаёт закрытую дверь
func NewDoor(cfg DoorConfig, deps DoorDeps) *Door {
	if cfg.OpenSpeed <= 0 {
		cfg.OpenSpeed = 2
	}
	return &Door{
		id:     deps.ID,
		cfg:    cfg,
		deps:   deps,
		pos:    cfg.Position,
		target: cfg.Position,
		log:    logging.GetComponentLogger("gate"),
	}
}

func (d *Door) ID() uint64         { return d.id }
func (d *Door) Position() vec.Vec3 { return d.pos }
func (d *Door) ClosedAt() vec.Vec3 { return d.cfg.Position }
func (d *Door) IsOpen() bool       { return d.open }
func (d *Door) Moving() bool       { return d.moving }
func (d *Door) Loading() bool      { return d.loading }
func (d *Door) NextScene() string  { return d.cfg.NextScene }

// SetNextScene задаёт сцену, загружаемую при входе в портал
func (d *Door) SetNextScene(name string) { d.cfg.NextScene = name }

// Open открывает дверь и запускает анимацию подъёма. Повторный вызов ничего не делает.
func (d *Door) Open() {
	if d.open {
		return
	}
	d.open = true
	d.target = d.cfg.Position.Add(d.cfg.OpenOffset)
	d.duration = d.pos.DistanceTo(d.target) / d.cfg.OpenSpeed
	d.elapsed = 0
	d.moving = d.duration > 0

	if d.deps.Audio != nil && d.cfg.OpenSound != "" {
		d.deps.Audio.PlayOneShot(d.id, d.cfg.OpenSound)
	}
	d.log.Info("🚪 дверь открыта")
	d.Opened.Emit()
}

// Update продвигает анимацию открытия
func (d *Door) Update(dt float64) {
	if !d.moving {
		return
	}
	d.elapsed += dt
	t := d.elapsed / d.duration
	if t >= 1 {
		d.pos = d.target
		d.moving = false
		d.log.Debug("анимация двери завершена")
		return
	}
	d.pos = d.cfg.Position.Lerp(d.target, t)
}

// OnPlayerEnter срабатывает, когда игрок входит в открытую дверь.
// Загрузка следующей сцены планируется один раз.
func (d *Door) OnPlayerEnter() {
	if !d.open || d.moving {
		return
	}
	d.log.Info("игрок вошёл в портал")
	if d.deps.Audio != nil && d.cfg.PortalSound != "" {
		d.deps.Audio.PlayOneShot(d.id, d.cfg.PortalSound)
	}
	d.Entered.Emit()

	if !d.cfg.LoadOnEnter || d.cfg.NextScene == "" || d.loading {
		return
	}
	d.loading = true
	scene := d.cfg.NextScene
	load := func() {
		if d.deps.Loader == nil {
			d.log.Warn("нет загрузчика сцен, переход на %s пропущен", scene)
			return
		}
		d.log.Info("загрузка сцены %s", scene)
		d.deps.Loader.LoadScene(scene)
	}
	if d.deps.Scheduler == nil {
		load()
		return
	}
	d.deps.Scheduler.After(d.id, d.cfg.SceneLoadDelay, load)
}

// Reset закрывает дверь (новый уровень)
func (d *Door) Reset() {
	d.open = false
	d.moving = false
	d.loading = false
	d.pos = d.cfg.Position
	d.target = d.cfg.Position
}
