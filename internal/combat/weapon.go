package combat

import (
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
)

// Aimer даёт оружию точку и направление прицеливания, а также дуло
type Aimer interface {
	AimOrigin() vec.Vec3
	AimForward() vec.Vec3
	Muzzle() vec.Vec3
}

// Raycaster возвращает ближайшую точку попадания луча в пределах maxDist.
// Коллайдер актёра ignore не учитывается.
type Raycaster interface {
	Raycast(origin, dir vec.Vec3, maxDist float64, ignore uint64) (vec.Vec3, bool)
}

// ProjectileSpawner создаёт снаряд в точке дула и регистрирует его в мире
type ProjectileSpawner interface {
	SpawnProjectile(owner uint64, at vec.Vec3) *Projectile
}

// AudioPlayer проигрывает звук без ожидания результата
type AudioPlayer interface {
	PlayOneShot(source uint64, clip string)
}

// AmmoDisplay - индикатор патронов, общий для нескольких экземпляров оружия.
// Оружие обновляет его, передавая себя, а не последнее известное оружие.
type AmmoDisplay interface {
	RefreshAmmoText(w *Weapon)
}

// WeaponConfig описывает параметры оружия
type WeaponConfig struct {
	Name               string  `yaml:"name"`
	FireInterval       float64 `yaml:"fire_interval"`
	Damage             int     `yaml:"damage"`
	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"`
	Range              float64 `yaml:"range"`
	Capacity           int     `yaml:"capacity"`
	Ammo               int     `yaml:"ammo"`
	Magazines          int     `yaml:"magazines"`
	PlayerFireClip     string  `yaml:"player_fire_clip"`
	EnemyFireClip      string  `yaml:"enemy_fire_clip"`
}

// DefaultWeaponConfig возвращает параметры стандартной винтовки
func DefaultWeaponConfig() WeaponConfig {
	return WeaponConfig{
		Name:               "rifle",
		FireInterval:       0.2,
		Damage:             10,
		ProjectileSpeed:    20,
		ProjectileLifetime: 3,
		Range:              100,
		Capacity:           30,
		Ammo:               30,
		Magazines:          3,
		PlayerFireClip:     "player_fire",
		EnemyFireClip:      "enemy_fire",
	}
}

// WeaponDeps - коллабораторы оружия, передаваемые при сборке актёра
type WeaponDeps struct {
	Owner     uint64
	Aim       Aimer
	Ray       Raycaster
	Spawner   ProjectileSpawner
	Audio     AudioPlayer
	Scheduler *tasks.Scheduler
	Logger    *logging.Logger
}

// Weapon хранит состояние патронов и выполняет выстрел с защитой от повторного входа.
// Инвариант: 0 <= ammo <= capacity.
type Weapon struct {
	cfg  WeaponConfig
	deps WeaponDeps

	ammo   int
	mags   int
	firing bool
	active bool

	display AmmoDisplay

	Fired       Signal
	AmmoChanged Signal
	AmmoEmpty   Signal

	log *logging.Logger
}

// NewWeapon создаёт оружие. Некорректные параметры приводятся к допустимым.
func NewWeapon(cfg WeaponConfig, deps WeaponDeps) *Weapon {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.Range <= 0 {
		cfg.Range = 100
	}
	if cfg.FireInterval < 0 {
		cfg.FireInterval = 0
	}
	ammo := cfg.Ammo
	if ammo < 0 {
		ammo = 0
	}
	if ammo > cfg.Capacity {
		ammo = cfg.Capacity
	}
	mags := cfg.Magazines
	if mags < 0 {
		mags = 0
	}
	log := deps.Logger
	if log == nil {
		log = logging.GetCombatLogger()
	}
	return &Weapon{
		cfg:    cfg,
		deps:   deps,
		ammo:   ammo,
		mags:   mags,
		active: true,
		log:    log,
	}
}

func (w *Weapon) Name() string         { return w.cfg.Name }
func (w *Weapon) Owner() uint64        { return w.deps.Owner }
func (w *Weapon) Ammo() int            { return w.ammo }
func (w *Weapon) Magazines() int       { return w.mags }
func (w *Weapon) Capacity() int        { return w.cfg.Capacity }
func (w *Weapon) Firing() bool         { return w.firing }
func (w *Weapon) Active() bool         { return w.active }
func (w *Weapon) Config() WeaponConfig { return w.cfg }

// SetActive включает или выключает оружие в слоте инвентаря
func (w *Weapon) SetActive(active bool) { w.active = active }

// BindDisplay привязывает индикатор патронов к этому экземпляру оружия
func (w *Weapon) BindDisplay(d AmmoDisplay) { w.display = d }

// RefreshDisplay принудительно обновляет привязанный индикатор
func (w *Weapon) RefreshDisplay() { w.refresh() }

func (w *Weapon) refresh() {
	if w.display == nil {
		return
	}
	w.display.RefreshAmmoText(w)
}

// Fire выполняет выстрел. Пока идёт перезарядка между выстрелами, вызов ничего не делает.
func (w *Weapon) Fire(isPrimary bool) {
	if w.firing {
		return
	}
	w.firing = true

	if w.ammo <= 0 {
		if w.mags <= 0 {
			w.log.Debug("%s: патроны закончились", w.cfg.Name)
			w.AmmoEmpty.Emit()
			w.firing = false
			return
		}
		w.mags--
		w.ammo = w.cfg.Capacity
		w.refresh()
	}

	w.ammo--
	w.refresh()
	w.AmmoChanged.Emit()

	target := w.aimPoint()

	if w.deps.Audio != nil {
		clip := w.cfg.EnemyFireClip
		if isPrimary {
			clip = w.cfg.PlayerFireClip
		}
		if clip != "" {
			w.deps.Audio.PlayOneShot(w.deps.Owner, clip)
		}
	}

	if w.deps.Spawner == nil {
		w.log.Warn("%s: нет фабрики снарядов, выстрел без снаряда", w.cfg.Name)
	} else if p := w.deps.Spawner.SpawnProjectile(w.deps.Owner, w.muzzle()); p != nil {
		p.Fire(target, w.cfg.Damage, w.cfg.ProjectileLifetime, w.cfg.ProjectileSpeed, isPrimary)
	}

	w.Fired.Emit()

	if w.deps.Scheduler == nil {
		w.firing = false
		return
	}
	w.deps.Scheduler.After(w.deps.Owner, w.cfg.FireInterval, func() {
		w.firing = false
	})
}

// aimPoint возвращает точку попадания луча прицела или точку на максимальной дальности
func (w *Weapon) aimPoint() vec.Vec3 {
	if w.deps.Aim == nil {
		return w.muzzle().Add(vec.Forward.Mul(w.cfg.Range))
	}
	origin := w.deps.Aim.AimOrigin()
	forward := w.deps.Aim.AimForward().Normalized()
	if forward.IsZero() {
		forward = vec.Forward
	}
	if w.deps.Ray != nil {
		if hit, ok := w.deps.Ray.Raycast(origin, forward, w.cfg.Range, w.deps.Owner); ok {
			return hit
		}
	}
	return origin.Add(forward.Mul(w.cfg.Range))
}

func (w *Weapon) muzzle() vec.Vec3 {
	if w.deps.Aim == nil {
		return vec.Zero
	}
	return w.deps.Aim.Muzzle()
}

// ReleaseCooldown снимает защиту от повторного выстрела (отмена продолжений владельца)
func (w *Weapon) ReleaseCooldown() { w.firing = false }

// AddMagazines добавляет запасные магазины
func (w *Weapon) AddMagazines(n int) {
	if n <= 0 {
		return
	}
	w.mags += n
	w.refresh()
	w.AmmoChanged.Emit()
}

// AddAmmo добавляет патроны в текущий магазин. Излишек сверх ёмкости переводится
// в целые магазины, неполный остаток отбрасывается.
func (w *Weapon) AddAmmo(n int) {
	if n <= 0 {
		return
	}
	w.ammo += n
	if w.ammo > w.cfg.Capacity {
		extra := w.ammo - w.cfg.Capacity
		w.mags += extra / w.cfg.Capacity
		w.ammo = w.cfg.Capacity
	}
	w.refresh()
	w.AmmoChanged.Emit()
}
