package combat

import (
	"github.com/annel0/fps-sim/internal/vec"
)

// Projectile - выпущенный снаряд. Летит по прямой с постоянной скоростью
// и уничтожается при первом столкновении или по истечении времени жизни.
type Projectile struct {
	ID       uint64
	Owner    uint64
	Position vec.Vec3

	dir      vec.Vec3
	speed    float64
	lifetime float64
	elapsed  float64
	damage   int

	isPrimary bool
	fired     bool
	damaged   bool
	destroyed bool
}

// NewProjectile создаёт неподвижный снаряд в точке at
func NewProjectile(id, owner uint64, at vec.Vec3) *Projectile {
	return &Projectile{ID: id, Owner: owner, Position: at}
}

// Fire запускает снаряд к точке target. Повторный запуск игнорируется.
func (p *Projectile) Fire(target vec.Vec3, damage int, lifetime, speed float64, isPrimary bool) {
	if p.fired || p.destroyed {
		return
	}
	p.fired = true
	p.damage = damage
	p.lifetime = lifetime
	p.speed = speed
	p.isPrimary = isPrimary

	p.dir = target.Sub(p.Position).Normalized()
	if p.dir.IsZero() {
		p.dir = vec.Forward
	}
}

func (p *Projectile) Fired() bool         { return p.fired }
func (p *Projectile) Destroyed() bool     { return p.destroyed }
func (p *Projectile) Damage() int         { return p.damage }
func (p *Projectile) IsPrimary() bool     { return p.isPrimary }
func (p *Projectile) Direction() vec.Vec3 { return p.dir }
func (p *Projectile) Elapsed() float64    { return p.elapsed }

// Step перемещает снаряд на dt и возвращает пройденный отрезок.
// Снаряд, не запущенный или уже уничтоженный, не двигается.
func (p *Projectile) Step(dt float64) (from, to vec.Vec3) {
	from = p.Position
	if !p.fired || p.destroyed || dt <= 0 {
		return from, from
	}
	p.Position = p.Position.Add(p.dir.Mul(p.speed * dt))
	p.elapsed += dt
	return from, p.Position
}

// Expired сообщает, что время жизни истекло
func (p *Projectile) Expired() bool {
	return p.fired && p.elapsed >= p.lifetime
}

// Destroy уничтожает снаряд
func (p *Projectile) Destroy() { p.destroyed = true }

// Hit обрабатывает первое столкновение. Снаряд уничтожается при любом столкновении,
// урон наносится не более одного раза и только цели противоположной стороны.
// target == nil означает препятствие без здоровья. Возвращает true, если урон нанесён.
func (p *Projectile) Hit(target *Health) bool {
	if p.destroyed {
		return false
	}
	p.destroyed = true

	if target == nil || p.damaged {
		return false
	}
	p.damaged = true
	if (target.Tag() == TagPlayer) == p.isPrimary {
		return false
	}
	target.Attack(p.damage)
	return true
}
