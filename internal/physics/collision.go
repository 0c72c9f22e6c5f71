package physics

import (
	"math"

	"github.com/annel0/fps-sim/internal/vec"
)

// BoxCollider представляет выровненный по осям коллайдер.
// Center задаёт смещение центра относительно позиции владельца.
type BoxCollider struct {
	Center vec.Vec3 `yaml:"center"`
	Half   vec.Vec3 `yaml:"half"`
}

// NewBoxCollider создаёт коллайдер с указанными полуразмерами, стоящий на земле
// (нижняя грань совпадает с позицией владельца).
func NewBoxCollider(halfWidth, height, halfDepth float64) BoxCollider {
	return BoxCollider{
		Center: vec.Vec3{Y: height / 2},
		Half:   vec.Vec3{X: halfWidth, Y: height / 2, Z: halfDepth},
	}
}

// AABB возвращает мировой прямоугольник коллайдера для позиции владельца
func (bc BoxCollider) AABB(owner vec.Vec3) AABB {
	c := owner.Add(bc.Center)
	return AABB{Min: c.Sub(bc.Half), Max: c.Add(bc.Half)}
}

// AABB - прямоугольник в мировых координатах
type AABB struct {
	Min vec.Vec3 `yaml:"min" json:"min"`
	Max vec.Vec3 `yaml:"max" json:"max"`
}

// Contains проверяет, находится ли точка внутри прямоугольника
func (b AABB) Contains(p vec.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Overlaps проверяет пересечение двух прямоугольников
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Expand возвращает прямоугольник, расширенный на r во все стороны
func (b AABB) Expand(r float64) AABB {
	d := vec.Vec3{X: r, Y: r, Z: r}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Center возвращает центр прямоугольника
func (b AABB) Center() vec.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// IntersectRay ищет пересечение луча origin+dir*t (t в [0,maxDist]) с прямоугольником
// методом плит. dir должен быть единичным. Возвращает расстояние до входа.
// Если origin внутри прямоугольника, пересечение считается на расстоянии 0.
func (b AABB) IntersectRay(origin, dir vec.Vec3, maxDist float64) (float64, bool) {
	tMin := 0.0
	tMax := maxDist

	origins := [3]float64{origin.X, origin.Y, origin.Z}
	dirs := [3]float64{dir.X, dir.Y, dir.Z}
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		o, d := origins[i], dirs[i]
		if math.Abs(d) < 1e-12 {
			if o < mins[i] || o > maxs[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (mins[i] - o) * inv
		t2 := (maxs[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// IntersectSegment проверяет пересечение отрезка from→to с прямоугольником.
// Возвращает долю пути [0,1] до точки входа.
func (b AABB) IntersectSegment(from, to vec.Vec3) (float64, bool) {
	delta := to.Sub(from)
	length := delta.Length()
	if length == 0 {
		return 0, b.Contains(from)
	}
	dist, ok := b.IntersectRay(from, delta.Mul(1/length), length)
	if !ok {
		return 0, false
	}
	return dist / length, true
}
