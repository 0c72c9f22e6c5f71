package vec

import "math"

// Vec3 представляет точку или направление в мировом пространстве.
// Ось Y направлена вверх, земля лежит в плоскости XZ.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
	Right   = Vec3{X: 1}
)

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul умножает вектор на скаляр
func (v Vec3) Mul(scalar float64) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Dot возвращает скалярное произведение
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross возвращает векторное произведение
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Length возвращает длину вектора
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized возвращает единичный вектор того же направления.
// Для нулевого вектора возвращается нулевой вектор.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length == 0 {
		return Zero
	}
	return v.Mul(1 / length)
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Length()
}

// Flat обнуляет вертикальную составляющую
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// Lerp линейно интерполирует между v и other, t ограничивается [0,1]
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	t = math.Max(0, math.Min(1, t))
	return v.Add(other.Sub(v).Mul(t))
}

// IsZero проверяет, является ли вектор нулевым
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Angle возвращает угол между векторами в градусах (0..180).
// Если один из векторов нулевой, угол считается равным 0.
func Angle(a, b Vec3) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// RotateTowards поворачивает направление current к target не более чем на maxDegrees.
// Результат всегда единичной длины.
func RotateTowards(current, target Vec3, maxDegrees float64) Vec3 {
	from := current.Normalized()
	to := target.Normalized()
	if to.IsZero() {
		return from
	}
	if from.IsZero() {
		return to
	}

	angle := Angle(from, to)
	if angle <= maxDegrees || angle == 0 {
		return to
	}

	// Ортогональная составляющая в плоскости поворота
	perp := to.Sub(from.Mul(from.Dot(to)))
	if perp.Length() < 1e-9 {
		// Противоположные направления: поворачиваем вокруг вертикали
		perp = Up.Cross(from)
		if perp.Length() < 1e-9 {
			perp = Right
		}
	}
	perp = perp.Normalized()

	rad := maxDegrees * math.Pi / 180
	return from.Mul(math.Cos(rad)).Add(perp.Mul(math.Sin(rad))).Normalized()
}
