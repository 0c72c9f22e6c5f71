package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Basics(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -1, Y: 0, Z: 4}

	assert.Equal(t, Vec3{X: 0, Y: 2, Z: 7}, a.Add(b))
	assert.Equal(t, Vec3{X: 2, Y: 2, Z: -1}, a.Sub(b))
	assert.Equal(t, Vec3{X: 2, Y: 4, Z: 6}, a.Mul(2))
	assert.InDelta(t, 11.0, a.Dot(b), 1e-9)
	assert.InDelta(t, 5.0, Vec3{X: 3, Z: 4}.Length(), 1e-9)
	assert.Equal(t, Zero, Zero.Normalized(), "нулевой вектор не нормализуется")
	assert.Equal(t, Vec3{X: 1, Z: 3}, a.Flat())
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, 90.0, Angle(Forward, Right), 1e-9)
	assert.InDelta(t, 0.0, Angle(Forward, Forward.Mul(5)), 1e-9)
	assert.InDelta(t, 180.0, Angle(Forward, Forward.Mul(-1)), 1e-9)
	assert.Equal(t, 0.0, Angle(Zero, Forward))
}

func TestRotateTowards(t *testing.T) {
	t.Run("ограничение угла", func(t *testing.T) {
		got := RotateTowards(Forward, Right, 30)
		assert.InDelta(t, 30.0, Angle(Forward, got), 1e-6)
		assert.InDelta(t, 60.0, Angle(got, Right), 1e-6)
		assert.InDelta(t, 1.0, got.Length(), 1e-9)
	})

	t.Run("в пределах шага", func(t *testing.T) {
		target := Vec3{X: math.Sin(0.1), Z: math.Cos(0.1)}
		got := RotateTowards(Forward, target, 45)
		assert.InDelta(t, 0.0, Angle(got, target), 1e-6)
	})

	t.Run("противоположное направление", func(t *testing.T) {
		got := RotateTowards(Forward, Forward.Mul(-1), 90)
		assert.InDelta(t, 90.0, Angle(Forward, got), 1e-6)
	})
}
