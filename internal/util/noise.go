package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise - детерминированный шум Перлина для раскладки арены
type Noise struct {
	seed  int64
	scale float64
	p     *perlin.Perlin
}

// NewNoise создаёт генератор шума с указанным сидом и масштабом координат
func NewNoise(seed int64, scale float64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	if scale <= 0 {
		scale = 1
	}
	return &Noise{seed: seed, scale: scale, p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Seed возвращает сид генератора
func (n *Noise) Seed() int64 { return n.seed }

// At возвращает значение шума для точки плоскости XZ (от 0 до 1)
func (n *Noise) At(x, z float64) float64 {
	// Значение шума от -1 до 1
	v := n.p.Noise2D(x*n.scale, z*n.scale)

	// Преобразуем в диапазон от 0 до 1
	v = (v + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
