package enemy

import "math/rand"

// ChooseDrop решает, что выпадет из врага. С вероятностью rate выбирается один
// из непустых предметов (равновероятно, если их два). ok=false - ничего не выпадает.
func ChooseDrop(rng *rand.Rand, rate float64, items []string) (string, bool) {
	if rng.Float64() >= rate {
		return "", false
	}

	candidates := make([]string, 0, 2)
	for _, item := range items {
		if item != "" {
			candidates = append(candidates, item)
		}
	}

	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	default:
		if rng.Float64() < 0.5 {
			return candidates[0], true
		}
		return candidates[1], true
	}
}
