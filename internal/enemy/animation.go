package enemy

// Имена клипов анимации врага
const (
	ClipIdle   = "combat_idle"
	ClipRun    = "combat_run"
	ClipShoot  = "combat_shoot"
	ClipWalk   = "combat_walk"
	ClipDeathA = "death_A"
	ClipDeathB = "death_B"
)

// ClipFor выбирает клип по состоянию. withinShoot важен только для Chase,
// deathVariant (0 или 1) только для Dying.
func ClipFor(state StateID, withinShoot bool, deathVariant int) string {
	switch state {
	case StateChase:
		if withinShoot {
			return ClipShoot
		}
		return ClipRun
	case StateGoToLastKnownPosition, StateReturning:
		return ClipWalk
	case StateDying:
		if deathVariant%2 == 1 {
			return ClipDeathB
		}
		return ClipDeathA
	default:
		return ClipIdle
	}
}
