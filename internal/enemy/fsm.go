package enemy

import "github.com/annel0/fps-sim/internal/vec"

// StateID - идентификатор состояния врага
type StateID uint8

const (
	StateIdle StateID = iota
	StateChase
	StateGoToLastKnownPosition
	StateWait
	StateReturning
	StateDying
)

var stateNames = [...]string{
	StateIdle:                  "Idle",
	StateChase:                 "Chase",
	StateGoToLastKnownPosition: "GoToLastKnownPosition",
	StateWait:                  "Wait",
	StateReturning:             "Returning",
	StateDying:                 "Dying",
}

func (s StateID) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Perception - то, что враг видит в текущем тике
type Perception struct {
	Player   vec.Vec3
	Distance float64
	DT       float64
}

// State представляет состояние конечного автомата врага.
// Update возвращает следующее состояние или само себя.
type State interface {
	ID() StateID
	Enter(b *Behavior)
	Update(b *Behavior, p Perception) State
	Exit(b *Behavior)
}

// === Конкретные состояния ===

// idleState - враг стоит на месте и ждёт игрока
type idleState struct{}

func (s *idleState) ID() StateID { return StateIdle }

func (s *idleState) Enter(b *Behavior) {
	b.playClip(ClipFor(StateIdle, false, 0))
}

func (s *idleState) Update(b *Behavior, p Perception) State {
	if p.Distance <= b.cfg.ChaseDistance {
		return &chaseState{}
	}
	return s
}

func (s *idleState) Exit(b *Behavior) {}

// chaseState - преследование и стрельба
type chaseState struct{}

func (s *chaseState) ID() StateID { return StateChase }

func (s *chaseState) Enter(b *Behavior) {
	b.playClip(ClipFor(StateChase, false, 0))
}

func (s *chaseState) Update(b *Behavior, p Perception) State {
	if p.Distance > b.cfg.ChaseDistance {
		b.lastKnown = p.Player
		b.setDestination(b.lastKnown)
		return &goToLastKnownState{}
	}

	withinShoot := p.Distance <= b.cfg.ShootDistance
	if withinShoot {
		// Стоим на месте и стреляем
		b.setDestination(b.body.Position())
	} else {
		b.setDestination(p.Player)
	}

	b.aimAt(p)
	if b.facing(p) {
		b.fire()
	}

	b.playClip(ClipFor(StateChase, withinShoot, 0))
	return s
}

func (s *chaseState) Exit(b *Behavior) {}

// goToLastKnownState - идём туда, где последний раз видели игрока
type goToLastKnownState struct{}

func (s *goToLastKnownState) ID() StateID { return StateGoToLastKnownPosition }

func (s *goToLastKnownState) Enter(b *Behavior) {
	b.playClip(ClipFor(StateGoToLastKnownPosition, false, 0))
}

func (s *goToLastKnownState) Update(b *Behavior, p Perception) State {
	if p.Distance <= b.cfg.ChaseDistance {
		return &chaseState{}
	}
	if b.body.Position().DistanceTo(b.lastKnown) <= b.cfg.StopDistance {
		return &waitState{}
	}
	return s
}

func (s *goToLastKnownState) Exit(b *Behavior) {}

// waitState - осматриваемся StopTime секунд, затем возвращаемся
type waitState struct{}

func (s *waitState) ID() StateID { return StateWait }

func (s *waitState) Enter(b *Behavior) {
	b.playClip(ClipFor(StateWait, false, 0))
	b.after(b.cfg.StopTime, func() {
		if b.state == s {
			b.setState(&returningState{})
		}
	})
}

// Update ничего не делает: выход из ожидания только по таймеру
func (s *waitState) Update(b *Behavior, p Perception) State {
	return s
}

func (s *waitState) Exit(b *Behavior) {}

// returningState - возвращаемся на точку появления
type returningState struct{}

func (s *returningState) ID() StateID { return StateReturning }

func (s *returningState) Enter(b *Behavior) {
	b.playClip(ClipFor(StateReturning, false, 0))
	b.setDestination(b.home)
}

func (s *returningState) Update(b *Behavior, p Perception) State {
	if p.Distance <= b.cfg.ChaseDistance {
		return &chaseState{}
	}

	b.setDestination(b.home)

	if b.body.Position().DistanceTo(b.home) <= b.cfg.StopDistance {
		return &idleState{}
	}
	return s
}

func (s *returningState) Exit(b *Behavior) {}

// dyingState - конечное состояние: анимация смерти, дроп, уничтожение
type dyingState struct{}

func (s *dyingState) ID() StateID { return StateDying }

func (s *dyingState) Enter(b *Behavior) {
	b.playDeathSound()
	b.dropItem()

	delay := b.cfg.NoAnimatorDeathDelay
	if b.animator != nil {
		b.playClip(ClipFor(StateDying, false, b.rng.Intn(2)))
		delay = b.animator.CurrentLength()
		if delay <= 0.1 {
			delay = b.cfg.DefaultDeathClipLength
		}
		b.log.Debug("%s: анимация смерти %s, длительность %.2f с", b.name, b.clip, delay)
	}

	b.after(delay+b.cfg.DeathExtraDelay, b.destroy)
}

func (s *dyingState) Update(b *Behavior, p Perception) State {
	return s
}

func (s *dyingState) Exit(b *Behavior) {}
