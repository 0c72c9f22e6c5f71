package combat

import "github.com/annel0/fps-sim/internal/tasks"

// HitFlash мигает материалом актёра при получении урона:
// flashTimes пар вкл/выкл за animTime секунд.
type HitFlash struct {
	owner      uint64
	sched      *tasks.Scheduler
	flashTimes int
	animTime   float64

	playing bool
	lit     bool
	flashes int
}

// NewHitFlash создаёт эффект. Значения меньше единицы заменяются стандартными (3 вспышки, 0.5 с).
func NewHitFlash(owner uint64, sched *tasks.Scheduler, flashTimes int, animTime float64) *HitFlash {
	if flashTimes < 1 {
		flashTimes = 3
	}
	if animTime <= 0 {
		animTime = 0.5
	}
	return &HitFlash{owner: owner, sched: sched, flashTimes: flashTimes, animTime: animTime}
}

// Lit сообщает, показан ли сейчас материал попадания
func (f *HitFlash) Lit() bool { return f.lit }

// Playing сообщает, идёт ли анимация
func (f *HitFlash) Playing() bool { return f.playing }

// Flashes возвращает число вспышек за всё время
func (f *HitFlash) Flashes() int { return f.flashes }

// Play запускает мигание, если оно ещё не идёт
func (f *HitFlash) Play() {
	if f.playing || f.sched == nil {
		return
	}
	f.playing = true
	f.step(0)
}

func (f *HitFlash) step(i int) {
	if i >= f.flashTimes {
		f.playing = false
		return
	}
	interval := f.animTime / float64(f.flashTimes*2)
	f.lit = true
	f.flashes++
	f.sched.After(f.owner, interval, func() {
		f.lit = false
		f.sched.After(f.owner, interval, func() { f.step(i + 1) })
	})
}

// Reset прерывает мигание (после отмены продолжений владельца)
func (f *HitFlash) Reset() {
	f.playing = false
	f.lit = false
}
