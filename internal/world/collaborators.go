package world

import (
	"sync"

	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/vec"
)

// StraightNav ведёт тело к точке назначения по прямой в плоскости XZ.
// Движение останавливается в пределах stopDistance.
type StraightNav struct {
	speed        float64
	stopDistance float64
	dest         vec.Vec3
	active       bool
}

// NewStraightNav создаёт навигатор без цели
func NewStraightNav(speed, stopDistance float64) *StraightNav {
	return &StraightNav{speed: speed, stopDistance: stopDistance}
}

func (n *StraightNav) SetDestination(p vec.Vec3) {
	n.dest = p
	n.active = true
}

func (n *StraightNav) Stop()                 { n.active = false }
func (n *StraightNav) Destination() vec.Vec3 { return n.dest }
func (n *StraightNav) Active() bool          { return n.active }

// Step возвращает новую позицию после dt секунд движения
func (n *StraightNav) Step(pos vec.Vec3, dt float64) vec.Vec3 {
	if !n.active || dt <= 0 {
		return pos
	}
	delta := n.dest.Sub(pos).Flat()
	dist := delta.Length()
	if dist <= n.stopDistance {
		return pos
	}
	step := n.speed * dt
	if step > dist-n.stopDistance {
		step = dist - n.stopDistance
	}
	return pos.Add(delta.Mul(step / dist))
}

// ClipAnimator хранит длительности клипов и текущий клип
type ClipAnimator struct {
	lengths map[string]float64
	current string
	plays   int
}

// NewClipAnimator создаёт аниматор с таблицей длительностей
func NewClipAnimator(lengths map[string]float64) *ClipAnimator {
	return &ClipAnimator{lengths: lengths}
}

func (a *ClipAnimator) Play(clip string) {
	a.current = clip
	a.plays++
}

// CurrentLength возвращает длительность текущего клипа, 0 если неизвестна
func (a *ClipAnimator) CurrentLength() float64 { return a.lengths[a.current] }

func (a *ClipAnimator) Current() string { return a.current }
func (a *ClipAnimator) Plays() int      { return a.plays }

// AudioLog «проигрывает» звуки, записывая их в журнал и счётчики
type AudioLog struct {
	mu     sync.Mutex
	counts map[string]int
	log    *logging.Logger
}

// NewAudioLog создаёт журнал звуков
func NewAudioLog() *AudioLog {
	return &AudioLog{counts: make(map[string]int), log: logging.GetComponentLogger("audio")}
}

func (a *AudioLog) PlayOneShot(source uint64, clip string) {
	a.mu.Lock()
	a.counts[clip]++
	a.mu.Unlock()
	a.log.Trace("🔊 %s от %d", clip, source)
}

// Played возвращает, сколько раз прозвучал клип
func (a *AudioLog) Played(clip string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[clip]
}

// SceneLoaderFunc адаптирует функцию к gate.SceneLoader
type SceneLoaderFunc func(name string)

func (f SceneLoaderFunc) LoadScene(name string) { f(name) }
