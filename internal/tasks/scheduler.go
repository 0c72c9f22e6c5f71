// Package tasks реализует отложенные продолжения симуляции: кулдауны,
// таймеры ожидания, последовательность смерти, задержку возрождения.
//
// Планировщик не создаёт горутин. Время продвигается явно вызовом Advance
// из игрового тика, все колбэки выполняются в потоке симуляции.
package tasks

import "container/heap"

// TaskID идентифицирует запланированное продолжение
type TaskID uint64

type task struct {
	id    TaskID
	owner uint64
	due   float64
	seq   uint64
	fn    func()
	index int
	dead  bool
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler хранит отложенные продолжения, упорядоченные по времени срабатывания.
// Продолжения с одинаковым временем выполняются в порядке планирования.
type Scheduler struct {
	now     float64
	seq     uint64
	queue   taskQueue
	byID    map[TaskID]*task
	byOwner map[uint64]map[TaskID]*task
}

// NewScheduler создаёт пустой планировщик с нулевым временем
func NewScheduler() *Scheduler {
	return &Scheduler{
		byID:    make(map[TaskID]*task),
		byOwner: make(map[uint64]map[TaskID]*task),
	}
}

// Now возвращает текущее время симуляции в секундах
func (s *Scheduler) Now() float64 { return s.now }

// After планирует fn через delay секунд от текущего времени.
// Продолжение, запланированное внутри Advance, никогда не выполняется в том же вызове Advance.
func (s *Scheduler) After(owner uint64, delay float64, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &task{
		id:    TaskID(s.seq),
		owner: owner,
		due:   s.now + delay,
		seq:   s.seq,
		fn:    fn,
	}
	heap.Push(&s.queue, t)
	s.byID[t.id] = t

	owned, ok := s.byOwner[owner]
	if !ok {
		owned = make(map[TaskID]*task)
		s.byOwner[owner] = owned
	}
	owned[t.id] = t
	return t.id
}

// Cancel отменяет продолжение. Возвращает false, если оно уже выполнено или отменено.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	s.remove(t)
	return true
}

// CancelOwner отменяет все ожидающие продолжения владельца и возвращает их число.
func (s *Scheduler) CancelOwner(owner uint64) int {
	owned := s.byOwner[owner]
	n := 0
	for _, t := range owned {
		s.remove(t)
		n++
	}
	return n
}

// Pending возвращает число ожидающих продолжений владельца
func (s *Scheduler) Pending(owner uint64) int {
	return len(s.byOwner[owner])
}

// Len возвращает общее число ожидающих продолжений
func (s *Scheduler) Len() int { return len(s.byID) }

// Advance продвигает время на dt и выполняет все созревшие продолжения.
func (s *Scheduler) Advance(dt float64) int {
	if dt > 0 {
		s.now += dt
	}
	// Граница фиксируется до выполнения: задачи, созданные колбэками, ждут следующего вызова
	boundary := s.seq
	executed := 0

	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.due > s.now {
			break
		}
		if next.seq > boundary {
			// Созрела, но запланирована в этом же Advance
			break
		}
		heap.Pop(&s.queue)
		s.forget(next)
		if next.dead {
			continue
		}
		next.fn()
		executed++
	}
	return executed
}

func (s *Scheduler) remove(t *task) {
	if t.index >= 0 && t.index < len(s.queue) && s.queue[t.index] == t {
		heap.Remove(&s.queue, t.index)
	} else {
		t.dead = true
	}
	s.forget(t)
}

func (s *Scheduler) forget(t *task) {
	delete(s.byID, t.id)
	if owned, ok := s.byOwner[t.owner]; ok {
		delete(owned, t.id)
		if len(owned) == 0 {
			delete(s.byOwner, t.owner)
		}
	}
}
