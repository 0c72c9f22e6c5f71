package combat

// Signal - синхронный список слушателей. Emit вызывает слушателей в порядке
// подключения в том же стеке вызовов, поэтому цепочка Attack → Died → Die
// завершается до возврата из Attack.
type Signal struct {
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func()
}

// Connection позволяет отключить слушателя
type Connection struct {
	signal *Signal
	id     int
}

// Connect добавляет слушателя
func (s *Signal) Connect(fn func()) Connection {
	s.nextID++
	s.listeners = append(s.listeners, listener{id: s.nextID, fn: fn})
	return Connection{signal: s, id: s.nextID}
}

// Disconnect отключает слушателя. Повторный вызов ничего не делает.
func (c Connection) Disconnect() {
	if c.signal == nil {
		return
	}
	for i, l := range c.signal.listeners {
		if l.id == c.id {
			c.signal.listeners = append(c.signal.listeners[:i:i], c.signal.listeners[i+1:]...)
			return
		}
	}
}

// Len возвращает число подключённых слушателей
func (s *Signal) Len() int { return len(s.listeners) }

// Emit вызывает всех слушателей. Слушатели, подключённые во время Emit,
// получат только следующие вызовы.
func (s *Signal) Emit() {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := make([]listener, len(s.listeners))
	copy(snapshot, s.listeners)
	for _, l := range snapshot {
		l.fn()
	}
}
