package world

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/annel0/fps-sim/internal/eventbus"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/google/uuid"
)

// EventType определяет тип игрового события
type EventType string

const (
	EventActorDamaged    EventType = "ActorDamaged"
	EventActorDied       EventType = "ActorDied"
	EventWeaponFired     EventType = "WeaponFired"
	EventAmmoEmpty       EventType = "AmmoEmpty"
	EventPlayerRespawned EventType = "PlayerRespawned"
	EventKeyCollected    EventType = "KeyCollected"
	EventDoorOpened      EventType = "DoorOpened"
	EventSceneLoad       EventType = "SceneLoad"
	EventPickupCollected EventType = "PickupCollected"
)

// Event - игровое событие, наблюдаемое извне симуляции
type Event struct {
	Type   EventType `json:"type"`
	Tick   uint64    `json:"tick"`
	Time   float64   `json:"time"`
	Actor  uint64    `json:"actor,omitempty"`
	Name   string    `json:"name,omitempty"`
	Value  int       `json:"value,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// EventSink принимает события. Вызывается из потока симуляции и не должен блокироваться.
type EventSink interface {
	Emit(ev Event)
}

// EventSinkFunc адаптирует функцию к EventSink
type EventSinkFunc func(ev Event)

func (f EventSinkFunc) Emit(ev Event) { f(ev) }

// MultiSink рассылает событие нескольким получателям
type MultiSink []EventSink

func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}

// DefaultPublishTimeout - сколько тик ждёт места в буфере шины для важного события
const DefaultPublishTimeout = 50 * time.Millisecond

// BusSink публикует события в шину как Envelope с JSON-нагрузкой.
// Публикация ограничена таймаутом: медленный подписчик не останавливает симуляцию.
type BusSink struct {
	bus     eventbus.EventBus
	source  string
	timeout time.Duration
	log     *logging.Logger
}

// NewBusSink создаёт публикатора для шины bus
func NewBusSink(bus eventbus.EventBus, source string) *BusSink {
	if source == "" {
		source = "fps-sim"
	}
	return &BusSink{
		bus:     bus,
		source:  source,
		timeout: DefaultPublishTimeout,
		log:     logging.GetWorldLogger(),
	}
}

// SetTimeout меняет таймаут публикации, d <= 0 возвращает значение по умолчанию
func (s *BusSink) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultPublishTimeout
	}
	s.timeout = d
}

func (s *BusSink) Emit(ev Event) {
	if s.bus == nil {
		return
	}
	env, err := EnvelopeFor(ev, s.source)
	if err != nil {
		s.log.Warn("не удалось сериализовать событие %s: %v", ev.Type, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.bus.Publish(ctx, env); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Warn("шина переполнена, событие %s (тик %d) отброшено", ev.Type, ev.Tick)
			return
		}
		s.log.Warn("не удалось опубликовать событие %s: %v", ev.Type, err)
	}
}

// EnvelopeFor упаковывает событие в конверт шины
func EnvelopeFor(ev Event, source string) (*eventbus.Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: string(ev.Type),
		Version:   1,
		Priority:  priorityOf(ev.Type),
		Payload:   payload,
		Metadata:  map[string]string{"actor_name": ev.Name},
	}, nil
}

// DecodeEvent извлекает событие из конверта
func DecodeEvent(env *eventbus.Envelope) (Event, error) {
	var ev Event
	err := json.Unmarshal(env.Payload, &ev)
	return ev, err
}

// Смерти и смена сцены не должны теряться при переполнении буфера шины
func priorityOf(t EventType) int {
	switch t {
	case EventActorDied, EventPlayerRespawned, EventDoorOpened, EventSceneLoad:
		return 7
	case EventKeyCollected, EventPickupCollected:
		return 5
	default:
		return 1
	}
}
