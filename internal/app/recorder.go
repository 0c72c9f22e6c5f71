package app

import (
	"context"
	"fmt"

	"github.com/annel0/fps-sim/internal/eventbus"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/storage"
	"github.com/annel0/fps-sim/internal/world"
)

// Recorder пишет события шины в боевой журнал
type Recorder struct {
	journal storage.Journal
	log     *logging.Logger
	sub     eventbus.Subscription
}

func NewRecorder(j storage.Journal) *Recorder {
	return &Recorder{journal: j, log: logging.GetComponentLogger("journal")}
}

// Attach подписывает журнал на все события шины
func (r *Recorder) Attach(ctx context.Context, bus eventbus.EventBus) error {
	sub, err := bus.Subscribe(ctx, eventbus.Filter{}, func(ctx context.Context, env *eventbus.Envelope) {
		if err := r.Record(ctx, env); err != nil {
			r.log.Warn("событие %s не записано: %v", env.ID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("подписка журнала: %w", err)
	}
	r.sub = sub
	return nil
}

// Record раскрывает конверт и добавляет запись в журнал
func (r *Recorder) Record(ctx context.Context, env *eventbus.Envelope) error {
	ev, err := world.DecodeEvent(env)
	if err != nil {
		return fmt.Errorf("разбор события: %w", err)
	}
	seq, err := r.journal.Append(ctx, EntryFrom(env, ev))
	if err != nil {
		return err
	}
	r.log.Trace("#%d %s actor=%d", seq, ev.Type, ev.Actor)
	return nil
}

// Detach отписывает журнал от шины
func (r *Recorder) Detach() {
	if r.sub != nil {
		r.sub.Unsubscribe()
		r.sub = nil
	}
}

// EntryFrom собирает запись журнала из конверта и события
func EntryFrom(env *eventbus.Envelope, ev world.Event) storage.Entry {
	return storage.Entry{
		ID:     env.ID,
		Time:   env.Timestamp,
		Tick:   ev.Tick,
		Type:   string(ev.Type),
		Actor:  ev.Actor,
		Name:   ev.Name,
		Value:  ev.Value,
		Detail: ev.Detail,
	}
}
