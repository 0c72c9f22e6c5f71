package eventbus

import (
	"context"

	"github.com/annel0/fps-sim/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента "eventbus".
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	log := logging.GetComponentLogger("eventbus")
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		log.Debug("%s %s src=%s prio=%d actor=%s size=%dB",
			ev.ID, ev.EventType, ev.Source, ev.Priority, ev.Metadata["actor_name"], len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logging.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
