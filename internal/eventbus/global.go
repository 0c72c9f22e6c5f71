package eventbus

import (
	"context"
	"errors"
)

// ErrBusClosed возвращается при публикации в закрытую шину
var ErrBusClosed = errors.New("eventbus: шина закрыта")

var globalBus EventBus

// Init устанавливает глобальную шину.
func Init(bus EventBus) { globalBus = bus }

// Global возвращает глобальную шину или nil.
func Global() EventBus { return globalBus }

// Publish отправляет событие в глобальную шину, если она инициализирована.
func Publish(ctx context.Context, ev *Envelope) error {
	if globalBus == nil {
		return nil
	}
	return globalBus.Publish(ctx, ev)
}
