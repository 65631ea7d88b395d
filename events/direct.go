package events

import (
	"context"

	"github.com/mreimer702/Rettnar/logger"
)

// DirectPublisher entrega los eventos en el mismo proceso.
// Se usa cuando no hay RABBITMQ_URL configurada.
type DirectPublisher struct {
	handler Handler
}

// NewDirectPublisher crea un publisher que llama al handler en el mismo proceso
func NewDirectPublisher(handler Handler) *DirectPublisher {
	return &DirectPublisher{handler: handler}
}

// Publish entrega el evento al handler y devuelve su error
func (p *DirectPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.RequestID == "" {
		ev.RequestID = logger.RequestIDFromContext(ctx)
	}
	logger.FromContext(ctx).Debugf("Dispatching event in-process: type=%s id=%s", ev.Type, ev.ID)
	return p.handler.HandleEvent(ctx, ev)
}

// Close no hace nada
func (p *DirectPublisher) Close() error {
	return nil
}
