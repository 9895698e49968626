package services

import (
	"context"

	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	"github.com/backofficehq/jobledger_backend/internal/core/ports/platform"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
)

// EventHandler consumes one domain event. Handlers must be quick; anything
// slow should hand off to its own goroutine.
type EventHandler func(ctx context.Context, event domain.Event)

// Dispatcher fans domain events out to registered handlers in order.
type Dispatcher struct {
	handlers []EventHandler
}

// NewDispatcher creates a dispatcher with the given handlers.
func NewDispatcher(handlers ...EventHandler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

var _ platform.EventDispatcher = (*Dispatcher)(nil)

// Register adds a handler. Not safe for concurrent use with Dispatch; wire
// handlers at startup.
func (d *Dispatcher) Register(h EventHandler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch delivers events to all handlers.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...domain.Event) {
	for _, event := range events {
		for _, h := range d.handlers {
			h(ctx, event)
		}
	}
}

// LoggingEventHandler writes every event to the request-scoped logger.
func LoggingEventHandler(ctx context.Context, event domain.Event) {
	middleware.GetLoggerFromCtx(ctx).Info("Domain event",
		"event", string(event.Kind),
		"document_kind", string(event.DocumentKind),
		"document_id", event.DocumentID,
		"actor", event.ActorUserID,
	)
}
