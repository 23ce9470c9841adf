package events

import (
	"context"
	"log/slog"
	"sync"
)

// ChannelPublisher buffers events on a channel for a background Worker.
// Emit never blocks the conversion path: when the buffer is full the event
// is dropped and counted in a log line instead.
type ChannelPublisher struct {
	inbox  chan ConversionEvent
	logger *slog.Logger

	closeOnce sync.Once
}

// NewChannelPublisher creates a publisher with the given buffer size.
func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	if buffer < 1 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelPublisher{
		inbox:  make(chan ConversionEvent, buffer),
		logger: logger,
	}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event ConversionEvent) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "conversion event dropped, buffer full",
			"referral_id", event.ReferralID,
		)
		return nil
	}
}

// Inbox exposes the receive side for a Worker.
func (p *ChannelPublisher) Inbox() <-chan ConversionEvent {
	return p.inbox
}

// Close stops accepting events. Safe to call more than once.
func (p *ChannelPublisher) Close() {
	p.closeOnce.Do(func() { close(p.inbox) })
}

// Worker drains a publisher's inbox into a sink. Delivery failures are
// logged and the worker keeps going; events are not critical state.
type Worker struct {
	sink   Sink
	inbox  <-chan ConversionEvent
	logger *slog.Logger
}

// NewWorker wires a sink to a publisher inbox.
func NewWorker(sink Sink, inbox <-chan ConversionEvent, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled or the inbox closes.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Deliver(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "conversion event delivery failed",
					"referral_id", event.ReferralID,
					"error", err,
				)
			}
		}
	}
}
