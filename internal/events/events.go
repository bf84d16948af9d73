// Package events carries the post-commit notification decisions the booking
// core makes. The core decides that a notification is warranted and what
// changed; delivery (email/SMS/push) belongs to an external collaborator
// behind the Dispatcher interface.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/lessonbook/internal/model"
)

type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingConfirmed   EventType = "booking.confirmed"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventBookingRescheduled EventType = "booking.rescheduled"
	EventBookingCompleted   EventType = "booking.completed"
	EventBookingNoShow      EventType = "booking.no_show"
)

// Event is emitted after a lifecycle transition commits.
type Event struct {
	Type       EventType           `json:"type"`
	BookingID  uuid.UUID           `json:"booking_id"`
	Status     model.BookingStatus `json:"status"`
	Actor      model.ActorRole     `json:"actor"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// Dispatcher hands an event to the notification collaborator.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// DispatchResult reports whether the post-commit notification went out.
// Dispatch is best effort: a failure is returned to the caller as data,
// never as an operation error.
type DispatchResult struct {
	Event     Event  `json:"event"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// Send dispatches the event and folds the outcome into a DispatchResult.
func Send(ctx context.Context, d Dispatcher, event Event) DispatchResult {
	result := DispatchResult{Event: event, Delivered: true}
	if d == nil {
		result.Delivered = false
		result.Error = "no dispatcher configured"
		return result
	}
	if err := d.Dispatch(ctx, event); err != nil {
		result.Delivered = false
		result.Error = err.Error()
	}
	return result
}

// LogDispatcher records events in the service log. Stands in for the real
// notification collaborator in development and tests.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, event Event) error {
	d.logger.Info("Booking event",
		zap.String("type", string(event.Type)),
		zap.String("booking_id", event.BookingID.String()),
		zap.String("status", string(event.Status)),
		zap.String("actor", string(event.Actor)),
	)
	return nil
}
