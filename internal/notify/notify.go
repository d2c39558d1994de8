package notify

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/vshuttle/internal/kafka"
)

// Notifier is the rider-facing notification sink behind the worker. The
// delivery channel (push, toast relay, mail) is swappable; this one writes
// structured log lines.
type Notifier struct {
	log *slog.Logger
}

func NewNotifier(log *slog.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Send(ctx context.Context, event kafka.BookingEvent) error {
	n.log.InfoContext(ctx, messageFor(event.Type),
		slog.String("username", event.Username),
		slog.String("booking_id", event.BookingID),
		slog.String("route", event.Route),
		slog.String("seat", event.Seat),
		slog.String("status", event.Status),
	)
	return nil
}

func messageFor(eventType string) string {
	switch eventType {
	case kafka.EventBookingCreated:
		return "booking confirmed"
	case kafka.EventBookingCancelled:
		return "booking cancelled"
	default:
		return "booking event"
	}
}
