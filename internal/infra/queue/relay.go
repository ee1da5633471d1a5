package queue

import (
	"context"
	"log/slog"
	"time"

	"smart-parking/internal/infra/repository"

	"github.com/google/uuid"
)

const relayBatchSize = 100

// Relay polls the booking_events table and forwards unpublished rows to the
// broker, marking them published once the broker accepts them.
type Relay struct {
	outbox    *repository.OutboxRepository
	publisher *Publisher
	interval  time.Duration
}

func NewRelay(outbox *repository.OutboxRepository, publisher *Publisher, interval time.Duration) *Relay {
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled. Failures are logged and retried on the
// next tick; a row is only marked published after the broker accepted it.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.drain(ctx); err != nil {
			slog.Error("outbox drain failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Relay) drain(ctx context.Context) error {
	for {
		events, err := r.outbox.FetchUnpublished(ctx, relayBatchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		published := make([]uuid.UUID, 0, len(events))
		for _, e := range events {
			err := r.publisher.Publish(ctx, BookingEvent{
				EventID:    e.ID,
				BookingID:  e.BookingID,
				SpotID:     e.SpotID,
				UserID:     e.UserID,
				EventType:  e.EventType,
				OccurredAt: e.OccurredAt,
			})
			if err != nil {
				// Keep ordering: stop at the first failure and retry from
				// here next tick.
				slog.Warn("event publish failed", "event_id", e.ID, "error", err)
				break
			}
			published = append(published, e.ID)
		}

		if len(published) > 0 {
			if err := r.outbox.MarkPublished(ctx, published); err != nil {
				return err
			}
		}
		if len(published) < len(events) {
			return nil
		}
	}
}
