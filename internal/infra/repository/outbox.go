package repository

import (
	"context"
	"time"

	"smart-parking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxEvent is a booking lifecycle event written in the same transaction
// as the booking change and published asynchronously by the relay.
type OutboxEvent struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	SpotID     uuid.UUID
	UserID     uuid.UUID
	EventType  string
	OccurredAt time.Time
}

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// FetchUnpublished returns up to limit pending events, oldest first.
// Delivery is at-least-once: a crash between publish and MarkPublished
// republishes, so consumers dedupe on the event id.
func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, booking_id, spot_id, user_id, event_type, occurred_at
		FROM booking_events
		WHERE published_at IS NULL
		ORDER BY occurred_at
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, classify("failed to fetch outbox events", err)
	}
	defer rows.Close()

	events := []OutboxEvent{}
	for rows.Next() {
		var (
			id, bookingID, spotID, userID pgtype.UUID
			eventType                     string
			occurredAt                    pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &bookingID, &spotID, &userID, &eventType, &occurredAt); err != nil {
			return nil, classify("failed to scan outbox event", err)
		}
		events = append(events, OutboxEvent{
			ID:         uuid.UUID(id.Bytes),
			BookingID:  uuid.UUID(bookingID.Bytes),
			SpotID:     uuid.UUID(spotID.Bytes),
			UserID:     uuid.UUID(userID.Bytes),
			EventType:  eventType,
			OccurredAt: pgconv.TimeFromPgtype(occurredAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to read outbox rows", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	pgIDs := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		pgIDs[i] = pgconv.UUIDToPgtype(id)
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE booking_events SET published_at = now() WHERE id = ANY($1)`,
		pgIDs,
	)
	if err != nil {
		return classify("failed to mark events published", err)
	}
	return nil
}
