package repository

import (
	"context"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/pgconv"
	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingViewColumns = `
	b.id, b.spot_id, s.spot_number, b.user_id, u.name, u.email,
	b.vehicle_number, b.start_time, b.end_time, b.duration_hours,
	b.price_cents, b.status, b.check_in_at, b.check_out_at,
	b.created_at, b.updated_at`

const bookingViewFrom = `
	FROM bookings b
	JOIN parking_spots s ON s.id = b.spot_id
	JOIN users u ON u.id = b.user_id`

// Create persists a new booking together with its outbox event. The
// conflict check and insert run in one transaction under a per-spot
// advisory lock, so two writers racing for the same spot serialize here and
// the loser sees the winner's row. The exclusion constraint on bookings is
// the backstop should the check ever be bypassed.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking, event string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text))`,
		pgconv.UUIDToPgtype(b.SpotID()),
	); err != nil {
		return classify("failed to acquire spot lock", err)
	}

	var conflict bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE spot_id = $1
			  AND status = 'active'
			  AND start_time < $3
			  AND end_time > $2
		)`,
		pgconv.UUIDToPgtype(b.SpotID()),
		pgconv.TimeToPgtype(b.Slot().Start()),
		pgconv.TimeToPgtype(b.Slot().End()),
	).Scan(&conflict); err != nil {
		return classify("failed to check for overlapping bookings", err)
	}
	if conflict {
		return infra.WrapRepoErr("booking overlaps an active booking", nil, infra.KindConflict)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bookings (
			id, spot_id, user_id, vehicle_number, start_time, end_time,
			duration_hours, price_cents, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.UUIDToPgtype(b.SpotID()),
		pgconv.UUIDToPgtype(b.UserID()),
		b.VehicleNumber().String(),
		pgconv.TimeToPgtype(b.Slot().Start()),
		pgconv.TimeToPgtype(b.Slot().End()),
		b.DurationHours(),
		b.Price().Cents(),
		b.Status().String(),
	); err != nil {
		return classify("failed to insert booking", err)
	}

	if err := insertOutboxEvent(ctx, tx, b, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("failed to commit booking", err)
	}
	return nil
}

// Update persists a status transition and its outbox event atomically.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, event string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, check_in_at = $3, check_out_at = $4, updated_at = now()
		WHERE id = $1`,
		pgconv.UUIDToPgtype(b.ID()),
		b.Status().String(),
		pgconv.TimePtrToPgtype(b.CheckInAt()),
		pgconv.TimePtrToPgtype(b.CheckOutAt()),
	)
	if err != nil {
		return classify("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	if err := insertOutboxEvent(ctx, tx, b, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("failed to commit booking update", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, spot_id, user_id, vehicle_number, start_time, end_time,
		       duration_hours, price_cents, status, check_in_at, check_out_at,
		       created_at, updated_at
		FROM bookings
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	return scanBookingEntity(row)
}

func (r *BookingRepository) HasConflict(ctx context.Context, spotID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) (bool, error) {
	var conflict bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE spot_id = $1
			  AND status = 'active'
			  AND start_time < $3
			  AND end_time > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)`,
		pgconv.UUIDToPgtype(spotID),
		pgconv.TimeToPgtype(start),
		pgconv.TimeToPgtype(end),
		pgconv.UUIDPtrToPgtype(excludeBookingID),
	).Scan(&conflict)
	if err != nil {
		return false, classify("failed to check for overlapping bookings", err)
	}
	return conflict, nil
}

func (r *BookingRepository) GetView(ctx context.Context, id uuid.UUID) (*readmodel.BookingRM, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+bookingViewColumns+bookingViewFrom+` WHERE b.id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	view, err := scanBookingView(row)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingViewColumns+bookingViewFrom+`
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.start_time DESC`,
		pgconv.UUIDToPgtype(userID),
	)
	if err != nil {
		return nil, classify("failed to list bookings by user", err)
	}
	defer rows.Close()
	return collectBookingViews(rows)
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]*readmodel.BookingRM, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingViewColumns+bookingViewFrom+`
		ORDER BY b.created_at DESC, b.start_time DESC`,
	)
	if err != nil {
		return nil, classify("failed to list bookings", err)
	}
	defer rows.Close()
	return collectBookingViews(rows)
}

func insertOutboxEvent(ctx context.Context, tx pgx.Tx, b *booking.Booking, event string) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO booking_events (id, booking_id, spot_id, user_id, event_type, occurred_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		pgconv.UUIDToPgtype(uuid.New()),
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.UUIDToPgtype(b.SpotID()),
		pgconv.UUIDToPgtype(b.UserID()),
		event,
	); err != nil {
		return classify("failed to record booking event", err)
	}
	return nil
}

func scanBookingEntity(row pgx.Row) (*booking.Booking, error) {
	var (
		id, spotID, userID    pgtype.UUID
		vehicleNumber, status string
		startTime, endTime    pgtype.Timestamptz
		durationHours         int64
		priceCents            int64
		checkInAt, checkOutAt pgtype.Timestamptz
		createdAt, updatedAt  pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &spotID, &userID, &vehicleNumber, &startTime, &endTime,
		&durationHours, &priceCents, &status, &checkInAt, &checkOutAt,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, classify("failed to find booking", err)
	}

	vehicle, err := booking.NewVehicleNumber(vehicleNumber)
	if err != nil {
		return nil, classify("stored vehicle number is invalid", err)
	}
	slot, err := booking.NewTimeSlot(pgconv.TimeFromPgtype(startTime), pgconv.TimeFromPgtype(endTime))
	if err != nil {
		return nil, classify("stored time slot is invalid", err)
	}
	price, err := booking.NewMoney(priceCents)
	if err != nil {
		return nil, classify("stored price is invalid", err)
	}

	return booking.ReconstructBooking(
		uuid.UUID(id.Bytes), uuid.UUID(spotID.Bytes), uuid.UUID(userID.Bytes),
		vehicle, slot, durationHours, price,
		booking.Status(status),
		pgconv.TimePtrFromPgtype(checkInAt),
		pgconv.TimePtrFromPgtype(checkOutAt),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func scanBookingView(row pgx.Row) (*readmodel.BookingRM, error) {
	var (
		id, spotID, userID              pgtype.UUID
		spotNumber, userName, userEmail string
		vehicleNumber, status           string
		startTime, endTime              pgtype.Timestamptz
		durationHours, priceCents       int64
		checkInAt, checkOutAt           pgtype.Timestamptz
		createdAt, updatedAt            pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &spotID, &spotNumber, &userID, &userName, &userEmail,
		&vehicleNumber, &startTime, &endTime, &durationHours,
		&priceCents, &status, &checkInAt, &checkOutAt,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, classify("failed to load booking view", err)
	}

	return &readmodel.BookingRM{
		ID:            uuid.UUID(id.Bytes),
		SpotID:        uuid.UUID(spotID.Bytes),
		SpotNumber:    spotNumber,
		UserID:        uuid.UUID(userID.Bytes),
		UserName:      userName,
		UserEmail:     userEmail,
		VehicleNumber: vehicleNumber,
		StartTime:     pgconv.TimeFromPgtype(startTime),
		EndTime:       pgconv.TimeFromPgtype(endTime),
		DurationHours: durationHours,
		PriceCents:    priceCents,
		Status:        status,
		CheckInAt:     pgconv.TimePtrFromPgtype(checkInAt),
		CheckOutAt:    pgconv.TimePtrFromPgtype(checkOutAt),
		CreatedAt:     pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:     pgconv.TimeFromPgtype(updatedAt),
	}, nil
}

func collectBookingViews(rows pgx.Rows) ([]*readmodel.BookingRM, error) {
	views := []*readmodel.BookingRM{}
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to read booking rows", err)
	}
	return views, nil
}
