package repository

import (
	"context"
	"fmt"
	"strings"

	"smart-parking/internal/domain/spot"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/pgconv"
	"smart-parking/internal/usecase"
	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SpotRepository struct {
	pool *pgxpool.Pool
}

func NewSpotRepository(pool *pgxpool.Pool) *SpotRepository {
	return &SpotRepository{pool: pool}
}

// derivedStatusSQL recomputes the spot status from its active bookings at
// query time. Status is never stored; the maintenance flag is the only
// manual override.
const derivedStatusSQL = `
	CASE
		WHEN s.maintenance THEN 'maintenance'
		WHEN EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.spot_id = s.id
			  AND b.status = 'active'
			  AND b.check_in_at IS NOT NULL
			  AND b.check_out_at IS NULL
			  AND b.start_time <= now() AND b.end_time > now()
		) THEN 'occupied'
		WHEN EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.spot_id = s.id
			  AND b.status = 'active'
			  AND b.check_in_at IS NULL
			  AND b.end_time > now()
		) THEN 'reserved'
		ELSE 'available'
	END`

const spotViewColumns = `
	s.id, s.spot_number, s.floor, s.zone, s.spot_type,
	s.rate_cents_per_hour, ` + derivedStatusSQL + ` AS status,
	s.maintenance, s.created_at, s.updated_at`

func (r *SpotRepository) Create(ctx context.Context, sp *spot.Spot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO parking_spots (
			id, spot_number, floor, zone, spot_type,
			rate_cents_per_hour, maintenance, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		pgconv.UUIDToPgtype(sp.ID()),
		sp.SpotNumber(),
		sp.Floor(),
		sp.Zone(),
		sp.SpotType().String(),
		sp.RateCentsPerHour(),
		sp.UnderMaintenance(),
	)
	if err != nil {
		return classify("failed to create parking spot", err)
	}
	return nil
}

func (r *SpotRepository) Update(ctx context.Context, sp *spot.Spot) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE parking_spots
		SET spot_number = $2, floor = $3, zone = $4, spot_type = $5,
		    rate_cents_per_hour = $6, maintenance = $7, updated_at = now()
		WHERE id = $1`,
		pgconv.UUIDToPgtype(sp.ID()),
		sp.SpotNumber(),
		sp.Floor(),
		sp.Zone(),
		sp.SpotType().String(),
		sp.RateCentsPerHour(),
		sp.UnderMaintenance(),
	)
	if err != nil {
		return classify("failed to update parking spot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("parking spot not found", nil, infra.KindNotFound)
	}
	return nil
}

// Delete refuses while any active booking references the spot. The check
// and the delete run in one transaction so a booking created in between
// cannot slip past the guard.
func (r *SpotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Same per-spot lock the booking writer takes, so a create racing the
	// delete cannot slip between the usage check and the delete.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text))`,
		pgconv.UUIDToPgtype(id),
	); err != nil {
		return classify("failed to acquire spot lock", err)
	}

	var inUse bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings WHERE spot_id = $1 AND status = 'active'
		)`,
		pgconv.UUIDToPgtype(id),
	).Scan(&inUse); err != nil {
		return classify("failed to check spot usage", err)
	}
	if inUse {
		return infra.WrapRepoErr("spot has active bookings", nil, infra.KindConflict)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM parking_spots WHERE id = $1`, pgconv.UUIDToPgtype(id))
	if err != nil {
		return classify("failed to delete parking spot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("parking spot not found", nil, infra.KindNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("failed to commit spot delete", err)
	}
	return nil
}

func (r *SpotRepository) FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	var (
		spotID               pgtype.UUID
		spotNumber, zone     string
		floor                int
		spotType             string
		rateCents            int64
		maintenance          bool
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, spot_number, floor, zone, spot_type,
		       rate_cents_per_hour, maintenance, created_at, updated_at
		FROM parking_spots
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	).Scan(&spotID, &spotNumber, &floor, &zone, &spotType, &rateCents, &maintenance, &createdAt, &updatedAt)
	if err != nil {
		return nil, classify("failed to find parking spot", err)
	}

	return spot.ReconstructSpot(
		uuid.UUID(spotID.Bytes),
		spotNumber, floor, zone,
		spot.Type(spotType),
		rateCents, maintenance,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *SpotRepository) GetView(ctx context.Context, id uuid.UUID) (*readmodel.SpotRM, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+spotViewColumns+` FROM parking_spots s WHERE s.id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	return scanSpotView(row)
}

// List applies the nil-able filters; the status filter matches the derived
// status, so e.g. "available" excludes spots that merely hold a future
// booking that is already reserved.
func (r *SpotRepository) List(ctx context.Context, filter usecase.SpotFilter) ([]*readmodel.SpotRM, error) {
	query := `SELECT ` + spotViewColumns + ` FROM parking_spots s`
	where := []string{}
	args := []any{}

	if filter.Floor != nil {
		args = append(args, *filter.Floor)
		where = append(where, fmt.Sprintf("s.floor = $%d", len(args)))
	}
	if filter.Zone != nil {
		args = append(args, strings.ToUpper(*filter.Zone))
		where = append(where, fmt.Sprintf("s.zone = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where = append(where, fmt.Sprintf("s.spot_type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("%s = $%d", derivedStatusSQL, len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.zone, s.floor, s.spot_number"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("failed to list parking spots", err)
	}
	defer rows.Close()

	views := []*readmodel.SpotRM{}
	for rows.Next() {
		view, err := scanSpotView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to read spot rows", err)
	}
	return views, nil
}

func scanSpotView(row pgx.Row) (*readmodel.SpotRM, error) {
	var (
		id                   pgtype.UUID
		spotNumber, zone     string
		floor                int
		spotType, status     string
		rateCents            int64
		maintenance          bool
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &spotNumber, &floor, &zone, &spotType,
		&rateCents, &status, &maintenance, &createdAt, &updatedAt,
	); err != nil {
		return nil, classify("failed to load spot view", err)
	}

	return &readmodel.SpotRM{
		ID:               uuid.UUID(id.Bytes),
		SpotNumber:       spotNumber,
		Floor:            floor,
		Zone:             zone,
		Type:             spotType,
		RateCentsPerHour: rateCents,
		Status:           status,
		Maintenance:      maintenance,
		CreatedAt:        pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:        pgconv.TimeFromPgtype(updatedAt),
	}, nil
}
