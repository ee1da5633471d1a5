package repository

import (
	"context"

	"smart-parking/internal/domain/user"
	"smart-parking/internal/pkg/pgconv"
	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id, name, email, role, phone, vehicle_number,
	is_active, last_login, created_at`

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (
			id, name, email, password_hash, role, phone, vehicle_number,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
		pgconv.UUIDToPgtype(u.ID()),
		u.Name(),
		u.Email().Value(),
		u.PasswordHash(),
		u.Role().String(),
		u.Phone(),
		u.VehicleNumber(),
		u.IsActive(),
	)
	if err != nil {
		return classify("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*readmodel.AuthorizedUserRM, string, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`,
		email.Value(),
	)

	var (
		id                   pgtype.UUID
		name, emailValue     string
		role, phone          string
		vehicleNumber        string
		isActive             bool
		lastLogin, createdAt pgtype.Timestamptz
		passwordHash         string
	)
	if err := row.Scan(
		&id, &name, &emailValue, &role, &phone, &vehicleNumber,
		&isActive, &lastLogin, &createdAt, &passwordHash,
	); err != nil {
		return nil, "", classify("failed to find user by email", err)
	}

	return &readmodel.AuthorizedUserRM{
		ID:            uuid.UUID(id.Bytes),
		Name:          name,
		Email:         emailValue,
		Role:          role,
		Phone:         phone,
		VehicleNumber: vehicleNumber,
		IsActive:      isActive,
		LastLogin:     pgconv.TimePtrFromPgtype(lastLogin),
		CreatedAt:     pgconv.TimeFromPgtype(createdAt),
	}, passwordHash, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	return scanUserView(row)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`,
		pgconv.UUIDToPgtype(userID),
	)
	if err != nil {
		return classify("failed to update last login", err)
	}
	return nil
}

func scanUserView(row pgx.Row) (*readmodel.AuthorizedUserRM, error) {
	var (
		id                   pgtype.UUID
		name, email          string
		role, phone          string
		vehicleNumber        string
		isActive             bool
		lastLogin, createdAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &name, &email, &role, &phone, &vehicleNumber,
		&isActive, &lastLogin, &createdAt,
	); err != nil {
		return nil, classify("failed to load user", err)
	}

	return &readmodel.AuthorizedUserRM{
		ID:            uuid.UUID(id.Bytes),
		Name:          name,
		Email:         email,
		Role:          role,
		Phone:         phone,
		VehicleNumber: vehicleNumber,
		IsActive:      isActive,
		LastLogin:     pgconv.TimePtrFromPgtype(lastLogin),
		CreatedAt:     pgconv.TimeFromPgtype(createdAt),
	}, nil
}
