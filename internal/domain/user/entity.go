package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User entity. Drivers self-register; admins are provisioned out of band.
type User struct {
	id            uuid.UUID
	name          string
	email         Email
	passwordHash  string
	role          Role
	phone         string
	vehicleNumber string
	lastLogin     *time.Time
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewUser(name string, email Email, passwordHash string, role Role, phone, vehicleNumber string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &User{
		id:            uuid.New(),
		name:          name,
		email:         email,
		passwordHash:  passwordHash,
		role:          role,
		phone:         strings.TrimSpace(phone),
		vehicleNumber: strings.ToUpper(strings.TrimSpace(vehicleNumber)),
		isActive:      true,
	}, nil
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Name() string          { return u.name }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) Phone() string         { return u.phone }
func (u *User) VehicleNumber() string { return u.vehicleNumber }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
