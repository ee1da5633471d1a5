package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// BookingRM is the booking representation served to clients, joined with the
// spot and owner the way the original dashboards consumed it.
type BookingRM struct {
	ID            uuid.UUID
	SpotID        uuid.UUID
	SpotNumber    string
	UserID        uuid.UUID
	UserName      string
	UserEmail     string
	VehicleNumber string
	StartTime     time.Time
	EndTime       time.Time
	DurationHours int64
	PriceCents    int64
	Status        string
	CheckInAt     *time.Time
	CheckOutAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
