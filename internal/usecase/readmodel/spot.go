package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// SpotRM carries the catalog fields plus the status derived from active
// bookings at query time. Status is never persisted.
type SpotRM struct {
	ID               uuid.UUID
	SpotNumber       string
	Floor            int
	Zone             string
	Type             string
	RateCentsPerHour int64
	Status           string
	Maintenance      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
