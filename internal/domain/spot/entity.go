package spot

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptySpotNumber   = errors.New("spot number cannot be empty")
	ErrSpotNumberTooLong = errors.New("spot number is too long (max 16 characters)")
	ErrEmptyZone         = errors.New("zone cannot be empty")
	ErrInvalidType       = errors.New("invalid spot type")
	ErrNonPositiveRate   = errors.New("hourly rate must be positive")
)

const MaxSpotNumberLength = 16

// Spot is the static catalog entry for a parking spot. Its displayed status
// is derived from the active bookings at query time (DeriveStatus), with the
// maintenance flag as the only manual override.
type Spot struct {
	id          uuid.UUID
	spotNumber  string
	floor       int
	zone        string
	spotType    Type
	rateCents   int64
	maintenance bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSpot(spotNumber string, floor int, zone string, spotType Type, rateCentsPerHour int64) (*Spot, error) {
	spotNumber = strings.ToUpper(strings.TrimSpace(spotNumber))
	if spotNumber == "" {
		return nil, ErrEmptySpotNumber
	}
	if len(spotNumber) > MaxSpotNumberLength {
		return nil, ErrSpotNumberTooLong
	}

	zone = strings.ToUpper(strings.TrimSpace(zone))
	if zone == "" {
		return nil, ErrEmptyZone
	}

	if !spotType.IsValid() {
		return nil, ErrInvalidType
	}

	if rateCentsPerHour <= 0 {
		return nil, ErrNonPositiveRate
	}

	return &Spot{
		id:         uuid.New(),
		spotNumber: spotNumber,
		floor:      floor,
		zone:       zone,
		spotType:   spotType,
		rateCents:  rateCentsPerHour,
	}, nil
}

func ReconstructSpot(
	id uuid.UUID,
	spotNumber string,
	floor int,
	zone string,
	spotType Type,
	rateCentsPerHour int64,
	maintenance bool,
	createdAt, updatedAt time.Time,
) *Spot {
	return &Spot{
		id:          id,
		spotNumber:  spotNumber,
		floor:       floor,
		zone:        zone,
		spotType:    spotType,
		rateCents:   rateCentsPerHour,
		maintenance: maintenance,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *Spot) ID() uuid.UUID           { return s.id }
func (s *Spot) SpotNumber() string      { return s.spotNumber }
func (s *Spot) Floor() int              { return s.floor }
func (s *Spot) Zone() string            { return s.zone }
func (s *Spot) SpotType() Type          { return s.spotType }
func (s *Spot) RateCentsPerHour() int64 { return s.rateCents }
func (s *Spot) UnderMaintenance() bool  { return s.maintenance }
func (s *Spot) CreatedAt() time.Time    { return s.createdAt }
func (s *Spot) UpdatedAt() time.Time    { return s.updatedAt }

// Occupancy is the slice of an active booking that matters for status
// derivation.
type Occupancy struct {
	Start      time.Time
	End        time.Time
	CheckedIn  bool
	CheckedOut bool
}

// DeriveStatus recomputes the spot status from its active bookings:
// occupied when a checked-in, not-yet-checked-out booking contains now;
// reserved when a not-yet-checked-in booking still has time ahead of now;
// available otherwise. Maintenance overrides everything.
func DeriveStatus(underMaintenance bool, now time.Time, active []Occupancy) Status {
	if underMaintenance {
		return StatusMaintenance
	}

	for _, o := range active {
		if o.CheckedIn && !o.CheckedOut && !now.Before(o.Start) && now.Before(o.End) {
			return StatusOccupied
		}
	}
	for _, o := range active {
		if !o.CheckedIn && now.Before(o.End) {
			return StatusReserved
		}
	}
	return StatusAvailable
}
