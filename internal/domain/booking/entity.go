package booking

import (
	"errors"
	"time"

	"smart-parking/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrNotActive         = errors.New("booking is not active")
	ErrAlreadyCheckedIn  = errors.New("booking is already checked in")
	ErrNotCheckedIn      = errors.New("booking has not been checked in")
	ErrAlreadyCheckedOut = errors.New("booking is already checked out")
	ErrCheckInTooEarly   = errors.New("check-in attempted before the booking window")
	ErrCheckInTooLate    = errors.New("check-in attempted after the booking window")
)

type Services struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

// CheckInPolicy controls how far before start_time check-in is accepted and
// whether check-in past end_time is accepted at all.
type CheckInPolicy struct {
	Grace     time.Duration
	AllowLate bool
}

// Booking is the append-only reservation record. Cancellation and completion
// are status transitions; a booking is never deleted.
type Booking struct {
	id            uuid.UUID
	spotID        uuid.UUID
	userID        uuid.UUID
	vehicleNumber VehicleNumber
	slot          TimeSlot
	durationHours int64
	price         Money
	status        Status
	checkInAt     *time.Time
	checkOutAt    *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewBooking(
	services *Services,
	spotID, userID uuid.UUID,
	vehicle VehicleNumber,
	slot TimeSlot,
	rateCentsPerHour int64,
) (*Booking, error) {
	if err := slot.ValidateNotPast(services.Clock.Now()); err != nil {
		return nil, err
	}

	hours := slot.BilledHours()
	price, err := NewMoney(services.PriceCalculator.PriceCents(slot, rateCentsPerHour))
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:            uuid.New(),
		spotID:        spotID,
		userID:        userID,
		vehicleNumber: vehicle,
		slot:          slot,
		durationHours: hours,
		price:         price,
		status:        StatusActive,
	}, nil
}

func ReconstructBooking(
	id, spotID, userID uuid.UUID,
	vehicle VehicleNumber,
	slot TimeSlot,
	durationHours int64,
	price Money,
	status Status,
	checkInAt, checkOutAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		spotID:        spotID,
		userID:        userID,
		vehicleNumber: vehicle,
		slot:          slot,
		durationHours: durationHours,
		price:         price,
		status:        status,
		checkInAt:     checkInAt,
		checkOutAt:    checkOutAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Cancel transitions active -> cancelled. Retrying an already-cancelled
// booking surfaces ErrNotActive; the caller decides whether that counts as
// "already done".
func (b *Booking) Cancel() error {
	if b.status != StatusActive {
		return ErrNotActive
	}
	b.status = StatusCancelled
	return nil
}

// CheckIn stamps the check-in time. Status stays active until check-out.
func (b *Booking) CheckIn(now time.Time, policy CheckInPolicy) error {
	if b.status != StatusActive {
		return ErrNotActive
	}
	if b.checkInAt != nil {
		return ErrAlreadyCheckedIn
	}
	if now.Before(b.slot.Start().Add(-policy.Grace)) {
		return ErrCheckInTooEarly
	}
	if !policy.AllowLate && !now.Before(b.slot.End()) {
		return ErrCheckInTooLate
	}
	t := now
	b.checkInAt = &t
	return nil
}

// CheckOut transitions active -> completed. Requires a prior check-in.
func (b *Booking) CheckOut(now time.Time) error {
	if b.status != StatusActive {
		return ErrNotActive
	}
	if b.checkInAt == nil {
		return ErrNotCheckedIn
	}
	if b.checkOutAt != nil {
		return ErrAlreadyCheckedOut
	}
	t := now
	b.checkOutAt = &t
	b.status = StatusCompleted
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status == StatusActive
}

func (b *Booking) BelongsTo(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) SpotID() uuid.UUID            { return b.spotID }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) VehicleNumber() VehicleNumber { return b.vehicleNumber }
func (b *Booking) Slot() TimeSlot               { return b.slot }
func (b *Booking) DurationHours() int64         { return b.durationHours }
func (b *Booking) Price() Money                 { return b.price }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) CheckInAt() *time.Time        { return b.checkInAt }
func (b *Booking) CheckOutAt() *time.Time       { return b.checkOutAt }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
