package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/spot"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/config"
	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

// Booking lifecycle event names written to the outbox alongside each state
// change.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCheckedIn = "booking.checked_in"
	EventBookingCompleted = "booking.completed"
)

type CreateBookingParams struct {
	SpotID        uuid.UUID
	VehicleNumber string
	StartTime     time.Time
	EndTime       time.Time
}

// BookingRepository is the durable booking store. Create must serialize the
// conflict-check-then-insert sequence per spot against all other writers and
// surface an overlap as KindConflict.
type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking, event string) error
	Update(ctx context.Context, b *booking.Booking, event string) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	HasConflict(ctx context.Context, spotID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) (bool, error)
	GetView(ctx context.Context, id uuid.UUID) (*readmodel.BookingRM, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error)
	ListAll(ctx context.Context) ([]*readmodel.BookingRM, error)
}

type SpotReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error)
}

type BookingUseCase interface {
	CreateBooking(ctx context.Context, actor Actor, params CreateBookingParams) (*readmodel.BookingRM, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) error
	CheckIn(ctx context.Context, actor Actor, bookingID uuid.UUID) error
	CheckOut(ctx context.Context, actor Actor, bookingID uuid.UUID) error
	GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*readmodel.BookingRM, error)
	ListUserBookings(ctx context.Context, actor Actor) ([]*readmodel.BookingRM, error)
	ListAllBookings(ctx context.Context, actor Actor) ([]*readmodel.BookingRM, error)
}

type bookingUseCaseImpl struct {
	bookingRepo BookingRepository
	spotRepo    SpotReader
	services    *booking.Services
	policy      booking.CheckInPolicy
	retries     int
	backoff     time.Duration
	clock       clock.Clock
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	spotRepo SpotReader,
	services *booking.Services,
	cfg config.BookingConfig,
) BookingUseCase {
	return &bookingUseCaseImpl{
		bookingRepo: bookingRepo,
		spotRepo:    spotRepo,
		services:    services,
		policy: booking.CheckInPolicy{
			Grace:     cfg.CheckInGrace,
			AllowLate: cfg.AllowLateCheckIn,
		},
		retries: cfg.CreateRetries,
		backoff: cfg.RetryBackoff,
		clock:   services.Clock,
	}
}

func (u *bookingUseCaseImpl) CreateBooking(
	ctx context.Context,
	actor Actor,
	params CreateBookingParams,
) (*readmodel.BookingRM, error) {
	spotEntity, err := u.spotRepo.FindByID(ctx, params.SpotID)
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrSpotNotFound)
	}

	vehicle, err := booking.NewVehicleNumber(params.VehicleNumber)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	slot, err := booking.NewTimeSlot(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	entity, err := booking.NewBooking(u.services, spotEntity.ID(), actor.ID, vehicle, slot, spotEntity.RateCentsPerHour())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	// Fast pre-check before taking the per-spot lock; the repository repeats
	// the check atomically inside Create.
	conflict, err := u.bookingRepo.HasConflict(ctx, entity.SpotID(), slot.Start(), slot.End(), nil)
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrBookingNotFound)
	}
	if conflict {
		return nil, errs.ErrBookingConflict
	}

	if err := u.createWithRetry(ctx, entity); err != nil {
		return nil, err
	}

	view, err := u.bookingRepo.GetView(ctx, entity.ID())
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrBookingNotFound)
	}
	return view, nil
}

// createWithRetry retries the atomic check-and-persist step on transient
// serialization failures only; logical conflicts and validation failures are
// surfaced immediately without retry.
func (u *bookingUseCaseImpl) createWithRetry(ctx context.Context, entity *booking.Booking) error {
	var lastErr error
	for attempt := 0; attempt <= u.retries; attempt++ {
		if attempt > 0 {
			backoff := u.backoff * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return errs.Mark(ctx.Err(), errs.ErrTimeout)
			case <-time.After(backoff):
			}
			slog.Warn("retrying booking create after serialization failure",
				"booking_id", entity.ID(), "attempt", attempt)
		}

		err := u.bookingRepo.Create(ctx, entity, EventBookingCreated)
		switch {
		case err == nil:
			return nil
		case infra.IsKind(err, infra.KindConflict):
			return errs.ErrBookingConflict
		case infra.IsKind(err, infra.KindSerialization):
			lastErr = err
			continue
		default:
			return mapRepoErr(err, errs.ErrBookingNotFound)
		}
	}
	// Exhausted retries: a competing writer kept winning the spot.
	return errs.Mark(lastErr, errs.ErrBookingConflict)
}

func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) error {
	entity, err := u.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return err
	}

	if err := entity.Cancel(); err != nil {
		return errs.Mark(err, errs.ErrInvalidState)
	}

	return u.persistTransition(ctx, entity, EventBookingCancelled)
}

func (u *bookingUseCaseImpl) CheckIn(ctx context.Context, actor Actor, bookingID uuid.UUID) error {
	entity, err := u.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return err
	}

	if err := entity.CheckIn(u.clock.Now(), u.policy); err != nil {
		return errs.Mark(err, errs.ErrInvalidState)
	}

	return u.persistTransition(ctx, entity, EventBookingCheckedIn)
}

func (u *bookingUseCaseImpl) CheckOut(ctx context.Context, actor Actor, bookingID uuid.UUID) error {
	entity, err := u.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return err
	}

	if err := entity.CheckOut(u.clock.Now()); err != nil {
		return errs.Mark(err, errs.ErrInvalidState)
	}

	return u.persistTransition(ctx, entity, EventBookingCompleted)
}

func (u *bookingUseCaseImpl) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*readmodel.BookingRM, error) {
	view, err := u.bookingRepo.GetView(ctx, bookingID)
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrBookingNotFound)
	}
	if !actor.CanManage(view.UserID) {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (u *bookingUseCaseImpl) ListUserBookings(ctx context.Context, actor Actor) ([]*readmodel.BookingRM, error) {
	views, err := u.bookingRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrBookingNotFound)
	}
	return views, nil
}

func (u *bookingUseCaseImpl) ListAllBookings(ctx context.Context, actor Actor) ([]*readmodel.BookingRM, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	views, err := u.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrBookingNotFound)
	}
	return views, nil
}

func (u *bookingUseCaseImpl) loadOwned(ctx context.Context, actor Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	entity, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrBookingNotFound)
	}
	if !actor.CanManage(entity.UserID()) {
		return nil, errs.ErrForbidden
	}
	return entity, nil
}

func (u *bookingUseCaseImpl) persistTransition(ctx context.Context, entity *booking.Booking, event string) error {
	if err := u.bookingRepo.Update(ctx, entity, event); err != nil {
		return mapRepoErr(err, errs.ErrBookingNotFound)
	}
	return nil
}

// mapRepoErr translates repository error kinds into the caller-facing
// sentinels. notFound names the sentinel for KindNotFound since it differs
// per aggregate.
func mapRepoErr(err error, notFound error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return notFound
	case infra.IsKind(err, infra.KindConflict):
		return errs.ErrBookingConflict
	case infra.IsKind(err, infra.KindTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return errs.Mark(err, errs.ErrTimeout)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
