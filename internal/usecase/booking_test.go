//go:build unit

package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/spot"
	"smart-parking/internal/domain/user"
	"smart-parking/internal/infra/memstore"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/config"
	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type bookingFixture struct {
	store  *memstore.Store
	clk    *clock.MockClock
	uc     usecase.BookingUseCase
	spotID uuid.UUID
	driver usecase.Actor
	admin  usecase.Actor
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	clk := clock.NewMockClock(baseTime)
	store := memstore.New(clk)

	sp, err := spot.NewSpot("A-101", 1, "a", spot.TypeRegular, 500)
	require.NoError(t, err)
	require.NoError(t, store.Spots().Create(context.Background(), sp))

	services := &booking.Services{
		Clock:           clk,
		PriceCalculator: booking.NewHourlyPriceCalculator(),
	}
	uc := usecase.NewBookingUseCase(store, store.Spots(), services, config.BookingConfig{
		CheckInGrace:     0,
		AllowLateCheckIn: true,
		CreateRetries:    3,
		RetryBackoff:     time.Millisecond,
	})

	return &bookingFixture{
		store:  store,
		clk:    clk,
		uc:     uc,
		spotID: sp.ID(),
		driver: usecase.Actor{ID: uuid.New(), Role: user.RoleDriver},
		admin:  usecase.Actor{ID: uuid.New(), Role: user.RoleAdmin},
	}
}

func (f *bookingFixture) params(startOffset, endOffset time.Duration) usecase.CreateBookingParams {
	return usecase.CreateBookingParams{
		SpotID:        f.spotID,
		VehicleNumber: "KA01AB1234",
		StartTime:     baseTime.Add(startOffset),
		EndTime:       baseTime.Add(endOffset),
	}
}

func (f *bookingFixture) create(t *testing.T, startOffset, endOffset time.Duration) uuid.UUID {
	t.Helper()
	view, err := f.uc.CreateBooking(context.Background(), f.driver, f.params(startOffset, endOffset))
	require.NoError(t, err)
	return view.ID
}

func TestCreateBooking(t *testing.T) {
	t.Run("freezes duration and price at creation", func(t *testing.T) {
		f := newBookingFixture(t)

		view, err := f.uc.CreateBooking(context.Background(), f.driver, f.params(time.Hour, 3*time.Hour+30*time.Minute))
		require.NoError(t, err)

		assert.Equal(t, "active", view.Status)
		assert.Equal(t, "A-101", view.SpotNumber)
		assert.Equal(t, int64(3), view.DurationHours)
		assert.Equal(t, int64(1500), view.PriceCents)
		assert.Nil(t, view.CheckInAt)

		events := f.store.Events()
		require.Len(t, events, 1)
		assert.Equal(t, usecase.EventBookingCreated, events[0].Kind)
		assert.Equal(t, view.ID, events[0].BookingID)
	})

	t.Run("rejects an overlapping interval on the same spot", func(t *testing.T) {
		f := newBookingFixture(t)
		f.create(t, time.Hour, 3*time.Hour)

		other := usecase.Actor{ID: uuid.New(), Role: user.RoleDriver}
		_, err := f.uc.CreateBooking(context.Background(), other, f.params(2*time.Hour, 4*time.Hour))
		assert.ErrorIs(t, err, errs.ErrBookingConflict)
	})

	t.Run("accepts a booking starting exactly when another ends", func(t *testing.T) {
		f := newBookingFixture(t)
		f.create(t, time.Hour, 3*time.Hour)

		_, err := f.uc.CreateBooking(context.Background(), f.driver, f.params(3*time.Hour, 5*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("rejects a start time in the past", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.uc.CreateBooking(context.Background(), f.driver, f.params(-time.Hour, time.Hour))
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rejects an empty vehicle number", func(t *testing.T) {
		f := newBookingFixture(t)
		params := f.params(time.Hour, 2*time.Hour)
		params.VehicleNumber = "   "

		_, err := f.uc.CreateBooking(context.Background(), f.driver, params)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rejects an unknown spot", func(t *testing.T) {
		f := newBookingFixture(t)
		params := f.params(time.Hour, 2*time.Hour)
		params.SpotID = uuid.New()

		_, err := f.uc.CreateBooking(context.Background(), f.driver, params)
		assert.ErrorIs(t, err, errs.ErrSpotNotFound)
	})
}

func TestCreateBookingConcurrent(t *testing.T) {
	t.Run("exactly one of many racing writers wins the slot", func(t *testing.T) {
		f := newBookingFixture(t)
		const writers = 16

		results := make([]error, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				actor := usecase.Actor{ID: uuid.New(), Role: user.RoleDriver}
				_, err := f.uc.CreateBooking(context.Background(), actor, f.params(time.Hour, 3*time.Hour))
				results[i] = err
			}(i)
		}
		wg.Wait()

		var won, lost int
		for _, err := range results {
			switch {
			case err == nil:
				won++
			case assert.ErrorIs(t, err, errs.ErrBookingConflict):
				lost++
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, writers-1, lost)

		views, err := f.uc.ListAllBookings(context.Background(), f.admin)
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})
}

func TestBookingLifecycle(t *testing.T) {
	t.Run("check-in then check-out completes the booking", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		f.clk.Add(time.Hour)
		require.NoError(t, f.uc.CheckIn(ctx, f.driver, id))

		f.clk.Add(time.Hour)
		require.NoError(t, f.uc.CheckOut(ctx, f.driver, id))

		view, err := f.uc.GetBooking(ctx, f.driver, id)
		require.NoError(t, err)
		assert.Equal(t, "completed", view.Status)
		require.NotNil(t, view.CheckInAt)
		require.NotNil(t, view.CheckOutAt)
		assert.Equal(t, baseTime.Add(time.Hour), *view.CheckInAt)
		assert.Equal(t, baseTime.Add(2*time.Hour), *view.CheckOutAt)

		kinds := []string{}
		for _, e := range f.store.Events() {
			kinds = append(kinds, e.Kind)
		}
		assert.Equal(t, []string{
			usecase.EventBookingCreated,
			usecase.EventBookingCheckedIn,
			usecase.EventBookingCompleted,
		}, kinds)
	})

	t.Run("check-out before check-in fails", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.create(t, time.Hour, 3*time.Hour)

		f.clk.Add(time.Hour)
		err := f.uc.CheckOut(context.Background(), f.driver, id)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("check-in before the window fails without grace", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.create(t, time.Hour, 3*time.Hour)

		err := f.uc.CheckIn(context.Background(), f.driver, id)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("double check-in fails", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		f.clk.Add(time.Hour)
		require.NoError(t, f.uc.CheckIn(ctx, f.driver, id))
		assert.ErrorIs(t, f.uc.CheckIn(ctx, f.driver, id), errs.ErrInvalidState)
	})

	t.Run("completed booking frees the slot for rebooking", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		f.clk.Add(time.Hour)
		require.NoError(t, f.uc.CheckIn(ctx, f.driver, id))
		require.NoError(t, f.uc.CheckOut(ctx, f.driver, id))

		_, err := f.uc.CreateBooking(ctx, f.driver, f.params(time.Hour+30*time.Minute, 3*time.Hour))
		assert.NoError(t, err)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("owner cancels an active booking", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		require.NoError(t, f.uc.CancelBooking(ctx, f.driver, id))

		view, err := f.uc.GetBooking(ctx, f.driver, id)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", view.Status)
	})

	t.Run("cancelled booking frees the slot", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		require.NoError(t, f.uc.CancelBooking(ctx, f.driver, id))

		_, err := f.uc.CreateBooking(ctx, f.driver, f.params(time.Hour, 3*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("cancel is not repeatable", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		require.NoError(t, f.uc.CancelBooking(ctx, f.driver, id))
		assert.ErrorIs(t, f.uc.CancelBooking(ctx, f.driver, id), errs.ErrInvalidState)
	})

	t.Run("cancel after completion fails", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		f.clk.Add(time.Hour)
		require.NoError(t, f.uc.CheckIn(ctx, f.driver, id))
		require.NoError(t, f.uc.CheckOut(ctx, f.driver, id))

		assert.ErrorIs(t, f.uc.CancelBooking(ctx, f.driver, id), errs.ErrInvalidState)
	})

	t.Run("another driver cannot touch the booking", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		id := f.create(t, time.Hour, 3*time.Hour)

		stranger := usecase.Actor{ID: uuid.New(), Role: user.RoleDriver}
		assert.ErrorIs(t, f.uc.CancelBooking(ctx, stranger, id), errs.ErrForbidden)
		_, err := f.uc.GetBooking(ctx, stranger, id)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("admin can cancel on behalf of the owner", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.create(t, time.Hour, 3*time.Hour)

		assert.NoError(t, f.uc.CancelBooking(context.Background(), f.admin, id))
	})

	t.Run("unknown booking id", func(t *testing.T) {
		f := newBookingFixture(t)

		err := f.uc.CancelBooking(context.Background(), f.driver, uuid.New())
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

func TestListBookings(t *testing.T) {
	t.Run("drivers see only their own bookings", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		f.create(t, time.Hour, 2*time.Hour)

		other := usecase.Actor{ID: uuid.New(), Role: user.RoleDriver}
		_, err := f.uc.CreateBooking(ctx, other, f.params(2*time.Hour, 3*time.Hour))
		require.NoError(t, err)

		mine, err := f.uc.ListUserBookings(ctx, f.driver)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("newest booking comes first", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()

		first := f.create(t, time.Hour, 2*time.Hour)
		f.clk.Set(baseTime.Add(time.Minute))
		second := f.create(t, 2*time.Hour, 3*time.Hour)

		mine, err := f.uc.ListUserBookings(ctx, f.driver)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, second, mine[0].ID)
		assert.Equal(t, first, mine[1].ID)
	})

	t.Run("listing all bookings is admin only", func(t *testing.T) {
		f := newBookingFixture(t)
		ctx := context.Background()
		f.create(t, time.Hour, 2*time.Hour)

		_, err := f.uc.ListAllBookings(ctx, f.driver)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		all, err := f.uc.ListAllBookings(ctx, f.admin)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
