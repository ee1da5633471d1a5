//go:build unit

package booking_test

import (
	"testing"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(now time.Time) (*booking.Services, *clock.MockClock) {
	mock := clock.NewMockClock(now)
	return &booking.Services{
		Clock:           mock,
		PriceCalculator: booking.NewHourlyPriceCalculator(),
	}, mock
}

func newActiveBooking(t *testing.T, services *booking.Services) *booking.Booking {
	t.Helper()
	vehicle, err := booking.NewVehicleNumber("KA01AB1234")
	require.NoError(t, err)
	b, err := booking.NewBooking(services, uuid.New(), uuid.New(), vehicle, slot(t, 0, time.Hour), 100)
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("freezes duration and price at creation", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Hour))
		vehicle, err := booking.NewVehicleNumber("KA01AB1234")
		require.NoError(t, err)

		b, err := booking.NewBooking(services, uuid.New(), uuid.New(), vehicle, slot(t, 0, 90*time.Minute), 50)
		require.NoError(t, err)

		assert.Equal(t, booking.StatusActive, b.Status())
		assert.Equal(t, int64(2), b.DurationHours())
		assert.Equal(t, int64(100), b.Price().Cents())
		assert.Nil(t, b.CheckInAt())
		assert.Nil(t, b.CheckOutAt())
	})

	t.Run("rejects start in the past", func(t *testing.T) {
		services, _ := newServices(base.Add(time.Minute))
		vehicle, err := booking.NewVehicleNumber("KA01AB1234")
		require.NoError(t, err)

		_, err = booking.NewBooking(services, uuid.New(), uuid.New(), vehicle, slot(t, 0, time.Hour), 50)
		assert.ErrorIs(t, err, booking.ErrStartInPast)
	})
}

func TestBookingStateMachine(t *testing.T) {
	policy := booking.CheckInPolicy{Grace: 0, AllowLate: true}

	t.Run("check-out before check-in fails", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Minute))
		b := newActiveBooking(t, services)

		err := b.CheckOut(base.Add(30 * time.Minute))
		assert.ErrorIs(t, err, booking.ErrNotCheckedIn)
		assert.Equal(t, booking.StatusActive, b.Status())
	})

	t.Run("check-in then check-out completes", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Minute))
		b := newActiveBooking(t, services)

		require.NoError(t, b.CheckIn(base.Add(5*time.Minute), policy))
		assert.Equal(t, booking.StatusActive, b.Status())
		require.NotNil(t, b.CheckInAt())

		require.NoError(t, b.CheckOut(base.Add(58*time.Minute)))
		assert.Equal(t, booking.StatusCompleted, b.Status())
		require.NotNil(t, b.CheckOutAt())
	})

	t.Run("second check-in fails", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Minute))
		b := newActiveBooking(t, services)

		require.NoError(t, b.CheckIn(base.Add(5*time.Minute), policy))
		err := b.CheckIn(base.Add(10*time.Minute), policy)
		assert.ErrorIs(t, err, booking.ErrAlreadyCheckedIn)
	})

	t.Run("early check-in disallowed without grace", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Hour))
		b := newActiveBooking(t, services)

		err := b.CheckIn(base.Add(-10*time.Minute), policy)
		assert.ErrorIs(t, err, booking.ErrCheckInTooEarly)
	})

	t.Run("grace window admits early check-in", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Hour))
		b := newActiveBooking(t, services)

		graced := booking.CheckInPolicy{Grace: 15 * time.Minute, AllowLate: true}
		assert.NoError(t, b.CheckIn(base.Add(-10*time.Minute), graced))
	})

	t.Run("late check-in honours policy", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Minute))
		b := newActiveBooking(t, services)

		strict := booking.CheckInPolicy{Grace: 0, AllowLate: false}
		err := b.CheckIn(base.Add(2*time.Hour), strict)
		assert.ErrorIs(t, err, booking.ErrCheckInTooLate)

		assert.NoError(t, b.CheckIn(base.Add(2*time.Hour), policy))
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Minute))
		b := newActiveBooking(t, services)

		require.NoError(t, b.Cancel())
		assert.Equal(t, booking.StatusCancelled, b.Status())

		assert.ErrorIs(t, b.Cancel(), booking.ErrNotActive)
		assert.ErrorIs(t, b.CheckIn(base, policy), booking.ErrNotActive)
		assert.ErrorIs(t, b.CheckOut(base), booking.ErrNotActive)
	})

	t.Run("cancel after completion fails", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Minute))
		b := newActiveBooking(t, services)

		require.NoError(t, b.CheckIn(base.Add(5*time.Minute), policy))
		require.NoError(t, b.CheckOut(base.Add(50*time.Minute)))
		assert.ErrorIs(t, b.Cancel(), booking.ErrNotActive)
	})

	t.Run("double check-out fails", func(t *testing.T) {
		services, _ := newServices(base.Add(-time.Minute))
		b := newActiveBooking(t, services)

		require.NoError(t, b.CheckIn(base.Add(5*time.Minute), policy))
		require.NoError(t, b.CheckOut(base.Add(50*time.Minute)))
		assert.ErrorIs(t, b.CheckOut(base.Add(55*time.Minute)), booking.ErrNotActive)
	})
}
