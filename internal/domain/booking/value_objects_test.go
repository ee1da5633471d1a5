//go:build unit

package booking_test

import (
	"testing"
	"time"

	"smart-parking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func slot(t *testing.T, startOffset, endOffset time.Duration) booking.TimeSlot {
	t.Helper()
	ts, err := booking.NewTimeSlot(base.Add(startOffset), base.Add(endOffset))
	require.NoError(t, err)
	return ts
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("rejects start == end", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base, base)
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})

	t.Run("rejects start after end", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base.Add(time.Hour), base)
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})

	t.Run("accepts ordered interval", func(t *testing.T) {
		ts, err := booking.NewTimeSlot(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, ts.Duration())
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	a := slot(t, 0, 2*time.Hour) // [09:00, 11:00)

	cases := []struct {
		name    string
		other   booking.TimeSlot
		overlap bool
	}{
		{name: "identical", other: slot(t, 0, 2*time.Hour), overlap: true},
		{name: "fully contained", other: slot(t, 30*time.Minute, time.Hour), overlap: true},
		{name: "containing", other: slot(t, -time.Hour, 3*time.Hour), overlap: true},
		{name: "partial overlap left", other: slot(t, -time.Hour, time.Hour), overlap: true},
		{name: "partial overlap right", other: slot(t, time.Hour, 3*time.Hour), overlap: true},
		{name: "touching before is not a conflict", other: slot(t, -time.Hour, 0), overlap: false},
		{name: "touching after is not a conflict", other: slot(t, 2*time.Hour, 3*time.Hour), overlap: false},
		{name: "disjoint", other: slot(t, 5*time.Hour, 6*time.Hour), overlap: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, a.Overlaps(tc.other))
			assert.Equal(t, tc.overlap, tc.other.Overlaps(a))
		})
	}
}

func TestTimeSlotBilledHours(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		hours    int64
	}{
		{name: "61 minutes bills 2 hours", duration: 61 * time.Minute, hours: 2},
		{name: "90 minutes bills 2 hours", duration: 90 * time.Minute, hours: 2},
		{name: "exact hour has no rounding", duration: time.Hour, hours: 1},
		{name: "exact 2 hours has no rounding", duration: 2 * time.Hour, hours: 2},
		{name: "one minute bills 1 hour", duration: time.Minute, hours: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.hours, slot(t, 0, tc.duration).BilledHours())
		})
	}
}

func TestHourlyPriceCalculator(t *testing.T) {
	calc := booking.NewHourlyPriceCalculator()

	// rate 50/hr: 90 minutes bills 2x50, 120 minutes also bills 2x50
	assert.Equal(t, int64(100), calc.PriceCents(slot(t, 0, 90*time.Minute), 50))
	assert.Equal(t, int64(100), calc.PriceCents(slot(t, 0, 120*time.Minute), 50))
	assert.Equal(t, int64(50), calc.PriceCents(slot(t, 0, time.Hour), 50))
}

func TestNewVehicleNumber(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		v, err := booking.NewVehicleNumber("  ka01ab1234 ")
		require.NoError(t, err)
		assert.Equal(t, "KA01AB1234", v.String())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := booking.NewVehicleNumber("   ")
		assert.ErrorIs(t, err, booking.ErrEmptyVehicleNumber)
	})

	t.Run("rejects over-long", func(t *testing.T) {
		_, err := booking.NewVehicleNumber("ABCDEFGHIJKLMNOPQRSTU")
		assert.ErrorIs(t, err, booking.ErrVehicleNumberLong)
	})
}
