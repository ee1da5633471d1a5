package booking

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidTimeSlot    = errors.New("start time must be before end time")
	ErrStartInPast        = errors.New("start time cannot be in the past")
	ErrEmptyVehicleNumber = errors.New("vehicle number cannot be empty")
	ErrVehicleNumberLong  = errors.New("vehicle number is too long (max 20 characters)")
	ErrNegativePrice      = errors.New("price cannot be negative")
)

const MaxVehicleNumberLength = 20

// TimeSlot is a half-open interval [start, end). Two slots overlap iff
// a.start < b.end && b.start < a.end, so touching slots do not conflict.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// BilledHours rounds the duration up to whole hours: a 61 minute slot bills
// as 2 hours, an exact 120 minute slot as 2.
func (ts TimeSlot) BilledHours() int64 {
	d := ts.Duration()
	hours := d / time.Hour
	if d%time.Hour != 0 {
		hours++
	}
	return int64(hours)
}

func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

func (ts TimeSlot) Contains(t time.Time) bool {
	return !t.Before(ts.start) && t.Before(ts.end)
}

func (ts TimeSlot) ValidateNotPast(now time.Time) error {
	if ts.start.Before(now) {
		return ErrStartInPast
	}
	return nil
}

type VehicleNumber struct {
	value string
}

func NewVehicleNumber(s string) (VehicleNumber, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return VehicleNumber{}, ErrEmptyVehicleNumber
	}
	if len(s) > MaxVehicleNumberLength {
		return VehicleNumber{}, ErrVehicleNumberLong
	}
	return VehicleNumber{value: s}, nil
}

func (v VehicleNumber) String() string {
	return v.value
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}
