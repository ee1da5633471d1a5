package booking

// PriceCalculator computes the total price frozen into a booking at creation.
type PriceCalculator interface {
	PriceCents(slot TimeSlot, rateCentsPerHour int64) int64
}

// HourlyPriceCalculator bills whole hours, rounded up.
type HourlyPriceCalculator struct{}

func NewHourlyPriceCalculator() *HourlyPriceCalculator {
	return &HourlyPriceCalculator{}
}

func (pc *HourlyPriceCalculator) PriceCents(slot TimeSlot, rateCentsPerHour int64) int64 {
	return slot.BilledHours() * rateCentsPerHour
}
