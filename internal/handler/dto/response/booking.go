package response

import (
	"time"

	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	SpotID        uuid.UUID  `json:"spotId"`
	SpotNumber    string     `json:"spotNumber"`
	UserID        uuid.UUID  `json:"userId"`
	UserName      string     `json:"userName"`
	UserEmail     string     `json:"userEmail"`
	VehicleNumber string     `json:"vehicleNumber"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	DurationHours int64      `json:"durationHours"`
	PriceCents    int64      `json:"priceCents"`
	Status        string     `json:"status"`
	CheckInAt     *time.Time `json:"checkInAt,omitempty"`
	CheckOutAt    *time.Time `json:"checkOutAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func FromBookingView(rm *readmodel.BookingRM) *BookingResponse {
	return &BookingResponse{
		ID:            rm.ID,
		SpotID:        rm.SpotID,
		SpotNumber:    rm.SpotNumber,
		UserID:        rm.UserID,
		UserName:      rm.UserName,
		UserEmail:     rm.UserEmail,
		VehicleNumber: rm.VehicleNumber,
		StartTime:     rm.StartTime,
		EndTime:       rm.EndTime,
		DurationHours: rm.DurationHours,
		PriceCents:    rm.PriceCents,
		Status:        rm.Status,
		CheckInAt:     rm.CheckInAt,
		CheckOutAt:    rm.CheckOutAt,
		CreatedAt:     rm.CreatedAt,
		UpdatedAt:     rm.UpdatedAt,
	}
}

func FromBookingViews(rms []*readmodel.BookingRM) []*BookingResponse {
	out := make([]*BookingResponse, len(rms))
	for i, rm := range rms {
		out[i] = FromBookingView(rm)
	}
	return out
}
