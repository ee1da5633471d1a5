package request

import (
	"time"

	"smart-parking/internal/usecase"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SpotID        uuid.UUID `json:"spot_id" binding:"required"`
	VehicleNumber string    `json:"vehicle_number" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
}

func (r *CreateBookingRequest) ToParams() usecase.CreateBookingParams {
	return usecase.CreateBookingParams{
		SpotID:        r.SpotID,
		VehicleNumber: r.VehicleNumber,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
	}
}
