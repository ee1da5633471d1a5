package response

import (
	"time"

	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type SpotResponse struct {
	ID               uuid.UUID `json:"id"`
	SpotNumber       string    `json:"spotNumber"`
	Floor            int       `json:"floor"`
	Zone             string    `json:"zone"`
	Type             string    `json:"type"`
	RateCentsPerHour int64     `json:"rateCentsPerHour"`
	Status           string    `json:"status"`
	Maintenance      bool      `json:"maintenance"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func FromSpotView(rm *readmodel.SpotRM) *SpotResponse {
	return &SpotResponse{
		ID:               rm.ID,
		SpotNumber:       rm.SpotNumber,
		Floor:            rm.Floor,
		Zone:             rm.Zone,
		Type:             rm.Type,
		RateCentsPerHour: rm.RateCentsPerHour,
		Status:           rm.Status,
		Maintenance:      rm.Maintenance,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromSpotViews(rms []*readmodel.SpotRM) []*SpotResponse {
	out := make([]*SpotResponse, len(rms))
	for i, rm := range rms {
		out[i] = FromSpotView(rm)
	}
	return out
}
