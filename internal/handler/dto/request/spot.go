package request

import (
	"strconv"

	"smart-parking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CreateSpotRequest struct {
	SpotNumber       string `json:"spot_number" binding:"required"`
	Floor            int    `json:"floor"`
	Zone             string `json:"zone" binding:"required"`
	Type             string `json:"type" binding:"required"`
	RateCentsPerHour int64  `json:"rate_cents_per_hour" binding:"required,gt=0"`
}

func (r *CreateSpotRequest) ToParams() usecase.CreateSpotParams {
	return usecase.CreateSpotParams{
		SpotNumber:       r.SpotNumber,
		Floor:            r.Floor,
		Zone:             r.Zone,
		Type:             r.Type,
		RateCentsPerHour: r.RateCentsPerHour,
	}
}

type UpdateSpotRequest struct {
	SpotNumber       string `json:"spot_number" binding:"required"`
	Floor            int    `json:"floor"`
	Zone             string `json:"zone" binding:"required"`
	Type             string `json:"type" binding:"required"`
	RateCentsPerHour int64  `json:"rate_cents_per_hour" binding:"required,gt=0"`
	Maintenance      bool   `json:"maintenance"`
}

func (r *UpdateSpotRequest) ToParams() usecase.UpdateSpotParams {
	return usecase.UpdateSpotParams{
		SpotNumber:       r.SpotNumber,
		Floor:            r.Floor,
		Zone:             r.Zone,
		Type:             r.Type,
		RateCentsPerHour: r.RateCentsPerHour,
		Maintenance:      r.Maintenance,
	}
}

// SpotFilterFromQuery reads the optional catalog filters off the query
// string; absent parameters stay nil and are ignored downstream.
func SpotFilterFromQuery(c *gin.Context) usecase.SpotFilter {
	filter := usecase.SpotFilter{}
	if v, ok := c.GetQuery("status"); ok {
		filter.Status = &v
	}
	if v, ok := c.GetQuery("zone"); ok {
		filter.Zone = &v
	}
	if v, ok := c.GetQuery("type"); ok {
		filter.Type = &v
	}
	if v, ok := c.GetQuery("floor"); ok {
		if floor, err := strconv.Atoi(v); err == nil {
			filter.Floor = &floor
		}
	}
	return filter
}
