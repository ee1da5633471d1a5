//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"smart-parking/internal/domain/user"
	resdto "smart-parking/internal/handler/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createSpotBody(number string) map[string]any {
	return map[string]any{
		"spot_number":         number,
		"floor":               2,
		"zone":                "b",
		"type":                "compact",
		"rate_cents_per_hour": 300,
	}
}

func TestSpotAdminEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	_, adminToken := f.seedUser("Admin", "admin@example.com", user.RoleAdmin)
	_, driverToken := f.seedUser("Dana Driver", "dana@example.com", user.RoleDriver)

	var spotID uuid.UUID

	t.Run("admin creates a spot with normalized identifiers", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/parking-spots", createSpotBody("b-042"), adminToken)
		requireStatus(t, rec, http.StatusCreated)

		body := decodeBody[resdto.SpotResponse](t, rec)
		require.Equal(t, "B-042", body.SpotNumber)
		require.Equal(t, "B", body.Zone)
		require.Equal(t, "compact", body.Type)
		require.Equal(t, "available", body.Status)
		spotID = body.ID
	})

	t.Run("driver cannot create spots", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/parking-spots", createSpotBody("B-043"), driverToken)
		requireStatus(t, rec, http.StatusForbidden)
	})

	t.Run("duplicate spot number conflicts", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/parking-spots", createSpotBody("B-042"), adminToken)
		requireStatus(t, rec, http.StatusConflict)
		require.Equal(t, "conflict", errorKind(t, rec))
	})

	t.Run("unknown spot type is a validation error", func(t *testing.T) {
		body := createSpotBody("B-044")
		body["type"] = "motorcycle"
		rec := f.do(http.MethodPost, "/api/parking-spots", body, adminToken)
		requireStatus(t, rec, http.StatusBadRequest)
		require.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("update toggles maintenance and the derived status follows", func(t *testing.T) {
		body := createSpotBody("B-042")
		body["maintenance"] = true
		rec := f.do(http.MethodPut, "/api/parking-spots/"+spotID.String(), body, adminToken)
		requireStatus(t, rec, http.StatusOK)
		require.Equal(t, "maintenance", decodeBody[resdto.SpotResponse](t, rec).Status)
	})

	t.Run("update of an unknown spot is not found", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/api/parking-spots/"+uuid.NewString(), createSpotBody("B-042"), adminToken)
		requireStatus(t, rec, http.StatusNotFound)
	})

	t.Run("admin deletes an unused spot", func(t *testing.T) {
		rec := f.do(http.MethodDelete, "/api/parking-spots/"+spotID.String(), nil, adminToken)
		requireStatus(t, rec, http.StatusNoContent)
	})
}

func TestSpotCatalogEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	_, driverToken := f.seedUser("Dana Driver", "dana@example.com", user.RoleDriver)

	spotA := f.seedSpot("A-101", 500)
	f.seedSpot("A-102", 500)

	start := baseTime.Add(time.Hour)
	rec := f.do(http.MethodPost, "/api/bookings", createBookingBody(spotA, start, start.Add(time.Hour)), driverToken)
	requireStatus(t, rec, http.StatusCreated)

	t.Run("lists every spot", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/parking-spots", nil, driverToken)
		requireStatus(t, rec, http.StatusOK)
		require.Len(t, decodeBody[[]resdto.SpotResponse](t, rec), 2)
	})

	t.Run("available listing excludes the reserved spot", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/parking-spots/available", nil, driverToken)
		requireStatus(t, rec, http.StatusOK)

		spots := decodeBody[[]resdto.SpotResponse](t, rec)
		require.Len(t, spots, 1)
		require.Equal(t, "A-102", spots[0].SpotNumber)
	})

	t.Run("status filter sees the reservation", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/parking-spots?status=reserved", nil, driverToken)
		requireStatus(t, rec, http.StatusOK)

		spots := decodeBody[[]resdto.SpotResponse](t, rec)
		require.Len(t, spots, 1)
		require.Equal(t, spotA, spots[0].ID)
	})

	t.Run("get by id returns the derived status", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/parking-spots/"+spotA.String(), nil, driverToken)
		requireStatus(t, rec, http.StatusOK)
		require.Equal(t, "reserved", decodeBody[resdto.SpotResponse](t, rec).Status)
	})

	t.Run("deleting a spot with an active booking conflicts", func(t *testing.T) {
		_, adminToken := f.seedUser("Admin", "admin@example.com", user.RoleAdmin)
		rec := f.do(http.MethodDelete, "/api/parking-spots/"+spotA.String(), nil, adminToken)
		requireStatus(t, rec, http.StatusConflict)
		require.Equal(t, "conflict", errorKind(t, rec))
	})
}
