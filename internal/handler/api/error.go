package api

import (
	"errors"
	"net/http"

	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/usecase"

	"github.com/gin-gonic/gin"
)

// writeError maps engine sentinels onto HTTP statuses. The "kind" field is
// the machine-readable discriminator clients switch on; the message is for
// humans.
func writeError(c *gin.Context, err error) {
	status, kind, msg := http.StatusInternalServerError, "internal", "Internal server error"

	switch {
	case errors.Is(err, errs.ErrValidation):
		status, kind, msg = http.StatusBadRequest, "validation", err.Error()
	case errors.Is(err, errs.ErrSpotNotFound):
		status, kind, msg = http.StatusNotFound, "not_found", "Parking spot not found"
	case errors.Is(err, errs.ErrBookingNotFound):
		status, kind, msg = http.StatusNotFound, "not_found", "Booking not found"
	case errors.Is(err, errs.ErrBookingConflict):
		status, kind, msg = http.StatusConflict, "conflict", "Spot is already booked for this interval"
	case errors.Is(err, errs.ErrInvalidState):
		status, kind, msg = http.StatusConflict, "invalid_state", err.Error()
	case errors.Is(err, errs.ErrDuplicateSpot):
		status, kind, msg = http.StatusConflict, "conflict", "Spot number already exists"
	case errors.Is(err, errs.ErrSpotInUse):
		status, kind, msg = http.StatusConflict, "conflict", "Spot has active bookings"
	case errors.Is(err, errs.ErrForbidden):
		status, kind, msg = http.StatusForbidden, "forbidden", "Insufficient permissions"
	case errors.Is(err, errs.ErrTimeout):
		status, kind, msg = http.StatusGatewayTimeout, "timeout", "Operation timed out"
	case errors.Is(err, usecase.ErrUserNotFound):
		status, kind, msg = http.StatusNotFound, "not_found", "User not found"
	case errors.Is(err, usecase.ErrEmailTaken):
		status, kind, msg = http.StatusConflict, "conflict", "Email is already registered"
	case errors.Is(err, usecase.ErrInvalidCredentials):
		status, kind, msg = http.StatusUnauthorized, "unauthorized", "Invalid email or password"
	case errors.Is(err, usecase.ErrUserInactive):
		status, kind, msg = http.StatusForbidden, "forbidden", "Account is deactivated"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"kind": kind, "message": msg},
	})
}
