package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Spot errors
	ErrSpotNotFound  = errors.New("parking spot not found")
	ErrSpotInUse     = errors.New("parking spot has active bookings")
	ErrDuplicateSpot = errors.New("spot number already exists")

	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingConflict = errors.New("booking time conflict")
	ErrInvalidState    = errors.New("invalid booking state transition")

	// Validation errors
	ErrValidation = errors.New("validation error")

	// Authorization errors
	ErrForbidden = errors.New("caller lacks permission")

	// Operation errors
	ErrTimeout                 = errors.New("store operation timed out")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
