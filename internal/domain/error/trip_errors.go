package error

import "errors"

// Trip domain errors.
var (
	// ErrTripNotFound is returned when a trip does not exist or belongs to another user.
	ErrTripNotFound = errors.New("trip not found")

	// ErrInvalidVehicleNumber is returned when the vehicle number is blank.
	ErrInvalidVehicleNumber = errors.New("vehicle number is required")

	// ErrInvalidRoute is returned when the route is blank.
	ErrInvalidRoute = errors.New("route is required")

	// ErrNegativeTripAmount is returned when an income or cost field is negative.
	ErrNegativeTripAmount = errors.New("trip amounts cannot be negative")

	// ErrInvalidTripPaymentStatus is returned when the payment status is unknown.
	ErrInvalidTripPaymentStatus = errors.New("payment status must be Pending or Cleared")

	// ErrTripReceiptNotFound is returned when a receipt id is not attached to the trip.
	ErrTripReceiptNotFound = errors.New("receipt not found on trip")
)

// TripErrorCode defines error codes for trip errors.
// Format: TRIP-XXYYYY where XX is category and YYYY is specific error.
type TripErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidVehicleNumber     TripErrorCode = "TRIP-010001"
	ErrCodeInvalidRoute             TripErrorCode = "TRIP-010002"
	ErrCodeNegativeTripAmount       TripErrorCode = "TRIP-010003"
	ErrCodeInvalidTripPaymentStatus TripErrorCode = "TRIP-010004"
	ErrCodeMissingTripFields        TripErrorCode = "TRIP-010005"

	// Lookup errors (02XXXX)
	ErrCodeTripNotFound        TripErrorCode = "TRIP-020001"
	ErrCodeTripReceiptNotFound TripErrorCode = "TRIP-020002"
)

// TripError represents a trip error with code and message.
type TripError struct {
	Code    TripErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TripError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TripError) Unwrap() error {
	return e.Err
}

// NewTripError creates a new TripError with the given code and message.
func NewTripError(code TripErrorCode, message string, err error) *TripError {
	return &TripError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
