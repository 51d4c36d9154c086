package error

import "errors"

// Support payment domain errors.
var (
	// ErrPaymentNotFound is returned when no payment record matches the gateway order.
	ErrPaymentNotFound = errors.New("payment record not found")

	// ErrInvalidPaymentSignature is returned when the gateway signature does not verify.
	ErrInvalidPaymentSignature = errors.New("invalid payment signature")

	// ErrPaymentAmountMismatch is returned when the stored amount differs from the fixed support amount.
	ErrPaymentAmountMismatch = errors.New("payment amount mismatch")

	// ErrPaymentAlreadyVerified is returned when a paid order is verified again.
	ErrPaymentAlreadyVerified = errors.New("payment already verified")

	// ErrPaymentGatewayUnavailable is returned when the gateway is not configured or unreachable.
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")
)

// PaymentErrorCode defines error codes for payment errors.
// Format: PAY-XXYYYY where XX is category and YYYY is specific error.
type PaymentErrorCode string

const (
	// Verification errors (01XXXX)
	ErrCodeInvalidPaymentSignature PaymentErrorCode = "PAY-010001"
	ErrCodePaymentAmountMismatch   PaymentErrorCode = "PAY-010002"
	ErrCodePaymentAlreadyVerified  PaymentErrorCode = "PAY-010003"
	ErrCodeMissingPaymentFields    PaymentErrorCode = "PAY-010004"

	// Lookup errors (02XXXX)
	ErrCodePaymentNotFound PaymentErrorCode = "PAY-020001"

	// Gateway errors (03XXXX)
	ErrCodePaymentGatewayUnavailable PaymentErrorCode = "PAY-030001"
)

// PaymentError represents a payment error with code and message.
type PaymentError struct {
	Code    PaymentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PaymentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new PaymentError with the given code and message.
func NewPaymentError(code PaymentErrorCode, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
