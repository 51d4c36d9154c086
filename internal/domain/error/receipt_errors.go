package error

import "errors"

// Receipt storage errors.
var (
	// ErrReceiptTooLarge is returned when an upload exceeds the size limit.
	ErrReceiptTooLarge = errors.New("receipt file exceeds the 5MB limit")

	// ErrUnsupportedReceiptType is returned when the file is not a JPEG, PNG or PDF.
	ErrUnsupportedReceiptType = errors.New("receipt must be a JPEG, PNG or PDF file")

	// ErrMissingReceiptFile is returned when no file was sent.
	ErrMissingReceiptFile = errors.New("receipt file is required")

	// ErrReceiptStorageFailed is returned when the remote object store rejects an operation.
	ErrReceiptStorageFailed = errors.New("receipt storage operation failed")

	// ErrReceiptNotFound is returned when the record has no receipt attached.
	ErrReceiptNotFound = errors.New("no receipt attached")
)

// ReceiptErrorCode defines error codes for receipt errors.
// Format: RCPT-XXYYYY where XX is category and YYYY is specific error.
type ReceiptErrorCode string

const (
	// Upload validation errors (01XXXX)
	ErrCodeReceiptTooLarge        ReceiptErrorCode = "RCPT-010001"
	ErrCodeUnsupportedReceiptType ReceiptErrorCode = "RCPT-010002"
	ErrCodeMissingReceiptFile     ReceiptErrorCode = "RCPT-010003"

	// Storage errors (02XXXX)
	ErrCodeReceiptStorageFailed ReceiptErrorCode = "RCPT-020001"
	ErrCodeReceiptNotFound      ReceiptErrorCode = "RCPT-020002"
)

// ReceiptError represents a receipt error with code and message.
type ReceiptError struct {
	Code    ReceiptErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReceiptError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReceiptError) Unwrap() error {
	return e.Err
}

// NewReceiptError creates a new ReceiptError with the given code and message.
func NewReceiptError(code ReceiptErrorCode, message string, err error) *ReceiptError {
	return &ReceiptError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
