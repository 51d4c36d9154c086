package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget does not exist or belongs to another user.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrNegativeBudgetLimit is returned when the limit is below zero.
	ErrNegativeBudgetLimit = errors.New("budget limit cannot be negative")

	// ErrInvalidBudgetPeriod is returned when the period is unknown.
	ErrInvalidBudgetPeriod = errors.New("period must be Weekly, Monthly or Yearly")

	// ErrInvalidBudgetDates is returned when the end date precedes the start date.
	ErrInvalidBudgetDates = errors.New("budget end date must not be before start date")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BDG-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeNegativeBudgetLimit   BudgetErrorCode = "BDG-010001"
	ErrCodeInvalidBudgetPeriod   BudgetErrorCode = "BDG-010002"
	ErrCodeInvalidBudgetDates    BudgetErrorCode = "BDG-010003"
	ErrCodeInvalidBudgetCategory BudgetErrorCode = "BDG-010004"
	ErrCodeMissingBudgetFields   BudgetErrorCode = "BDG-010005"

	// Lookup errors (02XXXX)
	ErrCodeBudgetNotFound BudgetErrorCode = "BDG-020001"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
