package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense does not exist or belongs to another user.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidExpenseAmount is returned when the amount is not strictly positive.
	ErrInvalidExpenseAmount = errors.New("expense amount must be greater than zero")

	// ErrInvalidExpenseCategory is returned when the category is outside the closed set.
	ErrInvalidExpenseCategory = errors.New("invalid expense category")

	// ErrInvalidPaymentMethod is returned when the payment method is outside the closed set.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidRecurringFrequency is returned when a recurring expense lacks a known frequency.
	ErrInvalidRecurringFrequency = errors.New("recurring expenses need a frequency of Daily, Weekly, Monthly or Yearly")

	// ErrInvalidDateRange is returned when a filter start date is after its end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrInvalidStatsPeriod is returned when statistics are requested for an invalid month or year.
	ErrInvalidStatsPeriod = errors.New("month must be 1-12 and year 2000-2100")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidExpenseAmount      ExpenseErrorCode = "EXP-010001"
	ErrCodeInvalidExpenseCategory    ExpenseErrorCode = "EXP-010002"
	ErrCodeInvalidPaymentMethod      ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidRecurringFrequency ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidDateRange          ExpenseErrorCode = "EXP-010005"
	ErrCodeInvalidStatsPeriod        ExpenseErrorCode = "EXP-010006"
	ErrCodeMissingExpenseFields      ExpenseErrorCode = "EXP-010007"

	// Lookup errors (02XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-020001"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
