package error

import "errors"

// Report pipeline errors.
var (
	// ErrListRecipientsFailed is returned when eligible users cannot be listed. It
	// is the only error that aborts a whole batch.
	ErrListRecipientsFailed = errors.New("failed to list report recipients")

	// ErrReportBatchInProgress is returned when another run holds the batch lock.
	ErrReportBatchInProgress = errors.New("a report batch for this period is already running")

	// ErrNarrativeUnavailable is returned when the analysis service is not configured.
	ErrNarrativeUnavailable = errors.New("narrative analysis service unavailable")

	// ErrNarrativeEmpty is returned when the analysis service answers without text.
	ErrNarrativeEmpty = errors.New("narrative analysis returned no text")

	// ErrInvalidReportKind is returned for an unknown report kind.
	ErrInvalidReportKind = errors.New("invalid report kind")

	// ErrInvalidCronSecret is returned when the admin trigger secret does not match.
	ErrInvalidCronSecret = errors.New("invalid cron secret")
)

// ReportErrorCode defines error codes for report errors.
// Format: REPORT-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	// Batch errors (01XXXX)
	ErrCodeListRecipientsFailed  ReportErrorCode = "REPORT-010001"
	ErrCodeReportBatchInProgress ReportErrorCode = "REPORT-010002"
	ErrCodeReportLockFailed      ReportErrorCode = "REPORT-010003"
	ErrCodeInvalidReportKind     ReportErrorCode = "REPORT-010004"

	// Narrative errors (02XXXX)
	ErrCodeNarrativeUnavailable ReportErrorCode = "REPORT-020001"
	ErrCodeNarrativeTimeout     ReportErrorCode = "REPORT-020002"
	ErrCodeNarrativeRateLimited ReportErrorCode = "REPORT-020003"
	ErrCodeNarrativeAuth        ReportErrorCode = "REPORT-020004"
	ErrCodeNarrativeEmpty       ReportErrorCode = "REPORT-020005"
	ErrCodeNarrativeFailed      ReportErrorCode = "REPORT-020006"

	// Delivery errors (03XXXX)
	ErrCodeReportRenderFailed ReportErrorCode = "REPORT-030001"
	ErrCodeReportSendFailed   ReportErrorCode = "REPORT-030002"

	// Trigger errors (04XXXX)
	ErrCodeInvalidCronSecret ReportErrorCode = "REPORT-040001"
	ErrCodeInvalidPeriod     ReportErrorCode = "REPORT-040002"
)

// ReportError represents a report pipeline error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
