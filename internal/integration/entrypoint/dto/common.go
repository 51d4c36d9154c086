package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// TriggerResponse is returned by the report trigger endpoints.
type TriggerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sent    *int   `json:"sent,omitempty"`
	Failed  *int   `json:"failed,omitempty"`
	Skipped *int   `json:"skipped,omitempty"`
}

// Pagination describes the page of a list response.
type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
