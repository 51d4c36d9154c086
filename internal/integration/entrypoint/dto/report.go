package dto

// SendReportQuery selects the month of a single-user report. An empty period
// means the previous calendar month.
type SendReportQuery struct {
	Period string `form:"period" binding:"omitempty,yearmonth"`
}

// SendReportResponse reports the outcome of a single-user report.
type SendReportResponse struct {
	Success bool   `json:"success"`
	Outcome string `json:"outcome"`
	Period  string `json:"period"`
	Message string `json:"message"`
}
