package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// CreateExpenseRequest represents the request body for creating an expense.
type CreateExpenseRequest struct {
	Amount             *decimal.Decimal `json:"amount" binding:"required"`
	Category           string           `json:"category" binding:"required,expensecategory"`
	Subcategory        string           `json:"subcategory" binding:"max=100"`
	Description        string           `json:"description" binding:"max=500"`
	Date               *time.Time       `json:"date"`
	PaymentMethod      string           `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	Tags               []string         `json:"tags"`
	IsRecurring        bool             `json:"isRecurring"`
	RecurringFrequency *string          `json:"recurringFrequency"`
}

// UpdateExpenseRequest represents the request body for a partial expense update.
type UpdateExpenseRequest struct {
	Amount             *decimal.Decimal `json:"amount"`
	Category           *string          `json:"category" binding:"omitempty,expensecategory"`
	Subcategory        *string          `json:"subcategory" binding:"omitempty,max=100"`
	Description        *string          `json:"description" binding:"omitempty,max=500"`
	Date               *time.Time       `json:"date"`
	PaymentMethod      *string          `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	Tags               []string         `json:"tags"`
	IsRecurring        *bool            `json:"isRecurring"`
	RecurringFrequency *string          `json:"recurringFrequency"`
}

// ListExpensesQuery represents the query string of the expense list.
type ListExpensesQuery struct {
	Category  string `form:"category" binding:"omitempty,expensecategory"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
	Offset    int    `form:"offset" binding:"omitempty,min=0"`
}

// StatisticsQuery selects the month of the statistics endpoint.
type StatisticsQuery struct {
	Month int `form:"month" binding:"required"`
	Year  int `form:"year" binding:"required"`
}

// ReceiptResponse represents an attached receipt.
type ReceiptResponse struct {
	ID         string    `json:"id,omitempty"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID                 string           `json:"id"`
	Amount             decimal.Decimal  `json:"amount"`
	Category           string           `json:"category"`
	Subcategory        string           `json:"subcategory,omitempty"`
	Description        string           `json:"description"`
	Date               time.Time        `json:"date"`
	PaymentMethod      string           `json:"paymentMethod"`
	Receipt            *ReceiptResponse `json:"receipt,omitempty"`
	Tags               []string         `json:"tags"`
	IsRecurring        bool             `json:"isRecurring"`
	RecurringFrequency *string          `json:"recurringFrequency"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// ExpenseListResponse represents a page of expenses.
type ExpenseListResponse struct {
	Expenses   []ExpenseResponse `json:"expenses"`
	Pagination Pagination        `json:"pagination"`
}

// BreakdownResponse is one group of a category or route breakdown.
type BreakdownResponse struct {
	Key        string          `json:"key"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DailyTotalResponse is the amount spent on one day.
type DailyTotalResponse struct {
	Day   int             `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// StatisticsResponse represents the monthly expense statistics.
type StatisticsResponse struct {
	Period        string               `json:"period"`
	Label         string               `json:"label"`
	Total         decimal.Decimal      `json:"total"`
	Count         int                  `json:"count"`
	AverageAmount decimal.Decimal      `json:"averageAmount"`
	Categories    []BreakdownResponse  `json:"categories"`
	Daily         []DailyTotalResponse `json:"daily"`
}

// ToExpenseResponse converts a domain Expense entity to an ExpenseResponse DTO.
func ToExpenseResponse(e *entity.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:            e.ID.String(),
		Amount:        e.Amount,
		Category:      string(e.Category),
		Subcategory:   e.Subcategory,
		Description:   e.Description,
		Date:          e.Date,
		PaymentMethod: string(e.PaymentMethod),
		Tags:          e.Tags,
		IsRecurring:   e.IsRecurring,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if e.RecurringFrequency != nil {
		f := string(*e.RecurringFrequency)
		resp.RecurringFrequency = &f
	}
	if e.Receipt != nil {
		resp.Receipt = &ReceiptResponse{URL: e.Receipt.URL, UploadedAt: e.Receipt.UploadedAt}
	}
	return resp
}

// ToExpenseResponses converts a list of expenses.
func ToExpenseResponses(expenses []*entity.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ToExpenseResponse(e))
	}
	return out
}

// ToBreakdownResponses converts breakdown entries.
func ToBreakdownResponses(entries []valueobject.BreakdownEntry) []BreakdownResponse {
	out := make([]BreakdownResponse, 0, len(entries))
	for _, b := range entries {
		out = append(out, BreakdownResponse{Key: b.Key, Total: b.Total, Count: b.Count, Percentage: b.Percentage})
	}
	return out
}

// ToStatisticsResponse converts simple period statistics.
func ToStatisticsResponse(s *valueobject.PeriodStatistics) StatisticsResponse {
	daily := make([]DailyTotalResponse, 0, len(s.Daily))
	for _, d := range s.Daily {
		daily = append(daily, DailyTotalResponse{Day: d.Day, Total: d.Total})
	}
	return StatisticsResponse{
		Period:        s.Period.Key(),
		Label:         s.Period.Label(),
		Total:         s.Total,
		Count:         s.Count,
		AverageAmount: s.AverageAmount,
		Categories:    ToBreakdownResponses(s.Breakdown),
		Daily:         daily,
	}
}
