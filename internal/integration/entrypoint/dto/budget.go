package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/usecase/budget"
)

// CreateBudgetRequest represents the request body for creating a budget.
type CreateBudgetRequest struct {
	Category  string           `json:"category" binding:"required,expensecategory"`
	Limit     *decimal.Decimal `json:"limit" binding:"required"`
	Period    string           `json:"period" binding:"omitempty,oneof=Weekly Monthly Yearly"`
	StartDate time.Time        `json:"startDate" binding:"required"`
	EndDate   time.Time        `json:"endDate" binding:"required"`
}

// UpdateBudgetRequest represents the request body for a partial budget update.
type UpdateBudgetRequest struct {
	Category  *string          `json:"category" binding:"omitempty,expensecategory"`
	Limit     *decimal.Decimal `json:"limit"`
	Period    *string          `json:"period" binding:"omitempty,oneof=Weekly Monthly Yearly"`
	StartDate *time.Time       `json:"startDate"`
	EndDate   *time.Time       `json:"endDate"`
}

// BudgetResponse represents a budget with its derived spending.
type BudgetResponse struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Period    string          `json:"period"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ToBudgetResponse converts a budget output.
func ToBudgetResponse(out *budget.BudgetOutput) BudgetResponse {
	b := out.Budget
	return BudgetResponse{
		ID:        b.ID.String(),
		Category:  string(b.Category),
		Limit:     b.Limit,
		Period:    string(b.Period),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Spent:     out.Spent,
		Remaining: out.Remaining,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBudgetResponses converts a list of budget outputs.
func ToBudgetResponses(outs []*budget.BudgetOutput) []BudgetResponse {
	resp := make([]BudgetResponse, 0, len(outs))
	for _, o := range outs {
		resp = append(resp, ToBudgetResponse(o))
	}
	return resp
}
