package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod is the cadence a budget limit applies to.
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "Weekly"
	BudgetPeriodMonthly BudgetPeriod = "Monthly"
	BudgetPeriodYearly  BudgetPeriod = "Yearly"
)

// IsValid reports whether the period is known.
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget caps spending in one category between two dates. The spent amount
// is derived from expenses and never stored.
type Budget struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Category  ExpenseCategory
	Limit     decimal.Decimal
	Period    BudgetPeriod
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBudget creates a budget. An unknown period falls back to Monthly.
func NewBudget(userID uuid.UUID, category ExpenseCategory, limit decimal.Decimal, period BudgetPeriod, start, end time.Time) *Budget {
	now := time.Now().UTC()
	if !period.IsValid() {
		period = BudgetPeriodMonthly
	}
	return &Budget{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  category,
		Limit:     limit,
		Period:    period,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
