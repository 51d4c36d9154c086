// Package budget contains budget use cases. Spent amounts are derived from
// the user's expenses on every read.
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/finance"
)

// BudgetOutput is a budget with its spent and remaining amounts.
type BudgetOutput struct {
	Budget    *entity.Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// CreateBudgetInput represents the input for budget creation.
type CreateBudgetInput struct {
	UserID    uuid.UUID
	Category  entity.ExpenseCategory
	Limit     decimal.Decimal
	Period    entity.BudgetPeriod
	StartDate time.Time
	EndDate   time.Time
}

// CreateBudgetUseCase handles budget creation logic.
type CreateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	spent      *spentCalculator
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(budgetRepo adapter.BudgetRepository, expenseRepo adapter.ExpenseRepository) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{
		budgetRepo: budgetRepo,
		spent:      &spentCalculator{expenseRepo: expenseRepo},
	}
}

// Execute performs the budget creation.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*BudgetOutput, error) {
	if input.Period != "" && !input.Period.IsValid() {
		return nil, invalidPeriod()
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"start date and end date are required",
			nil,
		)
	}

	budget := entity.NewBudget(input.UserID, input.Category, input.Limit, input.Period, input.StartDate, input.EndDate)
	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	if err := uc.budgetRepo.Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return uc.spent.output(ctx, budget)
}

func validateBudget(b *entity.Budget) error {
	if !b.Category.IsValid() {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetCategory,
			"invalid budget category",
			nil,
		)
	}
	if b.Limit.IsNegative() {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeNegativeBudgetLimit,
			"budget limit cannot be negative",
			domainerror.ErrNegativeBudgetLimit,
		)
	}
	if !b.Period.IsValid() {
		return invalidPeriod()
	}
	if b.EndDate.Before(b.StartDate) {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetDates,
			"budget end date must not be before start date",
			domainerror.ErrInvalidBudgetDates,
		)
	}
	return nil
}

func invalidPeriod() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeInvalidBudgetPeriod,
		"period must be Weekly, Monthly or Yearly",
		domainerror.ErrInvalidBudgetPeriod,
	)
}

// spentCalculator loads the expenses inside a budget window.
type spentCalculator struct {
	expenseRepo adapter.ExpenseRepository
}

func (c *spentCalculator) output(ctx context.Context, b *entity.Budget) (*BudgetOutput, error) {
	expenses, err := c.expenseRepo.FindInWindow(ctx, b.UserID, b.StartDate, b.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget expenses: %w", err)
	}
	spent := finance.BudgetSpent(b, expenses)
	return &BudgetOutput{
		Budget:    b,
		Spent:     spent,
		Remaining: finance.BudgetRemaining(b, spent),
	}, nil
}

func findOwned(ctx context.Context, repo adapter.BudgetRepository, id, userID uuid.UUID) (*entity.Budget, error) {
	b, err := repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, budgetNotFound()
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return b, nil
}

func budgetNotFound() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeBudgetNotFound,
		"budget not found",
		domainerror.ErrBudgetNotFound,
	)
}
