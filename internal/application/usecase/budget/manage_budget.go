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
)

// ListBudgetsUseCase lists a user's budgets with their spent amounts.
type ListBudgetsUseCase struct {
	budgetRepo adapter.BudgetRepository
	spent      *spentCalculator
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(budgetRepo adapter.BudgetRepository, expenseRepo adapter.ExpenseRepository) *ListBudgetsUseCase {
	return &ListBudgetsUseCase{
		budgetRepo: budgetRepo,
		spent:      &spentCalculator{expenseRepo: expenseRepo},
	}
}

// Execute returns the budgets newest first.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*BudgetOutput, error) {
	budgets, err := uc.budgetRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	out := make([]*BudgetOutput, 0, len(budgets))
	for _, b := range budgets {
		o, err := uc.spent.output(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// GetBudgetUseCase loads one budget.
type GetBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	spent      *spentCalculator
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(budgetRepo adapter.BudgetRepository, expenseRepo adapter.ExpenseRepository) *GetBudgetUseCase {
	return &GetBudgetUseCase{
		budgetRepo: budgetRepo,
		spent:      &spentCalculator{expenseRepo: expenseRepo},
	}
}

func (uc *GetBudgetUseCase) Execute(ctx context.Context, id, userID uuid.UUID) (*BudgetOutput, error) {
	b, err := findOwned(ctx, uc.budgetRepo, id, userID)
	if err != nil {
		return nil, err
	}
	return uc.spent.output(ctx, b)
}

// UpdateBudgetInput represents a partial budget update.
type UpdateBudgetInput struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Category  *entity.ExpenseCategory
	Limit     *decimal.Decimal
	Period    *entity.BudgetPeriod
	StartDate *time.Time
	EndDate   *time.Time
}

// UpdateBudgetUseCase handles budget update logic.
type UpdateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	spent      *spentCalculator
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(budgetRepo adapter.BudgetRepository, expenseRepo adapter.ExpenseRepository) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		budgetRepo: budgetRepo,
		spent:      &spentCalculator{expenseRepo: expenseRepo},
	}
}

// Execute applies the non-nil fields and re-validates the whole budget.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*BudgetOutput, error) {
	b, err := findOwned(ctx, uc.budgetRepo, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		b.Category = *input.Category
	}
	if input.Limit != nil {
		b.Limit = *input.Limit
	}
	if input.Period != nil {
		b.Period = *input.Period
	}
	if input.StartDate != nil {
		b.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		b.EndDate = *input.EndDate
	}

	if err := validateBudget(b); err != nil {
		return nil, err
	}

	b.UpdatedAt = time.Now().UTC()
	if err := uc.budgetRepo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return uc.spent.output(ctx, b)
}

// DeleteBudgetUseCase handles budget deletion.
type DeleteBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(budgetRepo adapter.BudgetRepository) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{budgetRepo: budgetRepo}
}

func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, id, userID uuid.UUID) error {
	if err := uc.budgetRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return budgetNotFound()
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
