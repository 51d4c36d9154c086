package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// UpdateExpenseInput represents a partial expense update. Nil fields are left
// untouched.
type UpdateExpenseInput struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Amount             *decimal.Decimal
	Category           *entity.ExpenseCategory
	Subcategory        *string
	Description        *string
	Date               *time.Time
	PaymentMethod      *entity.PaymentMethod
	Tags               []string
	IsRecurring        *bool
	RecurringFrequency *entity.RecurringFrequency
}

// UpdateExpenseUseCase handles expense update logic.
type UpdateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(expenseRepo adapter.ExpenseRepository) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{expenseRepo: expenseRepo}
}

// Execute performs the expense update.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*entity.Expense, error) {
	expense, err := findOwned(ctx, uc.expenseRepo, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}
	if input.Subcategory != nil {
		expense.Subcategory = strings.TrimSpace(*input.Subcategory)
	}
	if input.Description != nil {
		expense.Description = strings.TrimSpace(*input.Description)
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}
	if input.PaymentMethod != nil {
		expense.PaymentMethod = *input.PaymentMethod
	}
	if input.Tags != nil {
		expense.Tags = cleanTags(input.Tags)
	}

	// Frequency alone keeps the current flag.
	isRecurring := expense.IsRecurring
	if input.IsRecurring != nil {
		isRecurring = *input.IsRecurring
	}
	frequency := expense.RecurringFrequency
	if input.RecurringFrequency != nil {
		frequency = input.RecurringFrequency
	}
	expense.SetRecurrence(isRecurring, frequency)

	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	expense.UpdatedAt = time.Now().UTC()
	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return expense, nil
}
