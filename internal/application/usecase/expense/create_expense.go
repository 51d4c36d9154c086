// Package expense contains personal expense use cases.
package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// CreateExpenseInput represents the input for expense creation.
type CreateExpenseInput struct {
	UserID             uuid.UUID
	Amount             decimal.Decimal
	Category           entity.ExpenseCategory
	Subcategory        string
	Description        string
	Date               *time.Time
	PaymentMethod      entity.PaymentMethod
	Tags               []string
	IsRecurring        bool
	RecurringFrequency *entity.RecurringFrequency
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(expenseRepo adapter.ExpenseRepository) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{expenseRepo: expenseRepo}
}

// Execute performs the expense creation.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*entity.Expense, error) {
	var date time.Time
	if input.Date != nil {
		date = *input.Date
	}

	expense := entity.NewExpense(input.UserID, input.Amount, input.Category, input.Description, date)
	expense.Subcategory = strings.TrimSpace(input.Subcategory)
	if input.PaymentMethod != "" {
		expense.PaymentMethod = input.PaymentMethod
	}
	expense.Tags = cleanTags(input.Tags)
	expense.SetRecurrence(input.IsRecurring, input.RecurringFrequency)

	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

func validateExpense(e *entity.Expense) error {
	if !e.Amount.IsPositive() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidExpenseAmount,
		)
	}
	if !e.Category.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseCategory,
			fmt.Sprintf("invalid category %q", e.Category),
			domainerror.ErrInvalidExpenseCategory,
		)
	}
	if !e.PaymentMethod.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidPaymentMethod,
			fmt.Sprintf("invalid payment method %q", e.PaymentMethod),
			domainerror.ErrInvalidPaymentMethod,
		)
	}
	if e.IsRecurring && (e.RecurringFrequency == nil || !e.RecurringFrequency.IsValid()) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidRecurringFrequency,
			"recurring expenses need a frequency of Daily, Weekly, Monthly or Yearly",
			domainerror.ErrInvalidRecurringFrequency,
		)
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// findOwned loads an expense scoped to its owner and maps the not found case.
func findOwned(ctx context.Context, repo adapter.ExpenseRepository, id, userID uuid.UUID) (*entity.Expense, error) {
	expense, err := repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNotFound,
				"expense not found",
				domainerror.ErrExpenseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	return expense, nil
}
