package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

type memoryBudgetRepo struct {
	budgets map[uuid.UUID]*entity.Budget
}

func newMemoryBudgetRepo() *memoryBudgetRepo {
	return &memoryBudgetRepo{budgets: map[uuid.UUID]*entity.Budget{}}
}

func (r *memoryBudgetRepo) Create(ctx context.Context, budget *entity.Budget) error {
	r.budgets[budget.ID] = budget
	return nil
}

func (r *memoryBudgetRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Budget, error) {
	b, ok := r.budgets[id]
	if !ok || b.UserID != userID {
		return nil, domainerror.ErrBudgetNotFound
	}
	return b, nil
}

func (r *memoryBudgetRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	var out []*entity.Budget
	for _, b := range r.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryBudgetRepo) Update(ctx context.Context, budget *entity.Budget) error {
	r.budgets[budget.ID] = budget
	return nil
}

func (r *memoryBudgetRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	b, ok := r.budgets[id]
	if !ok || b.UserID != userID {
		return domainerror.ErrBudgetNotFound
	}
	delete(r.budgets, id)
	return nil
}

type windowExpenseRepo struct {
	adapter.ExpenseRepository
	expenses []*entity.Expense
	err      error
}

func (r *windowExpenseRepo) FindInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Expense, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Expense
	for _, e := range r.expenses {
		if e.UserID == userID && !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func budgetCode(err error) domainerror.BudgetErrorCode {
	var bErr *domainerror.BudgetError
	if errors.As(err, &bErr) {
		return bErr.Code
	}
	return ""
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestCreateBudget(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		input      CreateBudgetInput
		wantCode   domainerror.BudgetErrorCode
		wantPeriod entity.BudgetPeriod
	}{
		{
			name:       "defaults to monthly",
			input:      CreateBudgetInput{UserID: userID, Category: entity.CategoryGroceries, Limit: amount(5000), StartDate: day(3, 1), EndDate: day(3, 31)},
			wantPeriod: entity.BudgetPeriodMonthly,
		},
		{
			name:       "zero limit is allowed",
			input:      CreateBudgetInput{UserID: userID, Category: entity.CategoryOther, Period: entity.BudgetPeriodWeekly, StartDate: day(3, 1), EndDate: day(3, 1)},
			wantPeriod: entity.BudgetPeriodWeekly,
		},
		{
			name:     "negative limit",
			input:    CreateBudgetInput{UserID: userID, Category: entity.CategoryOther, Limit: amount(-1), StartDate: day(3, 1), EndDate: day(3, 31)},
			wantCode: domainerror.ErrCodeNegativeBudgetLimit,
		},
		{
			name:     "unknown period",
			input:    CreateBudgetInput{UserID: userID, Category: entity.CategoryOther, Period: "Daily", StartDate: day(3, 1), EndDate: day(3, 31)},
			wantCode: domainerror.ErrCodeInvalidBudgetPeriod,
		},
		{
			name:     "end before start",
			input:    CreateBudgetInput{UserID: userID, Category: entity.CategoryOther, StartDate: day(3, 31), EndDate: day(3, 1)},
			wantCode: domainerror.ErrCodeInvalidBudgetDates,
		},
		{
			name:     "unknown category",
			input:    CreateBudgetInput{UserID: userID, Category: "Pets", StartDate: day(3, 1), EndDate: day(3, 31)},
			wantCode: domainerror.ErrCodeInvalidBudgetCategory,
		},
		{
			name:     "missing dates",
			input:    CreateBudgetInput{UserID: userID, Category: entity.CategoryOther},
			wantCode: domainerror.ErrCodeMissingBudgetFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewCreateBudgetUseCase(newMemoryBudgetRepo(), &windowExpenseRepo{})

			out, err := uc.Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				if got := budgetCode(err); got != tt.wantCode {
					t.Fatalf("expected code %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Budget.Period != tt.wantPeriod {
				t.Errorf("period = %s, want %s", out.Budget.Period, tt.wantPeriod)
			}
			if !out.Spent.IsZero() {
				t.Errorf("spent = %s, want 0", out.Spent)
			}
		})
	}
}

func TestGetBudgetSpent(t *testing.T) {
	userID := uuid.New()
	repo := newMemoryBudgetRepo()
	b := entity.NewBudget(userID, entity.CategoryGroceries, amount(1000), entity.BudgetPeriodMonthly, day(3, 1), day(3, 31))
	repo.budgets[b.ID] = b

	expenses := &windowExpenseRepo{expenses: []*entity.Expense{
		entity.NewExpense(userID, amount(400), entity.CategoryGroceries, "", day(3, 1)),
		entity.NewExpense(userID, amount(900), entity.CategoryGroceries, "", day(3, 31)),
		entity.NewExpense(userID, amount(50), entity.CategoryTravel, "", day(3, 10)),
		entity.NewExpense(userID, amount(70), entity.CategoryGroceries, "", day(4, 1)),
		entity.NewExpense(uuid.New(), amount(70), entity.CategoryGroceries, "", day(3, 5)),
	}}

	out, err := NewGetBudgetUseCase(repo, expenses).Execute(context.Background(), b.ID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Spent.Equal(amount(1300)) {
		t.Errorf("spent = %s, want 1300", out.Spent)
	}
	if !out.Remaining.Equal(amount(-300)) {
		t.Errorf("remaining = %s, want -300", out.Remaining)
	}

	if _, err := NewGetBudgetUseCase(repo, expenses).Execute(context.Background(), b.ID, uuid.New()); budgetCode(err) != domainerror.ErrCodeBudgetNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	expenses.err = errors.New("db down")
	if _, err := NewListBudgetsUseCase(repo, expenses).Execute(context.Background(), userID); err == nil {
		t.Fatal("expected expense lookup failure to propagate")
	}
}

func TestUpdateBudget(t *testing.T) {
	userID := uuid.New()
	repo := newMemoryBudgetRepo()
	b := entity.NewBudget(userID, entity.CategoryGroceries, amount(1000), entity.BudgetPeriodMonthly, day(3, 1), day(3, 31))
	repo.budgets[b.ID] = b
	uc := NewUpdateBudgetUseCase(repo, &windowExpenseRepo{})

	limit := amount(2500)
	out, err := uc.Execute(context.Background(), UpdateBudgetInput{ID: b.ID, UserID: userID, Limit: &limit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Budget.Limit.Equal(limit) || out.Budget.Category != entity.CategoryGroceries {
		t.Errorf("budget = %+v", out.Budget)
	}

	end := day(2, 1)
	if _, err := uc.Execute(context.Background(), UpdateBudgetInput{ID: b.ID, UserID: userID, EndDate: &end}); budgetCode(err) != domainerror.ErrCodeInvalidBudgetDates {
		t.Fatalf("expected invalid dates, got %v", err)
	}
}

func TestDeleteBudget(t *testing.T) {
	userID := uuid.New()
	repo := newMemoryBudgetRepo()
	b := entity.NewBudget(userID, entity.CategoryGroceries, amount(1000), entity.BudgetPeriodMonthly, day(3, 1), day(3, 31))
	repo.budgets[b.ID] = b
	uc := NewDeleteBudgetUseCase(repo)

	if err := uc.Execute(context.Background(), b.ID, uuid.New()); budgetCode(err) != domainerror.ErrCodeBudgetNotFound {
		t.Fatalf("expected not found for another user, got %v", err)
	}
	if err := uc.Execute(context.Background(), b.ID, userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.budgets) != 0 {
		t.Error("budget should be deleted")
	}
}
