package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseFilter narrows an expense listing. Zero values mean no constraint.
type ExpenseFilter struct {
	Category  *entity.ExpenseCategory
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// ExpenseRepository defines the interface for expense persistence operations.
// Every read is scoped to the owning user.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Expense, error)
	List(ctx context.Context, userID uuid.UUID, filter ExpenseFilter) ([]*entity.Expense, int64, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// FindInWindow returns the user's expenses dated within [start, end], newest first.
	FindInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Expense, error)
}
