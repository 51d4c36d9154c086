package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// DeleteExpenseUseCase handles expense deletion logic.
type DeleteExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	storage     adapter.ReceiptStorage
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(expenseRepo adapter.ExpenseRepository, storage adapter.ReceiptStorage) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		expenseRepo: expenseRepo,
		storage:     storage,
	}
}

// Execute deletes the remote receipt first and then the record, so a failed
// storage call leaves nothing orphaned. A missing expense touches no storage.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, id, userID uuid.UUID) error {
	expense, err := findOwned(ctx, uc.expenseRepo, id, userID)
	if err != nil {
		return err
	}

	if expense.HasReceipt() {
		if err := uc.storage.Delete(ctx, expense.Receipt.StorageID); err != nil {
			return err
		}
	}

	if err := uc.expenseRepo.Delete(ctx, expense.ID, userID); err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNotFound,
				"expense not found",
				domainerror.ErrExpenseNotFound,
			)
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return nil
}
