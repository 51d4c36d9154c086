package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/receipt"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// UploadReceiptInput carries the file to attach to an expense.
type UploadReceiptInput struct {
	ExpenseID uuid.UUID
	UserID    uuid.UUID
	File      receipt.File
}

// UploadReceiptUseCase attaches a receipt, replacing any previous one.
type UploadReceiptUseCase struct {
	expenseRepo adapter.ExpenseRepository
	storage     adapter.ReceiptStorage
}

// NewUploadReceiptUseCase creates a new UploadReceiptUseCase instance.
func NewUploadReceiptUseCase(expenseRepo adapter.ExpenseRepository, storage adapter.ReceiptStorage) *UploadReceiptUseCase {
	return &UploadReceiptUseCase{
		expenseRepo: expenseRepo,
		storage:     storage,
	}
}

// Execute uploads the file and stores its reference on the expense.
func (uc *UploadReceiptUseCase) Execute(ctx context.Context, input UploadReceiptInput) (*entity.Expense, error) {
	expense, err := findOwned(ctx, uc.expenseRepo, input.ExpenseID, input.UserID)
	if err != nil {
		return nil, err
	}

	checked, err := receipt.Check(input.File)
	if err != nil {
		return nil, err
	}

	stored, err := uc.storage.Upload(ctx, adapter.UploadObjectInput{
		Name:        receipt.ObjectName("expenses", input.UserID, expense.ID, checked.Extension),
		ContentType: checked.ContentType,
		Body:        checked.Body,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrReceiptTooLarge) {
			return nil, domainerror.NewReceiptError(
				domainerror.ErrCodeReceiptTooLarge,
				"receipt file exceeds the 5MB limit",
				domainerror.ErrReceiptTooLarge,
			)
		}
		return nil, err
	}

	previous := expense.Receipt
	now := time.Now().UTC()
	expense.Receipt = &entity.Receipt{
		URL:        stored.URL,
		StorageID:  stored.StorageID,
		UploadedAt: now,
	}
	expense.UpdatedAt = now

	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		if delErr := uc.storage.Delete(ctx, stored.StorageID); delErr != nil {
			slog.Warn("Failed to clean up receipt after update error", "error", delErr, "storage_id", stored.StorageID)
		}
		return nil, fmt.Errorf("failed to save receipt reference: %w", err)
	}

	if previous != nil && previous.StorageID != "" {
		if err := uc.storage.Delete(ctx, previous.StorageID); err != nil {
			slog.Warn("Failed to delete replaced receipt", "error", err, "storage_id", previous.StorageID)
		}
	}

	return expense, nil
}

// RemoveReceiptUseCase detaches and deletes an expense's receipt.
type RemoveReceiptUseCase struct {
	expenseRepo adapter.ExpenseRepository
	storage     adapter.ReceiptStorage
}

// NewRemoveReceiptUseCase creates a new RemoveReceiptUseCase instance.
func NewRemoveReceiptUseCase(expenseRepo adapter.ExpenseRepository, storage adapter.ReceiptStorage) *RemoveReceiptUseCase {
	return &RemoveReceiptUseCase{
		expenseRepo: expenseRepo,
		storage:     storage,
	}
}

// Execute deletes the remote object and then clears the reference.
func (uc *RemoveReceiptUseCase) Execute(ctx context.Context, expenseID, userID uuid.UUID) (*entity.Expense, error) {
	expense, err := findOwned(ctx, uc.expenseRepo, expenseID, userID)
	if err != nil {
		return nil, err
	}
	if !expense.HasReceipt() {
		return nil, domainerror.NewReceiptError(
			domainerror.ErrCodeReceiptNotFound,
			"no receipt attached",
			domainerror.ErrReceiptNotFound,
		)
	}

	if err := uc.storage.Delete(ctx, expense.Receipt.StorageID); err != nil {
		return nil, err
	}

	expense.Receipt = nil
	expense.UpdatedAt = time.Now().UTC()
	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to clear receipt reference: %w", err)
	}

	return expense, nil
}
