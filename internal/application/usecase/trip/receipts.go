package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/receipt"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// UploadReceiptInput carries a file to attach to a trip.
type UploadReceiptInput struct {
	TripID uuid.UUID
	UserID uuid.UUID
	File   receipt.File
}

// UploadReceiptUseCase appends a receipt to a trip.
type UploadReceiptUseCase struct {
	tripRepo adapter.TripRepository
	storage  adapter.ReceiptStorage
}

// NewUploadReceiptUseCase creates a new UploadReceiptUseCase instance.
func NewUploadReceiptUseCase(tripRepo adapter.TripRepository, storage adapter.ReceiptStorage) *UploadReceiptUseCase {
	return &UploadReceiptUseCase{
		tripRepo: tripRepo,
		storage:  storage,
	}
}

// Execute uploads the file and records it on the trip.
func (uc *UploadReceiptUseCase) Execute(ctx context.Context, input UploadReceiptInput) (*entity.TripReceipt, error) {
	trip, err := findOwned(ctx, uc.tripRepo, input.TripID, input.UserID)
	if err != nil {
		return nil, err
	}

	checked, err := receipt.Check(input.File)
	if err != nil {
		return nil, err
	}

	stored, err := uc.storage.Upload(ctx, adapter.UploadObjectInput{
		Name:        receipt.ObjectName("trips", input.UserID, trip.ID, checked.Extension),
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

	added := trip.AddReceipt(stored.URL, stored.StorageID)
	if err := uc.tripRepo.AddReceipt(ctx, trip.ID, added); err != nil {
		if delErr := uc.storage.Delete(ctx, stored.StorageID); delErr != nil {
			slog.Warn("Failed to clean up receipt after update error", "error", delErr, "storage_id", stored.StorageID)
		}
		return nil, fmt.Errorf("failed to save receipt reference: %w", err)
	}

	return &added, nil
}

// DeleteReceiptUseCase removes one receipt from a trip.
type DeleteReceiptUseCase struct {
	tripRepo adapter.TripRepository
	storage  adapter.ReceiptStorage
}

// NewDeleteReceiptUseCase creates a new DeleteReceiptUseCase instance.
func NewDeleteReceiptUseCase(tripRepo adapter.TripRepository, storage adapter.ReceiptStorage) *DeleteReceiptUseCase {
	return &DeleteReceiptUseCase{
		tripRepo: tripRepo,
		storage:  storage,
	}
}

// Execute deletes the remote object and then drops the reference.
func (uc *DeleteReceiptUseCase) Execute(ctx context.Context, tripID, receiptID, userID uuid.UUID) error {
	trip, err := findOwned(ctx, uc.tripRepo, tripID, userID)
	if err != nil {
		return err
	}

	r, ok := trip.FindReceipt(receiptID)
	if !ok {
		return domainerror.NewTripError(
			domainerror.ErrCodeTripReceiptNotFound,
			"receipt not found on trip",
			domainerror.ErrTripReceiptNotFound,
		)
	}

	if err := uc.storage.Delete(ctx, r.StorageID); err != nil {
		return err
	}

	if err := uc.tripRepo.RemoveReceipt(ctx, trip.ID, receiptID); err != nil {
		// A concurrent request already dropped the row, the object is gone too.
		if errors.Is(err, domainerror.ErrTripReceiptNotFound) {
			return nil
		}
		return fmt.Errorf("failed to remove receipt reference: %w", err)
	}
	return nil
}

// ListReceiptsUseCase returns a trip's receipts.
type ListReceiptsUseCase struct {
	tripRepo adapter.TripRepository
}

// NewListReceiptsUseCase creates a new ListReceiptsUseCase instance.
func NewListReceiptsUseCase(tripRepo adapter.TripRepository) *ListReceiptsUseCase {
	return &ListReceiptsUseCase{tripRepo: tripRepo}
}

// Execute returns the receipts in upload order.
func (uc *ListReceiptsUseCase) Execute(ctx context.Context, tripID, userID uuid.UUID) ([]entity.TripReceipt, error) {
	trip, err := findOwned(ctx, uc.tripRepo, tripID, userID)
	if err != nil {
		return nil, err
	}
	return trip.Receipts, nil
}
