package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// DeleteTripUseCase handles trip deletion logic.
type DeleteTripUseCase struct {
	tripRepo adapter.TripRepository
	storage  adapter.ReceiptStorage
}

// NewDeleteTripUseCase creates a new DeleteTripUseCase instance.
func NewDeleteTripUseCase(tripRepo adapter.TripRepository, storage adapter.ReceiptStorage) *DeleteTripUseCase {
	return &DeleteTripUseCase{
		tripRepo: tripRepo,
		storage:  storage,
	}
}

// Execute deletes every remote receipt and then the trip. A storage failure
// keeps the trip, minus the receipts whose objects were already removed.
func (uc *DeleteTripUseCase) Execute(ctx context.Context, id, userID uuid.UUID) error {
	trip, err := findOwned(ctx, uc.tripRepo, id, userID)
	if err != nil {
		return err
	}

	var removed []entity.TripReceipt
	for _, r := range trip.Receipts {
		if err := uc.storage.Delete(ctx, r.StorageID); err != nil {
			uc.dropRemoved(ctx, trip.ID, removed)
			return err
		}
		removed = append(removed, r)
	}

	if err := uc.tripRepo.Delete(ctx, trip.ID, userID); err != nil {
		if errors.Is(err, domainerror.ErrTripNotFound) {
			return tripNotFound()
		}
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}

// dropRemoved deletes the rows of receipts whose objects are already gone.
func (uc *DeleteTripUseCase) dropRemoved(ctx context.Context, tripID uuid.UUID, removed []entity.TripReceipt) {
	for _, r := range removed {
		if err := uc.tripRepo.RemoveReceipt(ctx, tripID, r.ID); err != nil && !errors.Is(err, domainerror.ErrTripReceiptNotFound) {
			slog.Error("Receipt object deleted but reference kept",
				"error", err,
				"trip_id", tripID,
				"receipt_id", r.ID,
				"storage_id", r.StorageID,
			)
			continue
		}
		slog.Warn("Dropped receipt reference after partial trip delete",
			"trip_id", tripID,
			"receipt_id", r.ID,
			"storage_id", r.StorageID,
		)
	}
}
