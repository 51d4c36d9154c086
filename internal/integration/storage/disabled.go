package storage

import (
	"context"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// DisabledReceiptStorage is used when no bucket is configured. Uploads fail;
// deletes succeed so records without receipts can still be removed.
type DisabledReceiptStorage struct{}

// Upload always fails with a storage error.
func (DisabledReceiptStorage) Upload(ctx context.Context, input adapter.UploadObjectInput) (*adapter.StoredObject, error) {
	return nil, domainerror.NewReceiptError(
		domainerror.ErrCodeReceiptStorageFailed,
		"receipt storage is not configured",
		domainerror.ErrReceiptStorageFailed,
	)
}

// Delete is a no-op.
func (DisabledReceiptStorage) Delete(ctx context.Context, storageID string) error {
	return nil
}
