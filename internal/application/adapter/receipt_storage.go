package adapter

import (
	"context"
	"io"
)

// UploadObjectInput describes a file to store remotely.
type UploadObjectInput struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// StoredObject is the reference kept on the record after upload.
type StoredObject struct {
	URL       string
	StorageID string
}

// ReceiptStorage keeps receipt files in remote object storage.
type ReceiptStorage interface {
	Upload(ctx context.Context, input UploadObjectInput) (*StoredObject, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, storageID string) error
}
