// Package storage keeps receipt files in Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const publicBaseURL = "https://storage.googleapis.com"

// GCSReceiptStorage implements adapter.ReceiptStorage on a GCS bucket.
type GCSReceiptStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSClient creates a client from explicit credentials JSON, falling back to
// application default credentials when none are given.
func NewGCSClient(ctx context.Context, credentialsJSON string) (*storage.Client, error) {
	if strings.TrimSpace(credentialsJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	return storage.NewClient(ctx)
}

// NewGCSReceiptStorage creates the receipt store. Objects are written under prefix.
func NewGCSReceiptStorage(client *storage.Client, bucket, prefix string) *GCSReceiptStorage {
	return &GCSReceiptStorage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Upload streams the body into a new object and returns its public reference.
func (s *GCSReceiptStorage) Upload(ctx context.Context, input adapter.UploadObjectInput) (*adapter.StoredObject, error) {
	objectName := s.objectName(input.Name)

	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = input.ContentType
	wc.CacheControl = "private, max-age=0"

	if input.Body == nil {
		_ = wc.Close()
		return nil, domainerror.NewReceiptError(domainerror.ErrCodeMissingReceiptFile, "receipt body is empty", domainerror.ErrMissingReceiptFile)
	}
	if _, err := io.Copy(wc, input.Body); err != nil {
		_ = wc.Close()
		return nil, domainerror.NewReceiptError(domainerror.ErrCodeReceiptStorageFailed, "failed to upload receipt", err)
	}
	if err := wc.Close(); err != nil {
		return nil, domainerror.NewReceiptError(domainerror.ErrCodeReceiptStorageFailed, "failed to finalize receipt upload", err)
	}

	return &adapter.StoredObject{
		URL:       ObjectURL(s.bucket, objectName),
		StorageID: objectName,
	}, nil
}

// Delete removes an object. A missing object counts as deleted.
func (s *GCSReceiptStorage) Delete(ctx context.Context, storageID string) error {
	if storageID == "" {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(storageID).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return domainerror.NewReceiptError(domainerror.ErrCodeReceiptStorageFailed, "failed to delete receipt", err)
	}
	return nil
}

func (s *GCSReceiptStorage) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// ObjectURL returns the public URL of an object.
func ObjectURL(bucket, objectName string) string {
	segments := strings.Split(objectName, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", publicBaseURL, bucket, strings.Join(segments, "/"))
}
