package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// TripFilter narrows a trip listing. Empty fields mean no constraint.
type TripFilter struct {
	VehicleNumber string
	Route         string
	MonthAndYear  string
	PaymentStatus *entity.TripPaymentStatus
	Limit         int
	Offset        int
}

// TripRepository defines the interface for trip persistence operations,
// receipts included. Every read is scoped to the owning user.
type TripRepository interface {
	Create(ctx context.Context, trip *entity.Trip) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Trip, error)
	List(ctx context.Context, userID uuid.UUID, filter TripFilter) ([]*entity.Trip, int64, error)

	// Update saves the trip columns. Receipt rows are left untouched.
	Update(ctx context.Context, trip *entity.Trip) error
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// AddReceipt inserts one receipt row for tripID.
	AddReceipt(ctx context.Context, tripID uuid.UUID, receipt entity.TripReceipt) error

	// RemoveReceipt deletes one receipt row. It returns ErrTripReceiptNotFound
	// when the receipt is not attached to tripID.
	RemoveReceipt(ctx context.Context, tripID, receiptID uuid.UUID) error

	// FindInWindow returns the user's trips dated within [start, end], newest first.
	FindInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Trip, error)
}
