package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// SupportPaymentRepository defines the interface for support payment persistence.
type SupportPaymentRepository interface {
	Create(ctx context.Context, payment *entity.SupportPayment) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.SupportPayment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.SupportPayment, error)

	// FindRecentPaid returns the latest paid contributions, newest first.
	FindRecentPaid(ctx context.Context, limit int) ([]*entity.SupportPayment, error)
	Update(ctx context.Context, payment *entity.SupportPayment) error
}
