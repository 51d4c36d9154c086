package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

// supportPaymentRepository implements the adapter.SupportPaymentRepository interface.
type supportPaymentRepository struct {
	db *gorm.DB
}

// NewSupportPaymentRepository creates a new support payment repository instance.
func NewSupportPaymentRepository(db *gorm.DB) adapter.SupportPaymentRepository {
	return &supportPaymentRepository{
		db: db,
	}
}

// Create inserts a new payment record.
func (r *supportPaymentRepository) Create(ctx context.Context, payment *entity.SupportPayment) error {
	return r.db.WithContext(ctx).Create(model.SupportPaymentModelFromEntity(payment)).Error
}

// FindByOrderID retrieves a payment by its gateway order id.
func (r *supportPaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.SupportPayment, error) {
	var paymentModel model.SupportPaymentModel
	result := r.db.WithContext(ctx).Where("gateway_order_id = ?", orderID).First(&paymentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPaymentNotFound
		}
		return nil, result.Error
	}
	return paymentModel.ToEntity(), nil
}

// FindByUser lists every payment the user started, newest first.
func (r *supportPaymentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.SupportPayment, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), 0)
}

// FindRecentPaid returns the latest paid contributions.
func (r *supportPaymentRepository) FindRecentPaid(ctx context.Context, limit int) ([]*entity.SupportPayment, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("status = ?", string(entity.SupportPaymentPaid)), limit)
}

func (r *supportPaymentRepository) find(_ context.Context, query *gorm.DB, limit int) ([]*entity.SupportPayment, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []model.SupportPaymentModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	payments := make([]*entity.SupportPayment, len(models))
	for i := range models {
		payments[i] = models[i].ToEntity()
	}
	return payments, nil
}

// Update saves changes to a payment record.
func (r *supportPaymentRepository) Update(ctx context.Context, payment *entity.SupportPayment) error {
	return r.db.WithContext(ctx).Save(model.SupportPaymentModelFromEntity(payment)).Error
}
