package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

// tripRepository implements the adapter.TripRepository interface.
type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository instance.
func NewTripRepository(db *gorm.DB) adapter.TripRepository {
	return &tripRepository{
		db: db,
	}
}

// Create inserts a trip together with its receipts.
func (r *tripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	return r.db.WithContext(ctx).Create(model.TripModelFromEntity(trip)).Error
}

// FindByID retrieves a trip owned by userID.
func (r *tripRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Trip, error) {
	var tripModel model.TripModel
	result := r.db.WithContext(ctx).
		Preload("Receipts", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tripModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTripNotFound
		}
		return nil, result.Error
	}
	return tripModel.ToEntity(), nil
}

// List returns one page of the user's trips and the total count matching filter.
func (r *tripRepository) List(ctx context.Context, userID uuid.UUID, filter adapter.TripFilter) ([]*entity.Trip, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.TripModel{}).Where("user_id = ?", userID)

	if filter.VehicleNumber != "" {
		query = query.Where("vehicle_number = ?", entity.NormalizeVehicleNumber(filter.VehicleNumber))
	}
	if filter.Route != "" {
		query = query.Where("route = ?", filter.Route)
	}
	if filter.MonthAndYear != "" {
		query = query.Where("month_and_year = ?", filter.MonthAndYear)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", string(*filter.PaymentStatus))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var models []model.TripModel
	result := query.
		Preload("Receipts").
		Order("trip_date DESC").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&models)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return tripsToEntities(models), total, nil
}

// Update saves the trip columns only. Receipts are written one row at a time
// through AddReceipt and RemoveReceipt so a stale copy cannot drop them.
func (r *tripRepository) Update(ctx context.Context, trip *entity.Trip) error {
	tripModel := model.TripModelFromEntity(trip)
	tripModel.Receipts = nil
	return r.db.WithContext(ctx).Omit("Receipts").Save(tripModel).Error
}

// AddReceipt inserts a single receipt row and bumps the trip's updated_at.
func (r *tripRepository) AddReceipt(ctx context.Context, tripID uuid.UUID, receipt entity.TripReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.TripReceiptModelFromEntity(tripID, receipt)).Error; err != nil {
			return err
		}
		return touchTrip(tx, tripID)
	})
}

// RemoveReceipt deletes a single receipt row of tripID.
func (r *tripRepository) RemoveReceipt(ctx context.Context, tripID, receiptID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND trip_id = ?", receiptID, tripID).Delete(&model.TripReceiptModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTripReceiptNotFound
		}
		return touchTrip(tx, tripID)
	})
}

func touchTrip(tx *gorm.DB, tripID uuid.UUID) error {
	return tx.Model(&model.TripModel{}).Where("id = ?", tripID).Update("updated_at", time.Now().UTC()).Error
}

// Delete removes a trip owned by userID along with its receipts.
func (r *tripRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.TripModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTripNotFound
		}
		return tx.Where("trip_id = ?", id).Delete(&model.TripReceiptModel{}).Error
	})
}

// FindInWindow returns the user's trips dated within [start, end].
func (r *tripRepository) FindInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Trip, error) {
	var models []model.TripModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("trip_date >= ? AND trip_date <= ?", start.UTC(), end.UTC()).
		Order("trip_date DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return tripsToEntities(models), nil
}

func tripsToEntities(models []model.TripModel) []*entity.Trip {
	trips := make([]*entity.Trip, len(models))
	for i := range models {
		trips[i] = models[i].ToEntity()
	}
	return trips
}
