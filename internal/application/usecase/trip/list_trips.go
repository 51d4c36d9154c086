package trip

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListTripsInput represents the input for listing trips.
type ListTripsInput struct {
	UserID        uuid.UUID
	VehicleNumber string
	Route         string
	MonthAndYear  string
	PaymentStatus *entity.TripPaymentStatus
	Limit         int
	Offset        int
}

// ListTripsOutput represents one page of trips.
type ListTripsOutput struct {
	Trips  []*TripOutput
	Total  int64
	Limit  int
	Offset int
}

// ListTripsUseCase handles trip listing logic.
type ListTripsUseCase struct {
	tripRepo adapter.TripRepository
}

// NewListTripsUseCase creates a new ListTripsUseCase instance.
func NewListTripsUseCase(tripRepo adapter.TripRepository) *ListTripsUseCase {
	return &ListTripsUseCase{tripRepo: tripRepo}
}

// Execute lists the user's trips newest first.
func (uc *ListTripsUseCase) Execute(ctx context.Context, input ListTripsInput) (*ListTripsOutput, error) {
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeInvalidTripPaymentStatus,
			"payment status must be Pending or Cleared",
			domainerror.ErrInvalidTripPaymentStatus,
		)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	trips, total, err := uc.tripRepo.List(ctx, input.UserID, adapter.TripFilter{
		VehicleNumber: entity.NormalizeVehicleNumber(input.VehicleNumber),
		Route:         strings.TrimSpace(input.Route),
		MonthAndYear:  strings.TrimSpace(input.MonthAndYear),
		PaymentStatus: input.PaymentStatus,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	out := &ListTripsOutput{
		Trips:  make([]*TripOutput, 0, len(trips)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, t := range trips {
		out.Trips = append(out.Trips, NewTripOutput(t))
	}
	return out, nil
}

// GetTripUseCase loads a single trip.
type GetTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewGetTripUseCase creates a new GetTripUseCase instance.
func NewGetTripUseCase(tripRepo adapter.TripRepository) *GetTripUseCase {
	return &GetTripUseCase{tripRepo: tripRepo}
}

// Execute returns the trip if it belongs to userID.
func (uc *GetTripUseCase) Execute(ctx context.Context, id, userID uuid.UUID) (*TripOutput, error) {
	trip, err := findOwned(ctx, uc.tripRepo, id, userID)
	if err != nil {
		return nil, err
	}
	return NewTripOutput(trip), nil
}
