// Package trip contains transport trip use cases.
package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/finance"
)

// TripOutput is a trip with its derived figures computed at read time.
type TripOutput struct {
	Trip               *entity.Trip
	TotalExpenses      decimal.Decimal
	TotalOutflow       decimal.Decimal
	NetProfit          decimal.Decimal
	AllowanceRemaining decimal.Decimal
}

// NewTripOutput derives the read-time figures of trip.
func NewTripOutput(trip *entity.Trip) *TripOutput {
	return &TripOutput{
		Trip:               trip,
		TotalExpenses:      finance.TripTotalExpenses(trip),
		TotalOutflow:       finance.TripTotalOutflow(trip),
		NetProfit:          finance.TripNetProfit(trip),
		AllowanceRemaining: finance.DriverAllowanceRemaining(trip.DriverAllowance),
	}
}

// CreateTripInput represents the input for trip creation. A nil allowance
// takes the default salary.
type CreateTripInput struct {
	UserID          uuid.UUID
	VehicleNumber   string
	Route           string
	MonthAndYear    string
	TripDate        *time.Time
	TotalIncome     decimal.Decimal
	Costs           entity.TripCosts
	DriverAllowance *entity.DriverAllowance
	PaymentStatus   entity.TripPaymentStatus
}

// CreateTripUseCase handles trip creation logic.
type CreateTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewCreateTripUseCase creates a new CreateTripUseCase instance.
func NewCreateTripUseCase(tripRepo adapter.TripRepository) *CreateTripUseCase {
	return &CreateTripUseCase{tripRepo: tripRepo}
}

// Execute performs the trip creation.
func (uc *CreateTripUseCase) Execute(ctx context.Context, input CreateTripInput) (*TripOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeMissingTripFields,
			"trips must belong to a user",
			nil,
		)
	}

	var date time.Time
	if input.TripDate != nil {
		date = *input.TripDate
	}

	trip := entity.NewTrip(input.UserID, input.VehicleNumber, input.Route, input.MonthAndYear, date)
	trip.TotalIncome = input.TotalIncome
	trip.Costs = input.Costs
	if input.DriverAllowance != nil {
		trip.DriverAllowance = *input.DriverAllowance
	}
	if input.PaymentStatus != "" {
		trip.PaymentStatus = input.PaymentStatus
	}

	if err := validateTrip(trip); err != nil {
		return nil, err
	}

	if err := uc.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return NewTripOutput(trip), nil
}

func validateTrip(t *entity.Trip) error {
	if t.VehicleNumber == "" {
		return domainerror.NewTripError(
			domainerror.ErrCodeInvalidVehicleNumber,
			"vehicle number is required",
			domainerror.ErrInvalidVehicleNumber,
		)
	}
	if t.Route == "" {
		return domainerror.NewTripError(
			domainerror.ErrCodeInvalidRoute,
			"route is required",
			domainerror.ErrInvalidRoute,
		)
	}
	if strings.TrimSpace(t.MonthAndYear) == "" {
		return domainerror.NewTripError(
			domainerror.ErrCodeMissingTripFields,
			"month and year is required",
			nil,
		)
	}
	if !t.PaymentStatus.IsValid() {
		return domainerror.NewTripError(
			domainerror.ErrCodeInvalidTripPaymentStatus,
			"payment status must be Pending or Cleared",
			domainerror.ErrInvalidTripPaymentStatus,
		)
	}

	c := t.Costs
	a := t.DriverAllowance
	for _, amount := range []decimal.Decimal{
		t.TotalIncome,
		c.FuelCost, c.Hamaali, c.PaidTransport, c.MaintenanceCost,
		c.OtherExpenses, c.Commission, c.PendingAmount, c.WalletPayment,
		a.TotalSalary, a.Bonus, a.Paid,
	} {
		if amount.IsNegative() {
			return domainerror.NewTripError(
				domainerror.ErrCodeNegativeTripAmount,
				"trip amounts cannot be negative",
				domainerror.ErrNegativeTripAmount,
			)
		}
	}
	return nil
}

// findOwned loads a trip scoped to its owner and maps the not found case.
func findOwned(ctx context.Context, repo adapter.TripRepository, id, userID uuid.UUID) (*entity.Trip, error) {
	trip, err := repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTripNotFound) {
			return nil, tripNotFound()
		}
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}
	return trip, nil
}

func tripNotFound() error {
	return domainerror.NewTripError(
		domainerror.ErrCodeTripNotFound,
		"trip not found",
		domainerror.ErrTripNotFound,
	)
}
