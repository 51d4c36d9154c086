package trip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// CostsPatch carries optional cost line items.
type CostsPatch struct {
	FuelCost        *decimal.Decimal
	Hamaali         *decimal.Decimal
	PaidTransport   *decimal.Decimal
	MaintenanceCost *decimal.Decimal
	OtherExpenses   *decimal.Decimal
	Commission      *decimal.Decimal
	PendingAmount   *decimal.Decimal
	WalletPayment   *decimal.Decimal
}

// AllowancePatch carries optional driver allowance fields.
type AllowancePatch struct {
	TotalSalary *decimal.Decimal
	Bonus       *decimal.Decimal
	Paid        *decimal.Decimal
}

// UpdateTripInput represents a partial trip update. Nil fields are left
// untouched.
type UpdateTripInput struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	VehicleNumber   *string
	Route           *string
	MonthAndYear    *string
	TripDate        *time.Time
	TotalIncome     *decimal.Decimal
	Costs           CostsPatch
	DriverAllowance AllowancePatch
	PaymentStatus   *entity.TripPaymentStatus
}

// UpdateTripUseCase handles trip update logic.
type UpdateTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewUpdateTripUseCase creates a new UpdateTripUseCase instance.
func NewUpdateTripUseCase(tripRepo adapter.TripRepository) *UpdateTripUseCase {
	return &UpdateTripUseCase{tripRepo: tripRepo}
}

// Execute performs the trip update.
func (uc *UpdateTripUseCase) Execute(ctx context.Context, input UpdateTripInput) (*TripOutput, error) {
	trip, err := findOwned(ctx, uc.tripRepo, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.VehicleNumber != nil {
		trip.VehicleNumber = entity.NormalizeVehicleNumber(*input.VehicleNumber)
	}
	if input.Route != nil {
		trip.Route = strings.TrimSpace(*input.Route)
	}
	if input.MonthAndYear != nil {
		trip.MonthAndYear = strings.TrimSpace(*input.MonthAndYear)
	}
	if input.TripDate != nil {
		trip.TripDate = *input.TripDate
	}
	if input.PaymentStatus != nil {
		trip.PaymentStatus = *input.PaymentStatus
	}

	apply(&trip.TotalIncome, input.TotalIncome)

	c := &trip.Costs
	apply(&c.FuelCost, input.Costs.FuelCost)
	apply(&c.Hamaali, input.Costs.Hamaali)
	apply(&c.PaidTransport, input.Costs.PaidTransport)
	apply(&c.MaintenanceCost, input.Costs.MaintenanceCost)
	apply(&c.OtherExpenses, input.Costs.OtherExpenses)
	apply(&c.Commission, input.Costs.Commission)
	apply(&c.PendingAmount, input.Costs.PendingAmount)
	apply(&c.WalletPayment, input.Costs.WalletPayment)

	a := &trip.DriverAllowance
	apply(&a.TotalSalary, input.DriverAllowance.TotalSalary)
	apply(&a.Bonus, input.DriverAllowance.Bonus)
	apply(&a.Paid, input.DriverAllowance.Paid)

	if err := validateTrip(trip); err != nil {
		return nil, err
	}

	trip.UpdatedAt = time.Now().UTC()
	if err := uc.tripRepo.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return NewTripOutput(trip), nil
}

func apply(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}
