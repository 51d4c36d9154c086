package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/usecase/trip"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/finance"
)

// TripCostsRequest carries the optional cost line items of a trip. Missing
// values are treated as zero on create and left untouched on update.
type TripCostsRequest struct {
	FuelCost        *decimal.Decimal `json:"fuelCost"`
	Hamaali         *decimal.Decimal `json:"hamaali"`
	PaidTransport   *decimal.Decimal `json:"paidTransport"`
	MaintenanceCost *decimal.Decimal `json:"maintenanceCost"`
	OtherExpenses   *decimal.Decimal `json:"otherExpenses"`
	Commission      *decimal.Decimal `json:"commission"`
	PendingAmount   *decimal.Decimal `json:"pendingAmount"`
	WalletPayment   *decimal.Decimal `json:"walletPayment"`
}

// DriverAllowanceRequest carries the optional driver allowance fields.
type DriverAllowanceRequest struct {
	TotalSalary *decimal.Decimal `json:"totalSalary"`
	Bonus       *decimal.Decimal `json:"bonus"`
	Paid        *decimal.Decimal `json:"paid"`
}

// CreateTripRequest represents the request body for creating a trip.
type CreateTripRequest struct {
	VehicleNumber   string                  `json:"vehicleNumber" binding:"required,notblank"`
	Route           string                  `json:"route" binding:"required,notblank"`
	MonthAndYear    string                  `json:"monthAndYear" binding:"required,notblank"`
	TripDate        *time.Time              `json:"tripDate"`
	TotalIncome     *decimal.Decimal        `json:"totalIncome" binding:"required"`
	DriverAllowance *DriverAllowanceRequest `json:"driverAllowance"`
	PaymentStatus   string                  `json:"paymentStatus" binding:"omitempty,oneof=Pending Cleared"`
	TripCostsRequest
}

// UpdateTripRequest represents the request body for a partial trip update.
type UpdateTripRequest struct {
	VehicleNumber   *string                `json:"vehicleNumber" binding:"omitempty,notblank"`
	Route           *string                `json:"route" binding:"omitempty,notblank"`
	MonthAndYear    *string                `json:"monthAndYear" binding:"omitempty,notblank"`
	TripDate        *time.Time             `json:"tripDate"`
	TotalIncome     *decimal.Decimal       `json:"totalIncome"`
	DriverAllowance DriverAllowanceRequest `json:"driverAllowance"`
	PaymentStatus   *string                `json:"paymentStatus" binding:"omitempty,oneof=Pending Cleared"`
	TripCostsRequest
}

// ListTripsQuery represents the query string of the trip list.
type ListTripsQuery struct {
	VehicleNumber string `form:"vehicleNumber"`
	Route         string `form:"route"`
	MonthAndYear  string `form:"monthAndYear"`
	PaymentStatus string `form:"paymentStatus" binding:"omitempty,oneof=Pending Cleared"`
	Limit         int    `form:"limit" binding:"omitempty,min=1"`
	Offset        int    `form:"offset" binding:"omitempty,min=0"`
}

// DriverAllowanceResponse includes the derived remaining amount.
type DriverAllowanceResponse struct {
	TotalSalary decimal.Decimal `json:"totalSalary"`
	Bonus       decimal.Decimal `json:"bonus"`
	Paid        decimal.Decimal `json:"paid"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// TripResponse represents a trip with its derived figures.
type TripResponse struct {
	ID              string                  `json:"id"`
	VehicleNumber   string                  `json:"vehicleNumber"`
	Route           string                  `json:"route"`
	MonthAndYear    string                  `json:"monthAndYear"`
	TripDate        time.Time               `json:"tripDate"`
	TotalIncome     decimal.Decimal         `json:"totalIncome"`
	FuelCost        decimal.Decimal         `json:"fuelCost"`
	Hamaali         decimal.Decimal         `json:"hamaali"`
	PaidTransport   decimal.Decimal         `json:"paidTransport"`
	MaintenanceCost decimal.Decimal         `json:"maintenanceCost"`
	OtherExpenses   decimal.Decimal         `json:"otherExpenses"`
	Commission      decimal.Decimal         `json:"commission"`
	PendingAmount   decimal.Decimal         `json:"pendingAmount"`
	WalletPayment   decimal.Decimal         `json:"walletPayment"`
	DriverAllowance DriverAllowanceResponse `json:"driverAllowance"`
	PaymentStatus   string                  `json:"paymentStatus"`
	Receipts        []ReceiptResponse       `json:"receipts"`
	TotalExpenses   decimal.Decimal         `json:"totalExpenses"`
	TotalOutflow    decimal.Decimal         `json:"totalOutflow"`
	NetProfit       decimal.Decimal         `json:"netProfit"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// TripListResponse represents a page of trips.
type TripListResponse struct {
	Trips      []TripResponse `json:"trips"`
	Pagination Pagination     `json:"pagination"`
}

// Costs converts the request costs, coercing missing values to zero.
func (r TripCostsRequest) Costs() entity.TripCosts {
	return entity.TripCosts{
		FuelCost:        finance.OrZero(r.FuelCost),
		Hamaali:         finance.OrZero(r.Hamaali),
		PaidTransport:   finance.OrZero(r.PaidTransport),
		MaintenanceCost: finance.OrZero(r.MaintenanceCost),
		OtherExpenses:   finance.OrZero(r.OtherExpenses),
		Commission:      finance.OrZero(r.Commission),
		PendingAmount:   finance.OrZero(r.PendingAmount),
		WalletPayment:   finance.OrZero(r.WalletPayment),
	}
}

// Patch converts the request costs into an update patch.
func (r TripCostsRequest) Patch() trip.CostsPatch {
	return trip.CostsPatch{
		FuelCost:        r.FuelCost,
		Hamaali:         r.Hamaali,
		PaidTransport:   r.PaidTransport,
		MaintenanceCost: r.MaintenanceCost,
		OtherExpenses:   r.OtherExpenses,
		Commission:      r.Commission,
		PendingAmount:   r.PendingAmount,
		WalletPayment:   r.WalletPayment,
	}
}

// Allowance converts the request allowance for creation. A nil salary takes
// the default.
func (r *DriverAllowanceRequest) Allowance() *entity.DriverAllowance {
	if r == nil {
		return nil
	}
	salary := entity.DefaultDriverSalary
	if r.TotalSalary != nil {
		salary = *r.TotalSalary
	}
	return &entity.DriverAllowance{
		TotalSalary: salary,
		Bonus:       finance.OrZero(r.Bonus),
		Paid:        finance.OrZero(r.Paid),
	}
}

// Patch converts the request allowance into an update patch.
func (r DriverAllowanceRequest) Patch() trip.AllowancePatch {
	return trip.AllowancePatch{TotalSalary: r.TotalSalary, Bonus: r.Bonus, Paid: r.Paid}
}

// ToTripResponse converts a trip with its derived figures.
func ToTripResponse(out *trip.TripOutput) TripResponse {
	t := out.Trip
	return TripResponse{
		ID:              t.ID.String(),
		VehicleNumber:   t.VehicleNumber,
		Route:           t.Route,
		MonthAndYear:    t.MonthAndYear,
		TripDate:        t.TripDate,
		TotalIncome:     t.TotalIncome,
		FuelCost:        t.Costs.FuelCost,
		Hamaali:         t.Costs.Hamaali,
		PaidTransport:   t.Costs.PaidTransport,
		MaintenanceCost: t.Costs.MaintenanceCost,
		OtherExpenses:   t.Costs.OtherExpenses,
		Commission:      t.Costs.Commission,
		PendingAmount:   t.Costs.PendingAmount,
		WalletPayment:   t.Costs.WalletPayment,
		DriverAllowance: DriverAllowanceResponse{
			TotalSalary: t.DriverAllowance.TotalSalary,
			Bonus:       t.DriverAllowance.Bonus,
			Paid:        t.DriverAllowance.Paid,
			Remaining:   out.AllowanceRemaining,
		},
		PaymentStatus: string(t.PaymentStatus),
		Receipts:      ToTripReceiptResponses(t.Receipts),
		TotalExpenses: out.TotalExpenses,
		TotalOutflow:  out.TotalOutflow,
		NetProfit:     out.NetProfit,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ToTripResponses converts a list of trips.
func ToTripResponses(outs []*trip.TripOutput) []TripResponse {
	resp := make([]TripResponse, 0, len(outs))
	for _, o := range outs {
		resp = append(resp, ToTripResponse(o))
	}
	return resp
}

// ToTripReceiptResponse converts a trip receipt.
func ToTripReceiptResponse(r entity.TripReceipt) ReceiptResponse {
	return ReceiptResponse{ID: r.ID.String(), URL: r.URL, UploadedAt: r.UploadedAt}
}

// ToTripReceiptResponses converts trip receipts.
func ToTripReceiptResponses(receipts []entity.TripReceipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, ToTripReceiptResponse(r))
	}
	return out
}
