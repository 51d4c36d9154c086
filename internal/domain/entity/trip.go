package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDriverSalary is the monthly salary assumed when none is given.
var DefaultDriverSalary = decimal.NewFromInt(7000)

// TripPaymentStatus tracks whether the party has settled a trip.
type TripPaymentStatus string

const (
	TripPaymentPending TripPaymentStatus = "Pending"
	TripPaymentCleared TripPaymentStatus = "Cleared"
)

// IsValid reports whether the status is known.
func (s TripPaymentStatus) IsValid() bool {
	return s == TripPaymentPending || s == TripPaymentCleared
}

// DriverAllowance is the nested salary record of the driver on a trip.
type DriverAllowance struct {
	TotalSalary decimal.Decimal
	Bonus       decimal.Decimal
	Paid        decimal.Decimal
}

// TripCosts groups the cost line items of a trip. Every field is required;
// missing values are zero.
type TripCosts struct {
	FuelCost        decimal.Decimal
	Hamaali         decimal.Decimal
	PaidTransport   decimal.Decimal
	MaintenanceCost decimal.Decimal
	OtherExpenses   decimal.Decimal
	Commission      decimal.Decimal
	PendingAmount   decimal.Decimal
	WalletPayment   decimal.Decimal
}

// TripReceipt is a receipt attachment on a trip.
type TripReceipt struct {
	ID         uuid.UUID
	URL        string
	StorageID  string
	UploadedAt time.Time
}

// Trip is a single transport trip. UserID is nil only for legacy rows.
type Trip struct {
	ID              uuid.UUID
	UserID          *uuid.UUID
	VehicleNumber   string
	Route           string
	MonthAndYear    string
	TripDate        time.Time
	TotalIncome     decimal.Decimal
	Costs           TripCosts
	DriverAllowance DriverAllowance
	PaymentStatus   TripPaymentStatus
	Receipts        []TripReceipt
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewTrip creates a trip owned by userID with defaults applied.
func NewTrip(userID uuid.UUID, vehicleNumber, route, monthAndYear string, tripDate time.Time) *Trip {
	now := time.Now().UTC()
	if tripDate.IsZero() {
		tripDate = now
	}
	owner := userID
	return &Trip{
		ID:            uuid.New(),
		UserID:        &owner,
		VehicleNumber: NormalizeVehicleNumber(vehicleNumber),
		Route:         strings.TrimSpace(route),
		MonthAndYear:  strings.TrimSpace(monthAndYear),
		TripDate:      tripDate,
		DriverAllowance: DriverAllowance{
			TotalSalary: DefaultDriverSalary,
		},
		PaymentStatus: TripPaymentPending,
		Receipts:      []TripReceipt{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NormalizeVehicleNumber trims and upper-cases a vehicle registration.
func NormalizeVehicleNumber(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// IsOwnedBy reports whether the trip belongs to userID.
func (t *Trip) IsOwnedBy(userID uuid.UUID) bool {
	return t.UserID != nil && *t.UserID == userID
}

// AddReceipt appends a receipt attachment.
func (t *Trip) AddReceipt(url, storageID string) TripReceipt {
	r := TripReceipt{
		ID:         uuid.New(),
		URL:        url,
		StorageID:  storageID,
		UploadedAt: time.Now().UTC(),
	}
	t.Receipts = append(t.Receipts, r)
	t.UpdatedAt = r.UploadedAt
	return r
}

// FindReceipt returns the receipt with the given id.
func (t *Trip) FindReceipt(id uuid.UUID) (TripReceipt, bool) {
	for _, r := range t.Receipts {
		if r.ID == id {
			return r, true
		}
	}
	return TripReceipt{}, false
}

// RemoveReceipt drops the receipt with the given id.
func (t *Trip) RemoveReceipt(id uuid.UUID) {
	kept := t.Receipts[:0]
	for _, r := range t.Receipts {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	t.Receipts = kept
	t.UpdatedAt = time.Now().UTC()
}
