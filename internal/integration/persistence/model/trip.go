package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// DriverAllowanceColumns is embedded into the trips table with a driver_ prefix.
type DriverAllowanceColumns struct {
	TotalSalary decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Bonus       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Paid        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TripModel represents the trips table in the database. UserID is nullable
// for legacy rows recorded before trips had owners.
type TripModel struct {
	ID              uuid.UUID              `gorm:"type:uuid;primaryKey"`
	UserID          *uuid.UUID             `gorm:"type:uuid;index:idx_trips_user_date,priority:1"`
	VehicleNumber   string                 `gorm:"type:varchar(30);not null;index"`
	Route           string                 `gorm:"type:varchar(200);not null"`
	MonthAndYear    string                 `gorm:"type:varchar(30)"`
	TripDate        time.Time              `gorm:"not null;index:idx_trips_user_date,priority:2"`
	TotalIncome     decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	FuelCost        decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	Hamaali         decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	PaidTransport   decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	MaintenanceCost decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	OtherExpenses   decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	Commission      decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	PendingAmount   decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	WalletPayment   decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0"`
	DriverAllowance DriverAllowanceColumns `gorm:"embedded;embeddedPrefix:driver_"`
	PaymentStatus   string                 `gorm:"type:varchar(20);not null;default:'Pending'"`
	Receipts        []TripReceiptModel     `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"not null"`
	UpdatedAt       time.Time              `gorm:"not null"`
}

// TableName returns the table name for the TripModel.
func (TripModel) TableName() string {
	return "trips"
}

// TripReceiptModel represents the trip_receipts table in the database.
type TripReceiptModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TripID     uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"type:varchar(1000);not null"`
	StorageID  string    `gorm:"type:varchar(500);not null"`
	UploadedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the TripReceiptModel.
func (TripReceiptModel) TableName() string {
	return "trip_receipts"
}

// TripReceiptModelFromEntity converts a receipt attached to tripID.
func TripReceiptModelFromEntity(tripID uuid.UUID, r entity.TripReceipt) *TripReceiptModel {
	return &TripReceiptModel{
		ID:         r.ID,
		TripID:     tripID,
		URL:        r.URL,
		StorageID:  r.StorageID,
		UploadedAt: r.UploadedAt.UTC(),
	}
}

// ToEntity converts a TripModel to a domain Trip entity.
func (m *TripModel) ToEntity() *entity.Trip {
	receipts := make([]entity.TripReceipt, len(m.Receipts))
	for i, r := range m.Receipts {
		receipts[i] = entity.TripReceipt{
			ID:         r.ID,
			URL:        r.URL,
			StorageID:  r.StorageID,
			UploadedAt: r.UploadedAt,
		}
	}

	return &entity.Trip{
		ID:            m.ID,
		UserID:        m.UserID,
		VehicleNumber: m.VehicleNumber,
		Route:         m.Route,
		MonthAndYear:  m.MonthAndYear,
		TripDate:      m.TripDate,
		TotalIncome:   m.TotalIncome,
		Costs: entity.TripCosts{
			FuelCost:        m.FuelCost,
			Hamaali:         m.Hamaali,
			PaidTransport:   m.PaidTransport,
			MaintenanceCost: m.MaintenanceCost,
			OtherExpenses:   m.OtherExpenses,
			Commission:      m.Commission,
			PendingAmount:   m.PendingAmount,
			WalletPayment:   m.WalletPayment,
		},
		DriverAllowance: entity.DriverAllowance{
			TotalSalary: m.DriverAllowance.TotalSalary,
			Bonus:       m.DriverAllowance.Bonus,
			Paid:        m.DriverAllowance.Paid,
		},
		PaymentStatus: entity.TripPaymentStatus(m.PaymentStatus),
		Receipts:      receipts,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// TripModelFromEntity creates a TripModel from a domain Trip entity,
// receipts included. Dates are stored in UTC.
func TripModelFromEntity(t *entity.Trip) *TripModel {
	receipts := make([]TripReceiptModel, len(t.Receipts))
	for i, r := range t.Receipts {
		receipts[i] = *TripReceiptModelFromEntity(t.ID, r)
	}

	return &TripModel{
		ID:              t.ID,
		UserID:          t.UserID,
		VehicleNumber:   t.VehicleNumber,
		Route:           t.Route,
		MonthAndYear:    t.MonthAndYear,
		TripDate:        t.TripDate.UTC(),
		TotalIncome:     t.TotalIncome,
		FuelCost:        t.Costs.FuelCost,
		Hamaali:         t.Costs.Hamaali,
		PaidTransport:   t.Costs.PaidTransport,
		MaintenanceCost: t.Costs.MaintenanceCost,
		OtherExpenses:   t.Costs.OtherExpenses,
		Commission:      t.Costs.Commission,
		PendingAmount:   t.Costs.PendingAmount,
		WalletPayment:   t.Costs.WalletPayment,
		DriverAllowance: DriverAllowanceColumns{
			TotalSalary: t.DriverAllowance.TotalSalary,
			Bonus:       t.DriverAllowance.Bonus,
			Paid:        t.DriverAllowance.Paid,
		},
		PaymentStatus: string(t.PaymentStatus),
		Receipts:      receipts,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
