package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// SupportPaymentModel represents the support_payments table in the database.
type SupportPaymentModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupporterName    string     `gorm:"type:varchar(100);not null;default:'Anonymous'"`
	Message          string     `gorm:"type:varchar(500)"`
	Amount           int64      `gorm:"not null"`
	Currency         string     `gorm:"type:varchar(3);not null;default:'INR'"`
	GatewayOrderID   string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	GatewayPaymentID string     `gorm:"type:varchar(100)"`
	GatewaySignature string     `gorm:"type:varchar(200)"`
	Status           string     `gorm:"type:varchar(20);not null;default:'created';index"`
	PaidAt           *time.Time `gorm:"type:timestamptz"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

// TableName returns the table name for the SupportPaymentModel.
func (SupportPaymentModel) TableName() string {
	return "support_payments"
}

// ToEntity converts a SupportPaymentModel to a domain SupportPayment entity.
func (m *SupportPaymentModel) ToEntity() *entity.SupportPayment {
	return &entity.SupportPayment{
		ID:               m.ID,
		UserID:           m.UserID,
		SupporterName:    m.SupporterName,
		Message:          m.Message,
		Amount:           m.Amount,
		Currency:         m.Currency,
		GatewayOrderID:   m.GatewayOrderID,
		GatewayPaymentID: m.GatewayPaymentID,
		GatewaySignature: m.GatewaySignature,
		Status:           entity.SupportPaymentStatus(m.Status),
		PaidAt:           m.PaidAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// SupportPaymentModelFromEntity creates a SupportPaymentModel from a domain entity.
func SupportPaymentModelFromEntity(p *entity.SupportPayment) *SupportPaymentModel {
	return &SupportPaymentModel{
		ID:               p.ID,
		UserID:           p.UserID,
		SupporterName:    p.SupporterName,
		Message:          p.Message,
		Amount:           p.Amount,
		Currency:         p.Currency,
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID,
		GatewaySignature: p.GatewaySignature,
		Status:           string(p.Status),
		PaidAt:           p.PaidAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
