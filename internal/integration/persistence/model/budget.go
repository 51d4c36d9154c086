package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
type BudgetModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category  string          `gorm:"type:varchar(50);not null"`
	Limit     decimal.Decimal `gorm:"column:limit_amount;type:decimal(15,2);not null"`
	Period    string          `gorm:"type:varchar(20);not null;default:'Monthly'"`
	StartDate time.Time       `gorm:"not null"`
	EndDate   time.Time       `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:        m.ID,
		UserID:    m.UserID,
		Category:  entity.ExpenseCategory(m.Category),
		Limit:     m.Limit,
		Period:    entity.BudgetPeriod(m.Period),
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// BudgetModelFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetModelFromEntity(b *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:        b.ID,
		UserID:    b.UserID,
		Category:  string(b.Category),
		Limit:     b.Limit,
		Period:    string(b.Period),
		StartDate: b.StartDate.UTC(),
		EndDate:   b.EndDate.UTC(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
