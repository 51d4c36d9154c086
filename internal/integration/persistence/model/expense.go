package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseModel represents the expenses table in the database.
//
// Tags are encoded as a postgres array literal in a text column so the same
// schema migrates on sqlite in tests.
type ExpenseModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_expenses_user_date,priority:1"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Category           string          `gorm:"type:varchar(50);not null;index"`
	Subcategory        string          `gorm:"type:varchar(100)"`
	Description        string          `gorm:"type:varchar(500)"`
	Date               time.Time       `gorm:"not null;index:idx_expenses_user_date,priority:2"`
	PaymentMethod      string          `gorm:"type:varchar(30);not null;default:'Cash'"`
	ReceiptURL         *string         `gorm:"type:varchar(1000)"`
	ReceiptStorageID   *string         `gorm:"type:varchar(500)"`
	ReceiptUploadedAt  *time.Time
	Tags               pq.StringArray `gorm:"type:text"`
	IsRecurring        bool           `gorm:"default:false"`
	RecurringFrequency *string        `gorm:"type:varchar(20)"`
	CreatedAt          time.Time      `gorm:"not null"`
	UpdatedAt          time.Time      `gorm:"not null"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	e := &entity.Expense{
		ID:            m.ID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		Category:      entity.ExpenseCategory(m.Category),
		Subcategory:   m.Subcategory,
		Description:   m.Description,
		Date:          m.Date,
		PaymentMethod: entity.PaymentMethod(m.PaymentMethod),
		Tags:          []string(m.Tags),
		IsRecurring:   m.IsRecurring,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if m.ReceiptStorageID != nil && *m.ReceiptStorageID != "" {
		r := &entity.Receipt{StorageID: *m.ReceiptStorageID}
		if m.ReceiptURL != nil {
			r.URL = *m.ReceiptURL
		}
		if m.ReceiptUploadedAt != nil {
			r.UploadedAt = *m.ReceiptUploadedAt
		}
		e.Receipt = r
	}
	if m.IsRecurring && m.RecurringFrequency != nil {
		f := entity.RecurringFrequency(*m.RecurringFrequency)
		e.RecurringFrequency = &f
	}
	return e
}

// ExpenseModelFromEntity creates an ExpenseModel from a domain Expense entity.
// Dates are stored in UTC.
func ExpenseModelFromEntity(e *entity.Expense) *ExpenseModel {
	m := &ExpenseModel{
		ID:            e.ID,
		UserID:        e.UserID,
		Amount:        e.Amount,
		Category:      string(e.Category),
		Subcategory:   e.Subcategory,
		Description:   e.Description,
		Date:          e.Date.UTC(),
		PaymentMethod: string(e.PaymentMethod),
		Tags:          pq.StringArray(e.Tags),
		IsRecurring:   e.IsRecurring,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.HasReceipt() {
		url := e.Receipt.URL
		id := e.Receipt.StorageID
		uploaded := e.Receipt.UploadedAt.UTC()
		m.ReceiptURL = &url
		m.ReceiptStorageID = &id
		m.ReceiptUploadedAt = &uploaded
	}
	if e.IsRecurring && e.RecurringFrequency != nil {
		f := string(*e.RecurringFrequency)
		m.RecurringFrequency = &f
	}
	return m
}
