package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory is the closed set of categories an expense can belong to.
type ExpenseCategory string

const (
	CategoryFoodAndDrinking   ExpenseCategory = "Food & Drinking"
	CategoryTransportation    ExpenseCategory = "Transportation"
	CategoryShopping          ExpenseCategory = "Shopping"
	CategoryEntertainment     ExpenseCategory = "Entertainment"
	CategoryBillsAndUtilities ExpenseCategory = "Bills & Utilities"
	CategoryHealthcare        ExpenseCategory = "Healthcare"
	CategoryEducation         ExpenseCategory = "Education"
	CategoryTravel            ExpenseCategory = "Travel"
	CategoryGroceries         ExpenseCategory = "Groceries"
	CategoryPersonalCare      ExpenseCategory = "Personal Care"
	CategoryOther             ExpenseCategory = "Other"
)

// ExpenseCategories lists every valid category in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryFoodAndDrinking,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBillsAndUtilities,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryGroceries,
	CategoryPersonalCare,
	CategoryOther,
}

// IsValid reports whether the category is part of the closed set.
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PaymentMethod is the closed set of ways an expense was paid.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "Cash"
	PaymentMethodCreditCard PaymentMethod = "Credit Card"
	PaymentMethodDebitCard  PaymentMethod = "Debit Card"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "Net Banking"
	PaymentMethodOther      PaymentMethod = "Other"
)

// PaymentMethods lists every valid payment method.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodUPI,
	PaymentMethodNetBanking,
	PaymentMethodOther,
}

// IsValid reports whether the payment method is part of the closed set.
func (p PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if p == known {
			return true
		}
	}
	return false
}

// RecurringFrequency describes how often a recurring expense repeats.
type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "Daily"
	FrequencyWeekly  RecurringFrequency = "Weekly"
	FrequencyMonthly RecurringFrequency = "Monthly"
	FrequencyYearly  RecurringFrequency = "Yearly"
)

// IsValid reports whether the frequency is known.
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Receipt references a file kept in remote object storage.
type Receipt struct {
	URL        string
	StorageID  string
	UploadedAt time.Time
}

// Expense is a single personal expense owned by one user.
type Expense struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Amount             decimal.Decimal
	Category           ExpenseCategory
	Subcategory        string
	Description        string
	Date               time.Time
	PaymentMethod      PaymentMethod
	Receipt            *Receipt
	Tags               []string
	IsRecurring        bool
	RecurringFrequency *RecurringFrequency
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewExpense creates an expense with defaults applied.
func NewExpense(userID uuid.UUID, amount decimal.Decimal, category ExpenseCategory, description string, date time.Time) *Expense {
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}
	return &Expense{
		ID:            uuid.New(),
		UserID:        userID,
		Amount:        amount,
		Category:      category,
		Description:   strings.TrimSpace(description),
		Date:          date,
		PaymentMethod: PaymentMethodCash,
		Tags:          []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SetRecurrence applies the recurrence flag. A non-recurring expense never
// keeps a frequency.
func (e *Expense) SetRecurrence(isRecurring bool, frequency *RecurringFrequency) {
	e.IsRecurring = isRecurring
	if !isRecurring {
		e.RecurringFrequency = nil
		return
	}
	e.RecurringFrequency = frequency
}

// HasReceipt reports whether a remote receipt is attached.
func (e *Expense) HasReceipt() bool {
	return e.Receipt != nil && e.Receipt.StorageID != ""
}
