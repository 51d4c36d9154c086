package entity

import (
	"time"

	"github.com/google/uuid"
)

// SupportPaymentStatus tracks a support order through the gateway.
type SupportPaymentStatus string

const (
	SupportPaymentCreated SupportPaymentStatus = "created"
	SupportPaymentPaid    SupportPaymentStatus = "paid"
	SupportPaymentFailed  SupportPaymentStatus = "failed"
)

const (
	// SupportAmountRupees is the fixed contribution for supporting the app.
	SupportAmountRupees = 49
	// SupportCurrency is the only accepted currency.
	SupportCurrency = "INR"
	// AnonymousSupporter is shown when no supporter name is given.
	AnonymousSupporter = "Anonymous"
)

// SupportPayment is a voluntary contribution made through the payment gateway.
// Amount is kept in the smallest currency unit (paise).
type SupportPayment struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SupporterName    string
	Message          string
	Amount           int64
	Currency         string
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	Status           SupportPaymentStatus
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewSupportPayment creates a payment record for a freshly created gateway order.
func NewSupportPayment(userID uuid.UUID, supporterName, message, orderID string) *SupportPayment {
	now := time.Now().UTC()
	if supporterName == "" {
		supporterName = AnonymousSupporter
	}
	return &SupportPayment{
		ID:             uuid.New(),
		UserID:         userID,
		SupporterName:  supporterName,
		Message:        message,
		Amount:         SupportAmountRupees * 100,
		Currency:       SupportCurrency,
		GatewayOrderID: orderID,
		Status:         SupportPaymentCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MarkPaid records a verified gateway payment.
func (p *SupportPayment) MarkPaid(paymentID, signature string) {
	now := time.Now().UTC()
	p.GatewayPaymentID = paymentID
	p.GatewaySignature = signature
	p.Status = SupportPaymentPaid
	p.PaidAt = &now
	p.UpdatedAt = now
}

// MarkFailed records a rejected verification.
func (p *SupportPayment) MarkFailed() {
	p.Status = SupportPaymentFailed
	p.UpdatedAt = time.Now().UTC()
}
