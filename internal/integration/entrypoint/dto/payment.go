package dto

import (
	"time"

	"github.com/expense-tracker/backend/internal/application/usecase/payment"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// CreateOrderRequest represents the request body for a support order.
type CreateOrderRequest struct {
	SupporterName string `json:"supporterName" binding:"max=100"`
	Message       string `json:"message" binding:"max=500"`
}

// VerifyPaymentRequest carries the values returned by the checkout widget.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// OrderResponse represents a created support order.
type OrderResponse struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	KeyID     string `json:"keyId"`
	PaymentID string `json:"paymentId"`
}

// PaymentResponse represents a support payment.
type PaymentResponse struct {
	ID            string     `json:"id"`
	SupporterName string     `json:"supporterName"`
	Message       string     `json:"message,omitempty"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	OrderID       string     `json:"orderId"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// SupporterResponse is the public view of a paid support payment.
type SupporterResponse struct {
	Name      string    `json:"name"`
	Message   string    `json:"message,omitempty"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToOrderResponse converts a created order.
func ToOrderResponse(out *payment.CreateOrderOutput) OrderResponse {
	return OrderResponse{
		OrderID:   out.Order.ID,
		Amount:    out.Order.Amount,
		Currency:  out.Order.Currency,
		KeyID:     out.KeyID,
		PaymentID: out.PaymentID.String(),
	}
}

// ToPaymentResponse converts a support payment.
func ToPaymentResponse(p *entity.SupportPayment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		SupporterName: p.SupporterName,
		Message:       p.Message,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		OrderID:       p.GatewayOrderID,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}

// ToPaymentResponses converts support payments.
func ToPaymentResponses(payments []*entity.SupportPayment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToPaymentResponse(p))
	}
	return out
}

// ToSupporterResponses converts paid support payments to their public view.
func ToSupporterResponses(payments []*entity.SupportPayment) []SupporterResponse {
	out := make([]SupporterResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, SupporterResponse{
			Name:      p.SupporterName,
			Message:   p.Message,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}
