// Package payment contains the support contribution flow: order creation
// through the payment gateway and checkout verification.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// SupportersLimit caps the public supporters list.
const SupportersLimit = 50

const orderPurpose = "Support the development of Transport Expense Tracker"

// CreateOrderInput represents a support order request. UserID is uuid.Nil
// for anonymous visitors.
type CreateOrderInput struct {
	UserID        uuid.UUID
	SupporterName string
	Message       string
}

// CreateOrderOutput carries what the client needs to open the checkout.
type CreateOrderOutput struct {
	Order     *adapter.GatewayOrder
	PaymentID uuid.UUID
	KeyID     string
}

// CreateOrderUseCase creates a gateway order for the fixed support amount.
type CreateOrderUseCase struct {
	paymentRepo adapter.SupportPaymentRepository
	gateway     adapter.OrderGateway
}

// NewCreateOrderUseCase creates a new CreateOrderUseCase instance.
func NewCreateOrderUseCase(paymentRepo adapter.SupportPaymentRepository, gateway adapter.OrderGateway) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		paymentRepo: paymentRepo,
		gateway:     gateway,
	}
}

// Execute creates the order and records it as created.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	notes := map[string]string{"purpose": orderPurpose}
	if input.UserID != uuid.Nil {
		notes["userId"] = input.UserID.String()
	}

	order, err := uc.gateway.CreateOrder(ctx, adapter.CreateOrderInput{
		Amount:   entity.SupportAmountRupees * 100,
		Currency: entity.SupportCurrency,
		Receipt:  receiptID(),
		Notes:    notes,
	})
	if err != nil {
		slog.Error("Failed to create support order", "error", err, "user_id", input.UserID)
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodePaymentGatewayUnavailable,
			"payment gateway unavailable",
			errors.Join(domainerror.ErrPaymentGatewayUnavailable, err),
		)
	}

	p := entity.NewSupportPayment(input.UserID, strings.TrimSpace(input.SupporterName), strings.TrimSpace(input.Message), order.ID)
	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save support payment: %w", err)
	}

	return &CreateOrderOutput{
		Order:     order,
		PaymentID: p.ID,
		KeyID:     uc.gateway.KeyID(),
	}, nil
}

func receiptID() string {
	b := make([]byte, 10)
	_, _ = rand.Read(b)
	return "receipt_order_" + hex.EncodeToString(b)
}

// VerifyPaymentInput is the checkout callback payload.
type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyPaymentUseCase confirms a checkout.
type VerifyPaymentUseCase struct {
	paymentRepo adapter.SupportPaymentRepository
	gateway     adapter.OrderGateway
}

// NewVerifyPaymentUseCase creates a new VerifyPaymentUseCase instance.
func NewVerifyPaymentUseCase(paymentRepo adapter.SupportPaymentRepository, gateway adapter.OrderGateway) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		paymentRepo: paymentRepo,
		gateway:     gateway,
	}
}

// Execute checks the signature before any lookup, then the stored amount,
// and marks the record paid.
func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, input VerifyPaymentInput) (*entity.SupportPayment, error) {
	if input.OrderID == "" || input.PaymentID == "" || input.Signature == "" {
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodeMissingPaymentFields,
			"order id, payment id and signature are required",
			nil,
		)
	}

	if !uc.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		slog.Warn("Rejected support payment with invalid signature", "order_id", input.OrderID)
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodeInvalidPaymentSignature,
			"invalid payment signature",
			domainerror.ErrInvalidPaymentSignature,
		)
	}

	p, err := uc.paymentRepo.FindByOrderID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, domainerror.ErrPaymentNotFound) {
			return nil, domainerror.NewPaymentError(
				domainerror.ErrCodePaymentNotFound,
				"payment record not found",
				domainerror.ErrPaymentNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find support payment: %w", err)
	}

	if p.Status == entity.SupportPaymentPaid {
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodePaymentAlreadyVerified,
			"payment already verified",
			domainerror.ErrPaymentAlreadyVerified,
		)
	}

	if p.Amount != entity.SupportAmountRupees*100 || p.Currency != entity.SupportCurrency {
		p.MarkFailed()
		if err := uc.paymentRepo.Update(ctx, p); err != nil {
			slog.Error("Failed to mark support payment failed", "error", err, "order_id", p.GatewayOrderID)
		}
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodePaymentAmountMismatch,
			"payment amount mismatch",
			domainerror.ErrPaymentAmountMismatch,
		)
	}

	p.MarkPaid(input.PaymentID, input.Signature)
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save support payment: %w", err)
	}

	slog.Info("Support payment verified", "order_id", p.GatewayOrderID, "payment_id", p.GatewayPaymentID)
	return p, nil
}

// ListPaymentsUseCase returns the caller's own payments.
type ListPaymentsUseCase struct {
	paymentRepo adapter.SupportPaymentRepository
}

// NewListPaymentsUseCase creates a new ListPaymentsUseCase instance.
func NewListPaymentsUseCase(paymentRepo adapter.SupportPaymentRepository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{paymentRepo: paymentRepo}
}

func (uc *ListPaymentsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*entity.SupportPayment, error) {
	payments, err := uc.paymentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list support payments: %w", err)
	}
	return payments, nil
}

// ListSupportersUseCase returns the public list of paid contributions.
type ListSupportersUseCase struct {
	paymentRepo adapter.SupportPaymentRepository
}

// NewListSupportersUseCase creates a new ListSupportersUseCase instance.
func NewListSupportersUseCase(paymentRepo adapter.SupportPaymentRepository) *ListSupportersUseCase {
	return &ListSupportersUseCase{paymentRepo: paymentRepo}
}

func (uc *ListSupportersUseCase) Execute(ctx context.Context) ([]*entity.SupportPayment, error) {
	supporters, err := uc.paymentRepo.FindRecentPaid(ctx, SupportersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list supporters: %w", err)
	}
	return supporters, nil
}
