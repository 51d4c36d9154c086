package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

type memoryPaymentRepo struct {
	payments  []*entity.SupportPayment
	paidLimit int
}

func (r *memoryPaymentRepo) Create(ctx context.Context, p *entity.SupportPayment) error {
	r.payments = append(r.payments, p)
	return nil
}

func (r *memoryPaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*entity.SupportPayment, error) {
	for _, p := range r.payments {
		if p.GatewayOrderID == orderID {
			return p, nil
		}
	}
	return nil, domainerror.ErrPaymentNotFound
}

func (r *memoryPaymentRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.SupportPayment, error) {
	var out []*entity.SupportPayment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPaymentRepo) FindRecentPaid(ctx context.Context, limit int) ([]*entity.SupportPayment, error) {
	r.paidLimit = limit
	var out []*entity.SupportPayment
	for _, p := range r.payments {
		if p.Status == entity.SupportPaymentPaid {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPaymentRepo) Update(ctx context.Context, p *entity.SupportPayment) error {
	return nil
}

type fakeGateway struct {
	lastOrder adapter.CreateOrderInput
	err       error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, input adapter.CreateOrderInput) (*adapter.GatewayOrder, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.lastOrder = input
	return &adapter.GatewayOrder{ID: "order_1", Amount: input.Amount, Currency: input.Currency, Status: "created"}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "sig:"+orderID+"|"+paymentID
}

func (g *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

func paymentCode(err error) domainerror.PaymentErrorCode {
	var pErr *domainerror.PaymentError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return ""
}

func TestCreateOrder(t *testing.T) {
	repo := &memoryPaymentRepo{}
	gateway := &fakeGateway{}
	uc := NewCreateOrderUseCase(repo, gateway)

	out, err := uc.Execute(context.Background(), CreateOrderInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.lastOrder.Amount != 4900 || gateway.lastOrder.Currency != "INR" {
		t.Errorf("order = %+v", gateway.lastOrder)
	}
	if !strings.HasPrefix(gateway.lastOrder.Receipt, "receipt_order_") {
		t.Errorf("receipt = %q", gateway.lastOrder.Receipt)
	}
	if _, ok := gateway.lastOrder.Notes["userId"]; ok {
		t.Error("anonymous orders should not carry a user id")
	}
	if out.KeyID != "rzp_test_key" {
		t.Errorf("key = %q", out.KeyID)
	}
	if repo.payments[0].SupporterName != entity.AnonymousSupporter {
		t.Errorf("supporter = %q", repo.payments[0].SupporterName)
	}
	if repo.payments[0].Status != entity.SupportPaymentCreated {
		t.Errorf("status = %s", repo.payments[0].Status)
	}

	gateway.err = errors.New("connection refused")
	_, err = uc.Execute(context.Background(), CreateOrderInput{UserID: uuid.New()})
	if got := paymentCode(err); got != domainerror.ErrCodePaymentGatewayUnavailable {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
	if len(repo.payments) != 1 {
		t.Error("no record should be created when the gateway fails")
	}
}

func TestVerifyPayment(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(p *entity.SupportPayment)
		input    VerifyPaymentInput
		wantCode domainerror.PaymentErrorCode
		wantStat entity.SupportPaymentStatus
	}{
		{
			name:     "valid signature",
			input:    VerifyPaymentInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig:order_1|pay_1"},
			wantStat: entity.SupportPaymentPaid,
		},
		{
			name:     "tampered signature",
			input:    VerifyPaymentInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig:order_1|pay_2"},
			wantCode: domainerror.ErrCodeInvalidPaymentSignature,
			wantStat: entity.SupportPaymentCreated,
		},
		{
			name:     "missing fields",
			input:    VerifyPaymentInput{OrderID: "order_1"},
			wantCode: domainerror.ErrCodeMissingPaymentFields,
			wantStat: entity.SupportPaymentCreated,
		},
		{
			name:     "unknown order",
			input:    VerifyPaymentInput{OrderID: "order_9", PaymentID: "pay_1", Signature: "sig:order_9|pay_1"},
			wantCode: domainerror.ErrCodePaymentNotFound,
			wantStat: entity.SupportPaymentCreated,
		},
		{
			name:     "amount mismatch",
			setup:    func(p *entity.SupportPayment) { p.Amount = 100 },
			input:    VerifyPaymentInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig:order_1|pay_1"},
			wantCode: domainerror.ErrCodePaymentAmountMismatch,
			wantStat: entity.SupportPaymentFailed,
		},
		{
			name:     "already paid",
			setup:    func(p *entity.SupportPayment) { p.MarkPaid("pay_0", "sig") },
			input:    VerifyPaymentInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig:order_1|pay_1"},
			wantCode: domainerror.ErrCodePaymentAlreadyVerified,
			wantStat: entity.SupportPaymentPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := entity.NewSupportPayment(uuid.Nil, "", "", "order_1")
			if tt.setup != nil {
				tt.setup(p)
			}
			repo := &memoryPaymentRepo{payments: []*entity.SupportPayment{p}}
			uc := NewVerifyPaymentUseCase(repo, &fakeGateway{})

			_, err := uc.Execute(context.Background(), tt.input)
			if got := paymentCode(err); got != tt.wantCode {
				t.Fatalf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
			if p.Status != tt.wantStat {
				t.Errorf("status = %s, want %s", p.Status, tt.wantStat)
			}
		})
	}
}

func TestListSupporters(t *testing.T) {
	paid := entity.NewSupportPayment(uuid.Nil, "Asha", "Keep going", "order_1")
	paid.MarkPaid("pay_1", "sig")
	repo := &memoryPaymentRepo{payments: []*entity.SupportPayment{
		paid,
		entity.NewSupportPayment(uuid.Nil, "", "", "order_2"),
	}}

	supporters, err := NewListSupportersUseCase(repo).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(supporters) != 1 || supporters[0].SupporterName != "Asha" {
		t.Errorf("supporters = %+v", supporters)
	}
	if repo.paidLimit != SupportersLimit {
		t.Errorf("limit = %d, want %d", repo.paidLimit, SupportersLimit)
	}
}
