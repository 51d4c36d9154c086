package adapters

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	razorpayutils "github.com/razorpay/razorpay-go/utils"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// DefaultRazorpayBaseURL is the public Razorpay API root. The client adds the
// version segment itself.
const DefaultRazorpayBaseURL = "https://api.razorpay.com"

// razorpayTimeoutSeconds bounds every call made by the SDK client.
const razorpayTimeoutSeconds = 15

// RazorpayGateway implements adapter.OrderGateway with the Razorpay SDK.
type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

// NewRazorpayGateway creates a gateway. An empty baseURL selects the public API.
func NewRazorpayGateway(keyID, keySecret, baseURL string) *RazorpayGateway {
	if baseURL == "" {
		baseURL = DefaultRazorpayBaseURL
	}
	client := razorpay.NewClient(keyID, keySecret)
	// razorpay-go keeps Request as package-level state; the last gateway constructed wins.
	razorpay.Request.BaseURL = strings.TrimRight(baseURL, "/")
	client.SetTimeout(razorpayTimeoutSeconds)

	return &RazorpayGateway{
		client:    client,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// CreateOrder creates a checkout order.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, input adapter.CreateOrderInput) (*adapter.GatewayOrder, error) {
	if g.keyID == "" || g.keySecret == "" {
		return nil, domainerror.NewPaymentError(domainerror.ErrCodePaymentGatewayUnavailable, "payment gateway is not configured", domainerror.ErrPaymentGatewayUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   input.Amount,
		"currency": input.Currency,
		"receipt":  input.Receipt,
	}
	if len(input.Notes) > 0 {
		notes := make(map[string]interface{}, len(input.Notes))
		for k, v := range input.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, domainerror.NewPaymentError(domainerror.ErrCodePaymentGatewayUnavailable, "payment gateway request failed", err)
	}

	order := &adapter.GatewayOrder{
		ID:       stringField(body, "id"),
		Amount:   int64Field(body, "amount"),
		Currency: stringField(body, "currency"),
		Status:   stringField(body, "status"),
	}
	if order.ID == "" {
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodePaymentGatewayUnavailable,
			"payment gateway returned no order id",
			fmt.Errorf("unexpected order response: %v", body),
		)
	}
	return order, nil
}

// VerifySignature checks the checkout signature, an HMAC-SHA256 of
// "orderId|paymentId" keyed with the API secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if g.keySecret == "" || signature == "" {
		return false
	}
	return razorpayutils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, strings.ToLower(signature), g.keySecret)
}

// KeyID returns the public key id.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// SignPayment computes the hex signature the checkout widget returns for a
// payment. Test checkouts are signed with it.
func SignPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func stringField(body map[string]interface{}, key string) string {
	v, _ := body[key].(string)
	return v
}

func int64Field(body map[string]interface{}, key string) int64 {
	switch v := body[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
