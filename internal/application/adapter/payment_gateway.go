package adapter

import (
	"context"
)

// CreateOrderInput is an order request sent to the payment gateway.
type CreateOrderInput struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder is the order created by the gateway.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

// OrderGateway creates checkout orders and verifies the signature that the
// checkout returns to the client.
type OrderGateway interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool

	// KeyID is the public key the client passes to the checkout widget.
	KeyID() string
}
