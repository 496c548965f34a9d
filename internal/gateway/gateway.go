// Package gateway wraps the payment processor. Everything the workflow
// needs from Razorpay sits behind Client so tests and test mode can run on
// a deterministic in-memory double.
package gateway

import (
	"context"

	"labdash-backend/internal/entity"
)

type Client interface {
	// CreateOrder registers a payment order with the gateway. amountMinor
	// is in minor units (paise) already.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]interface{}) (*entity.PaymentOrder, error)
	// FetchPayment is a read-only payment lookup; gateway errors propagate
	// to the caller untouched.
	FetchPayment(ctx context.Context, paymentID string) (map[string]interface{}, error)
}
