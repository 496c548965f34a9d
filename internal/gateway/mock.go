package gateway

import (
	"context"
	"fmt"
	"sync/atomic"

	"labdash-backend/internal/entity"
)

// MockClient is the deterministic gateway double used in test mode and unit
// tests. Ids are sequential so assertions can predict them.
type MockClient struct {
	seq atomic.Int64
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string, _ map[string]interface{}) (*entity.PaymentOrder, error) {
	n := c.seq.Add(1)
	return &entity.PaymentOrder{
		ID:       fmt.Sprintf("order_mock%06d", n),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (c *MockClient) FetchPayment(_ context.Context, paymentID string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"id":     paymentID,
		"status": "captured",
		"method": "upi",
	}, nil
}
