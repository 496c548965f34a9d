// Package notification holds the fire-and-forget confirmation channels.
// Callers must treat every send as best-effort: a failed notification is
// logged and swallowed, never surfaced to the client.
package notification

import (
	"context"

	"labdash-backend/internal/entity"
)

type OrderSummary struct {
	OrderID string
	Items   []entity.TestRef
	Total   float64
}

type EmailSender interface {
	SendOrderConfirmation(ctx context.Context, to string, summary OrderSummary) error
}

type SMSSender interface {
	SendOrderConfirmation(ctx context.Context, phone, orderID string, amount float64) error
}
