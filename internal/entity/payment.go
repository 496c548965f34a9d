package entity

import "encoding/json"

// PaymentOrder is the gateway-side order resource. Amount is in minor units
// (paise); the gateway owns this record, we only reference it.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// VerificationRequest carries the identifiers the checkout flow posts back
// after a hosted payment, plus optional notification targets and a local
// order reference for the status transition.
type VerificationRequest struct {
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	RazorpaySignature string    `json:"razorpay_signature"`
	OrderID           string    `json:"order_id,omitempty"`
	UserEmail         string    `json:"userEmail,omitempty"`
	UserPhone         string    `json:"userPhone,omitempty"`
	Items             []TestRef `json:"items,omitempty"`
	Amount            float64   `json:"amount,omitempty"`
}

// Webhook event types the workflow dispatches on. Anything else is an
// acknowledged no-op.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID      string      `json:"id"`
	OrderID string      `json:"order_id"`
	Amount  json.Number `json:"amount"`
	Status  string      `json:"status"`
	Notes   Notes       `json:"notes"`
}

// Notes tolerates Razorpay's habit of serializing empty notes as [] instead
// of {}.
type Notes map[string]string

func (n *Notes) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		*n = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*n = m
	return nil
}
