package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/gateway"
	"labdash-backend/internal/notification"
)

const (
	testKeySecret     = "rzp_test_secret"
	testWebhookSecret = "whsec_test"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

type emailSenderFunc func(ctx context.Context, to string, summary notification.OrderSummary) error

func (f emailSenderFunc) SendOrderConfirmation(ctx context.Context, to string, summary notification.OrderSummary) error {
	return f(ctx, to, summary)
}

type smsSenderFunc func(ctx context.Context, phone, orderID string, amount float64) error

func (f smsSenderFunc) SendOrderConfirmation(ctx context.Context, phone, orderID string, amount float64) error {
	return f(ctx, phone, orderID, amount)
}

func newTestPaymentService(orders *OrderService) *PaymentService {
	return NewPaymentService(gateway.NewMockClient(), orders, nil, nil, nil, nil, nil, PaymentConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     testKeySecret,
		WebhookSecret: testWebhookSecret,
	})
}

func TestCreateGatewayOrderConvertsToMinorUnits(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())

	order, keyID, err := s.CreateGatewayOrder(context.Background(), &CreateGatewayOrderRequest{Amount: 1000})
	require.NoError(t, err)

	assert.Equal(t, int64(100000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", keyID)
	assert.True(t, strings.HasPrefix(order.ID, "order_mock"))
	assert.True(t, strings.HasPrefix(order.Receipt, "receipt_"))
}

func TestCreateGatewayOrderKeepsExplicitFields(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())

	order, _, err := s.CreateGatewayOrder(context.Background(), &CreateGatewayOrderRequest{
		Amount:   499.50,
		Currency: "USD",
		Receipt:  "receipt_custom",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(49950), order.Amount)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "receipt_custom", order.Receipt)
}

func TestCreateGatewayOrderRejectsNonPositiveAmounts(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())

	for _, amount := range []float64{0, -100} {
		_, _, err := s.CreateGatewayOrder(context.Background(), &CreateGatewayOrderRequest{Amount: amount})
		assert.ErrorIs(t, err, ErrValidation, "amount %v", amount)
	}
}

func TestVerifyPaymentAcceptsValidSignature(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())

	paymentID, err := s.VerifyPayment(context.Background(), &entity.VerificationRequest{
		RazorpayOrderID:   "order_test123",
		RazorpayPaymentID: "pay_test123",
		RazorpaySignature: sign(testKeySecret, "order_test123|pay_test123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_test123", paymentID)
}

func TestVerifyPaymentRejectsWrongSignature(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())

	_, err := s.VerifyPayment(context.Background(), &entity.VerificationRequest{
		RazorpayOrderID:   "order_test123",
		RazorpayPaymentID: "pay_test123",
		RazorpaySignature: sign("wrong_secret", "order_test123|pay_test123"),
	})
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyPaymentFailsClosedOnMissingFields(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())
	valid := entity.VerificationRequest{
		RazorpayOrderID:   "order_test123",
		RazorpayPaymentID: "pay_test123",
		RazorpaySignature: sign(testKeySecret, "order_test123|pay_test123"),
	}

	cases := map[string]func(r *entity.VerificationRequest){
		"no order id":   func(r *entity.VerificationRequest) { r.RazorpayOrderID = "" },
		"no payment id": func(r *entity.VerificationRequest) { r.RazorpayPaymentID = "" },
		"no signature":  func(r *entity.VerificationRequest) { r.RazorpaySignature = "" },
	}
	for name, blank := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid
			blank(&req)
			_, err := s.VerifyPayment(context.Background(), &req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestVerifyPaymentMarksLocalOrderPaid(t *testing.T) {
	orders := newTestOrderService()
	s := newTestPaymentService(orders)

	order, err := orders.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	_, err = s.VerifyPayment(context.Background(), &entity.VerificationRequest{
		RazorpayOrderID:   "order_test123",
		RazorpayPaymentID: "pay_test123",
		RazorpaySignature: sign(testKeySecret, "order_test123|pay_test123"),
		OrderID:           order.ID,
	})
	require.NoError(t, err)

	got, err := orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, got.Status)
}

func TestVerifyPaymentWithoutOrderReferenceLeavesOrderInProcess(t *testing.T) {
	// A callback that does not name a local order has nothing to transition.
	// The order only moves when the webhook arrives with order_id in the
	// payment notes, so checkout integrations should always send order_id.
	orders := newTestOrderService()
	s := newTestPaymentService(orders)

	order, err := orders.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	_, err = s.VerifyPayment(context.Background(), &entity.VerificationRequest{
		RazorpayOrderID:   "order_test123",
		RazorpayPaymentID: "pay_test123",
		RazorpaySignature: sign(testKeySecret, "order_test123|pay_test123"),
	})
	require.NoError(t, err)

	got, err := orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProcess, got.Status)
}

func TestVerifyPaymentNotificationFailureIsNotFatal(t *testing.T) {
	orders := newTestOrderService()
	s := newTestPaymentService(orders)
	s.email = emailSenderFunc(func(context.Context, string, notification.OrderSummary) error {
		return errors.New("smtp down")
	})
	var smsTo string
	s.sms = smsSenderFunc(func(_ context.Context, phone, _ string, _ float64) error {
		smsTo = phone
		return nil
	})

	paymentID, err := s.VerifyPayment(context.Background(), &entity.VerificationRequest{
		RazorpayOrderID:   "order_test123",
		RazorpayPaymentID: "pay_test123",
		RazorpaySignature: sign(testKeySecret, "order_test123|pay_test123"),
		UserEmail:         "user@example.com",
		UserPhone:         "+919999999999",
		Amount:            500,
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_test123", paymentID)
	assert.Equal(t, "+919999999999", smsTo)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())
	body := []byte(`{"event":"payment.captured"}`)

	err := s.HandleWebhook(context.Background(), body, sign("wrong_secret", string(body)), "evt_1")
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestHandleWebhookRejectsMalformedBody(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())
	body := []byte(`not json`)

	err := s.HandleWebhook(context.Background(), body, sign(testWebhookSecret, string(body)), "evt_1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHandleWebhookAcknowledgesUnknownEvents(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())
	// Razorpay serializes empty notes as [], which must not break decoding.
	body := []byte(`{"event":"invoice.paid","payload":{"payment":{"entity":{"id":"pay_1","notes":[]}}}}`)

	err := s.HandleWebhook(context.Background(), body, sign(testWebhookSecret, string(body)), "evt_1")
	assert.NoError(t, err)
}

func TestHandleWebhookCapturedMarksOrderPaid(t *testing.T) {
	orders := newTestOrderService()
	s := newTestPaymentService(orders)

	order, err := orders.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	body := []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","amount":50000,"status":"captured","notes":{"order_id":%q}}}}}`,
		order.ID))
	err = s.HandleWebhook(context.Background(), body, sign(testWebhookSecret, string(body)), "evt_1")
	require.NoError(t, err)

	got, err := orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, got.Status)
}

func TestHandleWebhookFailedMarksOrderFailed(t *testing.T) {
	orders := newTestOrderService()
	s := newTestPaymentService(orders)

	order, err := orders.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	body := []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","status":"failed","notes":{"order_id":%q}}}}}`,
		order.ID))
	err = s.HandleWebhook(context.Background(), body, sign(testWebhookSecret, string(body)), "evt_1")
	require.NoError(t, err)

	got, err := orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, got.Status)
}

func TestHandleWebhookDoesNotUnsettleOrders(t *testing.T) {
	orders := newTestOrderService()
	s := newTestPaymentService(orders)

	order, err := orders.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)
	_, err = orders.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)

	body := []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","status":"failed","notes":{"order_id":%q}}}}}`,
		order.ID))
	err = s.HandleWebhook(context.Background(), body, sign(testWebhookSecret, string(body)), "evt_2")
	require.NoError(t, err)

	got, err := orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, got.Status)
}

func TestGetPayment(t *testing.T) {
	s := newTestPaymentService(newTestOrderService())

	payment, err := s.GetPayment(context.Background(), "pay_abc")
	require.NoError(t, err)
	assert.Equal(t, "pay_abc", payment["id"])
	assert.Equal(t, "captured", payment["status"])
}
