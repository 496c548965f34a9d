package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/gateway"
	"labdash-backend/internal/metrics"
	"labdash-backend/internal/notification"
)

// PaymentConfig carries the gateway credentials. KeySecret signs checkout
// callbacks, WebhookSecret signs server-to-server webhooks; neither ever
// appears in a response.
type PaymentConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

// PaymentService orchestrates the Razorpay workflow: gateway order
// creation, signature verification, webhook ingestion and payment lookup.
type PaymentService struct {
	gateway     gateway.Client
	orders      *OrderService
	email       notification.EmailSender
	sms         notification.SMSSender
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
	metrics     *metrics.Metrics
	cfg         PaymentConfig
}

func NewPaymentService(gw gateway.Client, orders *OrderService, email notification.EmailSender, sms notification.SMSSender, kafkaWriter *kafka.Writer, rdb *redis.Client, m *metrics.Metrics, cfg PaymentConfig) *PaymentService {
	return &PaymentService{
		gateway:     gw,
		orders:      orders,
		email:       email,
		sms:         sms,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
		metrics:     m,
		cfg:         cfg,
	}
}

type CreateGatewayOrderRequest struct {
	Amount   float64                `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes"`
}

// CreateGatewayOrder registers a payment order with the gateway. The amount
// arrives in major units (rupees) and is converted to paise. Returns the
// gateway order and the public key id the checkout widget needs.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, req *CreateGatewayOrderRequest) (*entity.PaymentOrder, string, error) {
	if req.Amount <= 0 {
		return nil, "", fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	}

	amountMinor := int64(math.Round(req.Amount * 100))
	order, err := s.gateway.CreateOrder(ctx, amountMinor, currency, receipt, req.Notes)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating gateway order")
		return nil, "", err
	}

	if s.metrics != nil {
		s.metrics.GatewayOrders.Inc()
	}
	return order, s.cfg.KeyID, nil
}

// VerifyPayment recomputes HMAC-SHA256 over "<orderId>|<paymentId>" with the
// key secret and compares it to the supplied signature in constant time.
// On success it applies the documented IN_PROCESS → PAID transition when the
// request names a local order, and fires best-effort notifications.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *entity.VerificationRequest) (string, error) {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return "", fmt.Errorf("%w: missing payment details", ErrValidation)
	}

	expected := computeSignature(s.cfg.KeySecret, req.RazorpayOrderID+"|"+req.RazorpayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.RazorpaySignature)) {
		if s.metrics != nil {
			s.metrics.Verifications.WithLabelValues("rejected").Inc()
		}
		return "", fmt.Errorf("%w: invalid payment signature", ErrSignatureMismatch)
	}

	if s.metrics != nil {
		s.metrics.Verifications.WithLabelValues("verified").Inc()
	}
	logger.Info().Str("payment_id", req.RazorpayPaymentID).Msg("Payment verified")

	if req.OrderID != "" {
		updated, err := s.orders.MarkPaid(ctx, req.OrderID)
		if err != nil {
			logger.Error().Err(err).Msgf("Error marking order %s paid", req.OrderID)
		} else if !updated {
			logger.Warn().Msgf("Order %s not IN_PROCESS, payment recorded without transition", req.OrderID)
		}
	}

	s.dispatchConfirmations(ctx, req)
	s.publishPaymentEvent(ctx, "payment.verified", map[string]interface{}{
		"razorpay_order_id": req.RazorpayOrderID,
		"payment_id":        req.RazorpayPaymentID,
		"order_id":          req.OrderID,
		"amount":            req.Amount,
	})

	return req.RazorpayPaymentID, nil
}

// HandleWebhook authenticates the raw body against the webhook secret, then
// dispatches by event type. Unknown events are acknowledged no-ops so new
// gateway event types never bounce.
func (s *PaymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature, eventID string) error {
	expected := computeSignature(s.cfg.WebhookSecret, string(rawBody))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("%w: webhook signature mismatch", ErrSignatureMismatch)
	}

	if eventID != "" && s.rdb != nil {
		fresh, err := s.rdb.SetNX(ctx, "webhook-event:"+eventID, "seen", 24*time.Hour).Result()
		if err != nil {
			logger.Error().Err(err).Msg("Error deduplicating webhook event")
		} else if !fresh {
			logger.Info().Str("event_id", eventID).Msg("Duplicate webhook delivery, skipping")
			return nil
		}
	}

	var ev entity.WebhookEvent
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		return fmt.Errorf("%w: malformed webhook payload", ErrValidation)
	}

	if s.metrics != nil {
		s.metrics.WebhookEvents.WithLabelValues(ev.Event).Inc()
	}

	payment := ev.Payload.Payment.Entity
	switch ev.Event {
	case entity.EventPaymentCaptured:
		logger.Info().Str("payment_id", payment.ID).Msg("Payment captured")
		s.transitionFromWebhook(ctx, payment, entity.StatusPaid)
	case entity.EventPaymentFailed:
		logger.Info().Str("payment_id", payment.ID).Msg("Payment failed")
		s.transitionFromWebhook(ctx, payment, entity.StatusFailed)
	default:
		logger.Info().Str("event", ev.Event).Msg("Unhandled webhook event")
	}

	s.publishPaymentEvent(ctx, ev.Event, map[string]interface{}{"payment": payment})
	return nil
}

// GetPayment proxies a read-only lookup to the gateway.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (map[string]interface{}, error) {
	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error fetching payment %s", paymentID)
		return nil, err
	}
	return payment, nil
}

// transitionFromWebhook applies a documented status transition when the
// payment's notes reference one of our orders. Payments without a local
// order reference are logged only.
func (s *PaymentService) transitionFromWebhook(ctx context.Context, payment entity.PaymentEntity, status string) {
	orderID := payment.Notes["order_id"]
	if orderID == "" {
		return
	}
	var (
		updated bool
		err     error
	)
	if status == entity.StatusPaid {
		updated, err = s.orders.MarkPaid(ctx, orderID)
	} else {
		updated, err = s.orders.MarkFailed(ctx, orderID)
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error transitioning order %s to %s", orderID, status)
	} else if !updated {
		logger.Warn().Msgf("Order %s not IN_PROCESS, webhook transition to %s skipped", orderID, status)
	}
}

// dispatchConfirmations sends email/SMS confirmations where targets were
// supplied. Failures are logged and swallowed; they never fail the
// verification response.
func (s *PaymentService) dispatchConfirmations(ctx context.Context, req *entity.VerificationRequest) {
	if s.email != nil && req.UserEmail != "" {
		err := s.email.SendOrderConfirmation(ctx, req.UserEmail, notification.OrderSummary{
			OrderID: req.RazorpayOrderID,
			Items:   req.Items,
			Total:   req.Amount,
		})
		s.recordNotification("email", err)
	}
	if s.sms != nil && req.UserPhone != "" {
		err := s.sms.SendOrderConfirmation(ctx, req.UserPhone, req.RazorpayOrderID, req.Amount)
		s.recordNotification("sms", err)
	}
}

func (s *PaymentService) recordNotification(channel string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
		logger.Error().Err(err).Msgf("Error sending %s confirmation", channel)
	}
	if s.metrics != nil {
		s.metrics.Notifications.WithLabelValues(channel, result).Inc()
	}
}

func (s *PaymentService) publishPaymentEvent(ctx context.Context, kind string, payload map[string]interface{}) {
	if s.kafkaWriter == nil || os.Getenv("ENV") == "test" {
		return
	}
	payload["event_id"] = uuid.NewString()
	payload["type"] = kind
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Msg("Error marshalling payment event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(kind),
		Value: data,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event", kind)
	}
}

func computeSignature(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
