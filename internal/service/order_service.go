package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/metrics"
	"labdash-backend/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderService owns lab-order creation and lookup. Prices are resolved
// against the catalog so a tampered client total is rejected rather than
// trusted.
type OrderService struct {
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
	metrics     *metrics.Metrics
	newID       func() string
}

// NewOrderService creates a new instance of OrderService. kafkaWriter and
// rdb may be nil; the corresponding side effects are skipped.
func NewOrderService(orderRepo repository.OrderRepository, catalogRepo repository.CatalogRepository, kafkaWriter *kafka.Writer, rdb *redis.Client, m *metrics.Metrics) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
		metrics:     m,
		newID:       GenerateOrderID,
	}
}

// WithIDGenerator swaps the order-id generator, for deterministic tests.
func (s *OrderService) WithIDGenerator(gen func() string) *OrderService {
	s.newID = gen
	return s
}

type CreateOrderRequest struct {
	Tests           []entity.TestRef `json:"tests"`
	TotalAmount     float64          `json:"totalAmount"`
	AppointmentDate string           `json:"appointmentDate"`
	AppointmentTime string           `json:"appointmentTime"`
}

// CreateOrder validates the request, resolves prices, persists the order
// with its items and publishes an order event.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest, idempotentKey string) (*entity.Order, error) {
	if len(req.Tests) == 0 {
		return nil, fmt.Errorf("%w: tests is required", ErrValidation)
	}
	if req.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: totalAmount must be >= 0", ErrValidation)
	}

	if idempotentKey != "" {
		ok, err := s.claimIdempotentKey(ctx, idempotentKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: idempotent key already used", ErrValidation)
		}
	}

	total, err := s.resolveTotal(ctx, req.Tests)
	if err != nil {
		return nil, err
	}
	if req.TotalAmount > 0 && total > 0 && math.Abs(total-req.TotalAmount) > 0.009 {
		return nil, fmt.Errorf("%w: totalAmount %.2f does not match the priced total %.2f", ErrValidation, req.TotalAmount, total)
	}
	if total == 0 {
		total = req.TotalAmount
	}

	order := &entity.Order{
		ID:              s.newID(),
		Tests:           req.Tests,
		TotalAmount:     total,
		Date:            time.Now().Format("2006-01-02"),
		Status:          entity.StatusInProcess,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	s.publishOrderEvent(ctx, order, "created")

	return order, nil
}

// ListOrders returns all orders, most recent first.
func (s *OrderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing orders")
		return nil, err
	}
	return orders, nil
}

// GetOrder looks an order up by its opaque id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		logger.Error().Err(err).Msgf("Error getting order %s", id)
		return nil, err
	}
	return order, nil
}

// CancelOrder moves an IN_PROCESS order to CANCELLED.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Settled() {
		return nil, fmt.Errorf("%w: order %s is already %s", ErrConflict, id, order.Status)
	}

	updated, err := s.orderRepo.UpdateOrderStatus(ctx, id, entity.StatusInProcess, entity.StatusCancelled)
	if err != nil {
		logger.Error().Err(err).Msgf("Error cancelling order %s", id)
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %s is no longer in process", ErrConflict, id)
	}

	order.Status = entity.StatusCancelled
	s.publishOrderEvent(ctx, order, "cancelled")
	return order, nil
}

// MarkPaid applies the IN_PROCESS → PAID transition. Settled orders stay
// settled; the return value reports whether anything changed.
func (s *OrderService) MarkPaid(ctx context.Context, id string) (bool, error) {
	return s.orderRepo.UpdateOrderStatus(ctx, id, entity.StatusInProcess, entity.StatusPaid)
}

// MarkFailed applies the IN_PROCESS → FAILED transition.
func (s *OrderService) MarkFailed(ctx context.Context, id string) (bool, error) {
	return s.orderRepo.UpdateOrderStatus(ctx, id, entity.StatusInProcess, entity.StatusFailed)
}

type OrderStats struct {
	TotalOrders    int            `json:"totalOrders"`
	TotalRevenue   float64        `json:"totalRevenue"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
}

// Stats aggregates order counts and paid revenue from the repository.
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{OrdersByStatus: make(map[string]int)}
	for _, o := range orders {
		stats.TotalOrders++
		stats.OrdersByStatus[o.Status]++
		if o.Status == entity.StatusPaid {
			stats.TotalRevenue += o.TotalAmount
		}
	}
	return stats, nil
}

// resolveTotal sums line item prices, preferring the catalog price wherever
// a ref resolves by id or name. Refs the catalog does not know fall back to
// their supplied price.
func (s *OrderService) resolveTotal(ctx context.Context, tests []entity.TestRef) (float64, error) {
	total := 0.0
	for _, t := range tests {
		var lab *entity.LabTest
		var err error
		if t.ID != 0 {
			lab, err = s.catalogRepo.GetTestByID(ctx, t.ID)
		} else if t.Name != "" {
			lab, err = s.catalogRepo.GetTestByName(ctx, t.Name)
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return 0, err
		}
		if lab != nil {
			total += lab.Price
			continue
		}
		total += t.Price
	}
	return total, nil
}

// claimIdempotentKey reserves the key for 24 hours. Returns false when the
// key was already used.
func (s *OrderService) claimIdempotentKey(ctx context.Context, key string) (bool, error) {
	if s.rdb == nil {
		return true, nil
	}
	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	ok, err := s.rdb.SetNX(ctx, redisKey, "exists", 24*time.Hour).Result()
	if err != nil {
		logger.Error().Err(err).Msg("Error checking idempotent key")
		return false, err
	}
	return ok, nil
}

type orderEvent struct {
	EventID string        `json:"event_id"`
	Type    string        `json:"type"`
	Order   *entity.Order `json:"order"`
}

// publishOrderEvent is best-effort: the order is already persisted, so a
// broker failure is logged, not returned.
func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, kind string) {
	if s.kafkaWriter == nil || os.Getenv("ENV") == "test" {
		return
	}
	payload, err := json.Marshal(orderEvent{EventID: uuid.NewString(), Type: kind, Order: order})
	if err != nil {
		logger.Error().Err(err).Msg("Error marshalling order event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%s", kind, order.ID)),
		Value: payload,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order %s event", kind)
	}
}

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderID returns ORD-<6 random uppercase alphanumerics>. The space
// is large enough that concurrent callers do not need coordination.
func GenerateOrderID() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = orderIDAlphabet[int(b)%len(orderIDAlphabet)]
	}
	return "ORD-" + string(buf)
}
