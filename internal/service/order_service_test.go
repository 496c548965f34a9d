package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/repository"
)

var orderIDPattern = regexp.MustCompile(`^ORD-[A-Z0-9]{6}$`)

func newTestOrderService() *OrderService {
	return NewOrderService(repository.NewMemoryOrderRepository(), repository.NewSeededCatalogRepository(), nil, nil, nil)
}

func TestCreateOrderRequiresTests(t *testing.T) {
	s := newTestOrderService()

	for name, req := range map[string]*CreateOrderRequest{
		"nil tests":   {TotalAmount: 500},
		"empty tests": {Tests: []entity.TestRef{}, TotalAmount: 500},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateOrder(context.Background(), req, "")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateOrderRejectsNegativeTotal(t *testing.T) {
	s := newTestOrderService()

	_, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests:       []entity.TestRef{{Name: "CBC"}},
		TotalAmount: -100,
	}, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderDefaults(t *testing.T) {
	s := newTestOrderService()

	order, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	assert.Regexp(t, orderIDPattern, order.ID)
	assert.Equal(t, entity.StatusInProcess, order.Status)
	assert.Equal(t, 500.0, order.TotalAmount)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, order.Date)
}

func TestCreateOrderIDsAreUnique(t *testing.T) {
	s := newTestOrderService()
	req := &CreateOrderRequest{Tests: []entity.TestRef{{Name: "CBC"}}}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		order, err := s.CreateOrder(context.Background(), req, "")
		require.NoError(t, err)
		require.False(t, seen[order.ID], "duplicate order id %s", order.ID)
		seen[order.ID] = true
	}
}

func TestCreateOrderRecomputesTotalFromCatalog(t *testing.T) {
	s := newTestOrderService()
	tests := []entity.TestRef{{Name: "CBC"}, {Name: "Lipid Profile"}}

	// A client total that disagrees with the catalog is rejected, not trusted.
	_, err := s.CreateOrder(context.Background(), &CreateOrderRequest{Tests: tests, TotalAmount: 1300}, "")
	assert.ErrorIs(t, err, ErrValidation)

	order, err := s.CreateOrder(context.Background(), &CreateOrderRequest{Tests: tests, TotalAmount: 1500}, "")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, order.TotalAmount)

	// The catalog price also wins over a tampered per-item price.
	order, err = s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{ID: 1, Name: "CBC", Price: 1}},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 500.0, order.TotalAmount)
}

func TestCreateOrderUnknownTestFallsBackToClientPrice(t *testing.T) {
	s := newTestOrderService()

	order, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests:       []entity.TestRef{{Name: "Vitamin D", Price: 900}},
		TotalAmount: 900,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 900.0, order.TotalAmount)
}

func TestGetOrderNotFound(t *testing.T) {
	s := newTestOrderService()

	_, err := s.GetOrder(context.Background(), "ORD-ZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrder(t *testing.T) {
	s := newTestOrderService()

	order, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	cancelled, err := s.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)

	_, err = s.CancelOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelOrderRefusesPaidOrder(t *testing.T) {
	s := newTestOrderService()

	order, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	updated, err := s.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, updated)

	_, err = s.CancelOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestStatusTransitionsAreTerminal(t *testing.T) {
	s := newTestOrderService()

	order, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)

	updated, err := s.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, updated)

	// Settled stays settled; a later FAILED signal is a no-op.
	updated, err = s.MarkFailed(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := s.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, got.Status)
}

func TestStatsCountsPaidRevenueOnly(t *testing.T) {
	s := newTestOrderService()

	paid, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)
	_, err = s.MarkPaid(context.Background(), paid.ID)
	require.NoError(t, err)

	_, err = s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "Lipid Profile"}},
	}, "")
	require.NoError(t, err)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 500.0, stats.TotalRevenue)
	assert.Equal(t, 1, stats.OrdersByStatus[entity.StatusPaid])
	assert.Equal(t, 1, stats.OrdersByStatus[entity.StatusInProcess])
}

func TestWithIDGenerator(t *testing.T) {
	s := newTestOrderService().WithIDGenerator(func() string { return "ORD-FIXED1" })

	order, err := s.CreateOrder(context.Background(), &CreateOrderRequest{
		Tests: []entity.TestRef{{Name: "CBC"}},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "ORD-FIXED1", order.ID)
}

func TestGenerateOrderIDFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, orderIDPattern, GenerateOrderID())
	}
}
