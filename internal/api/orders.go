package api

import (
	"github.com/labstack/echo/v4"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder creates a new lab order --> POST /api/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	req := service.CreateOrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{"success": false, "error": "Invalid request payload"})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), &req, c.Request().Header.Get("Idempotent-Key"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(201, order)
}

// ListOrders returns all orders, newest first --> GET /api/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderService.ListOrders(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	return c.JSON(200, map[string]interface{}{"success": true, "orders": orders})
}

// GetOrder returns a single order --> GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.orderService.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(200, map[string]interface{}{"success": true, "order": order})
}

// CancelOrder cancels an in-process order --> DELETE /api/orders/:id
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	order, err := h.orderService.CancelOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(200, order)
}
