package api

import (
	"github.com/labstack/echo/v4"

	"labdash-backend/internal/service"
)

type AdminHandler struct {
	orderService *service.OrderService
}

func NewAdminHandler(orderService *service.OrderService) *AdminHandler {
	return &AdminHandler{orderService: orderService}
}

// Stats aggregates order counts and paid revenue --> GET /api/admin/stats
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.orderService.Stats(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(200, map[string]interface{}{"success": true, "stats": stats})
}
