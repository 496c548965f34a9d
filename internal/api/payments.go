package api

import (
	"io"

	"github.com/labstack/echo/v4"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentOrder registers a gateway payment order --> POST /api/payments/create-order
func (h *PaymentHandler) CreatePaymentOrder(c echo.Context) error {
	req := service.CreateGatewayOrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{"success": false, "error": "Invalid request payload"})
	}

	order, keyID, err := h.paymentService.CreateGatewayOrder(c.Request().Context(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(201, map[string]interface{}{
		"success": true,
		"order":   order,
		"key_id":  keyID,
	})
}

// VerifyPayment checks the checkout callback signature --> POST /api/payments/verify
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	req := entity.VerificationRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{"success": false, "error": "Invalid request payload"})
	}

	paymentID, err := h.paymentService.VerifyPayment(c.Request().Context(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"success":    true,
		"message":    "Payment verified successfully",
		"payment_id": paymentID,
	})
}

// Webhook ingests gateway events --> POST /api/payments/webhook
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(400, map[string]interface{}{"success": false, "error": "Unreadable body"})
	}

	err = h.paymentService.HandleWebhook(
		c.Request().Context(),
		body,
		c.Request().Header.Get("X-Razorpay-Signature"),
		c.Request().Header.Get("X-Razorpay-Event-Id"),
	)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(200, map[string]string{"status": "ok"})
}

// GetPayment proxies a gateway payment lookup --> GET /api/payments/:payment_id
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	payment, err := h.paymentService.GetPayment(c.Request().Context(), c.Param("payment_id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(200, map[string]interface{}{"success": true, "payment": payment})
}
