package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"labdash-backend/internal/config"
	"labdash-backend/internal/metrics"
	"labdash-backend/internal/service"
)

type Handlers struct {
	Orders   *OrderHandler
	Payments *PaymentHandler
	Catalog  *CatalogHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
}

// NewRouter wires middleware and routes. The rate limiter is skipped in
// test mode so deterministic suites are not throttled.
func NewRouter(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: func(echo.Context) bool { return cfg.IsTest() },
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 15 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	api := e.Group("/api")

	api.GET("", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"version": "1.0.0",
			"endpoints": []string{
				"/api/health", "/api/tests", "/api/packages",
				"/api/orders", "/api/payments", "/api/auth", "/api/admin",
			},
		})
	})
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "labdash-backend",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api.GET("/orders", h.Orders.ListOrders)
	api.POST("/orders", h.Orders.CreateOrder)
	api.GET("/orders/:id", h.Orders.GetOrder)
	api.DELETE("/orders/:id", h.Orders.CancelOrder)

	api.POST("/payments/create-order", h.Payments.CreatePaymentOrder)
	api.POST("/payments/verify", h.Payments.VerifyPayment)
	api.POST("/payments/webhook", h.Payments.Webhook)
	api.GET("/payments/:payment_id", h.Payments.GetPayment)

	api.GET("/tests", h.Catalog.ListTests)
	api.GET("/packages", h.Catalog.ListPackages)

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	admin := api.Group("/admin", echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
		SigningKey: []byte(cfg.JWTSecret),
	}))
	admin.GET("/stats", h.Admin.Stats)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}
