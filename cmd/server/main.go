package main

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"

	"labdash-backend/internal/api"
	"labdash-backend/internal/config"
	"labdash-backend/internal/consumer"
	"labdash-backend/internal/gateway"
	"labdash-backend/internal/metrics"
	"labdash-backend/internal/notification"
	"labdash-backend/internal/repository"
	"labdash-backend/internal/service"
	"labdash-backend/migrations"
)

func connectDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.New(ctx, databaseURL)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				log.Printf("Connected to database")
				return pool, nil
			}
			pool.Close()
		}
		log.Printf("Retry %d: failed to connect to database: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, err
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var (
		orderRepo   repository.OrderRepository
		catalogRepo repository.CatalogRepository
		userRepo    repository.UserRepository
	)

	if cfg.IsTest() {
		orderRepo = repository.NewMemoryOrderRepository()
		catalogRepo = repository.NewSeededCatalogRepository()
		userRepo = repository.NewMemoryUserRepository()
	} else {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required")
		}
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect error: %v", err)
		}
		defer pool.Close()

		if err := migrations.AutoMigrate(ctx, pool, 3); err != nil {
			log.Fatalf("migration error: %v", err)
		}

		orderRepo = repository.NewPostgresOrderRepository(pool)
		catalogRepo = repository.NewPostgresCatalogRepository(pool)
		userRepo = repository.NewPostgresUserRepository(pool)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" && !cfg.IsTest() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	var orderWriter, paymentWriter *kafka.Writer
	if !cfg.IsTest() {
		orderWriter = config.NewKafkaWriter("order-events")
		paymentWriter = config.NewKafkaWriter("payment-events")
	}

	var gw gateway.Client
	if cfg.IsTest() {
		gw = gateway.NewMockClient()
	} else {
		gw = gateway.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}

	var email notification.EmailSender
	if cfg.SMTPUser != "" && !cfg.IsTest() {
		email = notification.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}
	var sms notification.SMSSender
	if cfg.TwilioAccountSID != "" && !cfg.IsTest() {
		sms = notification.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}

	m := metrics.New()

	orderService := service.NewOrderService(orderRepo, catalogRepo, orderWriter, rdb, m)
	catalogService := service.NewCatalogService(catalogRepo)
	userService := service.NewUserService(userRepo, rdb, cfg.JWTSecret)
	paymentService := service.NewPaymentService(gw, orderService, email, sms, paymentWriter, rdb, m, service.PaymentConfig{
		KeyID:         cfg.RazorpayKeyID,
		KeySecret:     cfg.RazorpayKeySecret,
		WebhookSecret: cfg.RazorpayWebhookSecret,
	})

	if cfg.AutomationWebhookURL != "" && !cfg.IsTest() {
		reader := config.NewKafkaReader("payment-events", "labdash-automation")
		go consumer.New(reader, cfg.AutomationWebhookURL).Start(ctx)
	}

	e := api.NewRouter(cfg, api.Handlers{
		Orders:   api.NewOrderHandler(orderService),
		Payments: api.NewPaymentHandler(paymentService),
		Catalog:  api.NewCatalogHandler(catalogService),
		Auth:     api.NewAuthHandler(userService),
		Admin:    api.NewAdminHandler(orderService),
	})

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
