package config

import (
	"os"
	"strings"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	RedisAddr   string
	FrontendURL string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	JWTSecret string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	AutomationWebhookURL string
}

// Load reads configuration from the environment. Only DATABASE_URL is
// mandatory outside test mode; providers with missing credentials are
// simply not wired by main.
func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		Env:         getenv("ENV", "development"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		FrontendURL: getenv("FRONTEND_URL", "*"),

		RazorpayKeyID:         getenv("RAZORPAY_KEY_ID", "rzp_test_key"),
		RazorpayKeySecret:     getenv("RAZORPAY_KEY_SECRET", "rzp_test_secret"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		JWTSecret: getenv("JWT_SECRET", "secret"),

		SMTPHost: getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),

		AutomationWebhookURL: os.Getenv("N8N_WEBHOOK_URL"),
	}
}

// IsTest reports whether the process runs with deterministic mocks instead
// of live providers.
func (c Config) IsTest() bool {
	return c.Env == "test"
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
