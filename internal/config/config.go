package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is read once at startup and injected into constructors; nothing
// reads the environment after Load returns.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string

	Payments      Payments
	Notifications Notifications
}

type Payments struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	SuccessURL          string
	CancelURL           string
}

type Notifications struct {
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Payments: Payments{
			StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			SuccessURL:          os.Getenv("PAYMENT_SUCCESS_URL"),
			CancelURL:           os.Getenv("PAYMENT_CANCEL_URL"),
		},
		Notifications: Notifications{
			SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
			SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
			SendGridFromName:  os.Getenv("SENDGRID_FROM_NAME"),
			TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Notifications.SendGridFromName == "" {
		cfg.Notifications.SendGridFromName = "ParkVendor"
	}

	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		cfg.AllowedOrigins = []string{"*"}
	} else {
		for _, o := range strings.Split(origins, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(o))
		}
	}
	return cfg, nil
}
