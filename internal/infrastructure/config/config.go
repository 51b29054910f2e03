package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	AppSecret string `env:"APP_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	// FrontendURL is the base used in password-reset links.
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Stripe StripeConfig
	Mail   MailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency  string `env:"STRIPE_CURRENCY, default=usd"`
	// ChargeTimeout bounds a single charge attempt; past it the attempt is
	// treated as a network failure.
	ChargeTimeout time.Duration `env:"STRIPE_CHARGE_TIMEOUT, default=30s"`
}

type MailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	From           string `env:"MAIL_FROM, default=no-reply@storefront.dev"`
	FromName       string `env:"MAIL_FROM_NAME, default=Storefront"`
	Workers        int    `env:"MAIL_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
