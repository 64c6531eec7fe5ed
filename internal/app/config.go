package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/zahrashop/backend/internal/gateway"
	"github.com/zahrashop/backend/internal/payment"
)

// Config holds the complete application configuration, loadable from
// environment variables (ZAHRA_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (ZAHRA_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	JWTSecret   string `usage:"HMAC secret verifying access tokens (ZAHRA_JWT_SECRET)" flag:"jwt-secret"`

	Kafka     KafkaConfig
	Stripe    StripeConfig
	Gateway   GatewayConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// KafkaConfig configures the order event stream. An empty broker list
// disables event publishing entirely.
type KafkaConfig struct {
	Brokers []string `usage:"Kafka broker addresses; empty disables order events"`
	Topic   string   `default:"zahra.order.events" usage:"Topic receiving order events"`
}

// StripeConfig carries the Stripe credentials.
type StripeConfig struct {
	SecretKey     string `usage:"Stripe secret API key" flag:"stripe-secret-key"`
	WebhookSecret string `usage:"Stripe webhook signing secret" flag:"stripe-webhook-secret"`
}

// GatewayConfig carries the external payment gateway credentials.
type GatewayConfig struct {
	BaseURL     string `usage:"Payment gateway base URL" flag:"gateway-base-url"`
	APIKey      string `usage:"Payment gateway API key" flag:"gateway-api-key"`
	MerchantID  string `usage:"Merchant identifier at the gateway" flag:"gateway-merchant-id"`
	CallbackURL string `usage:"Public URL the gateway calls back after payment" flag:"gateway-callback-url"`
	TestMode    bool   `usage:"Open gateway sessions in test mode" flag:"gateway-test-mode"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

func (c GatewayConfig) clientConfig() gateway.Config {
	return gateway.Config{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		MerchantID:  c.MerchantID,
		CallbackURL: c.CallbackURL,
		TestMode:    c.TestMode,
	}
}

func (c StripeConfig) clientConfig() payment.StripeConfig {
	return payment.StripeConfig{
		SecretKey:     c.SecretKey,
		WebhookSecret: c.WebhookSecret,
	}
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ZAHRA",
		Files:     []string{"config.yaml", "/etc/zahra/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ZAHRA_DATABASE_URL or DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required: set ZAHRA_JWT_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's ZAHRA_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
