package config // package config loads application configuration from the environment

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; see Load for names and defaults.
type Config struct {
	Env     string // application environment (development, production)
	Port    string // HTTP port to listen on
	BaseURL string // public URL used to build payment return links

	DBDriver string // sqlite3 or mysql
	DBPath   string // sqlite file
	DBUser   string
	DBPass   string
	DBHost   string
	DBPort   string
	DBName   string

	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int

	DefaultAdmin       AdminSeed
	SeedSampleServices bool
	HoldUnpaidSlots    bool // pending reservations block their slot

	Payment PaymentConfig

	BusinessPhone string // WhatsApp contact shown on the confirmation page
	LogLevel      string

	RabbitURL       string
	ConsumerEnabled bool
	BookingLogPath  string

	Cache     CacheConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
}

// AdminSeed is the account created on first start when no admin exists.
type AdminSeed struct {
	Username string
	Password string
	Email    string
}

// PaymentConfig selects and configures the payment provider.
type PaymentConfig struct {
	Provider            string // mercadopago | stripe
	MPAccessToken       string
	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string
	Timeout             time.Duration
}

// devJWTSecret signs tokens outside production when JWT_SECRET is unset.
const devJWTSecret = "dev-secret-change-me"

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	port := envStr("APP_PORT", envStr("PORT", "3001"))
	cfg := Config{
		Env:     envStr("APP_ENV", "development"),
		Port:    port,
		BaseURL: strings.TrimRight(envStr("BASE_URL", "http://localhost:"+port), "/"),

		DBDriver: envStr("DB_DRIVER", "sqlite3"),
		DBPath:   envStr("DB_PATH", "reservas.db"),
		DBUser:   os.Getenv("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   envStr("DB_HOST", "127.0.0.1"),
		DBPort:   envStr("DB_PORT", "3306"),
		DBName:   envStr("DB_NAME", "reservas"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 24*60),
		BcryptCost:   envInt("BCRYPT_COST", 10),

		DefaultAdmin: AdminSeed{
			Username: envStr("ADMIN_DEFAULT_USERNAME", "admin"),
			Password: envStr("ADMIN_DEFAULT_PASSWORD", "admin123"),
			Email:    envStr("ADMIN_DEFAULT_EMAIL", "admin@sistema.com"),
		},
		SeedSampleServices: envBool("SEED_SAMPLE_SERVICES", true),
		HoldUnpaidSlots:    envBool("HOLD_UNPAID_SLOTS", false),

		Payment: PaymentConfig{
			Provider:            strings.ToLower(envStr("PAYMENT_PROVIDER", "mercadopago")),
			MPAccessToken:       os.Getenv("MP_ACCESS_TOKEN"),
			StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:            strings.ToUpper(envStr("PAYMENT_CURRENCY", "ARS")),
			Timeout:             envDur("PAYMENT_TIMEOUT", 5*time.Second),
		},

		BusinessPhone: os.Getenv("BUSINESS_PHONE"),
		LogLevel:      envStr("LOG_LEVEL", "info"),

		RabbitURL:       envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		ConsumerEnabled: envBool("CONSUMER_ENABLED", false),
		BookingLogPath:  envStr("BOOKING_LOG_PATH", "logs/booking.log"),

		Cache:     LoadCacheConfig(),
		RateLimit: LoadRateLimitConfig(),
		Redis:     LoadRedisConfig(),
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("missing required env var: JWT_SECRET")
	}
	switch c.DBDriver {
	case "sqlite3":
	case "mysql":
		if c.DBUser == "" {
			return errors.New("missing required env var: DB_USER")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Payment.Provider {
	case "mercadopago", "stripe":
	default:
		return fmt.Errorf("unsupported PAYMENT_PROVIDER %q", c.Payment.Provider)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("invalid BCRYPT_COST %d", c.BcryptCost)
	}
	return nil
}
