package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type Config struct {
	Port              string
	GinMode           string
	DBDriver          string
	DBDSN             string
	JWTSecret         string
	CORSOrigin        string
	DiscountAPIURL    string
	DiscountAPIKey    string
	AMQPURL           string
	CartStore         string
	CartDir           string
	QueuePollInterval time.Duration
	LoyaltyPointValue decimal.Decimal
	RateLimitPerMin   int
	LogLevel          string
	LogFormat         string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		DBDriver:          getEnv("DB_DRIVER", "sqlite"),
		DBDSN:             getEnv("DB_DSN", "restaurant.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://127.0.0.1:5500"),
		DiscountAPIURL:    os.Getenv("DISCOUNT_API_URL"),
		DiscountAPIKey:    os.Getenv("DISCOUNT_API_KEY"),
		AMQPURL:           os.Getenv("AMQP_URL"),
		CartStore:         getEnv("CART_STORE", "db"),
		CartDir:           getEnv("CART_DIR", "data/carts"),
		QueuePollInterval: getDuration("QUEUE_POLL_INTERVAL", 5*time.Second),
		LoyaltyPointValue: getDecimal("LOYALTY_POINT_VALUE", decimal.NewFromInt(10000)),
		RateLimitPerMin:   getInt("RATE_LIMIT_PER_MINUTE", 120),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}
}

// Validate rejects settings that are only safe on a developer machine.
func (c *Config) Validate() error {
	if c.GinMode == "release" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set when GIN_MODE=release")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		utils.ErrorLogger.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	utils.ErrorLogger.Printf("invalid %s=%q, using %s", key, v, fallback)
	return fallback
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !d.IsPositive() {
		utils.ErrorLogger.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
