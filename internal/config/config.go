package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	HTTPAddr      string
	APIToken      string // токен для машинных клиентов HTTP API
	MigrationsDir string
	SessionTTL    time.Duration

	Razorpay RazorpayConfig
	Booking  BookingConfig
	Fare     FareConfig

	AdminTelegramIDs []int64
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

type BookingConfig struct {
	TTL               time.Duration // через сколько неоплаченная бронь отменяется
	SchedulerInterval time.Duration
}

type FareConfig struct {
	Strict    bool    // отклонять бронь при расхождении суммы с тарифом
	Tolerance float64 // допустимое расхождение в рупиях
}

// Load читает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv собирает конфигурацию из уже загруженных переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Environment:   getEnv("ENV", "development"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		APIToken:      os.Getenv("API_TOKEN"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		Razorpay: RazorpayConfig{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
			BaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		},
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error
	if cfg.Razorpay.Timeout, err = getDuration("PAYMENT_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Booking.TTL, err = getDuration("BOOKING_TTL", 20*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Booking.SchedulerInterval, err = getDuration("SCHEDULER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if v := os.Getenv("FARE_STRICT"); v != "" {
		if cfg.Fare.Strict, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("parse FARE_STRICT: %w", err)
		}
	}
	cfg.Fare.Tolerance = 1.0
	if v := os.Getenv("FARE_TOLERANCE"); v != "" {
		if cfg.Fare.Tolerance, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("parse FARE_TOLERANCE: %w", err)
		}
		if cfg.Fare.Tolerance < 0 {
			return nil, fmt.Errorf("FARE_TOLERANCE must not be negative")
		}
	}

	if cfg.AdminTelegramIDs, err = parseIDList(os.Getenv("ADMIN_TELEGRAM_IDS")); err != nil {
		return nil, fmt.Errorf("parse ADMIN_TELEGRAM_IDS: %w", err)
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsAdmin проверяет что telegram id указан в списке администраторов
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
