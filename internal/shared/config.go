package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string `validate:"required"`
	HTTPAddr    string `validate:"required"`
	HTTPTimeout time.Duration
	MetricsAddr string
	StoreDriver string `validate:"oneof=mysql memory"`
	MySQLDSN    string `validate:"required_if=StoreDriver mysql"`
	RedisAddr   string
	RedisDB     int `validate:"min=0"`
	RedisPass   string
	SessionID   string
	SessionTTL  time.Duration
	APIBase     string `validate:"required,url"`
	APIRPS      int    `validate:"min=1"`
	PageLimit   int    `validate:"min=1"`
	SeedFile    string
	SeedWorkers int `validate:"min=1"`
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		HTTPTimeout: time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		MetricsAddr: env("METRICS_ADDR", ""),
		StoreDriver: env("STORE_DRIVER", "mysql"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		SessionID:   env("SESSION_ID", ""),
		SessionTTL:  time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
		APIBase:     env("REVIEWS_API_URL", "http://localhost:8080"),
		APIRPS:      atoi("REVIEWS_API_RPS", 5),
		PageLimit:   atoi("PAGE_LIMIT", 50),
		SeedFile:    env("SEED_FILE", ""),
		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
}

// Validate checks the loaded values; binaries call it before wiring anything.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
