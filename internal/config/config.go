// README: Config loader with env defaults for HTTP, reference data, cache, pricing and logging settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceFiles    = "files"
	DataSourcePostgres = "postgres"
)

// PricingConfig carries the business constants applied after the subtotal.
type PricingConfig struct {
	TaxRate          float64
	PlatformFee      float64
	BillAircraftMTOW bool
}

type Config struct {
	HTTP struct {
		Addr    string
		GinMode string
	}
	Data struct {
		Source string
		Dir    string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr     string
		QuoteTTL time.Duration
	}
	Pricing PricingConfig
	Log     struct {
		Level string
	}
	Metrics struct {
		Namespace string
	}
}

func Load() (Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("CHARTER_HTTP_ADDR", ":8080")
	cfg.HTTP.GinMode = envOrDefault("CHARTER_GIN_MODE", "release")
	cfg.Data.Source = strings.ToLower(envOrDefault("CHARTER_DATA_SOURCE", DataSourceFiles))
	cfg.Data.Dir = envOrDefault("CHARTER_DATA_DIR", "data")
	cfg.DB.DSN = os.Getenv("CHARTER_DB_DSN")
	cfg.Redis.Addr = os.Getenv("CHARTER_REDIS_ADDR")
	cfg.Redis.QuoteTTL = envOrDefaultDuration("CHARTER_QUOTE_CACHE_TTL", 10*time.Minute)
	cfg.Pricing.TaxRate = envOrDefaultFloat("CHARTER_TAX_RATE", 0.18)
	cfg.Pricing.PlatformFee = envOrDefaultFloat("CHARTER_PLATFORM_FEE", 15000.0)
	cfg.Pricing.BillAircraftMTOW = envOrDefaultBool("CHARTER_BILL_AIRCRAFT_MTOW", false)
	cfg.Log.Level = strings.ToLower(envOrDefault("CHARTER_LOG_LEVEL", "info"))
	cfg.Metrics.Namespace = envOrDefault("CHARTER_METRICS_NAMESPACE", "charter")

	switch cfg.Data.Source {
	case DataSourceFiles:
	case DataSourcePostgres:
		if cfg.DB.DSN == "" {
			return Config{}, fmt.Errorf("CHARTER_DB_DSN is required when CHARTER_DATA_SOURCE=%s", DataSourcePostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown CHARTER_DATA_SOURCE %q", cfg.Data.Source)
	}
	if cfg.Pricing.TaxRate < 0 {
		return Config{}, fmt.Errorf("CHARTER_TAX_RATE must be non-negative, got %v", cfg.Pricing.TaxRate)
	}
	if cfg.Pricing.PlatformFee < 0 {
		return Config{}, fmt.Errorf("CHARTER_PLATFORM_FEE must be non-negative, got %v", cfg.Pricing.PlatformFee)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
