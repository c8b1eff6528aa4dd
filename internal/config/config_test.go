package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"CHARTER_HTTP_ADDR", "CHARTER_DATA_SOURCE", "CHARTER_DATA_DIR", "CHARTER_DB_DSN",
		"CHARTER_REDIS_ADDR", "CHARTER_QUOTE_CACHE_TTL", "CHARTER_TAX_RATE", "CHARTER_PLATFORM_FEE",
		"CHARTER_BILL_AIRCRAFT_MTOW", "CHARTER_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Data.Source != DataSourceFiles || cfg.Data.Dir != "data" {
		t.Errorf("Data = %+v, want files/data", cfg.Data)
	}
	if cfg.Pricing.TaxRate != 0.18 {
		t.Errorf("TaxRate = %v, want 0.18", cfg.Pricing.TaxRate)
	}
	if cfg.Pricing.PlatformFee != 15000.0 {
		t.Errorf("PlatformFee = %v, want 15000", cfg.Pricing.PlatformFee)
	}
	if cfg.Pricing.BillAircraftMTOW {
		t.Error("BillAircraftMTOW should default to false")
	}
	if cfg.Redis.QuoteTTL != 10*time.Minute {
		t.Errorf("QuoteTTL = %v, want 10m", cfg.Redis.QuoteTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CHARTER_TAX_RATE", "0.05")
	t.Setenv("CHARTER_PLATFORM_FEE", "2500")
	t.Setenv("CHARTER_BILL_AIRCRAFT_MTOW", "TRUE")
	t.Setenv("CHARTER_QUOTE_CACHE_TTL", "30s")
	t.Setenv("CHARTER_DATA_SOURCE", "Postgres")
	t.Setenv("CHARTER_DB_DSN", "postgres://localhost/charter")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Pricing.TaxRate != 0.05 || cfg.Pricing.PlatformFee != 2500 {
		t.Errorf("pricing = %+v", cfg.Pricing)
	}
	if !cfg.Pricing.BillAircraftMTOW {
		t.Error("BillAircraftMTOW should be true")
	}
	if cfg.Redis.QuoteTTL != 30*time.Second {
		t.Errorf("QuoteTTL = %v, want 30s", cfg.Redis.QuoteTTL)
	}
	if cfg.Data.Source != DataSourcePostgres {
		t.Errorf("Data.Source = %q", cfg.Data.Source)
	}
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("CHARTER_TAX_RATE", "eighteen")
	t.Setenv("CHARTER_DATA_SOURCE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Pricing.TaxRate != 0.18 {
		t.Errorf("TaxRate = %v, want fallback 0.18", cfg.Pricing.TaxRate)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without dsn", map[string]string{"CHARTER_DATA_SOURCE": "postgres", "CHARTER_DB_DSN": ""}},
		{"unknown source", map[string]string{"CHARTER_DATA_SOURCE": "s3"}},
		{"negative tax", map[string]string{"CHARTER_DATA_SOURCE": "", "CHARTER_TAX_RATE": "-0.1"}},
		{"negative platform fee", map[string]string{"CHARTER_DATA_SOURCE": "", "CHARTER_PLATFORM_FEE": "-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() should have failed")
			}
		})
	}
}
