// README: Benchmark runner for the quote API; executes HTTP/DB/Redis checks and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationPath  string
	ApplyMigration bool
	Strict         bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration

	// Request template for the happy-path cases.
	Origin      string
	Destination string
	MappedFrom  string
	MappedTo    string
	AircraftID  int
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("CHARTER_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", envOrDefault("CHARTER_DB_DSN", ""), "Postgres DSN (empty skips DB checks)")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("CHARTER_REDIS_ADDR", ""), "Redis address (empty skips cache checks)")
	flag.StringVar(&cfg.MigrationPath, "migration", envOrDefault("CHARTER_BENCH_MIGRATION", "migrations/0001_reference_data.sql"), "Migration SQL path")
	flag.BoolVar(&cfg.ApplyMigration, "apply-migration", envOrDefaultBool("CHARTER_BENCH_APPLY_MIGRATION", false), "Apply migration SQL before tests")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("CHARTER_BENCH_STRICT", false), "Fail on skipped checks")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("CHARTER_BENCH_TIMEOUT", 60*time.Second), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("CHARTER_BENCH_CONCURRENCY", 20), "Concurrent clients for load checks")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("CHARTER_BENCH_DURATION", 10*time.Second), "Duration of the load check")
	flag.StringVar(&cfg.Origin, "origin", envOrDefault("CHARTER_BENCH_ORIGIN", "Delhi"), "Display origin")
	flag.StringVar(&cfg.Destination, "destination", envOrDefault("CHARTER_BENCH_DESTINATION", "Mumbai"), "Display destination")
	flag.StringVar(&cfg.MappedFrom, "mapped-from", envOrDefault("CHARTER_BENCH_MAPPED_FROM", "DEL"), "Origin tariff code")
	flag.StringVar(&cfg.MappedTo, "mapped-to", envOrDefault("CHARTER_BENCH_MAPPED_TO", "BOM"), "Destination tariff code")
	flag.IntVar(&cfg.AircraftID, "aircraft", envOrDefaultInt("CHARTER_BENCH_AIRCRAFT_ID", 1), "Aircraft id")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
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

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
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
