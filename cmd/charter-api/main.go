// README: Entry point; loads config and reference data, wires the pricing service and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"charter/internal/config"
	httptransport "charter/internal/http"
	"charter/internal/infra"
	"charter/internal/logger"
	"charter/internal/metrics"
	"charter/internal/modules/pricing"
	"charter/internal/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ref, err := loadReference(ctx, cfg)
	if err != nil {
		appLog.Fatal("reference data load failed", "source", cfg.Data.Source, "error", err)
	}
	appLog.Info("reference data loaded", "source", cfg.Data.Source,
		"aircraft", len(ref.AircraftList()), "airports", len(ref.AirportCodes()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.Metrics.Namespace, reg)

	deps := pricing.ServiceDeps{Logger: appLog, Metrics: m}
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			appLog.Warn("quote cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			deps.Cache = pricing.NewStore(redisClient, cfg.Redis.QuoteTTL)
			appLog.Info("quote cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.QuoteTTL.String())
		}
	}

	pricingSvc := pricing.NewService(ref, pricing.Options{
		TaxRate:          cfg.Pricing.TaxRate,
		PlatformFee:      cfg.Pricing.PlatformFee,
		BillAircraftMTOW: cfg.Pricing.BillAircraftMTOW,
	}, deps)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Pricing:  pricingSvc,
		Catalog:  ref,
		Logger:   appLog,
		Metrics:  m,
		Gatherer: reg,
		GinMode:  cfg.HTTP.GinMode,
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, router, appLog)
	if err := server.Run(ctx); err != nil {
		appLog.Fatal("http server failed", "error", err)
	}
}

func loadReference(ctx context.Context, cfg config.Config) (*refdata.Store, error) {
	switch cfg.Data.Source {
	case config.DataSourcePostgres:
		db, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		// Tables are read once; the connection is not needed afterwards.
		defer db.Close()
		return refdata.LoadPostgres(ctx, db)
	case config.DataSourceFiles:
		return refdata.LoadFiles(cfg.Data.Dir)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}
