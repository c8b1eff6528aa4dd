// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"charter/internal/http/handlers"
	"charter/internal/http/middleware"
	"charter/internal/logger"
	"charter/internal/metrics"
)

type RouterDeps struct {
	Pricing  handlers.Estimator
	Catalog  handlers.Catalog
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	GinMode  string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.GinMode != "" {
		gin.SetMode(deps.GinMode)
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logging(log),
		middleware.Metrics(deps.Metrics),
	)

	pricingHandler := handlers.NewPricingHandler(deps.Pricing, log)
	r.POST("/api/pricing/estimate", pricingHandler.Estimate)
	r.POST("/estimate/", pricingHandler.Estimate)

	refHandler := handlers.NewReferenceHandler(deps.Catalog)
	r.GET("/api/pricing/aircraft", refHandler.Aircraft)
	r.GET("/api/pricing/airports", refHandler.Airports)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}
