package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/aquasutra/internal/domain/auth"
	"github.com/yanqian/aquasutra/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, recorder HTTPRecorder, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")
	clock := clockwork.NewRealClock()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		metricsMiddleware(recorder),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(
		rateLimitMiddleware(cfg.HTTP.RateLimit, clock, logger),
		authMiddleware(authSvc),
	)
	{
		api.POST("/recommendations", handler.Recommend)
		api.POST("/recommendations/compare", handler.Compare)
		api.GET("/market/prices", handler.MarketPrices)
		api.POST("/water-cost", handler.WaterCost)
		api.POST("/insurance/premium", handler.InsurancePremium)
		api.GET("/groundwater/status", handler.GroundwaterStatus)
		api.GET("/groundwater/trend", handler.GroundwaterTrend)
		api.GET("/locations/pincode/:pincode", handler.ResolvePincode)
		api.GET("/locations/nearest", handler.NearestBlock)
		api.GET("/crops", handler.Crops)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, clock, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
