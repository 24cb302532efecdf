package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/server/http/handlers"
	"github.com/polkiloo/tablepay/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PosFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.Metrics())

	engine.GET("/metrics", middleware.PrometheusHandler())
	engine.GET("/healthz", func(c *gin.Context) {
		if err := facade.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	cashHandler := handlers.NewCashHandler(facade)
	expiryHandler := handlers.NewExpiryHandler(facade)
	tableHandler := handlers.NewTableHandler(facade)

	api := engine.Group("/api")
	api.POST("/orders", orderHandler.Checkout)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:code", orderHandler.Detail)

	payments := api.Group("/payments")
	payments.POST("/notification", paymentHandler.Notification)
	payments.GET("/status/:code", paymentHandler.Status)
	payments.POST("/sync", paymentHandler.BatchSync)
	payments.POST("/cash/confirm", cashHandler.Confirm)
	payments.POST("/cash/reject", cashHandler.Reject)
	payments.POST("/expiry/sweep", expiryHandler.Sweep)
	payments.GET("/expiry/:code", expiryHandler.Status)

	tables := api.Group("/tables")
	tables.POST("", tableHandler.Create)
	tables.GET("", tableHandler.List)
	tables.DELETE("/:id", tableHandler.Delete)
	tables.PATCH("/:id/status", tableHandler.Override)

	return engine
}
