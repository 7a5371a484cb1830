package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/config"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/notify"
)

// RegisterRoutes wires every handler onto the router.
func RegisterRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, log *zap.Logger, notifier notify.Notifier) {
	checkout := NewCheckoutHandler(db, log)
	orders := NewOrderHandler(db, log, notifier)
	products := NewProductHandler(db, log)
	brands := NewBrandHandler(db, log)
	upload := NewUploadHandler(cfg.Upload, log)

	api := r.Group("/api")

	api.POST("/checkout", checkout.Checkout)

	orderRoutes := api.Group("/orders")
	orderRoutes.GET("", orders.List)
	orderRoutes.GET("/summary", orders.Summary)
	orderRoutes.GET("/statuses", orders.Statuses)
	orderRoutes.GET("/:id", orders.Get)
	orderRoutes.GET("/:id/status-history", orders.StatusHistory)
	orderRoutes.PATCH("/:id/status", orders.UpdateStatus)
	orderRoutes.PATCH("/by-number/:orderNumber/status", orders.UpdateStatusByNumber)

	productRoutes := api.Group("/products")
	productRoutes.GET("", products.List)
	productRoutes.GET("/:id", products.Get)
	productRoutes.POST("", products.Create)
	productRoutes.PUT("/:id", products.Update)
	productRoutes.DELETE("/:id", products.Delete)

	brandRoutes := api.Group("/brands")
	brandRoutes.GET("", brands.List)
	brandRoutes.POST("", brands.Create)
	brandRoutes.DELETE("/:id", brands.Delete)

	uploadRoutes := api.Group("/upload")
	uploadRoutes.POST("/single", upload.Single)
	uploadRoutes.POST("/multiple", upload.Multiple)
	uploadRoutes.DELETE("/:filename", upload.Delete)

	r.Static("/uploads", cfg.Upload.Dir)

	r.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
}

// RequestLogger logs every request with method, path, status and latency.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			log.Error("http_request", fields...)
		case status >= 400:
			log.Warn("http_request", fields...)
		default:
			log.Info("http_request", fields...)
		}
	}
}
