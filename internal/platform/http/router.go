package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/weiwei-tsao/state-stats-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/metrics"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

const requestIDHeader = "X-Request-ID"

// FeatureSource supplies the configured shape file for GET /api/map/fills.
type FeatureSource interface {
	Enabled() bool
	Features(ctx context.Context) ([]model.Feature, error)
}

// Router wires HTTP handlers.
type Router struct {
	service  *dashboard.Service
	features FeatureSource
	metrics  *metrics.Metrics
	logger   *slog.Logger
	origins  string
}

// NewRouter builds the gin engine. features and m may be nil.
func NewRouter(service *dashboard.Service, features FeatureSource, m *metrics.Metrics, logger *slog.Logger, allowedOrigins string) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		service:  service,
		features: features,
		metrics:  m,
		logger:   logger,
		origins:  allowedOrigins,
	}

	router := gin.New()
	router.Use(r.requestIDMiddleware(), r.loggingMiddleware(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "records": r.service.Len()})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	{
		stats := api.Group("/region-stats")
		stats.GET("", r.listAll)
		stats.GET("/filtered", r.listFiltered)
		stats.GET("/table", r.table)
		stats.GET("/export", r.export)
		stats.GET("/summary", r.summary)
		stats.GET("/legend", r.legend)
		stats.GET("/:stateId", r.getState)
		stats.POST("/:stateId/select", r.selectState)

		api.POST("/map/fills", r.mapFillsFromBody)
		api.GET("/map/fills", r.mapFillsFromSource)
	}

	return router
}

func (r *Router) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (r *Router) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		r.metrics.ObserveRequest(c.FullPath(), c.Request.Method, status, elapsed)

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		r.logger.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", elapsed),
			slog.String("request_id", c.GetString("requestID")),
		)
	}
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range trimmed {
			if o == "*" || o == origin {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}
