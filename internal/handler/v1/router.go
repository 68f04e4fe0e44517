package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/pkg/auth"
	"github.com/oncolab/sampletrack/pkg/metrics"
)

// NewRouter wires the API surface: public auth endpoints, token-guarded
// sample endpoints, and the operational endpoints.
func NewRouter(
	sampleH *SampleHandler,
	authH *AuthHandler,
	adminH *AdminHandler,
	jwtManager *auth.JWTManager,
	m *metrics.Collector,
	log *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestMetrics(m), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)

	protected := api.Group("", authRequired(jwtManager))
	{
		protected.GET("/samples", sampleH.List)
		protected.POST("/samples", sampleH.Create)
		protected.POST("/samples/derive", sampleH.Derive)
		protected.POST("/samples/receive", sampleH.Receive)
		protected.PUT("/samples/:id", sampleH.Update)
		protected.DELETE("/samples", sampleH.Delete)
		protected.GET("/samples/tree", sampleH.Tree)
		protected.GET("/samples/next-barcode", sampleH.NextBarcode)
		protected.GET("/patients", sampleH.Patients)
		protected.GET("/logs", adminH.SystemLogs)
		protected.GET("/users", adminH.ListUsers)
		protected.PUT("/users/:id/permissions", adminH.UpdatePermissions)
	}

	return r
}

func authRequired(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func requestMetrics(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlightGauge.Inc()

		c.Next()

		m.InFlightGauge.Dec()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		}
	}
}
