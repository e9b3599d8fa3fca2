package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestContext assigns a request id, echoes it in the response and puts it
// on the request context for the logger.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// StructuredLogger logs one line per request after it is handled.
func StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		}
		if uid, ok := c.Get(ContextUserID); ok {
			fields = append(fields, slog.Any("user_id", uid))
		}

		ctx := c.Request.Context()
		switch {
		case len(c.Errors) > 0:
			fields = append(fields, slog.String("error", c.Errors.String()))
			slog.ErrorContext(ctx, "request failed", fields...)
		case status >= 500:
			slog.ErrorContext(ctx, "request failed", fields...)
		default:
			slog.InfoContext(ctx, "request processed", fields...)
		}
	}
}

// Metrics records request latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
