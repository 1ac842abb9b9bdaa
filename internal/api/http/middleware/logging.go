package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/logger"
)

// Logging logs every HTTP request and its result.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleHTTP logs method, route, duration and status for each request.
func (l *Logging) HandleHTTP(c *gin.Context) {
	start := time.Now()
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	l.logger.Debug("HTTP request started",
		"method", c.Request.Method,
		"route", route,
		"start_time", start.Format(time.RFC3339))

	c.Next()

	duration := time.Since(start)
	status := c.Writer.Status()

	l.logger.Info("HTTP request completed",
		"method", c.Request.Method,
		"route", route,
		"duration_ms", duration.Milliseconds(),
		"status", status)

	if len(c.Errors) > 0 {
		kind := apierrors.KindOf(c.Errors.Last().Err)
		log := l.logger.Warn
		if kind == apierrors.KindInternal {
			log = l.logger.Error
		}
		log("HTTP request failed",
			"method", c.Request.Method,
			"route", route,
			"kind", kind,
			"error", c.Errors.String(),
			"status", status)
	}
}
