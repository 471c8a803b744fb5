package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/freezeraudit/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID       = "userId"
	requestIDHeader = "X-Request-ID"
)

var newRequestID = uuid.NewString

// RequestLogger tags the request context with a request id (taken from
// X-Request-ID when the proxy sent one) and writes one line per request.
func RequestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = newRequestID()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "request_id", reqID))

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		}
		if id := c.GetString(ctxUserID); id != "" {
			args = append(args, "user_id", id)
		}
		l.Info(c.Request.Context(), "request", args...)
	}
}

// Recovery turns a panic in a handler into a logged 500.
func Recovery(l logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		l.Error(c.Request.Context(), "panic recovered", "error", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
