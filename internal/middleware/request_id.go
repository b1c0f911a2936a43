package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"logistics/internal/obs"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware propagates the caller's request id, or generates one,
// into the response headers and the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(obs.WithRequestID(c.Request.Context(), reqID))
		c.Next()
	}
}
