package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the context key (and response header) carrying the request id.
const RequestIDKey = "X-Request-ID"

// RequestID attaches a request id to every request: the client's own
// X-Request-ID when supplied, a fresh UUID otherwise. The id is echoed back
// in the response header and picked up by the logging middleware.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDKey, id)
		c.Next()
	}
}
