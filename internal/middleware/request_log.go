package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key under which the request ID is stored.
const RequestIDKey = "request_id"

// RequestLog tags every request with an ID and writes one log line per
// request once handling completes. The ID from an incoming X-Request-ID
// header is reused so callers can correlate their own logs; otherwise a
// fresh one is minted. The ID is echoed on the response and stored in the
// gin context for handlers that want it.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		elapsed := time.Since(start).Round(time.Microsecond)
		if len(c.Errors) > 0 {
			log.Printf("req=%s %s %s -> %d in %s errors=%s",
				id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed, c.Errors.String())
			return
		}
		log.Printf("req=%s %s %s -> %d in %s",
			id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed)
	}
}
