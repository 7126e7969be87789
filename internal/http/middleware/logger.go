package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one line per request including request_id and the caller's owner.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		var ownerID int64
		if rc, ok := GetRequestContext(c); ok {
			ownerID = rc.OwnerID
		}

		log.Printf("[HTTP] request_id=%s method=%s path=%s status=%d owner_id=%d latency_ms=%.3f ip=%s",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			ownerID,
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
