package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/auth"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

const requestContextKey = "request_context"

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      "unauthorized",
		"message":    message,
		"request_id": GetRequestID(c),
	})
}

// Auth validates the Bearer token and stores the caller as a
// domain.RequestContext. An empty secret rejects every request.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "Authorization header missing or invalid")
			return
		}
		rc, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(c, err.Error())
			return
		}
		c.Set(requestContextKey, rc)
		c.Next()
	}
}

// GetRequestContext returns the authenticated caller.
func GetRequestContext(c *gin.Context) (domain.RequestContext, bool) {
	if c == nil {
		return domain.RequestContext{}, false
	}
	v, ok := c.Get(requestContextKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

// SetRequestContext stores rc for handlers further down the chain.
func SetRequestContext(c *gin.Context, rc domain.RequestContext) {
	c.Set(requestContextKey, rc)
}
