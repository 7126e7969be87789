package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		rc, ok := GetRequestContext(c)
		if !ok {
			unauthorized(c, "not authenticated")
			return
		}
		if !allowed[rc.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden",
				"message":    "role " + string(rc.Role) + " cannot access this resource",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
