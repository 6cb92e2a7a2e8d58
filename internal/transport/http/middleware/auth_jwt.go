package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reclamation-api/internal/core/auth"
	resp "reclamation-api/internal/transport/http/response"
)

// AuthJWT validates the bearer token and stashes the identity in the gin
// context. requireRoles empty means any authenticated user.
func AuthJWT(j *auth.JWTer, requireRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if len(requireRoles) > 0 {
			ok := false
			for _, r := range requireRoles {
				if claims.Role == r {
					ok = true
					break
				}
			}
			if !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Set("department", claims.Department)
		c.Next()
	}
}
