package middleware

import (
	"net/http"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers whose role is not one of roles.
// Services still run their own capability checks.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if !p.IsAuthenticated() {
			common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}
		for _, r := range roles {
			if p.Is(r) {
				c.Next()
				return
			}
		}
		common.ErrorResponse(c, http.StatusForbidden, "insufficient role", nil)
		c.Abort()
	}
}

// RequireAdmin admin-only route group guard
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
