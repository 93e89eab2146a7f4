package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/response"
)

// RBAC lets the request through when allow accepts the caller's role.
func RBAC(allow func(models.UserRole) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !allow(claims.Role) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireManager admits Gestor, Gestor Master and Start.
func RequireManager() gin.HandlerFunc {
	return RBAC(models.UserRole.Manager)
}

// RequireRoles admits exactly the listed roles, compared with UserRole.Is.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return RBAC(func(role models.UserRole) bool {
		for _, r := range roles {
			if role.Is(r) {
				return true
			}
		}
		return false
	})
}
