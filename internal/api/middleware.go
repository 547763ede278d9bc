package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/reservation-backend/internal/auth"
	"github.com/campuskit/reservation-backend/internal/user"
)

// RequireAdmin ensures the authenticated user holds the admin role. The role
// travels in the JWT claims, so no user lookup is needed; a role change takes
// effect when the token is reissued.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if auth.GetUserRole(c) != string(user.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}

		c.Next()
	}
}
