package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserID     = "userID"
	ctxUserEmail  = "userEmail"
	ctxUserRole   = "userRole"
	ctxDepartment = "userDepartment"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return getString(c, ctxUserID)
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	return getString(c, ctxUserEmail)
}

// GetUserRole returns the authenticated user's role or empty string.
func GetUserRole(c *gin.Context) string {
	return getString(c, ctxUserRole)
}

// GetUserDepartment returns the authenticated user's department or empty string.
func GetUserDepartment(c *gin.Context) string {
	return getString(c, ctxDepartment)
}

func getString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
