package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/auth"
)

func tokenFromHeader(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// ValidateToken requires a valid token and stores the caller's identity on
// the context.
func ValidateToken(c *gin.Context) {
	tokenString := tokenFromHeader(c)
	if tokenString == "" {
		api.Fail(c, api.Unauthorized("Authorization header is missing"))
		c.Abort()
		return
	}

	claims, err := auth.VerifyToken(tokenString)
	if err != nil {
		api.Fail(c, api.Unauthorized("Invalid or expired token"))
		c.Abort()
		return
	}

	c.Set("user_id", claims.UserID)
	c.Set("user_email", claims.Email)
	c.Set("user_role", claims.Role)
	c.Next()
}

// OptionalToken stores the caller's identity when a valid token is present
// and lets anonymous requests through untouched. A malformed token is
// ignored rather than rejected.
func OptionalToken(c *gin.Context) {
	if tokenString := tokenFromHeader(c); tokenString != "" {
		if claims, err := auth.VerifyToken(tokenString); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)
		}
	}
	c.Next()
}

// RequireAdmin allows only callers whose token carries the admin role. Must
// run after ValidateToken.
func RequireAdmin(c *gin.Context) {
	if c.GetString("user_role") != "admin" {
		c.JSON(http.StatusForbidden, api.Response{
			Success: false,
			Message: "Admin privileges required",
			Error:   "Admin privileges required",
		})
		c.Abort()
		return
	}
	c.Next()
}

// UserID returns the authenticated caller's id, empty for anonymous.
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}
