package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staffport.io/staffport/core/models"
	"staffport.io/staffport/security"
	"staffport.io/staffport/web/common"
)

const (
	sessionCookie = "staffport.SessionCookie"

	claimsKey = "claims"
	userIDKey = "userID"
	roleKey   = "role"
)

// Authentication checks for a valid Bearer token (or session cookie) and
// stashes the caller's identity in the gin context.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			cookie, err := c.Cookie(sessionCookie)
			if err != nil {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}

			tokenStr = cookie
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}

			tokenStr = parts[1]
		}

		claims, err := security.ParseSessionToken(jwtSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(userIDKey, userID)
		c.Set(roleKey, claims.Role)

		c.Next()
	}
}

// RequireAdmin must run after Authentication.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(roleKey) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's user id.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentRole returns the authenticated caller's role.
func CurrentRole(c *gin.Context) string {
	return c.GetString(roleKey)
}
