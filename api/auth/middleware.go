package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/vaaskel/vaaskel/api/models"
)

// RequireAuth rejects requests without an established session and puts
// the principal into the request context.
func (p *Provider) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		// A stale or tampered cookie may carry missing or oddly typed
		// values; treat anything unexpected as unauthenticated.
		userID, idOK := session.Get(sessionKeyUserID).(uint)
		username, nameOK := session.Get(sessionKeyUsername).(string)
		isAdmin, adminOK := session.Get(sessionKeyIsAdmin).(bool)
		if !idOK || !nameOK || !adminOK {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		user := &models.SessionUser{
			ID:       userID,
			Username: username,
			IsAdmin:  isAdmin,
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
	}
}

// RequireAdmin rejects requests from principals without the admin role.
func (p *Provider) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(*models.SessionUser)
		if !ok || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
