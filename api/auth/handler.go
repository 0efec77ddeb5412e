package auth

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/vaaskel/vaaskel/api/models"
	"github.com/vaaskel/vaaskel/service"
)

// Login verifies the submitted credentials and establishes a session.
// Every rejection looks the same to the client; the reason is only
// logged.
func (p *Provider) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	rec, err := p.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials),
			errors.Is(err, service.ErrAccountDisabled),
			errors.Is(err, service.ErrAccountLocked),
			errors.Is(err, service.ErrAccountExpired),
			errors.Is(err, service.ErrCredentialsExpired):
			log.Debug("login rejected", "username", req.Username, "reason", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			log.Error("login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	user := models.ToSessionUser(rec)

	session := sessions.Default(c)
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyUsername, user.Username)
	session.Set(sessionKeyIsAdmin, user.IsAdmin)
	if err := session.Save(); err != nil {
		log.Error("failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout clears the session.
func (p *Provider) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Error("failed to clear session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated principal.
func (p *Provider) Me(c *gin.Context) {
	user := c.MustGet("user").(*models.SessionUser)
	c.JSON(http.StatusOK, user)
}
