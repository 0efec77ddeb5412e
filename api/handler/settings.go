package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaaskel/vaaskel/api/models"
	"github.com/vaaskel/vaaskel/database"
	"github.com/vaaskel/vaaskel/theme"
)

// GetSettings returns the session user's settings, creating the row on
// first access. The effective color scheme is resolved against the
// client hint so SYSTEM preferences render correctly.
func (h *Handler) GetSettings(c *gin.Context) {
	user := h.sessionUser(c)

	settings, err := h.settings.GetOrCreate(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	attribute := theme.Resolve(settings.Theme, c.GetHeader(theme.ColorSchemeHintHeader))
	c.JSON(http.StatusOK, models.ToSettingsResponse(settings, attribute))
}

// UpdateTheme stores a new theme preference for the session user.
func (h *Handler) UpdateTheme(c *gin.Context) {
	user := h.sessionUser(c)

	var req models.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme is required"})
		return
	}

	settings, err := h.settings.UpdateTheme(c.Request.Context(), user.ID, database.ThemePreference(req.Theme))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	attribute := theme.Resolve(settings.Theme, c.GetHeader(theme.ColorSchemeHintHeader))
	c.JSON(http.StatusOK, models.ToSettingsResponse(settings, attribute))
}
