package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/gin-gonic/gin"

	"github.com/vaaskel/vaaskel/api/models"
	"github.com/vaaskel/vaaskel/cache"
	"github.com/vaaskel/vaaskel/database"
	"github.com/vaaskel/vaaskel/service"
)

// Handler serves the user administration and settings endpoints.
type Handler struct {
	users    *service.UserService
	settings *service.SettingsService
	lists    *cache.PrefixedCache[[]service.UserRecord]
	cacheTTL time.Duration
}

func New(users *service.UserService, settings *service.SettingsService, sharedCache *gocache.Cache[[]byte], cacheTTL time.Duration) *Handler {
	return &Handler{
		users:    users,
		settings: settings,
		lists:    cache.NewPrefixedCache[[]service.UserRecord](sharedCache, "users:"),
		cacheTTL: cacheTTL,
	}
}

// invalidateLists drops every cached list window after a mutation.
func (h *Handler) invalidateLists(ctx context.Context) {
	if err := h.lists.Clear(ctx); err != nil {
		log.Error("failed to invalidate user list cache", "error", err)
	}
}

func (h *Handler) sessionUser(c *gin.Context) *models.SessionUser {
	return c.MustGet("user").(*models.SessionUser)
}

// writeServiceError maps service failures to HTTP status codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, database.ErrStaleVersion):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting update, reload and retry"})
	case errors.Is(err, service.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	case errors.Is(err, service.ErrBlankUsername),
		errors.Is(err, service.ErrBlankPassword),
		errors.Is(err, service.ErrMissingID),
		errors.Is(err, service.ErrIDSet),
		errors.Is(err, service.ErrInvalidTheme):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
