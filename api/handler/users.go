package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/gin-gonic/gin"

	"github.com/vaaskel/vaaskel/api/models"
	"github.com/vaaskel/vaaskel/service"
)

const defaultPageSize = 50

// ListUsers returns a window of users, optionally filtered by a
// case-insensitive username substring. The total count for the same
// filter is exposed via the X-Total-Count header.
func (h *Handler) ListUsers(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	filter := strings.TrimSpace(c.Query("filter"))

	ctx := c.Request.Context()

	count, err := h.users.CountUsersByUsername(ctx, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	cacheKey := fmt.Sprintf("%d:%d:%s", offset, limit, strings.ToLower(filter))
	if cached, err := h.lists.Get(ctx, cacheKey); err == nil {
		c.Header("X-Total-Count", strconv.FormatInt(count, 10))
		c.JSON(http.StatusOK, cached)
		return
	}

	records, err := h.users.FindUsersByUsername(ctx, filter, offset, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// A failed cache write only costs the next request a query.
	_ = h.lists.Set(ctx, cacheKey, records, store.WithExpiration(h.cacheTTL))

	c.Header("X-Total-Count", strconv.FormatInt(count, 10))
	c.JSON(http.StatusOK, records)
}

// GetUser returns a single user including its role assignments.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	rec, err := h.users.FindUserByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CreateUser creates a new account. Without a password a throwaway
// credential is generated and only a later reset makes the account
// usable.
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	rec, err := models.ToCreateRecord(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var out *service.UserRecord
	if req.Password != "" {
		out, err = h.users.CreateUserWithPassword(ctx, rec, req.Password)
	} else {
		out, err = h.users.CreateUser(ctx, rec)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.invalidateLists(ctx)
	c.JSON(http.StatusCreated, out)
}

// UpdateUser overwrites the mutable fields of an account; the role set
// is replaced when present in the request.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := models.ToUpdateRecord(id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.users.SaveUser(c.Request.Context(), rec)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.invalidateLists(c.Request.Context())
	c.JSON(http.StatusOK, out)
}

// ResetPassword replaces an account's credential.
func (h *Handler) ResetPassword(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	out, err := h.users.ResetPassword(c.Request.Context(), id, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.invalidateLists(c.Request.Context())
	c.JSON(http.StatusOK, out)
}

// GetRoles returns the role assignments of an account.
func (h *Handler) GetRoles(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	roles, err := h.users.GetUserRoles(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// SetRoles fully replaces the role assignments of an account.
func (h *Handler) SetRoles(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req models.SetRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	roles, err := models.ParseRoles(req.Roles)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.SetUserRoles(c.Request.Context(), id, roles); err != nil {
		writeServiceError(c, err)
		return
	}

	h.invalidateLists(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// userID parses and bounds-checks the :id path parameter.
func (h *Handler) userID(c *gin.Context) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	id, err := safecast.ToUint(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}
