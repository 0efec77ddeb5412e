// Package auth implements session-based credential authentication.
// Admin status is resolved once at login from the role assignments and
// stored in the session.
package auth

import (
	"github.com/vaaskel/vaaskel/service"
)

// Session keys for the authenticated principal.
const (
	sessionKeyUserID   = "user_id"
	sessionKeyUsername = "user_username"
	sessionKeyIsAdmin  = "user_is_admin"
)

// Provider authenticates users against the local account store.
type Provider struct {
	users *service.UserService
}

func New(users *service.UserService) *Provider {
	return &Provider{users: users}
}
