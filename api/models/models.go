package models

// SessionUser is the authenticated principal stored in the session.
// Admin status is determined during login and lives here, not on the
// account record.
type SessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginRequest carries the credentials of a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest creates a new account. Boolean fields default to
// the entity defaults when omitted; a blank password means a throwaway
// credential is generated and the account cannot log in until a reset.
type CreateUserRequest struct {
	Username              string   `json:"username" binding:"required"`
	Password              string   `json:"password"`
	Roles                 []string `json:"roles"`
	Enabled               *bool    `json:"enabled"`
	AccountNonLocked      *bool    `json:"accountNonLocked"`
	AccountNonExpired     *bool    `json:"accountNonExpired"`
	CredentialsNonExpired *bool    `json:"credentialsNonExpired"`
	ReadOnly              *bool    `json:"readOnly"`
	Visible               *bool    `json:"visible"`
}

// UpdateUserRequest overwrites the mutable fields of an account. The
// version must match the caller's read snapshot or the update is
// rejected as stale. A nil Roles leaves assignments untouched; a
// non-nil value fully replaces them.
type UpdateUserRequest struct {
	Version               int64     `json:"version"`
	Username              string    `json:"username"`
	Roles                 *[]string `json:"roles"`
	Enabled               bool      `json:"enabled"`
	AccountNonLocked      bool      `json:"accountNonLocked"`
	AccountNonExpired     bool      `json:"accountNonExpired"`
	CredentialsNonExpired bool      `json:"credentialsNonExpired"`
	ReadOnly              bool      `json:"readOnly"`
	Visible               bool      `json:"visible"`
}

// ResetPasswordRequest carries the new plaintext credential.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// SetRolesRequest fully replaces the role assignments of an account.
type SetRolesRequest struct {
	Roles []string `json:"roles"`
}

// UpdateThemeRequest stores a new theme preference.
type UpdateThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SettingsResponse is the settings projection returned to the client,
// including the resolved presentation attribute.
type SettingsResponse struct {
	ID             uint   `json:"id"`
	Theme          string `json:"theme"`
	ThemeAttribute string `json:"themeAttribute"`
}
