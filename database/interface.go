package database

import (
	"context"
)

// Store defines the persistence operations the service layer consumes.
type Store interface {
	// Users
	CreateUserWithRoles(ctx context.Context, user *User, roles []RoleType) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]User, error)
	SearchUsersByUsername(ctx context.Context, filter string, offset, limit int) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByUsername(ctx context.Context, filter string) (int64, error)
	UpdateUser(ctx context.Context, user *User) error

	// Role assignments
	GetUserRoles(ctx context.Context, userID uint) ([]RoleType, error)
	ReplaceUserRoles(ctx context.Context, userID uint, roles []RoleType) error

	// Settings
	GetOrCreateUserSettings(ctx context.Context, userID uint) (*UserSettings, error)
	UpdateUserSettingsTheme(ctx context.Context, userID uint, pref ThemePreference) (*UserSettings, error)

	// Utility
	Close() error
}
