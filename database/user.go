package database

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// User represents a user account in the database.
// The password hash is never serialized; admin status is derived from
// the role assignments, not stored on the account itself.
// The status flags deliberately carry no column default: a default
// would make gorm omit explicit false values on insert, silently
// storing a disabled account as enabled. Callers always set them.
type User struct {
	Model
	Username              string `gorm:"uniqueIndex:ux_users_username;size:100;not null" json:"username"`
	PasswordHash          string `gorm:"size:255;not null" json:"-"`
	Enabled               bool   `gorm:"not null" json:"enabled"`
	AccountNonLocked      bool   `gorm:"not null" json:"accountNonLocked"`
	AccountNonExpired     bool   `gorm:"not null" json:"accountNonExpired"`
	CredentialsNonExpired bool   `gorm:"not null" json:"credentialsNonExpired"`
}

// CreateUserWithRoles persists a new account together with its role
// assignments. Both inserts run inside one transaction: a failed
// assignment insert rolls the account back, so no role-less account
// can be left behind.
func (c *Client) CreateUserWithRoles(ctx context.Context, user *User, roles []RoleType) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if err != gorm.ErrDuplicatedKey {
				log.Error("failed to create user", "error", err)
			}
			return err
		}

		if len(roles) == 0 {
			return nil
		}

		assignments := lo.Map(lo.Uniq(roles), func(role RoleType, _ int) UserRole {
			return UserRole{UserID: user.ID, Role: role}
		})
		if err := tx.Create(&assignments).Error; err != nil {
			log.Error("failed to insert user roles", "error", err)
			return err
		}
		return nil
	})
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a window of users ordered by ID ascending. The
// window is addressed by an exact row offset, so offsets that are not
// multiples of the limit still return contiguous results.
func (c *Client) ListUsers(ctx context.Context, offset, limit int) ([]User, error) {
	var users []User
	err := c.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		log.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// SearchUsersByUsername returns a window of users whose username
// contains the filter, matched case-insensitively.
func (c *Client) SearchUsersByUsername(ctx context.Context, filter string, offset, limit int) ([]User, error) {
	var users []User
	err := c.db.WithContext(ctx).
		Where("lower(username) LIKE ?", "%"+strings.ToLower(filter)+"%").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		log.Error("failed to search users", "error", err)
		return nil, err
	}
	return users, nil
}

func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		log.Error("failed to count users", "error", err)
		return 0, err
	}
	return count, nil
}

func (c *Client) CountUsersByUsername(ctx context.Context, filter string) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&User{}).
		Where("lower(username) LIKE ?", "%"+strings.ToLower(filter)+"%").
		Count(&count).Error
	if err != nil {
		log.Error("failed to count users by username", "error", err)
		return 0, err
	}
	return count, nil
}

// UpdateUser overwrites the mutable fields of an existing user. The
// write is guarded by the version the caller read: a concurrent edit
// bumps the row version and this call fails with ErrStaleVersion
// instead of overwriting it. On success the struct is reloaded so it
// carries the new version and timestamps.
func (c *Client) UpdateUser(ctx context.Context, user *User) error {
	res := c.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]any{
			"username":                user.Username,
			"password_hash":           user.PasswordHash,
			"enabled":                 user.Enabled,
			"account_non_locked":      user.AccountNonLocked,
			"account_non_expired":     user.AccountNonExpired,
			"credentials_non_expired": user.CredentialsNonExpired,
			"read_only":               user.ReadOnly,
			"visible":                 user.Visible,
			"version":                 user.Version + 1,
		})
	if res.Error != nil {
		if res.Error != gorm.ErrDuplicatedKey {
			log.Error("failed to update user", "error", res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStaleVersion
	}
	return c.db.WithContext(ctx).First(user, user.ID).Error
}
