package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// UserRole represents a single role assignment. The unique index on
// (user_id, role) guarantees at most one assignment per pair.
type UserRole struct {
	Model
	UserID uint     `gorm:"not null;index:ix_user_roles_user_id;uniqueIndex:ux_user_roles_user_role" json:"userId"`
	Role   RoleType `gorm:"size:16;not null;uniqueIndex:ux_user_roles_user_role" json:"role"`
}

// GetUserRoles returns the role values assigned to a user.
func (c *Client) GetUserRoles(ctx context.Context, userID uint) ([]RoleType, error) {
	var roles []RoleType
	err := c.db.WithContext(ctx).
		Model(&UserRole{}).
		Where("user_id = ?", userID).
		Order("role ASC").
		Pluck("role", &roles).Error
	if err != nil {
		log.Error("failed to get user roles", "error", err)
		return nil, err
	}
	return roles, nil
}

// ReplaceUserRoles swaps the complete set of role assignments for a
// user: every existing assignment is deleted and one assignment per
// distinct target value is inserted. Both steps run inside a single
// transaction, in that order, so the unique (user_id, role) index
// cannot be tripped by a leftover row.
func (c *Client) ReplaceUserRoles(ctx context.Context, userID uint, roles []RoleType) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&UserRole{}).Error; err != nil {
			log.Error("failed to delete user roles", "error", err)
			return err
		}

		if len(roles) == 0 {
			return nil
		}

		var count int64
		if err := tx.Model(&User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		assignments := lo.Map(lo.Uniq(roles), func(role RoleType, _ int) UserRole {
			return UserRole{UserID: userID, Role: role}
		})
		if err := tx.Create(&assignments).Error; err != nil {
			log.Error("failed to insert user roles", "error", err)
			return err
		}
		return nil
	})
}
