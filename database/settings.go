package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// UserSettings holds per-user preferences. There is exactly one row per
// user, created lazily on first access with the SYSTEM theme.
type UserSettings struct {
	Model
	UserID uint            `gorm:"uniqueIndex:ux_user_settings_user;not null" json:"userId"`
	Theme  ThemePreference `gorm:"size:16;not null;default:'SYSTEM'" json:"theme"`
}

// GetOrCreateUserSettings returns the settings row for a user, creating
// it when absent. A concurrent first access may win the insert; the
// loser detects the duplicate key and re-reads the winner's row.
func (c *Client) GetOrCreateUserSettings(ctx context.Context, userID uint) (*UserSettings, error) {
	var settings UserSettings
	err := c.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("failed to get user settings", "error", err)
		return nil, err
	}

	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	settings = UserSettings{UserID: userID, Theme: ThemeSystem}
	if err := c.db.WithContext(ctx).Create(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing UserSettings
			if err := c.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		log.Error("failed to create user settings", "error", err)
		return nil, err
	}
	return &settings, nil
}

// UpdateUserSettingsTheme stores a new theme preference, creating the
// settings row first when needed. The write is version-guarded like any
// other mutation.
func (c *Client) UpdateUserSettingsTheme(ctx context.Context, userID uint, pref ThemePreference) (*UserSettings, error) {
	settings, err := c.GetOrCreateUserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := c.db.WithContext(ctx).
		Model(&UserSettings{}).
		Where("id = ? AND version = ?", settings.ID, settings.Version).
		Updates(map[string]any{
			"theme":   pref,
			"version": settings.Version + 1,
		})
	if res.Error != nil {
		log.Error("failed to update theme", "error", res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleVersion
	}

	if err := c.db.WithContext(ctx).First(settings, settings.ID).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
