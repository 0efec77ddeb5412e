package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vaaskel/vaaskel/database"
)

// ErrInvalidTheme rejects theme values outside the known enumeration.
var ErrInvalidTheme = errors.New("unknown theme preference")

// SettingsService manages per-user preference records.
type SettingsService struct {
	store database.Store
}

func NewSettingsService(store database.Store) *SettingsService {
	return &SettingsService{store: store}
}

// GetOrCreate returns the settings of a user, creating the record with
// the SYSTEM theme on first access. Repeated calls for the same user
// return the same record.
func (s *SettingsService) GetOrCreate(ctx context.Context, userID uint) (*database.UserSettings, error) {
	if userID == 0 {
		return nil, ErrMissingID
	}

	settings, err := s.store.GetOrCreateUserSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}
	return settings, nil
}

// UpdateTheme stores a new theme preference for a user.
func (s *SettingsService) UpdateTheme(ctx context.Context, userID uint, pref database.ThemePreference) (*database.UserSettings, error) {
	if userID == 0 {
		return nil, ErrMissingID
	}
	switch pref {
	case database.ThemeSystem, database.ThemeLight, database.ThemeDark:
	default:
		return nil, ErrInvalidTheme
	}

	settings, err := s.store.UpdateUserSettingsTheme(ctx, userID, pref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update theme: %w", err)
	}
	return settings, nil
}
