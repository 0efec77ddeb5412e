package models

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/vaaskel/vaaskel/database"
	"github.com/vaaskel/vaaskel/service"
)

// ParseRoles converts role names to role types, rejecting values
// outside the known enumeration. Matching is case-insensitive.
func ParseRoles(roles []string) ([]database.RoleType, error) {
	out := make([]database.RoleType, 0, len(roles))
	for _, r := range roles {
		role := database.RoleType(strings.ToUpper(strings.TrimSpace(r)))
		if !lo.Contains(database.KnownRoles(), role) {
			return nil, fmt.Errorf("unknown role %q", r)
		}
		out = append(out, role)
	}
	return out, nil
}

// ToCreateRecord converts a create request to a service record. Omitted
// status flags default to a usable account, omitted presentation flags
// to the entity defaults.
func ToCreateRecord(req CreateUserRequest) (service.UserRecord, error) {
	roles, err := ParseRoles(req.Roles)
	if err != nil {
		return service.UserRecord{}, err
	}
	return service.UserRecord{
		Username:              req.Username,
		Roles:                 roles,
		Enabled:               boolOr(req.Enabled, true),
		AccountNonLocked:      boolOr(req.AccountNonLocked, true),
		AccountNonExpired:     boolOr(req.AccountNonExpired, true),
		CredentialsNonExpired: boolOr(req.CredentialsNonExpired, true),
		ReadOnly:              boolOr(req.ReadOnly, false),
		Visible:               boolOr(req.Visible, false),
	}, nil
}

// ToUpdateRecord converts an update request for the given account ID to
// a service record.
func ToUpdateRecord(id uint, req UpdateUserRequest) (service.UserRecord, error) {
	rec := service.UserRecord{
		ID:                    id,
		Version:               req.Version,
		Username:              req.Username,
		Enabled:               req.Enabled,
		AccountNonLocked:      req.AccountNonLocked,
		AccountNonExpired:     req.AccountNonExpired,
		CredentialsNonExpired: req.CredentialsNonExpired,
		ReadOnly:              req.ReadOnly,
		Visible:               req.Visible,
	}
	if req.Roles != nil {
		roles, err := ParseRoles(*req.Roles)
		if err != nil {
			return service.UserRecord{}, err
		}
		rec.Roles = roles
	}
	return rec, nil
}

// ToSessionUser builds the session principal from an authenticated
// record.
func ToSessionUser(rec *service.UserRecord) SessionUser {
	return SessionUser{
		ID:       rec.ID,
		Username: rec.Username,
		IsAdmin:  lo.Contains(rec.Roles, database.RoleAdmin),
	}
}

// ToSettingsResponse builds the settings projection with the resolved
// theme attribute.
func ToSettingsResponse(settings *database.UserSettings, attribute string) SettingsResponse {
	return SettingsResponse{
		ID:             settings.ID,
		Theme:          string(settings.Theme),
		ThemeAttribute: attribute,
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
