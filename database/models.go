package database

import (
	"reflect"
	"time"
)

// RoleType represents a permission level granted to a user.
type RoleType string

const (
	RoleAdmin RoleType = "ADMIN"
	RoleUser  RoleType = "USER"
)

// KnownRoles returns every role type the system understands.
func KnownRoles() []RoleType {
	return []RoleType{RoleAdmin, RoleUser}
}

// ThemePreference represents a user's stored theme choice.
type ThemePreference string

const (
	ThemeSystem ThemePreference = "SYSTEM"
	ThemeLight  ThemePreference = "LIGHT"
	ThemeDark   ThemePreference = "DARK"
)

// Model is the embedded base for all entities. The ID is assigned by
// the store and never changes afterwards; Version increases with every
// persisted mutation and backs the optimistic concurrency check.
// CreatedAt is written once, ChangedAt on every write.
type Model struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	ChangedAt time.Time `gorm:"autoUpdateTime" json:"changedAt"`
	ReadOnly  bool      `gorm:"not null;default:false" json:"readOnly"`
	Visible   bool      `gorm:"not null;default:false" json:"visible"`
}

// EntityID returns the surrogate identifier, zero for unsaved entities.
func (m *Model) EntityID() uint {
	return m.ID
}

type entity interface {
	EntityID() uint
}

// Equal reports whether a and b refer to the same persisted row.
// Entities that were never persisted are not equal to anything, and
// entities of different concrete types are never equal, even when they
// carry the same identifier.
func Equal(a, b entity) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a.EntityID() == 0 || b.EntityID() == 0 {
		return false
	}
	return a.EntityID() == b.EntityID()
}
