package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vaaskel/vaaskel/database"
)

// Bootstrap seeds the very first account on an empty database so the
// application can be logged into at all.
type Bootstrap struct {
	store database.Store
	users *UserService
}

func NewBootstrap(store database.Store, users *UserService) *Bootstrap {
	return &Bootstrap{
		store: store,
		users: users,
	}
}

// FirstStart creates a seed account with both roles when no users exist
// yet. The credential is a widely known placeholder and must be changed
// or the account removed right after the first login.
func (b *Bootstrap) FirstStart(ctx context.Context, username, passwd string) error {
	count, err := b.store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Debug("init user already created, skipping bootstrap")
		return nil
	}

	log.Warn("first run, creating init user. REMOVE IT ASAP!", "username", username)

	rec := UserRecord{
		Username:              username,
		Enabled:               true,
		AccountNonLocked:      true,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
		Visible:               true,
		Roles:                 []database.RoleType{database.RoleAdmin, database.RoleUser},
	}
	if _, err := b.users.CreateUserWithPassword(ctx, rec, passwd); err != nil {
		return fmt.Errorf("failed to create init user: %w", err)
	}
	return nil
}
