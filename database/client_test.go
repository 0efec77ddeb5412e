package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestClient opens a throwaway file-backed database. A file is used
// instead of :memory: because gorm pools connections and every pooled
// connection would get its own in-memory database.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func createTestUser(t *testing.T, client *Client, username string) *User {
	t.Helper()

	user := &User{
		Username:              username,
		PasswordHash:          "$2a$10$irrelevant",
		Enabled:               true,
		AccountNonLocked:      true,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
	}
	require.NoError(t, client.CreateUserWithRoles(context.Background(), user, nil))
	return user
}

func TestClient_CreateUserWithRoles(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user := &User{
		Username:              "alice",
		PasswordHash:          "$2a$10$irrelevant",
		Enabled:               true,
		AccountNonLocked:      true,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
	}
	require.NoError(t, client.CreateUserWithRoles(ctx, user, []RoleType{RoleAdmin, RoleUser}))

	assert.NotZero(t, user.ID)
	assert.Equal(t, int64(0), user.Version)
	assert.False(t, user.CreatedAt.IsZero())
	assert.WithinDuration(t, user.CreatedAt, user.ChangedAt, time.Second, "fresh rows change when they are created")

	loaded, err := client.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Username)
	assert.True(t, Equal(user, loaded))

	roles, err := client.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []RoleType{RoleAdmin, RoleUser}, roles)
}

func TestClient_CreateUserWithRoles_falseFlagsPersist(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user := &User{
		Username:          "mallory",
		PasswordHash:      "$2a$10$irrelevant",
		Enabled:           false,
		AccountNonLocked:  false,
		AccountNonExpired: true,
	}
	require.NoError(t, client.CreateUserWithRoles(ctx, user, nil))

	// An account created disabled must stay disabled after the insert
	// round-trips through the column defaults.
	loaded, err := client.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Enabled)
	assert.False(t, loaded.AccountNonLocked)
	assert.True(t, loaded.AccountNonExpired)
	assert.False(t, loaded.CredentialsNonExpired)
}

func TestClient_CreateUserWithRoles_duplicateUsername(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	createTestUser(t, client, "alice")

	dup := &User{Username: "alice", PasswordHash: "x"}
	err := client.CreateUserWithRoles(ctx, dup, []RoleType{RoleUser})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The rejected transaction leaves no assignments behind.
	var count int64
	require.NoError(t, client.db.Model(&UserRole{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestClient_CreateUserWithRoles_rollbackOnRoleFailure(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first := createTestUser(t, client, "alice")

	// Plant an assignment under the ID the next account will receive,
	// so the role insert trips the unique (user_id, role) index.
	require.NoError(t, client.db.Create(&UserRole{UserID: first.ID + 1, Role: RoleUser}).Error)

	user := &User{Username: "bob", PasswordHash: "x", Enabled: true}
	err := client.CreateUserWithRoles(ctx, user, []RoleType{RoleUser})
	require.Error(t, err)

	// The account insert is rolled back together with the failed
	// assignment insert.
	_, err = client.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClient_GetUserByUsername(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created := createTestUser(t, client, "bob")

	loaded, err := client.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)

	_, err = client.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClient_ListUsers_windows(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	names := []string{"u01", "u02", "u03", "u04", "u05"}
	for _, name := range names {
		createTestUser(t, client, name)
	}

	// An offset that is not a multiple of the limit still returns the
	// contiguous rows starting at that offset.
	users, err := client.ListUsers(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u04", users[0].Username)
	assert.Equal(t, "u05", users[1].Username)

	users, err = client.ListUsers(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, users)

	count, err := client.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestClient_SearchUsersByUsername(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	createTestUser(t, client, "Alice")
	createTestUser(t, client, "alfred")
	createTestUser(t, client, "bob")

	users, err := client.SearchUsersByUsername(ctx, "AL", 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Username)
	assert.Equal(t, "alfred", users[1].Username)

	count, err := client.CountUsersByUsername(ctx, "al")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	users, err = client.SearchUsersByUsername(ctx, "zzz", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClient_UpdateUser(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user := createTestUser(t, client, "carol")
	createdAt := user.CreatedAt
	changedAt := user.ChangedAt

	user.Username = "caroline"
	user.Enabled = false
	require.NoError(t, client.UpdateUser(ctx, user))

	assert.Equal(t, int64(1), user.Version)
	assert.Equal(t, "caroline", user.Username)
	assert.False(t, user.Enabled)

	loaded, err := client.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "caroline", loaded.Username)
	assert.Equal(t, int64(1), loaded.Version)

	// A mutation bumps the change timestamp but never the creation one.
	assert.WithinDuration(t, createdAt, loaded.CreatedAt, time.Second)
	assert.False(t, loaded.ChangedAt.Before(changedAt))
	assert.False(t, loaded.ChangedAt.Before(loaded.CreatedAt))
}

func TestClient_UpdateUser_staleVersion(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user := createTestUser(t, client, "dave")

	// Two readers load the same snapshot.
	stale, err := client.GetUserByID(ctx, user.ID)
	require.NoError(t, err)

	user.Username = "david"
	require.NoError(t, client.UpdateUser(ctx, user))

	stale.Username = "davey"
	err = client.UpdateUser(ctx, stale)
	assert.ErrorIs(t, err, ErrStaleVersion)

	// The first write survives untouched.
	loaded, err := client.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "david", loaded.Username)
}

func TestClient_UpdateUser_missing(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	ghost := &User{Model: Model{ID: 4242}, Username: "ghost"}
	err := client.UpdateUser(ctx, ghost)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClient_ReplaceUserRoles(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user := createTestUser(t, client, "erin")

	require.NoError(t, client.ReplaceUserRoles(ctx, user.ID, []RoleType{RoleUser}))

	roles, err := client.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []RoleType{RoleUser}, roles)

	// Replacing with an overlapping set must not trip the unique index.
	require.NoError(t, client.ReplaceUserRoles(ctx, user.ID, []RoleType{RoleAdmin, RoleUser}))

	roles, err = client.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []RoleType{RoleAdmin, RoleUser}, roles)

	// Duplicates in the target set collapse to one assignment.
	require.NoError(t, client.ReplaceUserRoles(ctx, user.ID, []RoleType{RoleAdmin, RoleAdmin}))

	roles, err = client.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []RoleType{RoleAdmin}, roles)

	// An empty set clears everything.
	require.NoError(t, client.ReplaceUserRoles(ctx, user.ID, nil))

	roles, err = client.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestClient_ReplaceUserRoles_missingUser(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.ReplaceUserRoles(ctx, 4242, []RoleType{RoleUser})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClient_GetOrCreateUserSettings(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user := createTestUser(t, client, "frank")

	settings, err := client.GetOrCreateUserSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.NotZero(t, settings.ID)
	assert.Equal(t, user.ID, settings.UserID)
	assert.Equal(t, ThemeSystem, settings.Theme)

	// A second access returns the same row, not a new one.
	again, err := client.GetOrCreateUserSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
	assert.True(t, Equal(settings, again))
}

func TestClient_GetOrCreateUserSettings_missingUser(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.GetOrCreateUserSettings(ctx, 4242)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClient_UpdateUserSettingsTheme(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	user := createTestUser(t, client, "grace")

	settings, err := client.UpdateUserSettingsTheme(ctx, user.ID, ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, settings.Theme)
	assert.Equal(t, int64(1), settings.Version)

	settings, err = client.UpdateUserSettingsTheme(ctx, user.ID, ThemeLight)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, settings.Theme)
	assert.Equal(t, int64(2), settings.Version)
}
