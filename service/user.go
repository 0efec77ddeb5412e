package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/vaaskel/vaaskel/database"
	"github.com/vaaskel/vaaskel/pkg/password"
)

var (
	// ErrNotFound is returned when a user cannot be resolved by ID or
	// username.
	ErrNotFound = errors.New("user not found")
	// ErrMissingID is returned when an operation requires a persisted
	// user but the caller passed a zero identifier.
	ErrMissingID = errors.New("user id is required")
	// ErrIDSet is returned when a create request carries an identifier.
	ErrIDSet = errors.New("user id must be unset for create")
	// ErrBlankUsername rejects empty or whitespace-only usernames.
	ErrBlankUsername = errors.New("username must not be blank")
	// ErrBlankPassword rejects empty or whitespace-only passwords.
	ErrBlankPassword = errors.New("password must not be blank")
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrBadCredentials covers every failed login attempt where the
	// username or password did not match.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is returned when a disabled account logs in.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrAccountLocked is returned when a locked account logs in.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountExpired is returned when an expired account logs in.
	ErrAccountExpired = errors.New("account expired")
	// ErrCredentialsExpired is returned when the password must be reset
	// before the account can be used again.
	ErrCredentialsExpired = errors.New("credentials expired")
)

// UserRecord is the boundary projection of a user account. It never
// carries the password digest. A nil Roles slice means the roles were
// not loaded or, on save, that they should be left untouched.
type UserRecord struct {
	ID                    uint                `json:"id"`
	Version               int64               `json:"version"`
	CreatedAt             time.Time           `json:"createdAt"`
	ChangedAt             time.Time           `json:"changedAt"`
	Username              string              `json:"username"`
	Roles                 []database.RoleType `json:"roles,omitempty"`
	Enabled               bool                `json:"enabled"`
	AccountNonLocked      bool                `json:"accountNonLocked"`
	AccountNonExpired     bool                `json:"accountNonExpired"`
	CredentialsNonExpired bool                `json:"credentialsNonExpired"`
	ReadOnly              bool                `json:"readOnly"`
	Visible               bool                `json:"visible"`
}

// UserService implements the user administration contract: paged and
// filtered listing, lookup, create/update, role reconciliation and
// credential reset.
type UserService struct {
	store   database.Store
	encoder password.Encoder
}

func NewUserService(store database.Store, encoder password.Encoder) *UserService {
	return &UserService{
		store:   store,
		encoder: encoder,
	}
}

// PageIndex converts a row offset to a zero-based page index for grid
// display. For offsets that are exact multiples of the limit this is
// offset / limit; other offsets land on the page containing the row.
func PageIndex(offset, limit int) int {
	if limit <= 0 {
		return 0
	}
	return offset / limit
}

// FindUsers returns users ordered by ID ascending, sliced to the given
// window. A non-positive limit yields an empty result without touching
// the store.
func (s *UserService) FindUsers(ctx context.Context, offset, limit int) ([]UserRecord, error) {
	if limit <= 0 {
		return []UserRecord{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.store.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return lo.Map(users, func(u database.User, _ int) UserRecord {
		return toRecord(&u)
	}), nil
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.store.CountUsers(ctx)
}

// FindUsersByUsername returns the window of users whose username
// contains the filter, case-insensitively. A blank filter delegates to
// the unfiltered path.
func (s *UserService) FindUsersByUsername(ctx context.Context, filter string, offset, limit int) ([]UserRecord, error) {
	if limit <= 0 {
		return []UserRecord{}, nil
	}

	filter = strings.TrimSpace(filter)
	if filter == "" {
		return s.FindUsers(ctx, offset, limit)
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.store.SearchUsersByUsername(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return lo.Map(users, func(u database.User, _ int) UserRecord {
		return toRecord(&u)
	}), nil
}

func (s *UserService) CountUsersByUsername(ctx context.Context, filter string) (int64, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return s.CountUsers(ctx)
	}
	return s.store.CountUsersByUsername(ctx, filter)
}

// FindUserByID returns the projection of a single user including its
// role assignments. A zero ID resolves to ErrNotFound, never to a
// validation failure.
func (s *UserService) FindUserByID(ctx context.Context, id uint) (*UserRecord, error) {
	if id == 0 {
		return nil, ErrNotFound
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	rec := toRecord(user)
	roles, err := s.GetUserRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Roles = roles
	return &rec, nil
}

// CreateUser creates a user with a throwaway random credential that is
// never surfaced; the account cannot be logged into until a password is
// set through ResetPassword. Roles default to {USER} when none are
// supplied.
func (s *UserService) CreateUser(ctx context.Context, rec UserRecord) (*UserRecord, error) {
	return s.create(ctx, rec, uuid.NewString())
}

// CreateUserWithPassword creates a user with an explicit initial
// password. Used by the bootstrap seed and the CLI.
func (s *UserService) CreateUserWithPassword(ctx context.Context, rec UserRecord, raw string) (*UserRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrBlankPassword
	}
	return s.create(ctx, rec, raw)
}

func (s *UserService) create(ctx context.Context, rec UserRecord, raw string) (*UserRecord, error) {
	if rec.ID != 0 {
		return nil, ErrIDSet
	}
	username := strings.TrimSpace(rec.Username)
	if username == "" {
		return nil, ErrBlankUsername
	}

	digest, err := s.encoder.Encode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &database.User{
		Username:              username,
		PasswordHash:          digest,
		Enabled:               rec.Enabled,
		AccountNonLocked:      rec.AccountNonLocked,
		AccountNonExpired:     rec.AccountNonExpired,
		CredentialsNonExpired: rec.CredentialsNonExpired,
	}
	user.ReadOnly = rec.ReadOnly
	user.Visible = rec.Visible

	roles := lo.Uniq(rec.Roles)
	if len(roles) == 0 {
		roles = []database.RoleType{database.RoleUser}
	}

	// One store transaction covers the account and its assignments.
	if err := s.store.CreateUserWithRoles(ctx, user, roles); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	out := toRecord(user)
	out.Roles, err = s.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveUser overwrites the mutable fields of an existing user from the
// record. The write is guarded by the record's version: a concurrent
// edit fails the call with database.ErrStaleVersion. When the record
// carries a non-nil role set, the assignments are fully replaced.
func (s *UserService) SaveUser(ctx context.Context, rec UserRecord) (*UserRecord, error) {
	if rec.ID == 0 {
		return nil, ErrMissingID
	}

	user, err := s.store.GetUserByID(ctx, rec.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if username := strings.TrimSpace(rec.Username); username != "" {
		user.Username = username
	}
	user.Enabled = rec.Enabled
	user.AccountNonLocked = rec.AccountNonLocked
	user.AccountNonExpired = rec.AccountNonExpired
	user.CredentialsNonExpired = rec.CredentialsNonExpired
	user.ReadOnly = rec.ReadOnly
	user.Visible = rec.Visible
	user.Version = rec.Version

	if err := s.store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, database.ErrStaleVersion):
			return nil, err
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if rec.Roles != nil {
		if err := s.SetUserRoles(ctx, user.ID, rec.Roles); err != nil {
			return nil, err
		}
	}

	out := toRecord(user)
	out.Roles, err = s.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword replaces the stored digest with a hash of the new
// plaintext. Blank passwords and zero IDs are rejected before any store
// access. The plaintext is never persisted or logged.
func (s *UserService) ResetPassword(ctx context.Context, id uint, raw string) (*UserRecord, error) {
	if id == 0 {
		return nil, ErrMissingID
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrBlankPassword
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	digest, err := s.encoder.Encode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = digest

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	out := toRecord(user)
	out.Roles, err = s.GetUserRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserRoles returns the role set of a user; a zero ID yields an
// empty set.
func (s *UserService) GetUserRoles(ctx context.Context, id uint) ([]database.RoleType, error) {
	if id == 0 {
		return []database.RoleType{}, nil
	}
	roles, err := s.store.GetUserRoles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}
	return roles, nil
}

// SetUserRoles replaces the complete role set of a user.
func (s *UserService) SetUserRoles(ctx context.Context, id uint, roles []database.RoleType) error {
	if id == 0 {
		return ErrMissingID
	}
	if err := s.store.ReplaceUserRoles(ctx, id, lo.Uniq(roles)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to replace user roles: %w", err)
	}
	return nil
}

// Authenticate verifies a username/password pair against the store and
// the account status flags, returning the projection with roles on
// success. Unknown usernames and wrong passwords are indistinguishable
// to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, raw string) (*UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || raw == "" {
		return nil, ErrBadCredentials
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	switch {
	case !user.Enabled:
		return nil, ErrAccountDisabled
	case !user.AccountNonLocked:
		return nil, ErrAccountLocked
	case !user.AccountNonExpired:
		return nil, ErrAccountExpired
	}

	if !s.encoder.Matches(raw, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	if !user.CredentialsNonExpired {
		return nil, ErrCredentialsExpired
	}

	rec := toRecord(user)
	rec.Roles, err = s.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func toRecord(user *database.User) UserRecord {
	return UserRecord{
		ID:                    user.ID,
		Version:               user.Version,
		CreatedAt:             user.CreatedAt,
		ChangedAt:             user.ChangedAt,
		Username:              user.Username,
		Enabled:               user.Enabled,
		AccountNonLocked:      user.AccountNonLocked,
		AccountNonExpired:     user.AccountNonExpired,
		CredentialsNonExpired: user.CredentialsNonExpired,
		ReadOnly:              user.ReadOnly,
		Visible:               user.Visible,
	}
}
