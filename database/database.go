package database

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// ErrStaleVersion is returned when a guarded write loses the optimistic
// concurrency check against a newer row version.
var ErrStaleVersion = errors.New("stale entity version")

var _ Store = (*Client)(nil) // Ensure Client implements Store

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
// Driver errors are translated so that unique-constraint violations
// surface as gorm.ErrDuplicatedKey.
func New(dbpath string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&UserRole{},
		&UserSettings{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
