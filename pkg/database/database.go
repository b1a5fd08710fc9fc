package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/rs/zerolog"
	"video-api/pkg/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// DB owns the relational store holding the video and user tables.
type DB struct {
	gorm *gorm.DB
	log  zerolog.Logger
}

// Open connects to the store and creates missing tables. dialect is
// "sqlite3" or "mysql".
func Open(dialect, dsn string, logger zerolog.Logger) (*DB, error) {
	g, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		g.DB().SetMaxOpenConns(1)
	}
	g.LogMode(false)

	db := &DB{gorm: g, log: logger.With().Str("component", "database").Logger()}
	if err := db.Migrate(); err != nil {
		g.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables if they are absent.
func (db *DB) Migrate() error {
	if err := db.gorm.AutoMigrate(&models.User{}, &models.Video{}).Error; err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	db.log.Debug().Msg("migrations completed")
	return nil
}

// Ping checks that the underlying connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.gorm.DB().PingContext(ctx)
}

func (db *DB) Close() error {
	return db.gorm.Close()
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// transaction runs fn in a single transaction unless ctx is already done.
func (db *DB) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.gorm.Transaction(fn)
}
