// Package postgres implements the storage.Backend interface using GORM/PostgreSQL.
// Snapshot line geometry is stored in a PostGIS column.
package postgres

import (
	"fmt"

	"github.com/pitchlogic/tactical-board/internal/database"
	gormstorage "github.com/pitchlogic/tactical-board/internal/storage/gorm"
)

// Backend wraps the GORM backend with a Postgres connection.
type Backend struct {
	*gormstorage.Backend
	deps gormstorage.Dependencies
}

// New creates a new Postgres storage backend. If deps.DB is nil, Init opens a connection
// from the db.* settings.
func New(deps gormstorage.Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init connects, validates the connection and migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := database.GetPostgresDB()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	b.Backend = gormstorage.New(b.deps)
	return b.Backend.Init()
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
