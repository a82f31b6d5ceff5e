// Package sqlitestorage implements the storage.Backend interface using a SQLite database
// (in-memory by default) with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend; the only SQLite-specific concerns are opening the database
// and the dump loop.
package sqlitestorage

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/pitchlogic/tactical-board/internal/database"
	gormstorage "github.com/pitchlogic/tactical-board/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path         string // empty for a shared in-memory database
	DumpInterval time.Duration
	DumpPath     string // target of the periodic VACUUM INTO dumps
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg      Config
	log      zerolog.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// New opens the database and creates a new SQLite storage backend.
func New(cfg Config, deps gormstorage.Dependencies) (*Backend, error) {
	db, err := database.GetSqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	deps.DB = db
	return NewWithDB(cfg, deps), nil
}

// NewWithDB wraps an already opened SQLite connection in deps.DB. cfg.Path is ignored.
func NewWithDB(cfg Config, deps gormstorage.Dependencies) *Backend {
	return &Backend{
		Backend:  gormstorage.New(deps),
		cfg:      cfg,
		log:      deps.Logger,
		stopChan: make(chan struct{}),
	}
}

// DumpPath builds the dump file name for a session inside dir
func DumpPath(dir, sessionName string, at time.Time) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.db", sanitize(sessionName), at.Format("20060102_150405")))
}

func sanitize(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case ' ', ':', '/', '\\':
			out[i] = '_'
		}
	}
	if len(out) == 0 {
		return "timeline"
	}
	return string(out)
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		b.wg.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, writes a final dump and closes the database.
func (b *Backend) Close() error {
	var err error
	b.once.Do(func() {
		close(b.stopChan)
		b.wg.Wait()

		if b.cfg.DumpPath != "" {
			if dumpErr := b.Dump(); dumpErr != nil {
				err = dumpErr
			}
		}

		if sqlDB, dbErr := b.DB().DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})
	return err
}

// Dump writes a point-in-time copy of the database to DumpPath
func (b *Backend) Dump() error {
	start := time.Now()
	if err := database.DumpMemoryDBToDisk(b.DB(), b.cfg.DumpPath); err != nil {
		return err
	}
	b.log.Debug().Dur("duration", time.Since(start)).Str("path", b.cfg.DumpPath).Msg("Dumped timeline DB to disk")
	return nil
}

// dumpLoop periodically dumps the database to disk via VACUUM INTO.
func (b *Backend) dumpLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Dump(); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
