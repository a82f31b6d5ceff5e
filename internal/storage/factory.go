package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pitchlogic/tactical-board/internal/cache"
	"github.com/pitchlogic/tactical-board/internal/config"
	"github.com/pitchlogic/tactical-board/internal/database"
	gormstorage "github.com/pitchlogic/tactical-board/internal/storage/gorm"
	"github.com/pitchlogic/tactical-board/internal/storage/memory"
	"github.com/pitchlogic/tactical-board/internal/storage/postgres"
	sqlitestorage "github.com/pitchlogic/tactical-board/internal/storage/sqlite"
	"github.com/pitchlogic/tactical-board/internal/storage/websocket"
	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/rs/zerolog"
)

// Dependencies are shared by all backends; each one picks what it needs
type Dependencies struct {
	Meta      core.UploadMetadata
	NodeCache *cache.NodeCache
	Logger    *slog.Logger   // websocket
	DBLogger  zerolog.Logger // gorm backends
	ServerURL string         // websocket
	APIKey    string         // websocket
	Now       func() time.Time
}

// NewBackend creates a storage backend based on configuration. The backend is not
// initialized.
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	gormDeps := gormstorage.Dependencies{
		NodeCache: deps.NodeCache,
		Logger:    deps.DBLogger,
		Meta:      deps.Meta,
	}

	sqliteCfg := sqlitestorage.Config{
		DumpInterval: cfg.SQLite.DumpInterval,
		DumpPath:     sqlitestorage.DumpPath(cfg.SQLite.DumpDir, deps.Meta.SessionName, deps.Now()),
	}

	switch cfg.Type {
	case "memory":
		return memory.New(cfg.Memory, deps.Meta), nil
	case "sqlite":
		return sqlitestorage.New(sqliteCfg, gormDeps)
	case "postgres":
		return postgres.New(gormDeps), nil
	case "database":
		// postgres when reachable, otherwise in-memory sqlite with disk dumps
		m := database.NewManager(deps.DBLogger)
		if err := m.Connect(); err != nil {
			return nil, err
		}
		gormDeps.DB = m.DB
		if m.ShouldSaveLocal {
			return sqlitestorage.NewWithDB(sqliteCfg, gormDeps), nil
		}
		return postgres.New(gormDeps), nil
	case "websocket":
		return websocket.New(websocket.Config{
			URL:    WebSocketURL(deps.ServerURL, cfg.WebSocket.Path),
			Secret: deps.APIKey,
			Meta:   deps.Meta,
		}, deps.Logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// WebSocketURL turns the frontend base URL into the streaming endpoint
func WebSocketURL(serverURL, path string) string {
	u := strings.TrimSuffix(serverURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return u + path
}
