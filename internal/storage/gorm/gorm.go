// Package gormstorage implements storage.Backend on any gorm dialect. The sqlite and
// postgres backends embed it and only add connection handling.
package gormstorage

import (
	"errors"
	"fmt"
	"time"

	"github.com/pitchlogic/tactical-board/internal/cache"
	"github.com/pitchlogic/tactical-board/internal/database"
	"github.com/pitchlogic/tactical-board/internal/model"
	"github.com/pitchlogic/tactical-board/internal/model/convert"
	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB        *gorm.DB
	NodeCache *cache.NodeCache
	Logger    zerolog.Logger
	Meta      core.UploadMetadata
}

// Backend stores every node in one board_sessions row created on Init.
type Backend struct {
	deps      Dependencies
	sessionID uint
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.NodeCache == nil {
		deps.NodeCache = cache.NewNodeCache()
	}
	return &Backend{deps: deps}
}

// Init migrates the schema and opens a new board session.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("no database connection")
	}
	if err := database.Setup(b.deps.DB, b.deps.Logger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	session := convert.CoreToBoardSession(b.deps.Meta)
	session.StartedAt = time.Now()
	if err := b.deps.DB.Create(&session).Error; err != nil {
		return fmt.Errorf("failed to insert board session: %w", err)
	}
	b.sessionID = session.ID
	b.deps.NodeCache.Reset()

	b.deps.Logger.Info().Uint("sessionId", b.sessionID).Str("name", session.Name).Msg("Board session started")
	return nil
}

// Close is a no-op; the connection is owned by the embedding backend.
func (b *Backend) Close() error {
	return nil
}

// DB exposes the connection to embedding backends
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// SessionID is the board_sessions row of this backend
func (b *Backend) SessionID() uint {
	return b.sessionID
}

// SaveNode inserts n, replacing a previous row with the same node id.
func (b *Backend) SaveNode(n *core.LogicNode) error {
	if n == nil || n.ID == "" {
		return errors.New("node without id")
	}
	row, err := convert.CoreToLogicNode(*n)
	if err != nil {
		return err
	}
	row.SessionID = b.sessionID

	err = b.deps.DB.Transaction(func(tx *gorm.DB) error {
		if err := b.deleteRows(tx, n.ID); err != nil && !errors.Is(err, core.ErrNodeNotFound) {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save node %s: %w", n.ID, err)
	}

	b.deps.NodeCache.Set(n.ID, row.ID)
	b.deps.Logger.Debug().Str("node", n.ID).Uint("row", row.ID).Int("lines", len(row.SnapshotLines)).Msg("Node saved")
	return nil
}

// GetNode loads a node of this session by id.
func (b *Backend) GetNode(id string) (core.LogicNode, error) {
	var row model.LogicNode
	q := b.deps.DB.Preload("SnapshotLines").Where("session_id = ?", b.sessionID)
	if rowID, ok := b.deps.NodeCache.Get(id); ok {
		q = q.Where("id = ?", rowID)
	} else {
		q = q.Where("node_id = ?", id)
	}

	err := q.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.LogicNode{}, fmt.Errorf("%w: %s", core.ErrNodeNotFound, id)
	}
	if err != nil {
		return core.LogicNode{}, fmt.Errorf("failed to load node %s: %w", id, err)
	}
	return convert.LogicNodeToCore(row)
}

// ListNodes returns the nodes of this session in insertion order.
func (b *Backend) ListNodes() ([]core.LogicNode, error) {
	var rows []model.LogicNode
	if err := b.deps.DB.Preload("SnapshotLines").
		Where("session_id = ?", b.sessionID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	out := make([]core.LogicNode, 0, len(rows))
	for _, row := range rows {
		n, err := convert.LogicNodeToCore(row)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// DeleteNode removes a node and its snapshot lines.
func (b *Backend) DeleteNode(id string) error {
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		return b.deleteRows(tx, id)
	})
	if err != nil {
		return err
	}
	b.deps.NodeCache.Delete(id)
	return nil
}

func (b *Backend) deleteRows(tx *gorm.DB, id string) error {
	var row model.LogicNode
	err := tx.Select("id").Where("session_id = ? AND node_id = ?", b.sessionID, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", core.ErrNodeNotFound, id)
	}
	if err != nil {
		return err
	}

	if err := tx.Where("logic_node_id = ?", row.ID).Delete(&model.SnapshotLine{}).Error; err != nil {
		return fmt.Errorf("failed to delete snapshot lines: %w", err)
	}
	if err := tx.Delete(&model.LogicNode{}, row.ID).Error; err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	return nil
}
