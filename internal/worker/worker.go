package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pitchlogic/tactical-board/internal/cache"
	"github.com/pitchlogic/tactical-board/internal/queue"
	"github.com/pitchlogic/tactical-board/internal/storage"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// ErrNoBackend is returned by storage commands when persistence is disabled
var ErrNoBackend = errors.New("no storage backend configured")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Logger        *slog.Logger
	RetryInterval time.Duration // how often a failed flush is retried, default 5s
	QueueLimit    int           // 0 keeps every pending node
}

// Manager persists committed logic nodes off the session goroutine.
// It implements session.NodeSink.
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	pending *queue.Queue[core.LogicNode]

	flushMu   sync.Mutex
	saved     cache.SafeCounter
	failed    cache.SafeCounter
	lastWrite time.Duration
	lastErr   error
}

// Stats is a snapshot of the persistence pipeline
type Stats struct {
	Pending   int
	Saved     int
	Failed    int
	Dropped   int
	LastWrite time.Duration
}

// NewManager creates a new worker manager. backend may be nil, in which case
// nodes are only counted and discarded.
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.RetryInterval <= 0 {
		deps.RetryInterval = 5 * time.Second
	}
	return &Manager{
		deps:    deps,
		backend: backend,
		pending: queue.New[core.LogicNode](deps.QueueLimit),
	}
}

// Enqueue schedules a node for persistence. It never blocks.
func (m *Manager) Enqueue(node core.LogicNode) {
	if m.backend == nil {
		return
	}
	m.pending.Push(node)
}

// Flush writes every pending node to the backend in commit order. On the
// first failure the unsaved nodes are put back and the error is returned.
func (m *Manager) Flush() error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	nodes := m.pending.Drain()
	if len(nodes) == 0 {
		return nil
	}

	start := time.Now()
	for i := range nodes {
		if err := m.backend.SaveNode(&nodes[i]); err != nil {
			m.failed.Inc()
			m.pending.Requeue(nodes[i:]...)
			m.lastErr = err
			return fmt.Errorf("saving node %s: %w", nodes[i].ID, err)
		}
		m.saved.Inc()
	}
	m.lastWrite = time.Since(start)
	m.lastErr = nil

	m.deps.Logger.Debug("flushed logic nodes", "count", len(nodes), "duration", m.lastWrite)
	return nil
}

// Run drains the queue until ctx is cancelled, then performs a final flush
func (m *Manager) Run(ctx context.Context) {
	if m.backend == nil {
		<-ctx.Done()
		return
	}

	retry := time.NewTicker(m.deps.RetryInterval)
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := m.Flush(); err != nil {
				m.deps.Logger.Error("final flush failed", "error", err, "pending", m.pending.Len())
			}
			return
		case <-m.pending.Ready():
			m.flushAndLog()
		case <-retry.C:
			if m.pending.Len() > 0 {
				m.flushAndLog()
			}
		}
	}
}

func (m *Manager) flushAndLog() {
	if err := m.Flush(); err != nil {
		m.deps.Logger.Warn("flush failed, will retry", "error", err, "pending", m.pending.Len())
	}
}

// Stats returns the current pipeline counters
func (m *Manager) Stats() Stats {
	m.flushMu.Lock()
	last := m.lastWrite
	m.flushMu.Unlock()
	return Stats{
		Pending:   m.pending.Len(),
		Saved:     m.saved.Value(),
		Failed:    m.failed.Value(),
		Dropped:   m.pending.Dropped(),
		LastWrite: last,
	}
}

// LastError returns the error of the most recent failed flush, nil after a success
func (m *Manager) LastError() error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()
	return m.lastErr
}

// GetLastDBWriteDuration returns the duration of the last successful flush.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	return m.Stats().LastWrite
}
