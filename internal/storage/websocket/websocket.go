// Package websocket streams committed logic nodes to the web frontend over a WebSocket.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/pitchlogic/tactical-board/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
	Meta   core.UploadMetadata
}

// Backend streams nodes to the server and keeps a local mirror to answer reads.
// It implements storage.Backend but not storage.Uploadable.
type Backend struct {
	conn *connection
	cfg  Config

	mu    sync.RWMutex
	nodes map[string]core.LogicNode
	order []string
}

// New creates a new WebSocket storage backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn:  newConnection(logger.With("component", "websocket")),
		cfg:   cfg,
		nodes: make(map[string]core.LogicNode),
	}
}

// Init connects to the server and announces the session, waiting for its ack.
func (b *Backend) Init() error {
	if err := b.conn.dial(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}

	data, err := marshalEnvelope(streaming.TypeStartSession, streaming.StartSessionPayload{
		SessionName: b.cfg.Meta.SessionName,
		Tag:         b.cfg.Meta.Tag,
	})
	if err != nil {
		return err
	}

	b.conn.mu.Lock()
	b.conn.cachedStart = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeStartSession, ackTimeout)
}

// Close ends the session and disconnects. The end_session ack is awaited but a missing
// ack does not keep the connection open.
func (b *Backend) Close() error {
	ackErr := b.sendEnvelopeAndWait(streaming.TypeEndSession, nil)
	closeErr := b.conn.close()
	if ackErr != nil {
		return ackErr
	}
	return closeErr
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// sendEnvelopeAndWait marshals the payload and waits for a server ack.
func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.conn.sendAndWait(data, msgType, ackTimeout)
}

// SaveNode mirrors n locally and streams it.
func (b *Backend) SaveNode(n *core.LogicNode) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("node without id")
	}

	b.mu.Lock()
	if _, ok := b.nodes[n.ID]; !ok {
		b.order = append(b.order, n.ID)
	}
	b.nodes[n.ID] = n.Clone()
	b.mu.Unlock()

	return b.sendEnvelope(streaming.TypeNodeCommitted, streaming.NodeCommittedPayload{Node: n})
}

// GetNode answers from the local mirror.
func (b *Backend) GetNode(id string) (core.LogicNode, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, ok := b.nodes[id]
	if !ok {
		return core.LogicNode{}, fmt.Errorf("%w: %s", core.ErrNodeNotFound, id)
	}
	return n.Clone(), nil
}

// ListNodes answers from the local mirror in commit order.
func (b *Backend) ListNodes() ([]core.LogicNode, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]core.LogicNode, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.nodes[id].Clone())
	}
	return out, nil
}

// DeleteNode drops the node locally and tells the server.
func (b *Backend) DeleteNode(id string) error {
	b.mu.Lock()
	if _, ok := b.nodes[id]; !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNodeNotFound, id)
	}
	delete(b.nodes, id)
	b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == id })
	b.mu.Unlock()

	return b.sendEnvelope(streaming.TypeNodeDeleted, streaming.NodeDeletedPayload{ID: id})
}

// Pending is the number of messages waiting for the write loop
func (b *Backend) Pending() int {
	return len(b.conn.sendCh)
}
