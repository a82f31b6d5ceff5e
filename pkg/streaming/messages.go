// Package streaming defines the wire messages of the live board stream.
package streaming

import (
	"encoding/json"

	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartSession  = "start_session"
	TypeEndSession    = "end_session"
	TypeNodeCommitted = "node_committed"
	TypeNodeDeleted   = "node_deleted"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload announces the session the following nodes belong to
type StartSessionPayload struct {
	SessionName string `json:"sessionName"`
	Tag         string `json:"tag"`
}

// NodeCommittedPayload carries one committed logic node
type NodeCommittedPayload struct {
	Node *core.LogicNode `json:"node"`
}

// NodeDeletedPayload names a removed logic node
type NodeDeletedPayload struct {
	ID string `json:"id"`
}
