// Package storage persists the logic node timeline.
package storage

import "github.com/pitchlogic/tactical-board/pkg/core"

// ErrNodeNotFound is returned by GetNode and DeleteNode for an unknown node id
var ErrNodeNotFound = core.ErrNodeNotFound

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveNode stores n, replacing any node with the same id
	SaveNode(n *core.LogicNode) error
	GetNode(id string) (core.LogicNode, error)
	// ListNodes returns every node in commit order
	ListNodes() ([]core.LogicNode, error)
	DeleteNode(id string) error
}

// Uploadable is an optional interface for storage backends that produce
// files suitable for upload to the web frontend.
type Uploadable interface {
	GetExportedFilePath() string
	GetExportMetadata() core.UploadMetadata
}
