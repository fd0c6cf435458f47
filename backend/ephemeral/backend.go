package ephemeral

import (
	"context"
	"sync"

	"github.com/mwantia/litedb/backend"
	"github.com/mwantia/litedb/data"
	"github.com/tidwall/btree"
)

// EphemeralBackend keeps every collection in memory as an ordered B-tree.
// Nothing survives Close.
type EphemeralBackend struct {
	mu sync.RWMutex

	collections map[string]*btree.Map[data.ID, []byte]
}

func NewEphemeralBackend() *EphemeralBackend {
	return &EphemeralBackend{
		collections: make(map[string]*btree.Map[data.ID, []byte]),
	}
}

// Name returns the identifier name defined for this backend
func (*EphemeralBackend) Name() string {
	return "ephemeral"
}

// Open is part of the lifecycle behaviour and gets called when opening the database.
func (eb *EphemeralBackend) Open(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// No initialization needed - backend is ready to use
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing the database.
func (eb *EphemeralBackend) Close(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for name, tree := range eb.collections {
		tree.Clear()
		delete(eb.collections, name)
	}

	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (eb *EphemeralBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityDocuments,
			backend.CapabilityOrdered,
		},
		MaxDocumentSize: 16777216, // 16 MB
	}
}
