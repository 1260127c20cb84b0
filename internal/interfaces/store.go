package interfaces

import (
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// NodeID is a small copyable handle to a node in a Store.
type NodeID uint32

// Store is the hierarchical node/value store that backs a BCD object graph
type Store interface {
	// Root returns the handle of the root node
	Root() NodeID

	// AddChild creates a named child under parent; sibling names are unique case-insensitively
	AddChild(parent NodeID, name string) (NodeID, error)

	// GetChild looks up an existing named child of node
	GetChild(node NodeID, name string) (NodeID, error)

	// SetValue attaches a typed leaf value under key on node, replacing any value with the same key
	SetValue(node NodeID, key string, valueType types.ValueType, data []byte) error

	// Commit durably persists the store to destination
	Commit(destination string) error
}

// StoreReader exposes the contents of a Store for inspection
type StoreReader interface {
	// Name returns the name of node
	Name(node NodeID) (string, error)

	// Children returns the children of node in creation order
	Children(node NodeID) ([]NodeID, error)

	// Values returns the values of node in creation order
	Values(node NodeID) ([]NamedValue, error)

	// Value returns the value stored under key on node
	Value(node NodeID, key string) (types.Value, error)
}

// NamedValue is a leaf value together with its key
type NamedValue struct {
	Name  string
	Value types.Value
}
