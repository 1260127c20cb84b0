package interfaces

import (
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// GraphBuilder composes the well-known BCD object set and writes it into a Store
type GraphBuilder interface {
	// Objects composes the complete object list in build order without touching the store
	Objects() ([]types.Object, error)

	// Build verifies the identifier catalog, composes and validates the graph, writes it to the
	// store and commits the store to its destination
	Build() (*BuildResult, error)
}

// BuildResult describes the graph written by one build pass
type BuildResult struct {
	// Destination is where the store was committed
	Destination string

	// LoaderID is the generated identifier of the OS loader object
	LoaderID string

	// ResumeID is the generated identifier of the resume application object
	ResumeID string

	// Objects is the written object list in build order
	Objects []types.Object
}
