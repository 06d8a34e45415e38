// Package ports defines the interfaces the build engine depends on,
// implemented by internal/adapters.
package ports

import "go.novabuild.dev/nova/internal/domain"

// ManifestLoader parses a build manifest (and any subninja/include
// files it references) into a graph.
type ManifestLoader interface {
	// Load reads the manifest at path, resolving includes and subninja
	// statements relative to dir, and returns the resulting graph.
	Load(dir, path string) (*domain.Graph, error)
}
