package manifest

import (
	"os"
	"path/filepath"

	"go.novabuild.dev/nova/internal/domain"
	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
)

// Loader implements ports.ManifestLoader by recursively parsing the
// manifest at Load's path plus any include/subninja files it names.
type Loader struct{}

// New returns a manifest Loader.
func New() *Loader { return &Loader{} }

var _ ports.ManifestLoader = (*Loader)(nil)

// Load reads the manifest at path, resolving includes and subninja
// statements relative to dir, and returns the resulting graph.
func (l *Loader) Load(dir, path string) (*domain.Graph, error) {
	graph := domain.NewGraph()
	root := domain.NewBindingEnv(nil)

	visited := make(map[string]bool)
	var loadFile func(fileDir, filePath string, env *domain.BindingEnv) error
	loadFile = func(fileDir, filePath string, env *domain.BindingEnv) error {
		full := filePath
		if !filepath.IsAbs(full) {
			full = filepath.Join(fileDir, filePath)
		}
		if visited[full] {
			return nil
		}
		visited[full] = true

		content, err := os.ReadFile(full) //nolint:gosec // manifest path is operator-supplied
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", full)
		}

		nextDir := filepath.Dir(full)
		p := newParser(string(content), nextDir, graph, func(includeDir, includePath string) error {
			return loadFile(includeDir, includePath, env)
		})
		return p.parse(env)
	}

	if err := loadFile(dir, path, root); err != nil {
		return nil, err
	}
	return graph, nil
}
