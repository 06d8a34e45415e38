// Package config loads nova's optional .novarc.yaml default settings.
package config

import (
	"os"
	"path/filepath"

	"go.novabuild.dev/nova/internal/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the conventional config filename nova looks for
// in the working directory. It sets default flag values only — it
// never describes the build graph itself, that's the manifest's job.
const DefaultFilename = ".novarc.yaml"

// FileLoader implements ports.ConfigLoader by reading a YAML file.
type FileLoader struct {
	Filename string
}

// Load reads cwd/Filename if present. A missing file returns a zero
// Config rather than an error, since the config file is optional.
func (l FileLoader) Load(cwd string) (ports.Config, error) {
	name := l.Filename
	if name == "" {
		name = DefaultFilename
	}
	path := filepath.Join(cwd, name)

	data, err := os.ReadFile(path) //nolint:gosec // path is the process's own cwd
	if err != nil {
		if os.IsNotExist(err) {
			return ports.Config{}, nil
		}
		return ports.Config{}, zerr.Wrap(err, "failed to read config file")
	}

	var cfg ports.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ports.Config{}, zerr.Wrap(err, "failed to parse config file")
	}
	return cfg, nil
}
