// Package modgraph resolves import specifiers to module files, tracks the
// resulting dependency graph, and detects import cycles before the
// interpreter ever loads a module body. Project-wide resolution policy
// (module roots, bare-specifier aliases, the builtin-module allowlist)
// comes from a sharpts.yaml file parsed with goccy/go-yaml, and bare
// specifiers may carry a semver range suffix (`pkg@^2.1.0`) resolved with
// blang/semver against the aliased target's declared version.
package modgraph

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the parsed shape of a project's sharpts.yaml.
type Config struct {
	// Roots lists directories searched, in order, for a relative or
	// root-relative import specifier that isn't found next to the
	// importing file.
	Roots []string `yaml:"roots"`

	// Aliases maps a bare specifier's package name to a filesystem path and
	// the version it is pinned at, so `import "leftpad@^1.2.0"` resolves
	// without a node_modules-style resolver.
	Aliases map[string]AliasTarget `yaml:"aliases"`

	// BuiltinModules is the allowlist of bare specifiers that resolve to a
	// host-provided module (internal/host) instead of a file on disk, e.g.
	// a `fs` or `process` shim a given embedding supplies.
	BuiltinModules []string `yaml:"builtinModules"`
}

// AliasTarget is one entry of Config.Aliases.
type AliasTarget struct {
	Path    string `yaml:"path"`
	Version string `yaml:"version"`
}

// LoadConfig reads and parses a sharpts.yaml file. A missing file is not an
// error: it returns the zero Config, matching an unconfigured project where
// only relative imports work.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("modgraph: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("modgraph: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// IsBuiltin reports whether specifier names a host-provided module per the
// config's allowlist.
func (c *Config) IsBuiltin(specifier string) bool {
	for _, b := range c.BuiltinModules {
		if b == specifier {
			return true
		}
	}
	return false
}
