// Package manifest loads the TOML file that ties tutorial documents to the
// files extracted from them.
//
//	documents = ["docs/crowdfunding-p1.md", "docs/crowdfunding-p2.md"]
//	dirs      = ["crowdfunding/src", "crowdfunding/scenarios"]
//	verify    = "cargo test"
//	hidden    = true
//
//	[[targets]]
//	block = "Cargo.toml"
//	path  = "crowdfunding/Cargo.toml"
//
//	[[targets]]
//	block  = "crowdfunding.rs"
//	path   = "crowdfunding/src/lib.rs"
//	region = "contract"
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFilename is looked up in the working directory when no manifest is given.
const DefaultFilename = "mdextract.toml"

// Manifest describes one extraction run.
type Manifest struct {
	Documents []string `toml:"documents"`
	Dirs      []string `toml:"dirs"`
	Targets   []Target `toml:"targets"`
	Verify    string   `toml:"verify"`
	Hidden    bool     `toml:"hidden"`

	// Dir is the directory relative paths are resolved against.
	Dir string `toml:"-"`
}

// Target maps a code block, found by filename, to a destination file.
type Target struct {
	Block  string `toml:"block"`
	Path   string `toml:"path"`
	Region string `toml:"region"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}

	m, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("manifest %q: %w", path, err)
	}

	return m, nil
}

// Parse decodes and validates a manifest whose relative paths are rooted at dir.
func Parse(data []byte, dir string) (*Manifest, error) {
	var m Manifest

	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}

		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}

	m.Dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks that the manifest names something to read and something to write.
func (m *Manifest) Validate() error {
	if len(m.Documents) == 0 {
		return ErrNoDocuments
	}

	if len(m.Targets) == 0 {
		return ErrNoTargets
	}

	for i, target := range m.Targets {
		if len(target.Block) == 0 {
			return fmt.Errorf("targets[%d]: %w", i, ErrMissingBlock)
		}

		if len(target.Path) == 0 {
			return fmt.Errorf("targets[%d] (%s): %w", i, target.Block, ErrMissingPath)
		}
	}

	return nil
}

// Resolve turns a manifest-relative path into one usable from the working directory.
func (m *Manifest) Resolve(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) || len(m.Dir) == 0 {
		return path
	}

	return filepath.Join(m.Dir, path)
}

var (
	ErrUnknownKey   = errors.New("unknown manifest key")
	ErrNoDocuments  = errors.New("no documents listed")
	ErrNoTargets    = errors.New("no targets listed")
	ErrMissingBlock = errors.New("target has no block filename")
	ErrMissingPath  = errors.New("target has no path")
)
