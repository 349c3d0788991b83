// Package materialize writes extracted code blocks to their destination files.
package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/mdextract/internal/manifest"
	"github.com/ezerfernandes/mdextract/internal/mdcode"
	"github.com/ezerfernandes/mdextract/internal/region"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// FS is the writable file system blocks are materialized into.
// Paths are slash separated.
type FS interface {
	fs.FS
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// OSFS is an FS rooted at a directory of the host file system.
type OSFS string

func (root OSFS) path(name string) string {
	return filepath.Join(string(root), filepath.FromSlash(name))
}

func (root OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(root.path(path), perm)
}

func (root OSFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(root.path(name), data, perm)
}

func (root OSFS) Open(name string) (fs.File, error) {
	return os.Open(root.path(name))
}

// StatusFunc reports progress, printf style.
type StatusFunc func(format string, args ...interface{})

// Run creates the manifest directories and writes every target. It stops at
// the first target whose block is missing or cannot be written; nothing is
// retried.
func Run(fsys FS, m *manifest.Manifest, blocks mdcode.Blocks, status StatusFunc) error {
	for _, dir := range m.Dirs {
		if err := fsys.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	for _, target := range m.Targets {
		block, err := blocks.FindByFilename(target.Block)
		if err != nil {
			return fmt.Errorf("%w in %v", err, m.Documents)
		}

		if err := Write(fsys, target, block); err != nil {
			return err
		}

		status("extracted %s, language: %s\n", target.Path, block.LanguageOr("unknown"))
	}

	return nil
}

// Write stores one block at target.Path, or inside target.Region of the
// file already there.
func Write(fsys FS, target manifest.Target, block *mdcode.CodeBlock) error {
	data := []byte(block.Content)

	if len(target.Region) != 0 {
		existing, err := fs.ReadFile(fsys, target.Path)
		if err != nil {
			return fmt.Errorf("read %q: %w", target.Path, err)
		}

		if data, err = region.Replace(existing, target.Region, data); err != nil {
			return fmt.Errorf("%s: %w", target.Path, err)
		}
	} else if dir := filepath.Dir(filepath.FromSlash(target.Path)); dir != "." {
		if err := fsys.MkdirAll(filepath.ToSlash(dir), dirMode); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	if err := fsys.WriteFile(target.Path, data, fileMode); err != nil {
		return fmt.Errorf("write %q: %w", target.Path, err)
	}

	return nil
}

// ErrUnsafePath is returned by [Check] for paths outside the output root.
var ErrUnsafePath = errors.New("path escapes the manifest directory")

// Check rejects directories and targets that would escape the manifest
// directory.
func Check(m *manifest.Manifest) error {
	for _, dir := range m.Dirs {
		if !isLocal(dir) {
			return fmt.Errorf("dirs: %w: %q", ErrUnsafePath, dir)
		}
	}

	for _, target := range m.Targets {
		if !isLocal(target.Path) {
			return fmt.Errorf("target %s: %w: %q", target.Block, ErrUnsafePath, target.Path)
		}
	}

	return nil
}

func isLocal(path string) bool {
	path = filepath.FromSlash(path)

	return !filepath.IsAbs(path) && filepath.IsLocal(path)
}
