package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// ErrModuleNotFound is returned by a Source that has no object for an id.
var ErrModuleNotFound = errors.New("module source not found")

// Source fetches the raw source of a view module.
type Source interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(ctx context.Context, id string) ([]byte, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

// FSSource reads module sources from a file system. Module "dashboard"
// with extension ".tmpl" is read from "dashboard.tmpl".
type FSSource struct {
	fsys fs.FS
	ext  string
}

// NewFSSource returns a Source reading id+ext from fsys.
func NewFSSource(fsys fs.FS, ext string) *FSSource {
	return &FSSource{fsys: fsys, ext: ext}
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := id + s.ext
	if !fs.ValidPath(name) || path.Clean(name) != name {
		return nil, fmt.Errorf("modules: invalid module id %q", id)
	}
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("modules: read %s: %w", name, err)
	}
	return data, nil
}
