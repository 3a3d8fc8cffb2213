package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/vroute/pkg/router"
)

// ErrUnknownModule is returned for a module id with no registered compiler.
var ErrUnknownModule = errors.New("unknown module")

// Compiler turns fetched module source into a view.
type Compiler func(id string, src []byte) (router.View, error)

// Registry resolves module ids to views. It implements router.ModuleLoader.
type Registry struct {
	source Source
	logger *slog.Logger

	mu        sync.RWMutex
	compilers map[string]Compiler
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry's logger. The default is slog.Default().
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry returns an empty registry reading from source.
func NewRegistry(source Source, opts ...RegistryOption) *Registry {
	r := &Registry{
		source:    source,
		logger:    slog.Default(),
		compilers: make(map[string]Compiler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates a module id with its compiler, replacing any
// previous one.
func (r *Registry) Register(id string, c Compiler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compilers[id] = c
}

// Modules returns the registered module ids in sorted order.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.compilers))
	for id := range r.compilers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadModule fetches and compiles module id.
func (r *Registry) LoadModule(ctx context.Context, id string) (router.View, error) {
	r.mu.RLock()
	compile, ok := r.compilers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, id)
	}

	start := time.Now()
	src, err := r.source.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch module %q: %w", id, err)
	}
	v, err := compile(id, src)
	if err != nil {
		return nil, fmt.Errorf("compile module %q: %w", id, err)
	}
	r.logger.Info("module loaded", "module", id, "bytes", len(src), "duration", time.Since(start))
	return v, nil
}
