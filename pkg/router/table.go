package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/vango-dev/vroute/pkg/future"
	"github.com/vango-dev/vroute/pkg/routepath"
)

var errNilView = errors.New("loader returned a nil view")

// Table is a validated, immutable route table. It owns the cache of
// deferred views, so routers built from the same Table share fetched
// modules.
type Table struct {
	entries []*entry
	byName  map[string]*entry
}

// entry is a route plus its compiled pattern and view cache.
type entry struct {
	route   Route
	pattern pattern

	mu      sync.Mutex
	loaded  View
	pending *future.Future[View]
	fetches int
}

// NewTable validates routes and compiles their patterns. Names and paths
// must be unique, and each route needs exactly one of View or Load.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{byName: make(map[string]*entry, len(routes))}
	paths := make(map[string]string, len(routes))

	for i, r := range routes {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: route %d (%s) has no name", ErrInvalidRoute, i, r.Path)
		}
		if (r.View == nil) == (r.Load == nil) {
			return nil, fmt.Errorf("%w: route %q needs exactly one of View or Load", ErrInvalidRoute, r.Name)
		}
		if prev, ok := t.byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateRouteName, r.Name, prev.route.Path, r.Path)
		}

		p, err := compilePattern(r.Path)
		if err != nil {
			return nil, err
		}
		sig := p.signature()
		if other, ok := paths[sig]; ok {
			return nil, fmt.Errorf("%w: %s used by %q and %q", ErrDuplicateRoutePath, p.raw, other, r.Name)
		}
		paths[sig] = r.Name

		e := &entry{route: r, pattern: p}
		t.entries = append(t.entries, e)
		t.byName[r.Name] = e
	}
	return t, nil
}

// Routes returns the route definitions in table order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.route
	}
	return out
}

// Match returns the first route matching a canonical path. The query may
// be empty.
func (t *Table) Match(path, rawQuery string) (*Match, error) {
	_, m, err := t.match(path, rawQuery)
	return m, err
}

func (t *Table) match(path, rawQuery string) (*entry, *Match, error) {
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: bad query: %v", ErrNoMatchingRoute, path, err)
	}
	parts := routepath.Split(path)
	for _, e := range t.entries {
		params, ok := e.pattern.match(parts)
		if !ok {
			continue
		}
		return e, &Match{
			Route:  e.route,
			Path:   path,
			Params: params,
			Query:  query,
		}, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrNoMatchingRoute, path)
}

// Resolve builds the app path of a named route.
func (t *Table) Resolve(name string, params map[string]string) (string, error) {
	e, ok := t.byName[name]
	if !ok {
		return "", &UnknownRouteError{Name: name}
	}
	return e.pattern.build(params)
}

// fetchCount reports how many times the named route's loader has been called.
func (t *Table) fetchCount(name string) int {
	e, ok := t.byName[name]
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fetches
}

// view returns the entry's view, fetching a deferred one if needed.
// Concurrent callers share a single fetch, which keeps running when a
// caller's ctx ends. A successful result is cached, a failed one is not.
func (e *entry) view(ctx context.Context) (View, error) {
	if e.route.View != nil {
		return e.route.View, nil
	}

	e.mu.Lock()
	if e.loaded != nil {
		v := e.loaded
		e.mu.Unlock()
		return v, nil
	}
	f := e.pending
	if f == nil {
		f = future.New[View]()
		e.pending = f
		e.fetches++
		go e.fetch(context.WithoutCancel(ctx), f)
	}
	e.mu.Unlock()

	v, err := f.Wait(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ModuleLoadError{Route: e.route.Name, Err: err}
	}
	return v, nil
}

func (e *entry) fetch(ctx context.Context, f *future.Future[View]) {
	v, err := e.route.Load(ctx)
	if err == nil && v == nil {
		err = errNilView
	}

	e.mu.Lock()
	if err == nil {
		e.loaded = v
	}
	e.pending = nil
	e.mu.Unlock()

	if err != nil {
		f.Reject(err)
		return
	}
	f.Resolve(v)
}
