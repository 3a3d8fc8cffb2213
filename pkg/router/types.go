package router

import (
	"context"
	"io"
	"net/url"
	"time"
)

// View is a rendered view module. The router only mounts, renders and
// unmounts views; it never looks inside them.
type View interface {
	// Name identifies the view module.
	Name() string

	// Render writes the view's output for the given match.
	Render(w io.Writer, m *Match) error

	// Unmount is called when another view replaces this one.
	Unmount()
}

// Loader fetches a deferred view on first navigation to its route.
type Loader func(ctx context.Context) (View, error)

// ModuleLoader resolves view modules by id on demand.
type ModuleLoader interface {
	LoadModule(ctx context.Context, id string) (View, error)
}

// Lazy returns a Loader that fetches module id from ml.
func Lazy(ml ModuleLoader, id string) Loader {
	return func(ctx context.Context) (View, error) {
		return ml.LoadModule(ctx, id)
	}
}

// Route is one entry of the route table.
type Route struct {
	// Path is the URL pattern, e.g. "/settings" or "/accounts/:id".
	Path string

	// Name is the unique symbolic name used by Resolve.
	Name string

	// View is set for views that are loaded up front.
	View View

	// Load is set for views fetched on first navigation.
	Load Loader

	// Meta carries free-form route metadata (page title and the like).
	Meta map[string]string
}

// Deferred reports whether the route's view is fetched on demand.
func (r Route) Deferred() bool {
	return r.View == nil && r.Load != nil
}

// Match is the result of matching a path against the table.
type Match struct {
	// Route is the matched definition.
	Route Route

	// Path is the canonical app path, without base or query.
	Path string

	// Params holds values captured by ":name" and "*rest" segments.
	Params map[string]string

	// Query holds the parsed query string.
	Query url.Values
}

// Name returns the matched route's name.
func (m *Match) Name() string {
	if m == nil {
		return ""
	}
	return m.Route.Name
}

// Mode says how a navigation updates the history stack.
type Mode int

const (
	// ModePush adds a history entry.
	ModePush Mode = iota

	// ModeReplace overwrites the current history entry.
	ModeReplace

	// ModePop follows a back/forward move; the history already changed.
	ModePop
)

func (m Mode) String() string {
	switch m {
	case ModePush:
		return "push"
	case ModeReplace:
		return "replace"
	case ModePop:
		return "pop"
	default:
		return "unknown"
	}
}

// Navigation describes one navigation as it runs through middleware.
type Navigation struct {
	// ID uniquely identifies the navigation in logs and traces.
	ID string

	// From is the app path that was active when the navigation was issued.
	From string

	// To is the canonical target app path including its query.
	To string

	// Mode is the history mode.
	Mode Mode

	// Match is set once the target has been matched.
	Match *Match

	// Started is when the navigation was issued.
	Started time.Time

	ctx context.Context
}

// RouteName returns the matched route's name, or "" if nothing matched yet.
func (n *Navigation) RouteName() string {
	return n.Match.Name()
}

// Context returns the context the view fetch runs under.
func (n *Navigation) Context() context.Context {
	if n.ctx == nil {
		return context.Background()
	}
	return n.ctx
}

// SetContext replaces the navigation's context. Middleware uses it to hand
// values such as trace spans to the view fetch and later middleware.
func (n *Navigation) SetContext(ctx context.Context) {
	n.ctx = ctx
}

// History is the integration point with the browser's session history.
// Locations include the router's base prefix.
type History interface {
	// Location returns the current location.
	Location() string

	// Push adds a new entry and makes it current.
	Push(location string)

	// Replace overwrites the current entry.
	Replace(location string)

	// Back moves one entry back and notifies listeners.
	Back()

	// Forward moves one entry forward and notifies listeners.
	Forward()

	// Listen registers fn for back/forward moves. The returned func
	// removes the listener.
	Listen(fn func(location string)) (stop func())
}
