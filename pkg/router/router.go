package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/vroute/pkg/future"
	"github.com/vango-dev/vroute/pkg/routepath"
)

// Router matches navigations against a route table, loads views and keeps
// the history adapter in step with the active route. It is safe for use
// by multiple goroutines.
type Router struct {
	base       string
	table      *Table
	history    History
	logger     *slog.Logger
	middleware []Middleware
	onError    func(error)
	afterEach  []func(*Navigation, error)

	mu       sync.Mutex
	gen      uint64
	active   *Match
	view     View
	location string
}

// Option configures a Router.
type Option func(*Router)

// WithHistory attaches a history adapter.
func WithHistory(h History) Option {
	return func(r *Router) {
		r.history = h
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithMiddleware appends navigation middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// WithErrorHandler receives errors from navigations that have no caller,
// i.e. back/forward moves. The default logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Router) {
		r.onError = fn
	}
}

// WithAfterEach registers a hook called after every navigation settles,
// successful or not.
func WithAfterEach(fn func(nav *Navigation, err error)) Option {
	return func(r *Router) {
		r.afterEach = append(r.afterEach, fn)
	}
}

// New builds a router for the given base prefix and route table.
// It fails with ErrDuplicateRouteName if two routes share a name.
func New(base string, routes []Route, opts ...Option) (*Router, error) {
	t, err := NewTable(routes)
	if err != nil {
		return nil, err
	}
	return NewWithTable(base, t, opts...)
}

// NewWithTable builds a router over an existing table. Routers sharing a
// table share its cache of fetched views.
func NewWithTable(base string, t *Table, opts ...Option) (*Router, error) {
	nb, err := routepath.NormalizeBase(base)
	if err != nil {
		return nil, fmt.Errorf("router: base %q: %w", base, err)
	}
	r := &Router{
		base:   nb,
		table:  t,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onError == nil {
		r.onError = r.logError
	}
	return r, nil
}

// Base returns the normalized base prefix ("" for the root).
func (r *Router) Base() string {
	return r.base
}

// Table returns the router's route table.
func (r *Router) Table() *Table {
	return r.table
}

// Routes returns the route definitions in table order.
func (r *Router) Routes() []Route {
	return r.table.Routes()
}

// Match matches an app path (without base) against the table without
// navigating.
func (r *Router) Match(path string) (*Match, error) {
	canon, err := routepath.Canonicalize(stripFragment(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoMatchingRoute, path, err)
	}
	return r.table.Match(canon.Path, canon.Query)
}

// Resolve returns the app path of the named route. ":name" segments are
// filled from params; unused params are ignored.
func (r *Router) Resolve(name string, params map[string]string) (string, error) {
	return r.table.Resolve(name, params)
}

// Href returns the browser location of the named route, base included.
func (r *Router) Href(name string, params map[string]string) (string, error) {
	p, err := r.Resolve(name, params)
	if err != nil {
		return "", err
	}
	return routepath.JoinBase(r.base, p), nil
}

// Push navigates to the named route.
func (r *Router) Push(ctx context.Context, name string, params map[string]string, opts ...NavigateOption) (*Navigation, error) {
	p, err := r.Resolve(name, params)
	if err != nil {
		return nil, err
	}
	return r.Navigate(ctx, p, opts...)
}

// Navigate moves to path, which may be absolute ("/settings"), relative to
// the current location ("settings", "../x") and may carry a query. An empty
// path reloads the current location, query included.
// Deferred views are fetched first; the previous view stays active until
// the fetch completes. If a later navigation is issued meanwhile this one
// returns ErrNavigationSuperseded.
func (r *Router) Navigate(ctx context.Context, path string, opts ...NavigateOption) (*Navigation, error) {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}
	gen, from := r.begin()
	return r.run(ctx, gen, from, path, o.mode(), o.Query)
}

// NavigateAsync issues a navigation and completes it in the background.
// Its order relative to other navigations is fixed when NavigateAsync
// returns.
func (r *Router) NavigateAsync(ctx context.Context, path string, opts ...NavigateOption) *future.Future[*Navigation] {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}
	gen, from := r.begin()
	return future.Go(func() (*Navigation, error) {
		return r.run(ctx, gen, from, path, o.mode(), o.Query)
	})
}

// Prefetch loads the named route's view without navigating.
func (r *Router) Prefetch(ctx context.Context, name string) error {
	e, ok := r.table.byName[name]
	if !ok {
		return &UnknownRouteError{Name: name}
	}
	_, err := e.view(ctx)
	return err
}

// Start attaches the router to its history adapter: it navigates to the
// current location and follows back/forward moves until stop is called.
// The listener stays installed even if the initial navigation fails.
func (r *Router) Start(ctx context.Context) (stop func(), err error) {
	if r.history == nil {
		return func() {}, ErrNoHistory
	}
	stop = r.history.Listen(func(location string) {
		r.pop(ctx, location)
	})
	_, err = r.navigateLocation(ctx, r.history.Location(), ModeReplace)
	return stop, err
}

// Back moves one history entry back.
func (r *Router) Back() {
	if r.history != nil {
		r.history.Back()
	}
}

// Forward moves one history entry forward.
func (r *Router) Forward() {
	if r.history != nil {
		r.history.Forward()
	}
}

// Active returns the active match, or nil before the first navigation.
func (r *Router) Active() *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Location returns the active app path including query.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Render writes the active view.
func (r *Router) Render(w io.Writer) error {
	r.mu.Lock()
	m, v := r.active, r.view
	r.mu.Unlock()
	if v == nil {
		return ErrNoActiveRoute
	}
	return v.Render(w, m)
}

// pop handles a back/forward move reported by the history adapter.
func (r *Router) pop(ctx context.Context, location string) {
	gen, from := r.begin()
	go func() {
		path, ok := routepath.StripBase(r.base, location)
		if !ok {
			r.onError(fmt.Errorf("%w: %s is outside base %q", ErrNoMatchingRoute, location, r.base))
			return
		}
		if _, err := r.run(ctx, gen, from, path, ModePop, nil); err != nil {
			r.onError(err)
		}
	}()
}

// navigateLocation navigates to a browser location, base included.
func (r *Router) navigateLocation(ctx context.Context, location string, mode Mode) (*Navigation, error) {
	path, ok := routepath.StripBase(r.base, location)
	if !ok {
		return nil, fmt.Errorf("%w: %s is outside base %q", ErrNoMatchingRoute, location, r.base)
	}
	gen, from := r.begin()
	return r.run(ctx, gen, from, path, mode, nil)
}

// begin claims the next generation and snapshots the current location.
func (r *Router) begin() (uint64, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	return r.gen, r.location
}

// run performs a navigation that has already claimed generation gen.
func (r *Router) run(ctx context.Context, gen uint64, from, target string, mode Mode, extra map[string]any) (nav *Navigation, err error) {
	nav = &Navigation{
		ID:      uuid.NewString(),
		From:    from,
		To:      target,
		Mode:    mode,
		Started: time.Now(),
		ctx:     ctx,
	}
	defer func() {
		for _, fn := range r.afterEach {
			fn(nav, err)
		}
	}()

	abs := from
	if ref := stripFragment(target); ref != "" {
		abs, err = routepath.ResolveRelative(pathOnly(from), ref)
		if err != nil {
			return nav, fmt.Errorf("navigate %q: %w", target, err)
		}
	}
	canon, err := routepath.Canonicalize(abs)
	if err != nil {
		return nav, fmt.Errorf("navigate %q: %w", target, err)
	}
	query, err := mergeQuery(canon.Query, extra)
	if err != nil {
		return nav, fmt.Errorf("navigate %q: %w", target, err)
	}
	canon.Query = query
	nav.To = canon.String()

	e, m, matchErr := r.table.match(canon.Path, canon.Query)
	nav.Match = m

	var reached bool
	var handlerErr error
	err = ComposeMiddleware(ctx, nav, r.middleware, func() error {
		reached = true
		handlerErr = r.settle(gen, nav, e, matchErr)
		return handlerErr
	})
	switch {
	case err != nil:
	case !reached:
		err = fmt.Errorf("%w: %s", ErrNavigationAborted, nav.To)
	case handlerErr != nil:
		// middleware may not swallow a failure
		err = handlerErr
	}
	return nav, err
}

// settle loads the matched view and commits it.
func (r *Router) settle(gen uint64, nav *Navigation, e *entry, matchErr error) error {
	if matchErr != nil {
		return matchErr
	}
	v, err := e.view(nav.Context())
	if err != nil {
		return err
	}
	return r.commit(gen, nav, v)
}

// commit makes nav active if it is still the latest navigation.
func (r *Router) commit(gen uint64, nav *Navigation, v View) error {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNavigationSuperseded, nav.To)
	}
	prev := r.view
	r.active = nav.Match
	r.view = v
	r.location = nav.To
	if r.history != nil {
		loc := routepath.JoinBase(r.base, nav.To)
		switch nav.Mode {
		case ModePush:
			if r.history.Location() != loc {
				r.history.Push(loc)
			}
		case ModeReplace:
			r.history.Replace(loc)
		}
	}
	r.mu.Unlock()

	if prev != nil && prev != v {
		prev.Unmount()
	}
	r.logger.Debug("navigation committed",
		"id", nav.ID,
		"route", nav.RouteName(),
		"path", nav.To,
		"mode", nav.Mode.String(),
		"duration", time.Since(nav.Started),
	)
	return nil
}

func (r *Router) logError(err error) {
	if errors.Is(err, ErrNavigationSuperseded) {
		r.logger.Debug("navigation superseded", "error", err)
		return
	}
	r.logger.Warn("navigation failed", "error", err)
}

func stripFragment(p string) string {
	p, _, _ = strings.Cut(p, "#")
	return p
}

func pathOnly(p string) string {
	p, _, _ = strings.Cut(p, "?")
	return p
}
