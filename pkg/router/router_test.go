package router

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vango-dev/vroute/pkg/history"
)

func newAppRouter(t *testing.T, dashboard Loader, opts ...Option) (*Router, *fakeView, *fakeView) {
	t.Helper()
	routes, transactions, settings := appRoutes(dashboard)
	r, err := New("", routes, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r, transactions, settings
}

func waitNav(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for navigation")
		return nil
	}
}

func TestNavigateStaticRoutes(t *testing.T) {
	dash := &countingLoader{view: newFakeView("Dashboard")}
	r, _, _ := newAppRouter(t, dash.load)
	ctx := context.Background()

	tests := []struct {
		path string
		want string
	}{
		{"/", "transactions"},
		{"/settings", "settings"},
		{"/settings/", "settings"},
	}
	for _, tc := range tests {
		nav, err := r.Navigate(ctx, tc.path)
		if err != nil {
			t.Fatalf("Navigate(%q) error = %v", tc.path, err)
		}
		if got := nav.RouteName(); got != tc.want {
			t.Errorf("Navigate(%q) route = %q, want %q", tc.path, got, tc.want)
		}
		if got := r.Active().Name(); got != tc.want {
			t.Errorf("Active() after %q = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestNavigateDeferredFetchedOnce(t *testing.T) {
	dash := &countingLoader{view: newFakeView("Dashboard")}
	r, _, _ := newAppRouter(t, dash.load)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := r.Navigate(ctx, "/dashboard"); err != nil {
			t.Fatalf("Navigate(/dashboard) #%d error = %v", i+1, err)
		}
		if got := r.Active().Name(); got != "Dashboard" {
			t.Fatalf("Active() = %q, want Dashboard", got)
		}
		if _, err := r.Navigate(ctx, "/"); err != nil {
			t.Fatalf("Navigate(/) error = %v", err)
		}
	}

	if got := dash.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	if got := r.Table().fetchCount("Dashboard"); got != 1 {
		t.Errorf("fetchCount(Dashboard) = %d, want 1", got)
	}
}

func TestNavigateNoMatchKeepsActiveView(t *testing.T) {
	r, _, settings := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load)
	ctx := context.Background()

	if _, err := r.Navigate(ctx, "/settings"); err != nil {
		t.Fatalf("Navigate(/settings) error = %v", err)
	}

	nav, err := r.Navigate(ctx, "/does-not-exist")
	if !errors.Is(err, ErrNoMatchingRoute) {
		t.Fatalf("Navigate(/does-not-exist) error = %v, want ErrNoMatchingRoute", err)
	}
	if nav.Match != nil {
		t.Errorf("nav.Match = %+v, want nil", nav.Match)
	}
	if got := r.Active().Name(); got != "settings" {
		t.Errorf("Active() = %q, want settings", got)
	}
	if got := settings.unmounts.Load(); got != 0 {
		t.Errorf("settings unmounted %d times, want 0", got)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got, want := buf.String(), `<settings path="/settings">`; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load)
	ctx := context.Background()

	for _, route := range r.Routes() {
		path, err := r.Resolve(route.Name, nil)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", route.Name, err)
		}
		if _, err := r.Navigate(ctx, path); err != nil {
			t.Fatalf("Navigate(%q) error = %v", path, err)
		}
		if got := r.Active().Name(); got != route.Name {
			t.Errorf("Navigate(Resolve(%q)) activated %q", route.Name, got)
		}
	}
}

func TestResolveUnknownRoute(t *testing.T) {
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load)

	_, err := r.Resolve("reports", nil)
	if !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("Resolve(reports) error = %v, want ErrUnknownRoute", err)
	}
	var ure *UnknownRouteError
	if !errors.As(err, &ure) || ure.Name != "reports" {
		t.Errorf("error = %#v, want *UnknownRouteError{Name: reports}", err)
	}

	if _, err := r.Push(context.Background(), "reports", nil); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("Push(reports) error = %v, want ErrUnknownRoute", err)
	}
	if err := r.Prefetch(context.Background(), "reports"); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("Prefetch(reports) error = %v, want ErrUnknownRoute", err)
	}
}

func TestLastNavigationWins(t *testing.T) {
	g := newGatedLoader(newFakeView("Dashboard"))
	r, _, _ := newAppRouter(t, g.load)
	ctx := context.Background()

	pending := r.NavigateAsync(ctx, "/dashboard")
	<-g.started

	if _, err := r.Navigate(ctx, "/"); err != nil {
		t.Fatalf("Navigate(/) error = %v", err)
	}
	close(g.release)

	_, err := pending.Wait(ctx)
	if !errors.Is(err, ErrNavigationSuperseded) {
		t.Fatalf("dashboard navigation error = %v, want ErrNavigationSuperseded", err)
	}
	if got := r.Active().Name(); got != "transactions" {
		t.Errorf("Active() = %q, want transactions", got)
	}

	// The discarded fetch still populated the cache.
	if _, err := r.Navigate(ctx, "/dashboard"); err != nil {
		t.Fatalf("Navigate(/dashboard) error = %v", err)
	}
	if got := g.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestConcurrentNavigationsShareFetch(t *testing.T) {
	g := newGatedLoader(newFakeView("Dashboard"))
	r, _, _ := newAppRouter(t, g.load)
	ctx := context.Background()

	first := r.NavigateAsync(ctx, "/dashboard")
	<-g.started
	second := r.NavigateAsync(ctx, "/dashboard?range=30d")
	close(g.release)

	if _, err := first.Wait(ctx); !errors.Is(err, ErrNavigationSuperseded) {
		t.Errorf("first error = %v, want ErrNavigationSuperseded", err)
	}
	nav, err := second.Wait(ctx)
	if err != nil {
		t.Fatalf("second error = %v", err)
	}
	if nav.To != "/dashboard?range=30d" {
		t.Errorf("nav.To = %q", nav.To)
	}
	if got := g.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestModuleLoadFailure(t *testing.T) {
	boom := errors.New("network unreachable")
	dash := &countingLoader{view: newFakeView("Dashboard"), err: boom}
	r, _, _ := newAppRouter(t, dash.load)
	ctx := context.Background()

	if _, err := r.Navigate(ctx, "/settings"); err != nil {
		t.Fatalf("Navigate(/settings) error = %v", err)
	}

	_, err := r.Navigate(ctx, "/dashboard")
	if !errors.Is(err, ErrModuleLoad) || !errors.Is(err, boom) {
		t.Fatalf("Navigate(/dashboard) error = %v, want ErrModuleLoad wrapping %v", err, boom)
	}
	var mle *ModuleLoadError
	if !errors.As(err, &mle) || mle.Route != "Dashboard" {
		t.Errorf("error = %#v, want *ModuleLoadError for Dashboard", err)
	}
	if got := r.Active().Name(); got != "settings" {
		t.Errorf("Active() = %q, want settings", got)
	}

	// Failures are not cached; the next visit fetches again.
	dash.err = nil
	if _, err := r.Navigate(ctx, "/dashboard"); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if got := dash.calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
}

func TestNilViewFromLoader(t *testing.T) {
	r, _, _ := newAppRouter(t, func(context.Context) (View, error) { return nil, nil })
	if _, err := r.Navigate(context.Background(), "/dashboard"); !errors.Is(err, ErrModuleLoad) {
		t.Errorf("error = %v, want ErrModuleLoad", err)
	}
}

func TestNavigateContextCancelled(t *testing.T) {
	g := newGatedLoader(newFakeView("Dashboard"))
	r, _, _ := newAppRouter(t, g.load)

	ctx, cancel := context.WithCancel(context.Background())
	pending := r.NavigateAsync(ctx, "/dashboard")
	<-g.started
	cancel()

	if _, err := pending.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if r.Active() != nil {
		t.Errorf("Active() = %+v, want nil", r.Active())
	}

	close(g.release)
	if _, err := r.Navigate(context.Background(), "/dashboard"); err != nil {
		t.Fatalf("Navigate(/dashboard) error = %v", err)
	}
	if got := g.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestPrefetch(t *testing.T) {
	dash := &countingLoader{view: newFakeView("Dashboard")}
	r, _, _ := newAppRouter(t, dash.load)
	ctx := context.Background()

	if err := r.Prefetch(ctx, "Dashboard"); err != nil {
		t.Fatalf("Prefetch() error = %v", err)
	}
	if err := r.Prefetch(ctx, "settings"); err != nil {
		t.Fatalf("Prefetch(eager) error = %v", err)
	}
	if r.Active() != nil {
		t.Error("Prefetch must not navigate")
	}
	if _, err := r.Navigate(ctx, "/dashboard"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if got := dash.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestNavigateRelativeAndQuery(t *testing.T) {
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load)
	ctx := context.Background()

	if _, err := r.Navigate(ctx, "/settings"); err != nil {
		t.Fatal(err)
	}
	nav, err := r.Navigate(ctx, "dashboard?range=7d#chart", WithQuery(map[string]any{"page": 2}))
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if nav.From != "/settings" {
		t.Errorf("nav.From = %q, want /settings", nav.From)
	}
	if want := "/dashboard?page=2&range=7d"; nav.To != want || r.Location() != want {
		t.Errorf("nav.To = %q, Location() = %q, want %q", nav.To, r.Location(), want)
	}
	m := r.Active()
	if m.Path != "/dashboard" || m.Query.Get("range") != "7d" || m.Query.Get("page") != "2" {
		t.Errorf("Active() = %+v", m)
	}

	if _, err := r.Navigate(ctx, "https://evil.example/"); err == nil {
		t.Error("absolute URL navigation should fail")
	}
	if _, err := r.Navigate(ctx, "/../secret"); err == nil {
		t.Error("path escaping root should fail")
	}
	if got := r.Active().Name(); got != "Dashboard" {
		t.Errorf("Active() = %q after rejected navigations", got)
	}
}

func TestViewSwapUnmountsPrevious(t *testing.T) {
	r, transactions, settings := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load)
	ctx := context.Background()

	for _, p := range []string{"/", "/settings", "/settings?tab=2"} {
		if _, err := r.Navigate(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	if got := transactions.unmounts.Load(); got != 1 {
		t.Errorf("transactions unmounts = %d, want 1", got)
	}
	if got := settings.unmounts.Load(); got != 0 {
		t.Errorf("settings unmounts = %d, want 0", got)
	}
}

func TestRenderWithoutActiveRoute(t *testing.T) {
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load)
	if err := r.Render(&bytes.Buffer{}); !errors.Is(err, ErrNoActiveRoute) {
		t.Errorf("Render() error = %v, want ErrNoActiveRoute", err)
	}
}

func TestHistoryPushAndReplace(t *testing.T) {
	h := history.NewMemory("/")
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load, WithHistory(h))
	ctx := context.Background()

	stop, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stop()

	if _, err := r.Navigate(ctx, "/settings"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Navigate(ctx, "/dashboard", WithReplace()); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 2 || h.Location() != "/dashboard" {
		t.Errorf("history = %d entries at %q, want 2 at /dashboard", h.Len(), h.Location())
	}

	// Failed navigations leave history alone.
	if _, err := r.Navigate(ctx, "/missing"); !errors.Is(err, ErrNoMatchingRoute) {
		t.Fatalf("error = %v", err)
	}
	if h.Len() != 2 {
		t.Errorf("history length = %d, want 2", h.Len())
	}
}

func TestBackForward(t *testing.T) {
	h := history.NewMemory("/")
	done := make(chan error, 16)
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load,
		WithHistory(h),
		WithAfterEach(func(_ *Navigation, err error) { done <- err }),
	)
	ctx := context.Background()

	stop, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stop()
	waitNav(t, done)

	for _, p := range []string{"/settings", "/dashboard"} {
		if _, err := r.Navigate(ctx, p); err != nil {
			t.Fatal(err)
		}
		waitNav(t, done)
	}

	steps := []struct {
		move func()
		want string
	}{
		{r.Back, "settings"},
		{r.Back, "transactions"},
		{r.Forward, "settings"},
		{r.Forward, "Dashboard"},
	}
	for i, s := range steps {
		s.move()
		if err := waitNav(t, done); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
		if got := r.Active().Name(); got != s.want {
			t.Errorf("step %d Active() = %q, want %q", i, got, s.want)
		}
	}
	if h.Len() != 3 {
		t.Errorf("pop navigations must not write history, len = %d", h.Len())
	}
}

func TestBasePrefix(t *testing.T) {
	h := history.NewMemory("/app/settings")
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load, WithHistory(h))
	r2, err := NewWithTable("/app/", r.Table(), WithHistory(h))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	stop, err := r2.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stop()

	if got := r2.Active().Name(); got != "settings" {
		t.Errorf("Active() = %q, want settings", got)
	}
	if _, err := r2.Push(ctx, "Dashboard", nil); err != nil {
		t.Fatal(err)
	}
	if got := h.Location(); got != "/app/dashboard" {
		t.Errorf("history location = %q, want /app/dashboard", got)
	}

	href, err := r2.Href("transactions", nil)
	if err != nil || href != "/app/" {
		t.Errorf("Href(transactions) = (%q, %v), want /app/", href, err)
	}
	if r2.Base() != "/app" {
		t.Errorf("Base() = %q", r2.Base())
	}
}

func TestStartOutsideBase(t *testing.T) {
	h := history.NewMemory("/elsewhere")
	routes, _, _ := appRoutes((&countingLoader{view: newFakeView("Dashboard")}).load)
	r, err := New("/app", routes, WithHistory(h))
	if err != nil {
		t.Fatal(err)
	}
	stop, err := r.Start(context.Background())
	defer stop()
	if !errors.Is(err, ErrNoMatchingRoute) {
		t.Errorf("Start() error = %v, want ErrNoMatchingRoute", err)
	}
}

func TestStartWithoutHistory(t *testing.T) {
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load)
	stop, err := r.Start(context.Background())
	stop()
	if !errors.Is(err, ErrNoHistory) {
		t.Errorf("Start() error = %v, want ErrNoHistory", err)
	}
}

func TestPopErrorsReachErrorHandler(t *testing.T) {
	boom := errors.New("cdn down")
	h := history.NewMemory("/")
	h.Push("/dashboard")
	h.Back()

	errs := make(chan error, 4)
	r, _, _ := newAppRouter(t, (&countingLoader{err: boom}).load,
		WithHistory(h),
		WithErrorHandler(func(err error) { errs <- err }),
	)
	stop, err := r.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stop()

	h.Forward()
	if err := waitNav(t, errs); !errors.Is(err, ErrModuleLoad) || !errors.Is(err, boom) {
		t.Errorf("handler error = %v, want ErrModuleLoad wrapping %v", err, boom)
	}
	if got := r.Active().Name(); got != "transactions" {
		t.Errorf("Active() = %q, want transactions", got)
	}
}

func TestMiddlewareOrderAndAbort(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
			order = append(order, name+":"+nav.RouteName())
			return next()
		})
	}
	denied := errors.New("settings locked")
	guard := Only(func(nav *Navigation) bool { return nav.RouteName() == "settings" },
		MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
			return denied
		}))

	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load,
		WithMiddleware(Chain(record("a"), record("b")), guard))
	ctx := context.Background()

	if _, err := r.Navigate(ctx, "/"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Navigate(ctx, "/settings"); !errors.Is(err, denied) {
		t.Fatalf("error = %v, want %v", err, denied)
	}
	if got := r.Active().Name(); got != "transactions" {
		t.Errorf("Active() = %q, want transactions", got)
	}

	want := []string{"a:transactions", "b:transactions", "a:settings", "b:settings"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestMiddlewareSilentAbort(t *testing.T) {
	swallow := MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		if nav.RouteName() == "Dashboard" {
			_ = next()
		}
		return nil
	})
	boom := errors.New("chunk 404")
	dash := &countingLoader{view: newFakeView("Dashboard"), err: boom}
	r, _, _ := newAppRouter(t, dash.load, WithMiddleware(swallow))
	ctx := context.Background()

	if _, err := r.Navigate(ctx, "/settings"); !errors.Is(err, ErrNavigationAborted) {
		t.Fatalf("Navigate(/settings) error = %v, want ErrNavigationAborted", err)
	}
	if r.Active() != nil || r.Location() != "" {
		t.Errorf("aborted navigation committed: Active() = %v, Location() = %q", r.Active(), r.Location())
	}

	if _, err := r.Navigate(ctx, "/dashboard"); !errors.Is(err, ErrModuleLoad) || !errors.Is(err, boom) {
		t.Errorf("Navigate(/dashboard) error = %v, want ErrModuleLoad wrapping %v", err, boom)
	}
	if _, err := r.Navigate(ctx, "/nowhere"); !errors.Is(err, ErrNavigationAborted) {
		t.Errorf("Navigate(/nowhere) error = %v, want ErrNavigationAborted", err)
	}
}

func TestNavigateEmptyKeepsQuery(t *testing.T) {
	h := history.NewMemory("/")
	r, _, _ := newAppRouter(t, (&countingLoader{view: newFakeView("Dashboard")}).load, WithHistory(h))
	ctx := context.Background()

	if _, err := r.Navigate(ctx, "/dashboard?range=30d"); err != nil {
		t.Fatal(err)
	}
	nav, err := r.Navigate(ctx, "")
	if err != nil {
		t.Fatalf("Navigate(\"\") error = %v", err)
	}
	if nav.To != "/dashboard?range=30d" || r.Location() != "/dashboard?range=30d" {
		t.Errorf("Navigate(\"\") to %q, location %q, want /dashboard?range=30d", nav.To, r.Location())
	}
	if got := r.Active().Query.Get("range"); got != "30d" {
		t.Errorf("range = %q, want 30d", got)
	}
	if n := h.Len(); n != 2 {
		t.Errorf("history length = %d, want 2", n)
	}
}
