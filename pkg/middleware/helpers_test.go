package middleware

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/vango-dev/vroute/pkg/router"
)

type stubView struct{ name string }

func (v stubView) Name() string { return v.name }

func (v stubView) Render(w io.Writer, m *router.Match) error {
	_, err := fmt.Fprintf(w, "<%s>", v.name)
	return err
}

func (stubView) Unmount() {}

// stubModules serves module ids from a map; unknown ids fail.
type stubModules map[string]router.View

func (s stubModules) LoadModule(ctx context.Context, id string) (router.View, error) {
	v, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("module %q not found", id)
	}
	return v, nil
}

func newTestRouter(t *testing.T, load router.Loader, mw ...router.Middleware) *router.Router {
	t.Helper()
	r, err := router.New("/", []router.Route{
		{Path: "/", Name: "transactions", View: stubView{"transactions"}},
		{Path: "/settings", Name: "settings", View: stubView{"settings"}},
		{Path: "/dashboard", Name: "dashboard", Load: load},
	}, router.WithMiddleware(mw...))
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}
	return r
}
