package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/vroute/pkg/router"
)

type stubView struct{ name string }

func (v stubView) Name() string { return v.name }

func (v stubView) Render(w io.Writer, m *router.Match) error {
	_, err := fmt.Fprintf(w, "<main>%s %s</main>", v.name, html.EscapeString(m.Path))
	return err
}

func (stubView) Unmount() {}

var errFetch = errors.New("fetch failed")

// testTable mirrors the shipped routes. The dashboard loader blocks until
// gate is closed when gate is non-nil; "/reports" always fails to load.
func testTable(t *testing.T, gate chan struct{}) *router.Table {
	t.Helper()
	table, err := router.NewTable([]router.Route{
		{Path: "/", Name: "transactions", View: stubView{"transactions"}, Meta: map[string]string{"title": "Transactions"}},
		{Path: "/settings", Name: "settings", View: stubView{"settings"}},
		{Path: "/dashboard", Name: "Dashboard", Load: func(ctx context.Context) (router.View, error) {
			if gate != nil {
				<-gate
			}
			return stubView{"dashboard"}, nil
		}},
		{Path: "/reports", Name: "reports", Load: func(ctx context.Context) (router.View, error) {
			return nil, errFetch
		}},
	})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func newTestServer(t *testing.T, config *Config, gate chan struct{}, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	s, err := New(testTable(t, gate), config, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}
