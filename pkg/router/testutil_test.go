package router

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// fakeView renders its name and counts unmounts.
type fakeView struct {
	name     string
	unmounts atomic.Int32
}

func newFakeView(name string) *fakeView {
	return &fakeView{name: name}
}

func (v *fakeView) Name() string { return v.name }

func (v *fakeView) Render(w io.Writer, m *Match) error {
	_, err := fmt.Fprintf(w, "<%s path=%q>", v.name, m.Path)
	return err
}

func (v *fakeView) Unmount() { v.unmounts.Add(1) }

// gatedLoader is a Loader whose fetches block until released.
type gatedLoader struct {
	view    View
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32

	mu  sync.Mutex
	err error
}

func newGatedLoader(v View) *gatedLoader {
	return &gatedLoader{
		view:    v,
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (g *gatedLoader) load(ctx context.Context) (View, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.view, nil
}

// countingLoader returns v immediately and counts calls.
type countingLoader struct {
	view  View
	calls atomic.Int32
	err   error
}

func (c *countingLoader) load(ctx context.Context) (View, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.view, nil
}

// appRoutes mirrors the shipped route table with test doubles.
func appRoutes(dashboard Loader) ([]Route, *fakeView, *fakeView) {
	transactions := newFakeView("transactions")
	settings := newFakeView("settings")
	return []Route{
		{Path: "/", Name: "transactions", View: transactions},
		{Path: "/settings", Name: "settings", View: settings},
		{Path: "/dashboard", Name: "Dashboard", Load: dashboard},
	}, transactions, settings
}
