// Package app declares the application's route table.
package app

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/vroute/app/views"
	"github.com/vango-dev/vroute/pkg/modules"
	"github.com/vango-dev/vroute/pkg/router"
)

// Route names.
const (
	Transactions = "transactions"
	Settings     = "settings"
	Dashboard    = "Dashboard"
)

// DashboardModule is the module id of the deferred dashboard view.
const DashboardModule = "dashboard"

// Routes returns the route table. Transactions and settings are compiled
// up front; the dashboard is fetched from ml on first visit.
func Routes(links *router.Links, ml router.ModuleLoader) ([]router.Route, error) {
	transactions, err := views.Transactions(links)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	settings, err := views.Settings(links)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return []router.Route{
		{Path: "/", Name: Transactions, View: transactions, Meta: map[string]string{"title": "Transactions"}},
		{Path: "/settings", Name: Settings, View: settings, Meta: map[string]string{"title": "Settings"}},
		{Path: "/dashboard", Name: Dashboard, Load: router.Lazy(ml, DashboardModule), Meta: map[string]string{"title": "Dashboard"}},
	}, nil
}

// NewRegistry returns a module registry that serves the app's deferred
// views from source.
func NewRegistry(source modules.Source, links *router.Links, logger *slog.Logger) *modules.Registry {
	if logger == nil {
		logger = slog.Default()
	}
	reg := modules.NewRegistry(source, modules.WithLogger(logger))
	reg.Register(DashboardModule, views.Compiler(links))
	return reg
}

// Options configures NewTable.
type Options struct {
	// Base is the URL prefix links are built with.
	Base string

	// Source serves module templates. Default: the embedded copies.
	Source modules.Source

	// WrapModules decorates the module loader, e.g. with metrics.
	WrapModules func(router.ModuleLoader) router.ModuleLoader

	Logger *slog.Logger
}

// NewTable assembles the app: views, module registry and route table.
func NewTable(o Options) (*router.Table, error) {
	links, err := router.NewLinks(o.Base)
	if err != nil {
		return nil, err
	}
	source := o.Source
	if source == nil {
		source = modules.NewFSSource(views.Modules(), views.ModuleExt)
	}
	var ml router.ModuleLoader = NewRegistry(source, links, o.Logger)
	if o.WrapModules != nil {
		ml = o.WrapModules(ml)
	}
	routes, err := Routes(links, ml)
	if err != nil {
		return nil, err
	}
	table, err := router.NewTable(routes)
	if err != nil {
		return nil, err
	}
	links.Bind(table)
	return table, nil
}
