// Package middleware provides navigation middleware for vroute routers.
//
// This package includes:
//   - OpenTelemetry tracing of navigations
//   - Prometheus metrics for navigations and view module loads
//   - Structured logging of navigations
//
// # OpenTelemetry Middleware
//
// One span is started per navigation. The span carries the navigation id,
// mode, target path and matched route, and is handed to the view fetch
// through the navigation's context so module loaders can create child
// spans.
//
//	r, err := router.New(base, routes,
//	    router.WithMiddleware(
//	        middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	    ),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - vroute_navigations_total: navigations by route, mode and status
//   - vroute_navigation_duration_seconds: navigation duration by route
//   - vroute_navigation_errors_total: failed navigations by error type
//
// Wrapping a ModuleLoader with InstrumentModules adds:
//   - vroute_module_loads_total: module loads by module and status
//   - vroute_module_load_duration_seconds: module load duration
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	table, err := app.NewTable(app.Options{
//	    Base:        base,
//	    WrapModules: m.InstrumentModules,
//	})
//	r, err := router.NewWithTable(base, table, router.WithMiddleware(m.Middleware()))
package middleware
