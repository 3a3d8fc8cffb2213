// Package router maps navigation paths to views for a single-page
// application and keeps a history adapter in step with the active route.
//
// A Router is built from a base prefix and an ordered route table:
//
//	r, err := router.New("/app", []router.Route{
//	    {Path: "/", Name: "transactions", View: views.Transactions()},
//	    {Path: "/settings", Name: "settings", View: views.Settings()},
//	    {Path: "/dashboard", Name: "Dashboard", Load: router.Lazy(modules, "dashboard")},
//	}, router.WithHistory(history.NewMemory("/app/")))
//
// # Matching
//
// Paths are canonicalized (see routepath) and compared against the table in
// order; the first route whose pattern matches wins. Patterns are static
// segments, optionally with ":name" parameters and a trailing "*rest"
// catch-all. A path nothing matches yields ErrNoMatchingRoute and leaves the
// active view in place.
//
// # Views
//
// A route either carries a View directly or a Loader that fetches it on
// first use. A fetched view is cached on the route table and reused by
// later navigations; concurrent navigations share one in-flight fetch.
//
// # Parameters
//
// Match.Bind copies path parameters and query values into a tagged struct.
//
// # Ordering
//
// Every navigation takes a generation number when it is issued. A
// navigation that waited on a fetch only commits if no later navigation
// was issued meanwhile; otherwise it returns ErrNavigationSuperseded and
// the later target wins.
package router
