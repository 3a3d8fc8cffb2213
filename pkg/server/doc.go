// Package server hosts a vroute route table over HTTP.
//
// The server plays two roles:
//
//   - History-mode fallback: any GET under the base prefix is navigated
//     server-side and the active view is rendered into a page shell, so
//     deep links and reloads work. Unmatched paths get a 404 page.
//   - History adapter: a WebSocket at {base}/_vroute/ws keeps one Router
//     per browser in step with the browser's session history. The bundled
//     client (served at {base}/_vroute/client.js) sends navigate, popstate
//     and prefetch messages; the server answers with history operations
//     (push, replace, go), rendered views and errors.
//
// # Wire Protocol
//
// Messages are JSON objects with a "type" field:
//
//	→ {"type":"navigate","path":"/settings","replace":false}
//	→ {"type":"popstate","path":"/app/dashboard"}
//	→ {"type":"prefetch","route":"Dashboard"}
//	← {"type":"push","url":"/app/settings"}
//	← {"type":"render","route":"settings","url":"/app/settings","html":"..."}
//	← {"type":"error","code":"not_found","message":"..."}
//
// # Integration
//
//	srv, err := server.New(table, &server.Config{Base: "/app", Metrics: true},
//	    server.WithRouterOptions(router.WithMiddleware(metrics.Middleware())),
//	)
//	http.ListenAndServe(":8080", srv.Handler())
package server
