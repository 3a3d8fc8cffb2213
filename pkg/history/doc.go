// Package history provides history adapters for the router.
//
// Memory keeps a session history stack in process, for tests, server-side
// rendering and headless use. Remote mirrors a browser's history over a
// message channel such as a WebSocket: the router's pushes and replaces
// are sent to the browser, and the browser's back/forward moves are fed
// back with Popstate.
package history
