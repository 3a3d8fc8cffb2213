package server

// Client message types.
const (
	ClientNavigate = "navigate"
	ClientPopstate = "popstate"
	ClientPrefetch = "prefetch"
)

// Server message types, in addition to the history.Message types.
const (
	MessageRender = "render"
	MessageError  = "error"
)

// Error codes carried by error messages.
const (
	CodeNotFound     = "not_found"
	CodeUnknownRoute = "unknown_route"
	CodeModuleLoad   = "module_load"
	CodeBadMessage   = "bad_message"
	CodeInternal     = "internal"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`

	// Path is the navigation target for "navigate" (an app path, relative
	// paths allowed) and the browser location for "popstate".
	Path string `json:"path,omitempty"`

	// Replace selects replace mode for "navigate".
	Replace bool `json:"replace,omitempty"`

	// Route names the route to prefetch.
	Route string `json:"route,omitempty"`
}

// RenderMessage carries the active view's output after a navigation.
type RenderMessage struct {
	Type  string `json:"type"`
	Route string `json:"route"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	HTML  string `json:"html"`
}

// ErrorMessage reports a failed navigation.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
