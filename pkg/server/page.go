package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
)

var shell = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="vroute-root" data-route="{{.Route}}">{{.Body}}</div>
<script src="{{.Client}}" data-socket="{{.Socket}}" defer></script>
</body>
</html>
`))

type shellData struct {
	Title  string
	Route  string
	Body   template.HTML
	Client string
	Socket string
}

// HandlePage renders the view for a history-mode URL. Non-canonical paths
// are redirected; unmatched paths get a 404 page and failed module loads
// a 502.
func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	input := r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		input += "?" + r.URL.RawQuery
	}
	canon, err := routepath.Canonicalize(input)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	if canon.Changed {
		// 308 keeps the method, unlike 301.
		http.Redirect(w, r, canon.String(), http.StatusPermanentRedirect)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.NavigationTimeout)
	defer cancel()

	rt, err := s.newRouter(history.NewMemory(canon.String()))
	if err != nil {
		s.logger.Error("router setup failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	stop, err := rt.Start(ctx)
	stop()
	if err != nil {
		status, title := pageStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Warn("page render failed", "path", canon.Path, "error", err)
		}
		s.renderError(w, status, title)
		return
	}

	var body bytes.Buffer
	if err := rt.Render(&body); err != nil {
		if errors.Is(err, router.ErrInvalidParam) {
			s.renderError(w, http.StatusBadRequest, "Bad Request")
			return
		}
		s.logger.Error("view render failed", "path", canon.Path, "error", err)
		s.renderError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	m := rt.Active()
	s.writeShell(w, http.StatusOK, shellData{
		Title: pageTitle(m),
		Route: m.Name(),
		Body:  template.HTML(body.String()),
	})
}

// pageStatus maps a navigation error to an HTTP status and page title.
func pageStatus(err error) (int, string) {
	switch {
	case errors.Is(err, router.ErrNoMatchingRoute):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, router.ErrModuleLoad):
		return http.StatusBadGateway, "Bad Gateway"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Gateway Timeout"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func pageTitle(m *router.Match) string {
	if t := m.Route.Meta["title"]; t != "" {
		return t
	}
	return m.Name()
}

func (s *Server) renderError(w http.ResponseWriter, status int, title string) {
	s.writeShell(w, status, shellData{
		Title: title,
		Body:  template.HTML("<h1>" + template.HTMLEscapeString(title) + "</h1>"),
	})
}

func (s *Server) writeShell(w http.ResponseWriter, status int, data shellData) {
	data.Client = routepath.JoinBase(s.base, ClientPath)
	data.Socket = routepath.JoinBase(s.base, SocketPath)

	var buf bytes.Buffer
	if err := shell.Execute(&buf, data); err != nil {
		s.logger.Error("shell render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
