package router

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/vroute/pkg/routepath"
)

// ErrLinksUnbound is returned by Links before Bind has been called.
var ErrLinksUnbound = errors.New("links not bound to a route table")

// Links builds hrefs to named routes for views. Views are compiled before
// the table that holds them exists, so Links is created first and bound
// to the table afterwards.
type Links struct {
	base  string
	table atomic.Pointer[Table]
}

// NewLinks returns unbound links for the given base prefix.
func NewLinks(base string) (*Links, error) {
	nb, err := routepath.NormalizeBase(base)
	if err != nil {
		return nil, fmt.Errorf("links: base %q: %w", base, err)
	}
	return &Links{base: nb}, nil
}

// Bind attaches the route table.
func (l *Links) Bind(t *Table) {
	l.table.Store(t)
}

// Path returns the app path of the named route. Parameters are given as
// key/value pairs.
func (l *Links) Path(name string, kv ...string) (string, error) {
	t := l.table.Load()
	if t == nil {
		return "", ErrLinksUnbound
	}
	if len(kv)%2 != 0 {
		return "", fmt.Errorf("links: odd number of parameter arguments for %q", name)
	}
	params := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return t.Resolve(name, params)
}

// Href returns the browser location of the named route, base included.
func (l *Links) Href(name string, kv ...string) (string, error) {
	p, err := l.Path(name, kv...)
	if err != nil {
		return "", err
	}
	return routepath.JoinBase(l.base, p), nil
}

// Anchor renders a link the browser client intercepts for client-side
// navigation. Without the client it is a plain link to the page.
func (l *Links) Anchor(name, text string, kv ...string) (template.HTML, error) {
	return l.anchor(name, text, false, kv)
}

// PrefetchAnchor is Anchor plus a hint to fetch the route's view on hover.
func (l *Links) PrefetchAnchor(name, text string, kv ...string) (template.HTML, error) {
	return l.anchor(name, text, true, kv)
}

func (l *Links) anchor(name, text string, prefetch bool, kv []string) (template.HTML, error) {
	p, err := l.Path(name, kv...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(template.HTMLEscapeString(routepath.JoinBase(l.base, p)))
	b.WriteString(`" data-route="`)
	b.WriteString(template.HTMLEscapeString(p))
	b.WriteString(`"`)
	if prefetch {
		b.WriteString(` data-prefetch="`)
		b.WriteString(template.HTMLEscapeString(name))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	b.WriteString(template.HTMLEscapeString(text))
	b.WriteString(`</a>`)
	return template.HTML(b.String()), nil
}

// Funcs exposes the links to templates as href, path, link and
// prefetchLink.
func (l *Links) Funcs() template.FuncMap {
	return template.FuncMap{
		"href":         l.Href,
		"path":         l.Path,
		"link":         l.Anchor,
		"prefetchLink": l.PrefetchAnchor,
	}
}
