package modules

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"sync/atomic"

	"github.com/vango-dev/vroute/pkg/router"
)

// TemplateView is a view rendered from an html/template.
type TemplateView struct {
	name     string
	tmpl     *template.Template
	bind     func() any
	unmounts atomic.Int32
}

// TemplateData is passed to the template on every render.
type TemplateData struct {
	Route  string
	Path   string
	Params map[string]string
	Query  url.Values
	Meta   map[string]string

	// Bound holds the match bound into the view's binding target, if any.
	Bound any
}

// NewTemplateView parses src into a view named name.
func NewTemplateView(name string, src []byte, funcs template.FuncMap) (*TemplateView, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &TemplateView{name: name, tmpl: tmpl}, nil
}

// TemplateCompiler returns a Compiler producing TemplateViews.
func TemplateCompiler(funcs template.FuncMap) Compiler {
	return func(id string, src []byte) (router.View, error) {
		return NewTemplateView(id, src, funcs)
	}
}

// WithBinding makes every render bind the match into a fresh value from
// newTarget (see router.Match.Bind) and expose it as .Bound. A value that
// does not bind fails the render.
func (v *TemplateView) WithBinding(newTarget func() any) *TemplateView {
	v.bind = newTarget
	return v
}

// Name implements router.View.
func (v *TemplateView) Name() string {
	return v.name
}

// Render implements router.View. Output is buffered so a failed execution
// writes nothing.
func (v *TemplateView) Render(w io.Writer, m *router.Match) error {
	data := TemplateData{Route: v.name}
	if m != nil {
		data = TemplateData{
			Route:  m.Name(),
			Path:   m.Path,
			Params: m.Params,
			Query:  m.Query,
			Meta:   m.Route.Meta,
		}
	}
	if v.bind != nil {
		data.Bound = v.bind()
		if err := m.Bind(data.Bound); err != nil {
			return fmt.Errorf("render %s: %w", v.name, err)
		}
	}
	var buf bytes.Buffer
	if err := v.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", v.name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Unmount implements router.View.
func (v *TemplateView) Unmount() {
	v.unmounts.Add(1)
}

// Unmounts reports how many times the view has been unmounted.
func (v *TemplateView) Unmounts() int {
	return int(v.unmounts.Load())
}
