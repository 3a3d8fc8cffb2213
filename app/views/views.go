// Package views holds the app's view templates. Transactions and settings
// are compiled at startup; the dashboard is a module fetched on first visit,
// either from the embedded copy in Modules or from an S3 bucket.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/vango-dev/vroute/pkg/modules"
	"github.com/vango-dev/vroute/pkg/router"
)

// ModuleExt is the file extension of module templates.
const ModuleExt = ".tmpl"

//go:embed templates/*.tmpl
var templates embed.FS

//go:embed modules/*.tmpl
var moduleFiles embed.FS

// Modules returns the embedded module sources, one file per module id.
func Modules() fs.FS {
	sub, err := fs.Sub(moduleFiles, "modules")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs returns the template functions available to every view.
func Funcs(links *router.Links) template.FuncMap {
	return links.Funcs()
}

// TransactionFilter is the transactions view's query state.
type TransactionFilter struct {
	Account string `query:"account"`
	Page    int    `query:"page"`
}

// Transactions compiles the transactions view.
func Transactions(links *router.Links) (*modules.TemplateView, error) {
	v, err := page("transactions", links)
	if err != nil {
		return nil, err
	}
	return v.WithBinding(func() any { return &TransactionFilter{Page: 1} }), nil
}

// Settings compiles the settings view.
func Settings(links *router.Links) (*modules.TemplateView, error) {
	return page("settings", links)
}

// Compiler compiles fetched module templates with the view functions.
func Compiler(links *router.Links) modules.Compiler {
	return modules.TemplateCompiler(Funcs(links))
}

// page joins the shared nav with the named page template.
func page(name string, links *router.Links) (*modules.TemplateView, error) {
	nav, err := templates.ReadFile("templates/nav.tmpl")
	if err != nil {
		return nil, err
	}
	body, err := templates.ReadFile(fmt.Sprintf("templates/%s.tmpl", name))
	if err != nil {
		return nil, err
	}
	src := append(append(nav, '\n'), body...)
	return modules.NewTemplateView(name, src, Funcs(links))
}
