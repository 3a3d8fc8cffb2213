package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/app"
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
)

func routesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List the route table in match order.

Deferred routes are listed without fetching their views.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(cmd, g)
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), r)
		},
	}
}

func printRoutes(w io.Writer, r *router.Router) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tHREF\tVIEW\tTITLE")
	for _, rt := range r.Routes() {
		loading := "eager"
		if rt.Deferred() {
			loading = "deferred"
		}
		href := routepath.JoinBase(r.Base(), rt.Path)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rt.Name, rt.Path, href, loading, rt.Meta["title"])
	}
	return tw.Flush()
}

// loadRouter builds a router over the app's table with an in-memory
// history positioned at the base.
func loadRouter(cmd *cobra.Command, g *globalFlags) (*router.Router, error) {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel)
	if err != nil {
		return nil, err
	}
	source, err := moduleSource(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	table, err := app.NewTable(app.Options{
		Base:   cfg.Base,
		Source: source,
		Logger: logger,
	})
	if err != nil {
		return nil, errors.FromRouting(err)
	}
	base, err := routepath.NormalizeBase(cfg.Base)
	if err != nil {
		return nil, errors.New("E104").Wrap(err)
	}
	return router.NewWithTable(base, table,
		router.WithHistory(history.NewMemory(routepath.JoinBase(base, "/"))),
		router.WithLogger(logger),
	)
}
