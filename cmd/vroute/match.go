package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/router"
)

func matchCmd(g *globalFlags) *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Show which route an app path matches",
		Long: `Show which route an app path (without the base prefix) matches.

With --render the router navigates to the path, fetching a deferred
view if needed, and prints the rendered view.

Examples:
  vroute match /settings
  vroute match "/dashboard?range=90d" --render`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(cmd, g)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !render {
				m, err := r.Match(args[0])
				if err != nil {
					return errors.FromRouting(err)
				}
				printMatch(out, m)
				return nil
			}

			if _, err := r.Navigate(cmd.Context(), args[0], router.WithReplace()); err != nil {
				return errors.FromRouting(err)
			}
			return r.Render(out)
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Navigate to the path and print the rendered view")

	return cmd
}

func printMatch(w io.Writer, m *router.Match) {
	fmt.Fprintf(w, "route:  %s\n", m.Name())
	fmt.Fprintf(w, "path:   %s\n", m.Path)
	if m.Route.Deferred() {
		fmt.Fprintln(w, "view:   deferred")
	} else {
		fmt.Fprintln(w, "view:   eager")
	}
	for _, k := range sortedKeys(m.Params) {
		fmt.Fprintf(w, "param:  %s=%s\n", k, m.Params[k])
	}
	if len(m.Query) > 0 {
		fmt.Fprintf(w, "query:  %s\n", m.Query.Encode())
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
