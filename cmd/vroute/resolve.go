package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/errors"
)

func resolveCmd(g *globalFlags) *cobra.Command {
	var appPath bool

	cmd := &cobra.Command{
		Use:   "resolve <name> [key=value...]",
		Short: "Print the URL of a named route",
		Long: `Print the URL of a named route, base prefix included.

Parameters fill the route's :name segments; extra parameters are ignored.

Examples:
  vroute resolve Dashboard
  vroute resolve settings --base=/app
  vroute resolve transactions --path`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			r, err := loadRouter(cmd, g)
			if err != nil {
				return err
			}

			resolve := r.Href
			if appPath {
				resolve = r.Resolve
			}
			url, err := resolve(args[0], params)
			if err != nil {
				return errors.FromRouting(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().BoolVar(&appPath, "path", false, "Print the app path without the base prefix")

	return cmd
}

// parseParams parses key=value arguments.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, errors.New("E500").
				WithDetail(fmt.Sprintf("Parameter %q is not of the form key=value.", arg)).
				WithExample("vroute resolve account id=42")
		}
		params[k] = v
	}
	return params, nil
}
