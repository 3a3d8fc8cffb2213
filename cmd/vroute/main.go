package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┬─┐┌─┐┬ ┬┌┬┐┌─┐
  ╚╗╔╝├┬┘│ ││ │ │ ├┤
   ╚╝ ┴└─└─┘└─┘ ┴ └─┘
`

// globalFlags are shared by every command.
type globalFlags struct {
	config      string
	envFiles    []string
	base        string
	logLevel    string
	noColor     bool
	errorFormat string
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		format, _ := cmd.PersistentFlags().GetString("error-format")
		f, ferr := errors.ParseOutputFormat(format)
		if ferr != nil {
			f = errors.OutputText
		}
		errors.PrintError(err, f)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vroute",
		Short: "Serve and inspect a single-page app's route table",
		Long: `vroute hosts a single-page application's route table.

Pages are rendered on the server for history-mode URLs and kept in
sync with the browser over a WebSocket:

  • Named routes with push and replace navigation
  • Deferred views fetched once, from disk, embed or S3
  • Last navigation wins while views load
  • Base URL prefix for apps served under a sub-path`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			}
			_, err := errors.ParseOutputFormat(g.errorFormat)
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.config, "config", "c", "", "Path to vroute.json or its directory (default: search from working directory)")
	flags.StringSliceVar(&g.envFiles, "env-file", nil, "Environment files to load (default: .env if present)")
	flags.StringVar(&g.base, "base", "", "Base URL prefix (overrides vroute.json and BASE_URL)")
	flags.StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored error output (also NO_COLOR)")
	flags.StringVar(&g.errorFormat, "error-format", "text", "Error output: text, compact or json")

	rootCmd.AddCommand(
		serveCmd(g),
		routesCmd(g),
		resolveCmd(g),
		matchCmd(g),
		initCmd(g),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads vroute.json, overlays the environment and the --base
// flag, and validates the result. Without a config file the defaults
// are used.
func loadConfig(cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	if err := config.LoadEnv(g.envFiles...); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	switch {
	case g.config == "":
		cfg, err = config.LoadFromWorkingDir()
		if errors.CodeOf(err) == "E100" {
			cfg, err = config.New(), nil
		}
	case strings.HasSuffix(g.config, ".json"):
		cfg, err = config.LoadFile(g.config)
	default:
		cfg, err = config.Load(g.config)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("base") {
		cfg.Base = g.base
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a text logger writing to w at the given level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.New("E500").
			Wrap(err).
			WithSuggestion("Use one of debug, info, warn or error")
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// printBanner prints the vroute ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
