package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/app"
	"github.com/vango-dev/vroute/app/views"
	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/middleware"
	"github.com/vango-dev/vroute/pkg/modules"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/server"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		port    int
		host    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the app",
		Long: `Serve the app's pages and the browser WebSocket.

Configuration is read from vroute.json, then from the environment
(a .env file is loaded first), then from flags.

Examples:
  vroute serve
  vroute serve --port=9090 --base=/app
  VROUTE_MODULES_SOURCE=s3 VROUTE_MODULES_BUCKET=views vroute serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics = metrics
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel)
			if err != nil {
				return err
			}

			srv, err := buildServer(cmd.Context(), cfg, logger, prometheus.NewRegistry())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printBanner(out)
			success(out, "Serving %s on http://%s%s/", displayName(cfg), cfg.Address(), srv.Base())
			info(out, "Modules: %s", cfg.Modules.Source)
			if cfg.Metrics {
				info(out, "Metrics: http://%s/metrics", cfg.Address())
			}
			fmt.Fprintln(out)

			if err := srv.Run(cmd.Context()); err != nil {
				return errors.New("E400").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from vroute.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default: all interfaces)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics on /metrics")

	return cmd
}

// buildServer wires the app table, the module source, navigation
// middleware and metrics into a server.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*server.Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	source, err := moduleSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.NavigationTimeoutDuration()
	if err != nil {
		return nil, errors.New("E107").Wrap(err)
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := middleware.NewMetrics(middleware.WithRegistry(reg))

	table, err := app.NewTable(app.Options{
		Base:        cfg.Base,
		Source:      source,
		WrapModules: m.InstrumentModules,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.FromRouting(err)
	}

	return server.New(table, &server.Config{
		Address:           cfg.Address(),
		Base:              cfg.Base,
		Metrics:           cfg.Metrics,
		NavigationTimeout: timeout,
	},
		server.WithLogger(logger),
		server.WithGatherer(reg),
		server.WithRouterOptions(router.WithMiddleware(
			middleware.OpenTelemetry(),
			m.Middleware(),
			middleware.Logging(logger),
		)),
	)
}

// moduleSource returns the configured source of deferred view modules.
// nil selects the embedded copies.
func moduleSource(ctx context.Context, cfg *config.Config) (modules.Source, error) {
	switch cfg.Modules.Source {
	case config.SourceFS:
		dir := cfg.ModulesDir()
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.New("E301").Wrap(err).
				WithSuggestion("Check modules.dir in vroute.json or VROUTE_MODULES_DIR")
		}
		return modules.NewFSSource(os.DirFS(dir), views.ModuleExt), nil
	case config.SourceS3:
		s3cfg := cfg.Modules.S3
		client, err := modules.NewS3Client(ctx, modules.S3Config{
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
		})
		if err != nil {
			return nil, errors.New("E301").Wrap(err)
		}
		return modules.NewS3Source(client, s3cfg.Bucket, s3cfg.Prefix, views.ModuleExt), nil
	default:
		return nil, nil
	}
}

func displayName(cfg *config.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return "app"
}
