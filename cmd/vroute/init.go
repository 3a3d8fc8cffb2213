package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
)

func initCmd(g *globalFlags) *cobra.Command {
	var (
		name    string
		source  string
		dir     string
		bucket  string
		port    int
		metrics bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a vroute.json",
		Long: `Write a vroute.json into the directory (default: the working directory).

An existing file is left alone unless --force is given, in which case
the flags that were set are applied to it and the rest is kept.

Examples:
  vroute init --base /app
  vroute init site --modules-source s3 --bucket views
  vroute init --force --port 3000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			out := cmd.OutOrStdout()
			flags := cmd.Flags()

			var cfg *config.Config
			exists := config.Exists(target)
			switch {
			case exists && !force:
				return errors.New("E500").
					WithLocation(filepath.Join(target, config.ConfigFileName), 0, 0).
					WithDetail("vroute.json already exists.").
					WithSuggestion("Pass --force to update it.")
			case exists:
				loaded, err := config.Load(target)
				if err != nil {
					return err
				}
				cfg = loaded
			default:
				cfg = config.New()
				abs, err := filepath.Abs(target)
				if err != nil {
					return errors.New("E500").Wrap(err)
				}
				cfg.Name = filepath.Base(abs)
			}

			if flags.Changed("name") {
				cfg.Name = name
			}
			if flags.Changed("base") {
				cfg.Base = g.base
			}
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("metrics") {
				cfg.Metrics = metrics
			}
			if flags.Changed("modules-source") {
				cfg.Modules.Source = source
			}
			if flags.Changed("modules-dir") {
				cfg.Modules.Dir = dir
			}
			if flags.Changed("bucket") {
				cfg.Modules.S3.Bucket = bucket
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if exists {
				if err := cfg.Save(); err != nil {
					return err
				}
				success(out, "Updated %s", cfg.Path())
				return nil
			}
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.New("E500").Wrap(err)
			}
			path := filepath.Join(target, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(out, "Created %s", path)
			info(out, "Run %s to start the server", fmt.Sprintf("vroute serve --config %s", target))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Application name (default: directory name)")
	f.StringVar(&source, "modules-source", config.SourceEmbed, "Module source: embed, fs or s3")
	f.StringVar(&dir, "modules-dir", "", "Module directory for the fs source")
	f.StringVar(&bucket, "bucket", "", "S3 bucket for the s3 source")
	f.IntVarP(&port, "port", "p", config.DefaultPort, "Server port")
	f.BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics")
	f.BoolVar(&force, "force", false, "Update an existing vroute.json")

	return cmd
}
