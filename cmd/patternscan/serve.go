package main

import (
	"fmt"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/cobra"

	"PatternScan/internal/analysis"
	"PatternScan/internal/config"
	"PatternScan/internal/metrics"
	"PatternScan/internal/patternset"
	"PatternScan/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pattern sets over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Logging, err = root.logging(cfg.Logging); err != nil {
				return err
			}
			logger := newLogger(cfg.Logging, os.Stdout)

			logger.Info("starting patternscan",
				"version", versioninfo.Short(),
				"addr", cfg.Server.Address,
				"sets_dir", cfg.Sets.Dir,
				"link_mode", cfg.Sets.LinkMode,
				"config", configPath,
			)

			m := metrics.New()
			mgr, err := patternset.NewManager(cfg.Sets.Dir, analysis.NewRegistry(), m, logger,
				patternset.WithLinkMode(cfg.Sets.Mode()),
				patternset.WithDefaultAnalyzer(cfg.Sets.DefaultAnalyzer),
			)
			if err != nil {
				return fmt.Errorf("failed to initialize pattern sets: %w", err)
			}

			mux := server.NewMux(mgr, m, logger, cfg.Server, versioninfo.Short())
			return server.Serve(cmd.Context(), cfg.Server, mux, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	return cmd
}
