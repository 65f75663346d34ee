// Command patternscan builds Aho-Corasick pattern sets and scans text with them.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlmjohnson/versioninfo"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"PatternScan/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(versioninfo.Short())); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "patternscan",
		Short:         "Multi-pattern text scanning",
		Long:          "Build Aho-Corasick automata from pattern sets and report every occurrence in text.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: json or text")

	cmd.AddCommand(
		newScanCmd(opts),
		newContainsCmd(),
		newSetsCmd(),
		newAddCmd(),
		newServeCmd(opts),
	)
	return cmd
}

// logging merges the flags over cfg and validates the result.
func (o *rootOptions) logging(cfg config.Logging) (config.Logging, error) {
	if o.logLevel != "" {
		cfg.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(cfg config.Logging, w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}
