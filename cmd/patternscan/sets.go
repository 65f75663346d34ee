package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"PatternScan/internal/analysis"
	"PatternScan/internal/config"
	"PatternScan/internal/patternset"
)

func newSetsCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Build and summarize every pattern set in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := patternset.LoadDefinitions(dir)
			if err != nil {
				return err
			}
			reg := analysis.NewRegistry()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tANALYZER\tPATTERNS\tSKIPPED\tSTATES\tDESCRIPTION")
			for _, def := range defs {
				set, err := patternset.Build(def, reg)
				if err != nil {
					return err
				}
				info := set.Info()
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
					info.Name, info.Analyzer, info.Patterns, info.Skipped, info.States, info.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", config.DefaultSetsDir, "directory of pattern-set definitions")
	return cmd
}

func newAddCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "add pattern...",
		Short: "Append patterns to a pattern-set definition",
		Long:  "Append patterns to a pattern-set definition, creating it if needed. The file is rewritten atomically.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("required flag(s) \"file\" not set")
			}
			added, err := patternset.AddPatterns(file, args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d pattern(s) to %s\n", added, file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "definition file to update (required)")
	return cmd
}
