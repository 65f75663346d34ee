package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"PatternScan/internal/analysis"
	"PatternScan/internal/automaton"
	"PatternScan/internal/config"
	"PatternScan/internal/patternset"
)

var errNotContained = errors.New("word is not a pattern")

// setFlags selects where an ad-hoc pattern set comes from.
type setFlags struct {
	patterns     []string
	patternFiles []string
	setFile      string
	analyzer     string
	linkMode     string
}

func (f *setFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.patterns, "pattern", "p", nil, "pattern to match (repeatable)")
	cmd.Flags().StringArrayVarP(&f.patternFiles, "patterns-file", "f", nil, "file with one pattern per line (repeatable)")
	cmd.Flags().StringVarP(&f.setFile, "set", "s", "", "pattern-set definition file (TOML)")
	cmd.Flags().StringVarP(&f.analyzer, "analyzer", "a", "", "analyzer: rune, byte, standard, whitespace, keyword")
	cmd.Flags().StringVar(&f.linkMode, "link-mode", "", "failure-link rule: chain-walk or single-hop")
}

func (f *setFlags) build() (*patternset.Set, error) {
	def := &patternset.Definition{Name: "cli"}
	if f.setFile != "" {
		loaded, err := patternset.LoadDefinition(f.setFile)
		if err != nil {
			return nil, fmt.Errorf("load set: %w", err)
		}
		def = loaded
	}
	def.Patterns = append(def.Patterns, f.patterns...)
	for _, pf := range f.patternFiles {
		// Flag paths are relative to the working directory, not the set file.
		abs, err := filepath.Abs(pf)
		if err != nil {
			return nil, err
		}
		def.PatternFiles = append(def.PatternFiles, abs)
	}
	if f.analyzer != "" {
		def.Analyzer = f.analyzer
	}
	if len(def.Patterns) == 0 && len(def.PatternFiles) == 0 {
		return nil, errors.New("required flag(s) \"pattern\", \"patterns-file\" or \"set\" not set")
	}

	mode, err := automaton.ParseLinkMode(f.linkMode)
	if err != nil {
		return nil, err
	}
	return patternset.Build(def, analysis.NewRegistry(), patternset.WithLinkMode(mode))
}

func newScanCmd(root *rootOptions) *cobra.Command {
	var (
		flags    setFlags
		jsonOut  bool
		countOut bool
	)
	cmd := &cobra.Command{
		Use:   "scan [text...]",
		Short: "Report every pattern occurrence in text",
		Long: `Report every pattern occurrence in the given text arguments, or in each
line of stdin when no text is given. Each hit is printed as

  line:start-end<TAB>pattern

where start and end are byte offsets within the line, end exclusive.`,
		Example: `  patternscan scan -p he -p she -p his -p hers ushers
  patternscan scan --set sets/words.toml < corpus.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lcfg, err := root.logging(config.DefaultConfig().Logging)
			if err != nil {
				return err
			}
			logger := newLogger(lcfg, cmd.ErrOrStderr())

			set, err := flags.build()
			if err != nil {
				return err
			}
			info := set.Info()
			logger.Debug("pattern set built", "patterns", info.Patterns, "states", info.States, "skipped", info.Skipped)

			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()

			total := 0
			scanLine := func(lineNo int, text string) error {
				hits, err := set.Scan(text)
				if err != nil {
					return err
				}
				total += len(hits)
				if countOut {
					return nil
				}
				return writeHits(out, lineNo, hits, jsonOut)
			}

			if len(args) > 0 {
				if err := scanLine(1, strings.Join(args, " ")); err != nil {
					return err
				}
			} else if err := eachLine(cmd.InOrStdin(), scanLine); err != nil {
				return err
			}

			if countOut {
				fmt.Fprintln(out, total)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print hits as JSON lines")
	cmd.Flags().BoolVarP(&countOut, "count", "c", false, "print only the number of hits")
	return cmd
}

func eachLine(r io.Reader, fn func(lineNo int, text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; sc.Scan(); n++ {
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

func writeHits(w io.Writer, lineNo int, hits []patternset.Hit, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, h := range hits {
			rec := struct {
				Line int `json:"line"`
				patternset.Hit
			}{lineNo, h}
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	}
	for _, h := range hits {
		if _, err := fmt.Fprintf(w, "%d:%d-%d\t%s\n", lineNo, h.Start, h.End, h.Pattern); err != nil {
			return err
		}
	}
	return nil
}

func newContainsCmd() *cobra.Command {
	var flags setFlags
	cmd := &cobra.Command{
		Use:   "contains word",
		Short: "Check whether a word is exactly one of the patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := flags.build()
			if err != nil {
				return err
			}
			ok := set.Contains(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			if !ok {
				return errNotContained
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
