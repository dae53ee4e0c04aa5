package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/history"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/scanner"
	"github.com/openkraft/jsonkraft/internal/adapters/outbound/tui"
	"github.com/openkraft/jsonkraft/internal/application"
	"github.com/openkraft/jsonkraft/internal/domain"
)

type analyzeFlags struct {
	schemaFile  string
	schemaID    string
	jsonOutput  bool
	ciMode      bool
	minScore    int
	showHistory bool
	noCache     bool
	badge       bool
	audit       bool
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [files|dirs...]",
		Short: "Score JSON documents",
		Long:  "Analyze JSON files, directories of JSON files, or stdin (no argument or \"-\") and print a 0-100 quality score with issues and recommendations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			dir, err := opts.projectDir()
			if err != nil {
				return err
			}
			hist := history.New()

			if f.showHistory {
				entries, err := hist.Load(dir)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}

			schemaDoc, err := loadSchema(opts, f)
			if err != nil {
				return err
			}
			analyzer, err := opts.analyzeService(cfg, !f.noCache)
			if err != nil {
				return err
			}

			var results []domain.FileResult
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				name, text, err := readInput(cmd, nil)
				if err != nil {
					return err
				}
				r, err := analyzer.Analyze(cmd.Context(), text, schemaDoc)
				if err != nil {
					return fmt.Errorf("analyzing %s: %w", name, err)
				}
				results = []domain.FileResult{{File: name, Result: r}}
			} else {
				paths, err := scanner.New(cfg.ExcludeDirs...).Scan(args...)
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					return errors.New("no JSON files found")
				}
				results = application.NewBatchService(analyzer, cfg.Workers).AnalyzeFiles(cmd.Context(), paths, schemaDoc)
				recordHistory(opts, hist, dir, results)
			}

			if err := renderResults(cmd, f, results); err != nil {
				return err
			}

			minScore := cfg.MinScore
			if cmd.Flags().Changed("min") {
				minScore = f.minScore
			}
			if f.ciMode {
				return checkMinimum(results, minScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.schemaFile, "schema", "", "Validate against a JSON Schema file")
	cmd.Flags().StringVar(&f.schemaID, "schema-id", "", "Validate against a registered schema (id or name)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&f.ciMode, "ci", false, "CI mode: exit 1 if any score is below --min")
	cmd.Flags().IntVar(&f.minScore, "min", 0, "Minimum score for CI mode (defaults to min_score from config)")
	cmd.Flags().BoolVar(&f.showHistory, "history", false, "Show score history")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Bypass the result cache")
	cmd.Flags().BoolVar(&f.badge, "badge", false, "Output shields.io badge URL")
	cmd.Flags().BoolVar(&f.audit, "audit", false, "Show the deduction audit trail")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-id")

	return cmd
}

func loadSchema(opts *rootOptions, f analyzeFlags) ([]byte, error) {
	switch {
	case f.schemaFile != "":
		data, err := os.ReadFile(f.schemaFile)
		if err != nil {
			return nil, fmt.Errorf("reading schema: %w", err)
		}
		return data, nil
	case f.schemaID != "":
		reg, err := opts.registry()
		if err != nil {
			return nil, err
		}
		rec, doc, err := reg.Get(f.schemaID)
		if err != nil {
			return nil, err
		}
		opts.logger.Debug("using registered schema", "name", rec.Name, "version", rec.Version)
		return doc, nil
	}
	return nil, nil
}

// recordHistory appends one entry per analyzed file. Failures are logged,
// never fatal.
func recordHistory(opts *rootOptions, hist domain.ScoreHistory, dir string, results []domain.FileResult) {
	gi := gitinfo.New()
	now := time.Now().Format(time.RFC3339)
	for _, fr := range results {
		if fr.Result == nil {
			continue
		}
		entry := domain.ScoreEntry{
			Timestamp: now,
			File:      fr.File,
			Score:     fr.Result.Score(),
			Tier:      fr.Result.ScoreBreakdown.Tier,
		}
		if hash, err := gi.CommitHash(fr.File); err == nil {
			entry.CommitHash = hash
		}
		if err := hist.Save(dir, entry); err != nil {
			opts.logger.Warn("saving history failed", "file", fr.File, "err", err)
			return
		}
	}
}

func renderResults(cmd *cobra.Command, f analyzeFlags, results []domain.FileResult) error {
	out := cmd.OutOrStdout()

	switch {
	case f.jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if len(results) == 1 && results[0].Result != nil {
			return enc.Encode(results[0].Result)
		}
		return enc.Encode(results)
	case f.badge:
		score := averageScore(results)
		fmt.Fprintf(out, "https://img.shields.io/badge/jsonkraft-%d%%2F100-%s\n", score, domain.BadgeColor(score))
		return nil
	}

	if len(results) == 1 && results[0].Result != nil {
		fmt.Fprint(out, tui.RenderResult(results[0].File, results[0].Result))
	} else {
		table, err := tui.RenderBatch(results)
		if err != nil {
			return err
		}
		fmt.Fprint(out, table)
	}

	if f.audit {
		for _, fr := range results {
			if fr.Result == nil {
				continue
			}
			trail, err := tui.RenderAudit(fr.Result.ScoreBreakdown)
			if err != nil {
				return err
			}
			if len(results) > 1 {
				fmt.Fprintf(out, "\n  %s\n", fr.File)
			}
			fmt.Fprint(out, trail)
		}
	}
	return nil
}

func averageScore(results []domain.FileResult) int {
	total, n := 0, 0
	for _, fr := range results {
		if fr.Result != nil {
			total += fr.Result.Score()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / n
}

func checkMinimum(results []domain.FileResult, minScore int) error {
	for _, fr := range results {
		if fr.Err != nil {
			return fmt.Errorf("%s could not be analyzed: %w", fr.File, fr.Err)
		}
		if s := fr.Result.Score(); s < minScore {
			return fmt.Errorf("%s: score %d is below minimum %d", fr.File, s, minScore)
		}
	}
	return nil
}
