package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DDMAL/CantusDB-sub000/internal/adapter/diagmetrics"
	"github.com/DDMAL/CantusDB-sub000/internal/app"
	"github.com/DDMAL/CantusDB-sub000/internal/app/batch"
)

func syllabifyCmd(opts *app.Options) *cobra.Command {
	var pre bool

	cmd := &cobra.Command{
		Use:   "syllabify [text...]",
		Short: "Print the text with syllable boundaries",
		Example: `  chantalign syllabify "Sanctus sanctus sanctus"
  chantalign syllabify --pre-syllabified "Sanc-tus al-le-lu-ia"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*opts)
			if err != nil {
				return err
			}
			out, err := a.Engine.SyllabizeTextContext(cmd.Context(), strings.Join(args, " "), pre)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pre, "pre-syllabified", false, "text already carries hyphenated syllable boundaries")
	return cmd
}

func alignCmd(opts *app.Options) *cobra.Command {
	var (
		text     string
		melody   string
		pre      bool
		indented bool
	)

	cmd := &cobra.Command{
		Use:     "align",
		Short:   "Print the text/melody alignment as JSON",
		Example: `  chantalign align --text "mar{tirum et} sancti" --volpiano "1---g--h---6------6---g--h--f---4"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(*opts)
			if err != nil {
				return err
			}
			result, err := a.Engine.AlignContext(cmd.Context(), text, pre, melody, a.DiagSink().WithContext(cmd.Context()))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			if indented {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "chant text")
	cmd.Flags().StringVar(&melody, "volpiano", "", "volpiano melody")
	cmd.Flags().BoolVar(&pre, "pre-syllabified", false, "text already carries hyphenated syllable boundaries")
	cmd.Flags().BoolVar(&indented, "indent", false, "indent the JSON output")
	return cmd
}

func batchCmd(opts *app.Options) *cobra.Command {
	var (
		in          string
		out         string
		format      string
		workers     int
		metricsPath string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Align every chant of a CSV or JSONL file",
		Long: `batch reads chants (id, text, pre_syllabified, volpiano) from a CSV file
with a header row or from a JSONL file, aligns them concurrently, and writes
one JSON result per chant, in input order.`,
		Example: `  chantalign batch --in chants.csv --out results.jsonl --workers 8 --metrics chantalign.prom`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(*opts)
			if err != nil {
				return err
			}
			cfg := a.Config.Batch
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("metrics") {
				cfg.MetricsPath = metricsPath
			}
			checked := *a.Config
			checked.Batch = cfg
			if err := checked.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = checked.Batch

			chants, err := batch.ReadFile(in, cfg.Format)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			metrics := diagmetrics.New()
			p := batch.NewPipeline(a.Log, a.Engine, metrics, batch.Config{
				Workers:      cfg.Workers,
				ChantTimeout: cfg.ChantTimeout,
			})
			stats, err := p.Run(cmd.Context(), chants, w)
			if err != nil {
				return err
			}

			counts, err := metrics.WarningCounts()
			if err != nil {
				return err
			}
			for _, kind := range slices.Sorted(maps.Keys(counts)) {
				a.Log.Info("warnings by kind", slog.String("kind", kind), slog.Int("count", int(counts[kind])))
			}

			if cfg.MetricsPath != "" {
				if err := metrics.WriteFile(cfg.MetricsPath); err != nil {
					return err
				}
				a.Log.Info("metrics written", slog.String("path", cfg.MetricsPath))
			}

			if strict && stats.HasErrors() {
				return fmt.Errorf("%d of %d chants failed", stats.Failed, stats.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "input file (.csv, .jsonl)")
	cmd.Flags().StringVar(&out, "out", "", "output JSONL file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "input format: csv or jsonl (default by extension)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (default batch.workers)")
	cmd.Flags().StringVar(&metricsPath, "metrics", "", "write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any chant fails")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
