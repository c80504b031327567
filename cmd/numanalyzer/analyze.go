package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/numanalyzer/internal/config"
	"github.com/JonMunkholm/numanalyzer/internal/core"
	"github.com/JonMunkholm/numanalyzer/internal/metrics"
	"github.com/JonMunkholm/numanalyzer/internal/report"
	"github.com/spf13/cobra"
)

// analyzeOptions holds the analysis flags. Only flags the user set
// override the loaded configuration.
type analyzeOptions struct {
	input       string
	delimiter   string
	column      string
	columnIndex int
	threshold   int64
	min         int64
	max         int64
	outDir      string
	encoding    string
	quiet       bool
	metricsFile string
}

func newAnalyzeCmd(g *globalOptions, stdout io.Writer) *cobra.Command {
	a := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a CSV file and write reports (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, a, stdout)
		},
	}
	addAnalyzeFlags(cmd, a)
	return cmd
}

func addAnalyzeFlags(cmd *cobra.Command, a *analyzeOptions) {
	f := cmd.Flags()
	f.StringVar(&a.input, "input", "data.csv", "input CSV file")
	f.StringVar(&a.delimiter, "delimiter", ";", `field delimiter ("\t" or "tab" for a tab)`)
	f.StringVar(&a.column, "column", "value", "name of the column containing numeric values")
	f.IntVar(&a.columnIndex, "column-index", 0, "1-based column position; overrides --column when > 0")
	f.Int64Var(&a.threshold, "threshold", 25, "threshold for categorization (values <= threshold are low)")
	f.Int64Var(&a.min, "min", 1, "minimum allowed value")
	f.Int64Var(&a.max, "max", 100, "maximum allowed value")
	f.StringVar(&a.outDir, "outdir", "outputs", "output directory")
	f.StringVar(&a.encoding, "encoding", "utf-8", "input encoding (utf-8, utf-16, latin1, windows-1252, ...)")
	f.BoolVarP(&a.quiet, "quiet", "q", false, "do not print the summary")
	f.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
}

// overrides maps the flags that were set on cmd onto the configuration.
func (a *analyzeOptions) overrides(cmd *cobra.Command) config.Override {
	changed := cmd.Flags().Changed
	return func(c *config.Config) {
		ac := &c.Analysis
		if changed("input") {
			ac.Input = a.input
		}
		if changed("delimiter") {
			ac.Delimiter = a.delimiter
		}
		if changed("column") {
			ac.Column = a.column
		}
		if changed("column-index") {
			ac.ColumnIndex = a.columnIndex
		}
		if changed("threshold") {
			ac.Threshold = a.threshold
		}
		if changed("min") {
			ac.Min = a.min
		}
		if changed("max") {
			ac.Max = a.max
		}
		if changed("outdir") {
			ac.OutDir = a.outDir
		}
		if changed("encoding") {
			ac.Encoding = a.encoding
		}
	}
}

func runAnalyze(cmd *cobra.Command, g *globalOptions, a *analyzeOptions, stdout io.Writer) error {
	cfg, err := loadConfig(g, os.Stderr, a.overrides(cmd))
	if err != nil {
		return err
	}

	settings, err := cfg.Analysis.Settings()
	if err != nil {
		return err
	}

	result, err := core.AnalyzeFile(cmd.Context(), cfg.Analysis.Input, settings)
	if err != nil {
		metrics.ObserveFailure()
		a.flushMetrics()
		return err
	}
	metrics.ObserveAnalysis(result)

	styles := report.NewStyles(stdout)
	if !a.quiet {
		if err := report.WriteConsole(stdout, result, styles); err != nil {
			return err
		}
	}

	paths, err := report.WriteAll(cfg.Analysis.OutDir, result, settings.Delimiter)
	if err != nil {
		return err
	}

	if !a.quiet {
		if err := report.WriteSaved(stdout, paths, styles); err != nil {
			return err
		}
	}

	a.flushMetrics()
	return nil
}

// flushMetrics writes the metrics file if one was requested. Failures are
// logged and never fail the run.
func (a *analyzeOptions) flushMetrics() {
	if a.metricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.metricsFile); err != nil {
		slog.Warn("write metrics file", "path", a.metricsFile, "error", err)
	}
}
