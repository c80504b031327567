package main

import (
	"io"
	"log/slog"

	"github.com/JonMunkholm/numanalyzer/internal/config"
	"github.com/JonMunkholm/numanalyzer/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by all commands.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand performs an analysis.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{}
	a := &analyzeOptions{}

	root := &cobra.Command{
		Use:   "numanalyzer",
		Short: "Validate and categorize numbers from a CSV file",
		Long: `numanalyzer reads one numeric column from a delimited file, rejects rows
that are empty, not positive integers or out of range, splits the valid
values into low (<= threshold) and high (> threshold) and writes:

  report.txt        human-readable summary
  report_long.csv   value,category,threshold per valid number
  invalid_rows.csv  line_no,raw_value,reason per rejected row

Configuration is read from defaults, an optional YAML file (--config or
NUMANALYZER_CONFIG), the environment (a .env file is loaded if present)
and finally the command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, a, stdout)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "YAML config file (default: $NUMANALYZER_CONFIG)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (default: info)")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: text or json (default: text)")

	addAnalyzeFlags(root, a)

	root.AddCommand(newAnalyzeCmd(g, stdout))
	root.AddCommand(newServeCmd(g))

	return root
}

// loadConfig loads .env, then the configuration with the given overrides,
// and configures logging to logTo.
func loadConfig(g *globalOptions, logTo io.Writer, overrides ...config.Override) (*config.Config, error) {
	envErr := godotenv.Load()

	overrides = append(overrides, func(c *config.Config) {
		if g.logLevel != "" {
			c.Logging.Level = g.logLevel
		}
		if g.logFormat != "" {
			c.Logging.Format = g.logFormat
		}
	})

	cfg, err := config.Load(g.configFile, overrides...)
	if err != nil {
		return nil, err
	}

	logging.Setup(logTo, cfg.Logging.Level, cfg.Logging.Format)
	if envErr == nil {
		slog.Debug("loaded .env file")
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	return cfg, nil
}
