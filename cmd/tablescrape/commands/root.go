package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"tablescrape/lib/pipeline"
	"tablescrape/lib/spreadsheet"
	"tablescrape/lib/telemetry"
	"tablescrape/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	tel telemetry.Telemetry
)

// per-run overrides, only applied when the flag was given explicitly
var overrides pipeline.Config

var rootCmd = &cobra.Command{
	Use:   "tablescrape",
	Short: "tablescrape fetches a statistics page and exports one of its tables to a spreadsheet.",
	Long: `tablescrape fetches a statistics page and exports one of its tables to a spreadsheet.

Without a subcommand it runs "export". Settings come from tablescrape.json5
(and tablescrape.local.json5) when present, flags take precedence.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "tablescrape")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("telemetry.json5 not found, telemetry disabled")
		} else if err != nil {
			slog.Warn("failed to set up telemetry", "err", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry(cmd.Context())
	},
	Run: func(cmd *cobra.Command, args []string) {
		runExport(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tablescrape.json5", "The config file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information to stderr.")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&overrides.URL, "url", pipeline.DefaultURL, "The page to fetch.")
	flags.StringVar(&overrides.TableClass, "class", pipeline.DefaultTableClass, "The class of the table to extract.")
	flags.StringVarP(&overrides.OutputPath, "out", "o", pipeline.DefaultOutputPath, "The file to write, .xlsx or .csv.")
	flags.StringVar(&overrides.SheetName, "sheet", spreadsheet.DefaultSheetName, "The name of the sheet in the workbook.")
	flags.BoolVar(&overrides.NoHeader, "no-header", false, "Treat the first row as data instead of column labels.")
	flags.StringVar(&overrides.UserAgent, "user-agent", "", "Override the browser User-Agent sent with the request.")
	flags.IntVar(&overrides.Timeout, "timeout", 0, "Request timeout in seconds, 0 waits indefinitely.")
	flags.BoolVar(&overrides.CloudflareBypass, "cloudflare", false, "Send the request with a browser-like TLS fingerprint and headers.")
	flags.StringVar(&overrides.DumpDir, "dump-dir", "", "Write raw HTTP messages to this directory when --verbose is set.")
}

func shutdownTelemetry(ctx context.Context) {
	err := tel.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
	tel = telemetry.Telemetry{}
}

// fatal flushes telemetry before exiting, os.Exit skips deferred calls.
func fatal(cmd *cobra.Command, message string, err error) {
	shutdownTelemetry(cmd.Context())
	serviceutil.Fatal(message, err)
}

// loadConfig merges defaults, the config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) pipeline.Config {
	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		fatal(cmd, "failed to read config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = overrides.URL
	}
	if flags.Changed("class") {
		cfg.TableClass = overrides.TableClass
	}
	if flags.Changed("out") {
		cfg.OutputPath = overrides.OutputPath
	}
	if flags.Changed("sheet") {
		cfg.SheetName = overrides.SheetName
	}
	if flags.Changed("no-header") {
		cfg.NoHeader = overrides.NoHeader
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = overrides.UserAgent
	}
	if flags.Changed("timeout") {
		cfg.Timeout = overrides.Timeout
	}
	if flags.Changed("cloudflare") {
		cfg.CloudflareBypass = overrides.CloudflareBypass
	}
	if flags.Changed("dump-dir") {
		cfg.DumpDir = overrides.DumpDir
	}

	slog.Debug(
		"configuration",
		"url", cfg.URL,
		"table_class", cfg.TableClass,
		"output_path", cfg.OutputPath,
		"no_header", cfg.NoHeader,
	)
	return cfg
}

func newPipeline(cmd *cobra.Command) *pipeline.Pipeline {
	p, err := pipeline.New(loadConfig(cmd), cmd.OutOrStdout())
	if err != nil {
		fatal(cmd, "failed to set up pipeline", err)
	}
	return p
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
