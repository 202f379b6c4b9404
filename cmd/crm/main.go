// Package main implements crm, the claude-resource-manager CLI: an
// interactive catalog browser plus non-interactive search/install/deps
// subcommands.
//
// This file is the entry point and command registration hub; individual
// subcommands live in their own cmd_*.go files.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/catalog"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/config"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/installer"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/metrics"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/resolver"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/telemetry"
)

var (
	flagCatalog     string
	flagInstallRoot string
	flagConfigPath  string
	flagNoColor     bool
	flagVerbose     bool
	flagQuiet       bool
	flagMetricsAddr string

	logger  *zap.Logger
	fileLog *telemetry.FileSink
	appCfg  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "crm",
	Short: "Interactive catalog manager for Claude Code resources",
	Long: `crm browses, searches, and installs curated Claude Code resources
(agents, commands, hooks, templates, mcps) from a local catalog.

Run without a subcommand to launch the interactive browser.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appCfg, err = config.Load(flagConfigPath)
		if err != nil {
			return err
		}
		if flagCatalog != "" {
			appCfg.Catalog = flagCatalog
		}
		if flagInstallRoot != "" {
			appCfg.InstallRoot = flagInstallRoot
		}
		if flagNoColor {
			appCfg.UI.NoColor = true
		}
		model.SetAllowedContentHosts(appCfg.Content.AllowedHosts)
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			// Redirected output (pipes, CI logs): never emit escape codes
			// the reader can't render.
			appCfg.UI.NoColor = true
		}
		color.NoColor = appCfg.UI.NoColor

		logger, err = telemetry.NewLogger(flagVerbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		fileLog = telemetry.NewFileSink(appCfg.InstallRoot, appCfg.Logging.DebugMode || flagVerbose)

		if flagMetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
			go func() {
				if err := http.ListenAndServe(flagMetricsAddr, mux); err != nil {
					logger.Sugar().Warnf("metrics server stopped: %v", err)
				}
			}()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		if fileLog != nil {
			fileLog.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd, args)
	},
}

func newLoader() *catalog.Loader {
	return catalog.NewLoader(appCfg.Catalog, catalog.WithLogSink(fileLog))
}

func newResolver(l *catalog.Loader) *resolver.Resolver {
	return resolver.New(l, appCfg.Resolver.MaxDepth)
}

func newInstaller() *installer.Installer {
	return installer.New(appCfg.InstallRoot, appCfg.Installer, nil, fileLog)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "catalog root directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagInstallRoot, "install-root", "", "install root directory (default ~/.claude)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to crm.yaml config file")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose/debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address (e.g. :9090); disabled by default")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(installCmdCobra)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(crmerr.ExitCode(err))
	}
}
