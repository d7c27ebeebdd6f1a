package main

import (
	"fmt"
	"os"

	"github.com/creamcroissant/nebula/internal/config"
	"github.com/spf13/cobra"
)

// Build info - injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:   "nebula",
	Short: "Nebula static file server",
	Long: `Nebula serves files from a single content root over a minimal HTTP/1.1 subset.
Running it without a subcommand is the same as "nebula serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "Path to the TOML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "console", "Log format (console, text, json)")
	addServeFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
