// Package cli implements the tock command line interface.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "0.1.0-dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tock",
	Short: "A cron expression engine and job scheduler",
	Long: `Tock schedules recurring jobs from six-field cron expressions
(second minute hour day-of-month month day-of-week), with last-day-of-month
support, @-aliases, one-shot timestamps, run limits, time windows, and
overlap protection.

Evaluate an expression:
  tock next "0 30 9 * * MON-FRI"

Run the daemon against a jobs manifest:
  tock serve --manifest jobs.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: tock.yaml in ., $HOME/.config/tock or /etc/tock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// setupLogging configures zerolog based on verbosity.
func setupLogging() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}
