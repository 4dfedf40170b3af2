// Package root contains the root command for the application
package root

import (
	"fjacquet/csv-firefly/internal/config"
	"fjacquet/csv-firefly/internal/csvparser"
	"fjacquet/csv-firefly/internal/firefly"
	"fjacquet/csv-firefly/internal/report"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "csv-firefly",
		Short: "Reconcile bank-statement CSV exports against a Firefly III ledger.",
		Long: `csv-firefly imports bank-statement CSV files into Firefly III, creating
only the transactions that are genuinely new and matching the two legs of
internal transfers between your own accounts so they are not double-counted.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			csvparser.SetLogger(Log)
			firefly.SetLogger(Log)
			report.SetLogger(Log)
		},
	}
)
