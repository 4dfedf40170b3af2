// Package load handles the CSV import command
package load

import (
	"fmt"

	"fjacquet/csv-firefly/cmd/root"
	"fjacquet/csv-firefly/internal/config"
	"fjacquet/csv-firefly/internal/firefly"
	"fjacquet/csv-firefly/internal/importer"
	"fjacquet/csv-firefly/internal/report"

	"github.com/spf13/cobra"
)

var (
	csvFile     string
	profileFile string
	reportFile  string
)

// Cmd represents the load command
var Cmd = &cobra.Command{
	Use:   "load",
	Short: "Import a statement CSV file into the ledger",
	Long: `Import a bank-statement CSV file into Firefly III using an import
profile that maps the file's columns and transfer descriptions.`,
	Run: loadFunc,
}

func loadFunc(cmd *cobra.Command, args []string) {
	root.Log.Infof("Input file: %s", csvFile)
	root.Log.Infof("Profile: %s", profileFile)

	appConfig, err := config.InitializeConfig()
	if err != nil {
		root.Log.Fatalf("Error loading configuration: %v", err)
	}
	if err := config.ValidateFireflyConfig(appConfig); err != nil {
		root.Log.Fatalf("Error loading configuration: %v", err)
	}

	profile, err := config.LoadProfile(profileFile)
	if err != nil {
		root.Log.Fatalf("Error loading import profile: %v", err)
	}

	client := firefly.NewClient(appConfig.Firefly.BaseURL, appConfig.Firefly.AccessToken)
	imp, err := importer.New(client, profile, root.Log)
	if err != nil {
		root.Log.Fatalf("Error connecting to ledger: %v", err)
	}

	result, err := imp.Run(csvFile)
	if err != nil {
		root.Log.Fatalf("Import failed: %v", err)
	}

	if reportFile != "" {
		if err := report.Write(result.Records, reportFile); err != nil {
			root.Log.Fatalf("Error writing report: %v", err)
		}
	}

	fmt.Printf("Created %d transactions\n", result.Created)
	fmt.Printf("Skipped %d transactions\n", result.Skipped)
	fmt.Printf("Transfers matched: %d\n", result.TransfersMatched)
}

func init() {
	Cmd.Flags().StringVarP(&csvFile, "csv", "i", "", "Input statement CSV file (required)")
	Cmd.Flags().StringVarP(&profileFile, "profile", "p", "", "Import profile file, JSON5 or YAML (required)")
	Cmd.Flags().StringVarP(&reportFile, "report", "r", "", "Optional reconciliation report CSV to write")
	_ = Cmd.MarkFlagRequired("csv")
	_ = Cmd.MarkFlagRequired("profile")
}
