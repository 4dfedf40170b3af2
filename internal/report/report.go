// Package report writes the optional per-transaction reconciliation report
// produced after a successful run.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/csv-firefly/internal/config"
	"fjacquet/csv-firefly/internal/importer"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Row is one line of the report CSV.
type Row struct {
	Date        string `csv:"Date"`
	Type        string `csv:"Type"`
	Amount      string `csv:"Amount"`
	Description string `csv:"Description"`
	ExternalID  string `csv:"ExternalId"`
	Outcome     string `csv:"Outcome"`
}

// Write renders the run's records to a CSV file, one row per processed
// transaction in processing order.
func Write(records []importer.Record, csvFile string) error {
	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(records),
	}).Info("Writing reconciliation report")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, Row{
			Date:        record.Tx.ISODate(),
			Type:        string(record.Tx.Type),
			Amount:      record.Tx.Amount.String(),
			Description: record.Tx.Description,
			ExternalID:  record.Tx.ExternalID,
			Outcome:     string(record.Outcome),
		})
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing report CSV: %w", err)
	}
	return nil
}
