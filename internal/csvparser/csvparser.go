// Package csvparser reads bank-statement CSV exports and normalizes their
// rows into canonical transactions according to an import profile.
package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fjacquet/csv-firefly/internal/config"
	"fjacquet/csv-firefly/internal/models"
	"fjacquet/csv-firefly/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// checkColumn is the optional column whose non-empty value is appended to
// the description. It participates in identity generation, so the append
// happens before the external id is computed.
const checkColumn = "Check"

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Entry is one normalized statement row together with the context the
// importer needs beyond the transaction itself.
type Entry struct {
	Tx models.Transaction

	// RawDescription is the description before check-number augmentation;
	// transfer classification matches against it.
	RawDescription string

	// Disambiguator is the extra identity-generation input resolved from
	// the profile's additional_uid_column; empty when none is configured.
	Disambiguator string

	// Index is the row's original position in the file, counted from the
	// first data row. Entries are emitted newest-file-position-first, but
	// Index always refers to file order.
	Index int
}

// ParseFile reads a statement CSV file and returns its rows as normalized
// entries in reverse file order (last row first).
func ParseFile(path string, profile *config.Profile) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	log.WithField("file", path).Info("Parsing statement CSV file")
	return Parse(file, profile)
}

// Parse reads statement rows from a reader. Any unparseable date or amount
// aborts the whole import; there is no row-skipping.
func Parse(r io.Reader, profile *config.Profile) ([]Entry, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	if err := requireColumns(columns, profile); err != nil {
		return nil, err
	}

	var entries []Entry
	for i := 0; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		amount, err := resolveAmount(field, profile, i)
		if err != nil {
			return nil, err
		}

		dateValue := field(profile.DateColumn)
		date, err := time.Parse(profile.DateFormat, dateValue)
		if err != nil {
			return nil, &parsererror.ParseError{
				Row: i, Field: profile.DateColumn, Value: dateValue, Err: err,
			}
		}

		rawDescription := field(profile.DescriptionColumn)
		description := rawDescription
		if check := field(checkColumn); check != "" {
			description += check
		}

		entry := Entry{
			Tx: models.Transaction{
				Date:        date,
				Description: description,
				Amount:      amount,
				Account:     profile.Account,
				Type:        models.TypeFromAmount(amount),
			},
			RawDescription: rawDescription,
			Index:          i,
		}

		switch profile.AdditionalUIDColumn {
		case "":
		case config.OrdinalUIDColumn:
			entry.Disambiguator = strconv.Itoa(i)
		default:
			entry.Disambiguator = field(profile.AdditionalUIDColumn)
		}

		entries = append(entries, entry)
	}

	// Rows are handed to the importer from last to first, while each entry
	// keeps its original file position for ordinal disambiguation.
	for left, right := 0, len(entries)-1; left < right; left, right = left+1, right-1 {
		entries[left], entries[right] = entries[right], entries[left]
	}

	log.WithField("count", len(entries)).Info("Normalized statement rows")
	return entries, nil
}

// requireColumns checks that every column the profile names exists in the
// header, so missing mappings surface before any row is parsed.
func requireColumns(columns map[string]int, profile *config.Profile) error {
	names := []string{profile.DescriptionColumn, profile.DateColumn}
	if profile.UseSingleAmountColumn() {
		names = append(names, profile.AmountColumn)
	} else {
		names = append(names, profile.CreditColumn, profile.DebitColumn)
	}
	if uid := profile.AdditionalUIDColumn; uid != "" && uid != config.OrdinalUIDColumn {
		names = append(names, uid)
	}

	for _, name := range names {
		if _, ok := columns[name]; !ok {
			return &parsererror.ConfigError{
				Field:  name,
				Reason: "column not present in CSV header",
			}
		}
	}
	return nil
}

// resolveAmount applies the profile's amount scheme: a single signed column
// (optionally inverted), or a credit/debit pair where an empty credit cell
// marks the row as a debit.
func resolveAmount(field func(string) string, profile *config.Profile, row int) (decimal.Decimal, error) {
	if profile.UseSingleAmountColumn() {
		value := field(profile.AmountColumn)
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, &parsererror.ParseError{
				Row: row, Field: profile.AmountColumn, Value: value, Err: err,
			}
		}
		if profile.InvertAmount {
			amount = amount.Neg()
		}
		return amount, nil
	}

	if credit := field(profile.CreditColumn); credit != "" {
		amount, err := decimal.NewFromString(credit)
		if err != nil {
			return decimal.Zero, &parsererror.ParseError{
				Row: row, Field: profile.CreditColumn, Value: credit, Err: err,
			}
		}
		return amount, nil
	}

	debit := field(profile.DebitColumn)
	amount, err := decimal.NewFromString(debit)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Row: row, Field: profile.DebitColumn, Value: debit, Err: err,
		}
	}
	return amount.Neg(), nil
}
