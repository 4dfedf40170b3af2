package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/csv-firefly/internal/parsererror"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// OrdinalUIDColumn is the sentinel value for AdditionalUIDColumn meaning
// "use the row's original position in the file as the disambiguator", for
// statement exports that carry no natural unique key.
const OrdinalUIDColumn = "idx"

// Profile is the import policy for one CSV source. It is loaded once per
// run and treated as immutable for the run's duration.
type Profile struct {
	Account string `json:"account" yaml:"account"`

	DescriptionColumn string `json:"description_column" yaml:"description_column"`
	DateColumn        string `json:"date_column" yaml:"date_column"`
	DateFormat        string `json:"date_format" yaml:"date_format"`

	// Either AmountColumn alone, or CreditColumn and DebitColumn together.
	AmountColumn string `json:"amount_column" yaml:"amount_column"`
	InvertAmount bool   `json:"invert_amount" yaml:"invert_amount"`
	CreditColumn string `json:"credit_column" yaml:"credit_column"`
	DebitColumn  string `json:"debit_column" yaml:"debit_column"`

	AdditionalUIDColumn string `json:"additional_uid_column" yaml:"additional_uid_column"`

	// DateWindowDays widens transfer-date matching to ± this many days;
	// nil means the two legs must carry the exact same date.
	DateWindowDays *int `json:"date_window_days" yaml:"date_window_days"`

	// TransfersOut maps a statement description to the destination account
	// of an outbound transfer; TransfersIn maps a description to the source
	// account of an inbound one.
	TransfersOut map[string]string `json:"transfers_out" yaml:"transfers_out"`
	TransfersIn  map[string]string `json:"transfers_in" yaml:"transfers_in"`
}

// UseSingleAmountColumn reports whether amounts come from one signed column
// rather than the credit/debit pair.
func (p *Profile) UseSingleAmountColumn() bool {
	return p.AmountColumn != ""
}

// LoadProfile reads an import profile from a JSON5 document, or from YAML
// when the file name ends in .yaml or .yml, and validates it.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}

	var profile Profile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &profile)
	default:
		err = json5.Unmarshal(data, &profile)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing profile file %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate enforces the required fields and the amount-column scheme:
// exactly one of the single signed column or the credit/debit pair must be
// fully specified.
func (p *Profile) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"account", p.Account},
		{"description_column", p.DescriptionColumn},
		{"date_column", p.DateColumn},
		{"date_format", p.DateFormat},
	}
	for _, r := range required {
		if r.value == "" {
			return &parsererror.ConfigError{Field: r.name, Reason: "required field is missing"}
		}
	}

	hasPair := p.CreditColumn != "" || p.DebitColumn != ""
	switch {
	case p.AmountColumn == "" && !hasPair:
		return &parsererror.ConfigError{
			Field:  "amount_column",
			Reason: "either amount_column or both credit_column and debit_column must be provided",
		}
	case p.AmountColumn == "" && (p.CreditColumn == "" || p.DebitColumn == ""):
		return &parsererror.ConfigError{
			Field:  "credit_column/debit_column",
			Reason: "credit_column and debit_column must both be provided",
		}
	case p.AmountColumn != "" && hasPair:
		return &parsererror.ConfigError{
			Field:  "amount_column",
			Reason: "amount_column cannot be combined with credit_column/debit_column",
		}
	}

	if p.DateWindowDays != nil && *p.DateWindowDays < 0 {
		return &parsererror.ConfigError{Field: "date_window_days", Reason: "must not be negative"}
	}

	return nil
}
