package csvparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/csv-firefly/internal/config"
	"fjacquet/csv-firefly/internal/models"
	"fjacquet/csv-firefly/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountProfile() *config.Profile {
	return &config.Profile{
		Account:           "Checking",
		DescriptionColumn: "Description",
		DateColumn:        "Date",
		DateFormat:        "2006-01-02",
		AmountColumn:      "Amount",
	}
}

func creditDebitProfile() *config.Profile {
	return &config.Profile{
		Account:           "Checking",
		DescriptionColumn: "Description",
		DateColumn:        "Date",
		DateFormat:        "2006-01-02",
		CreditColumn:      "Credit",
		DebitColumn:       "Debit",
	}
}

func TestParseBasic(t *testing.T) {
	csv := `Date,Description,Amount
2024-01-05, Coffee Shop ,-4.50
2024-01-06,Paycheck,2000.00
`
	entries, err := Parse(strings.NewReader(csv), amountProfile())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Rows come back in reverse file order
	assert.Equal(t, "Paycheck", entries[0].Tx.Description)
	assert.Equal(t, "Coffee Shop", entries[1].Tx.Description, "fields must be trimmed")

	assert.Equal(t, 1, entries[0].Index)
	assert.Equal(t, 0, entries[1].Index)

	assert.Equal(t, models.TypeDeposit, entries[0].Tx.Type)
	assert.Equal(t, models.TypeWithdrawal, entries[1].Tx.Type)

	assert.True(t, entries[1].Tx.Amount.Equal(decimal.RequireFromString("-4.50")))
	assert.Equal(t, "Checking", entries[1].Tx.Account)
	assert.Equal(t, "2024-01-05", entries[1].Tx.ISODate())
	assert.Empty(t, entries[1].Tx.ExternalID, "identity generation happens after parsing")
}

func TestParseCreditDebitEquivalence(t *testing.T) {
	viaPair := `Date,Description,Credit,Debit
2024-01-05,Coffee Shop,,12.50
2024-01-06,Paycheck,2000.00,
`
	viaAmount := `Date,Description,Amount
2024-01-05,Coffee Shop,-12.50
2024-01-06,Paycheck,2000.00
`
	pairEntries, err := Parse(strings.NewReader(viaPair), creditDebitProfile())
	require.NoError(t, err)
	amountEntries, err := Parse(strings.NewReader(viaAmount), amountProfile())
	require.NoError(t, err)

	require.Len(t, pairEntries, 2)
	for i := range pairEntries {
		assert.True(t, pairEntries[i].Tx.Amount.Equal(amountEntries[i].Tx.Amount),
			"row %d: credit/debit pair must yield the same amount as a signed column", i)
		assert.Equal(t, amountEntries[i].Tx.Type, pairEntries[i].Tx.Type)
	}
}

func TestParseInvertAmount(t *testing.T) {
	profile := amountProfile()
	profile.InvertAmount = true

	csv := `Date,Description,Amount
2024-01-05,Card payment,4.50
`
	entries, err := Parse(strings.NewReader(csv), profile)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.True(t, entries[0].Tx.Amount.Equal(decimal.RequireFromString("-4.50")))
	assert.Equal(t, models.TypeWithdrawal, entries[0].Tx.Type)
}

func TestParseCheckNumberAppend(t *testing.T) {
	csv := `Date,Description,Amount,Check
2024-01-05,Rent payment,-800.00,1024
2024-01-06,Groceries,-55.00,
`
	entries, err := Parse(strings.NewReader(csv), amountProfile())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Groceries", entries[0].Tx.Description)
	assert.Equal(t, "Rent payment1024", entries[1].Tx.Description,
		"non-empty check numbers are appended with no separator")
	assert.Equal(t, "Rent payment", entries[1].RawDescription,
		"the raw description must stay pre-augmentation")
}

func TestParseOrdinalDisambiguator(t *testing.T) {
	profile := amountProfile()
	profile.AdditionalUIDColumn = config.OrdinalUIDColumn

	csv := `Date,Description,Amount
2024-01-05,Coffee Shop,-4.50
2024-01-05,Coffee Shop,-4.50
`
	entries, err := Parse(strings.NewReader(csv), profile)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Emission is reversed but the disambiguator tracks file position
	assert.Equal(t, "1", entries[0].Disambiguator)
	assert.Equal(t, "0", entries[1].Disambiguator)
}

func TestParseNamedUIDColumn(t *testing.T) {
	profile := amountProfile()
	profile.AdditionalUIDColumn = "Reference"

	csv := `Date,Description,Amount,Reference
2024-01-05,Coffee Shop,-4.50,TX-001
`
	entries, err := Parse(strings.NewReader(csv), profile)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TX-001", entries[0].Disambiguator)
}

func TestParseBadDateAborts(t *testing.T) {
	csv := `Date,Description,Amount
2024-01-05,Coffee Shop,-4.50
not-a-date,Paycheck,2000.00
`
	_, err := Parse(strings.NewReader(csv), amountProfile())
	require.Error(t, err)

	var parseErr *parsererror.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "Date", parseErr.Field)
	assert.Equal(t, 1, parseErr.Row)
}

func TestParseBadAmountAborts(t *testing.T) {
	csv := `Date,Description,Amount
2024-01-05,Coffee Shop,four-fifty
`
	_, err := Parse(strings.NewReader(csv), amountProfile())
	require.Error(t, err)

	var parseErr *parsererror.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "Amount", parseErr.Field)
}

func TestParseMissingColumn(t *testing.T) {
	csv := `Date,Memo,Amount
2024-01-05,Coffee Shop,-4.50
`
	_, err := Parse(strings.NewReader(csv), amountProfile())
	require.Error(t, err)

	var cfgErr *parsererror.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Description", cfgErr.Field)
}

func TestParseInvalidProfile(t *testing.T) {
	profile := amountProfile()
	profile.AmountColumn = ""

	_, err := Parse(strings.NewReader("Date,Description\n"), profile)
	require.Error(t, err)

	var cfgErr *parsererror.ConfigError
	assert.True(t, errors.As(err, &cfgErr),
		"an incomplete amount scheme is a configuration error, not a parse error")
}

func TestParseFile(t *testing.T) {
	content := `Date,Description,Amount
2024-01-05,Coffee Shop,-4.50
`
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := ParseFile(path, amountProfile())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"), amountProfile())
	assert.Error(t, err)
}
