package csvparser_test

import (
	"strings"
	"testing"
	"time"

	"spendlens/internal/csvparser"
	"spendlens/internal/dateutils"
	"spendlens/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = dateutils.FixedClock{Time: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}

func TestParse_NetflixRow(t *testing.T) {
	input := `Date,Purchase Date,Description,Amount
"04 Jan 2026","04 Jan 2026","NETFLIX.COM 888-638-3549",199.00
`
	parser := csvparser.NewParser(fixedClock)
	txns, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), txn.Date)
	assert.Equal(t, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), txn.PurchaseDate)
	assert.Equal(t, "NETFLIX.COM 888-638-3549", txn.Description)
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(199.00)), "amount should be 199.00, got %s", txn.Amount)
	assert.Equal(t, "NETFLIX.COM", txn.Merchant)
	assert.Equal(t, models.CategoryUncategorized, txn.Category)
}

func TestParse_SkipsHeaderAndShortRows(t *testing.T) {
	input := `Date,Purchase Date,Description,Amount
"04 Jan 2026","04 Jan 2026","STARBUCKS #4521",5.75
"only","three","fields"
"05 Jan 2026","05 Jan 2026","SHELL OIL #57",40.00
`
	parser := csvparser.NewParser(fixedClock)
	txns, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "STARBUCKS", txns[0].Merchant)
	assert.Equal(t, "SHELL OIL", txns[1].Merchant)
}

func TestParse_HeaderlessDataFirstRow(t *testing.T) {
	// A first row whose date column parses is data, not a header.
	input := `"04 Jan 2026","04 Jan 2026","SPOTIFY",10.99
`
	parser := csvparser.NewParser(fixedClock)
	txns, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "SPOTIFY", txns[0].Merchant)
}

func TestParse_UnparseableDateFallsBackToClock(t *testing.T) {
	input := `Date,Purchase Date,Description,Amount
"not a date","","SOME SHOP",12.00
`
	parser := csvparser.NewParser(fixedClock)
	txns, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, fixedClock.Time, txns[0].Date)
	assert.Equal(t, fixedClock.Time, txns[0].PurchaseDate, "blank purchase date copies the posting date")
}

func TestParse_NegativeAmountNormalized(t *testing.T) {
	input := `Date,Purchase Date,Description,Amount
"04 Jan 2026","04 Jan 2026","REFUND STORE","-25.50"
`
	parser := csvparser.NewParser(fixedClock)
	txns, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromFloat(25.50)), "amount should be 25.50, got %s", txns[0].Amount)
}

func TestParse_Empty(t *testing.T) {
	parser := csvparser.NewParser(fixedClock)
	txns, err := parser.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txns)
}
