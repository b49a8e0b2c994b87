// Package csvparser turns raw bank-statement CSV exports into normalized
// transaction records.
//
// The expected format is one header line followed by rows of
// date, purchaseDate, description, amount (comma-delimited, quote-aware).
// Dates use the "02 Jan 2006" layout; unparseable dates fall back to the
// injected clock's current time rather than rejecting the row.
package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"spendlens/internal/dateutils"
	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/parsererror"
	"spendlens/internal/textutils"
)

// minFieldCount is the minimum number of columns a row must have to be
// considered a statement entry. Shorter rows are skipped, not fatal.
const minFieldCount = 4

var log = logging.GetLogger()

// SetLogger allows setting a configured logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Parser reads statement CSV exports. The clock supplies "now" for the
// unparseable-date fallback so imports are deterministic under test.
type Parser struct {
	clock dateutils.Clock
}

// NewParser creates a statement parser using the given clock.
// A nil clock defaults to the system clock.
func NewParser(clock dateutils.Clock) *Parser {
	if clock == nil {
		clock = dateutils.SystemClock{}
	}
	return &Parser{clock: clock}
}

// ParseFile reads and parses a statement CSV file.
func (p *Parser) ParseFile(filePath string) ([]models.Transaction, error) {
	log.WithField(logging.FieldFile, filePath).Info("Parsing statement CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening statement file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	return p.Parse(file)
}

// Parse reads statement rows from r and returns normalized transactions.
// Malformed rows are skipped and logged; the import never fails on a
// single bad row.
func (p *Parser) Parse(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var transactions []models.Transaction
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			log.WithError(&parsererror.ParseError{Field: "row", Row: rowNum, Err: err}).
				Warn("Skipping malformed CSV row")
			continue
		}
		if rowNum == 1 && isHeaderRow(record) {
			continue
		}
		if len(record) < minFieldCount {
			log.WithField("row", rowNum).
				WithField(logging.FieldCount, len(record)).
				Warn("Skipping row with too few fields")
			continue
		}

		transactions = append(transactions, p.rowToTransaction(record))
	}

	log.WithField(logging.FieldCount, len(transactions)).Info("Parsed statement transactions")
	return transactions, nil
}

// ValidateFormat reports whether the file looks like a statement export.
func (p *Parser) ValidateFormat(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	record, err := reader.Read()
	if err != nil {
		return false, &parsererror.ValidationError{FilePath: filePath, Reason: "not a readable CSV file"}
	}
	if len(record) < minFieldCount {
		return false, nil
	}
	return true, nil
}

func (p *Parser) rowToTransaction(record []string) models.Transaction {
	date := dateutils.ParseDateOrNow(record[0], p.clock)
	purchaseDate := date
	if strings.TrimSpace(record[1]) != "" {
		purchaseDate = dateutils.ParseDateOrNow(record[1], p.clock)
	}
	description := strings.TrimSpace(record[2])

	return models.Transaction{
		ID:           models.NewTransactionID(),
		Date:         date,
		PurchaseDate: purchaseDate,
		Description:  description,
		Amount:       models.ParseAmount(record[3]),
		Merchant:     textutils.NormalizeMerchant(description),
		Location:     textutils.ExtractLocation(description),
		Category:     models.CategoryUncategorized,
	}
}

// isHeaderRow detects the header line of a statement export. A first row
// whose date column parses as a date is treated as data.
func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	if _, _, err := dateutils.ParseDate(record[0]); err == nil {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return strings.Contains(first, "date")
}
