// Package common provides shared CSV ledger IO used by the CLI commands.
package common

import (
	"os"
	"path/filepath"
	"time"

	"spendlens/internal/logging"
	"spendlens/internal/models"
	"spendlens/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ledgerDate wraps time.Time so gocsv renders the statement date layout.
type ledgerDate struct {
	time.Time
}

func (d *ledgerDate) MarshalCSV() (string, error) {
	return d.Format(models.StatementDateLayout), nil
}

func (d *ledgerDate) UnmarshalCSV(value string) error {
	parsed, err := time.Parse(models.StatementDateLayout, value)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// ledgerRow is the on-disk shape of a categorized transaction.
type ledgerRow struct {
	ID           string          `csv:"ID"`
	Date         ledgerDate      `csv:"Date"`
	PurchaseDate ledgerDate      `csv:"Purchase Date"`
	Description  string          `csv:"Description"`
	Amount       decimal.Decimal `csv:"Amount"`
	Merchant     string          `csv:"Merchant"`
	Location     string          `csv:"Location"`
	Category     string          `csv:"Category"`
}

func toRow(t models.Transaction) ledgerRow {
	return ledgerRow{
		ID:           t.ID,
		Date:         ledgerDate{t.Date},
		PurchaseDate: ledgerDate{t.PurchaseDate},
		Description:  t.Description,
		Amount:       t.Amount,
		Merchant:     t.Merchant,
		Location:     t.Location,
		Category:     t.Category,
	}
}

func fromRow(r ledgerRow) models.Transaction {
	t := models.Transaction{
		ID:           r.ID,
		Date:         r.Date.Time,
		PurchaseDate: r.PurchaseDate.Time,
		Description:  r.Description,
		Amount:       r.Amount,
		Merchant:     r.Merchant,
		Location:     r.Location,
		Category:     r.Category,
	}
	if t.PurchaseDate.IsZero() {
		t.PurchaseDate = t.Date
	}
	return t
}

// ReadLedger loads previously written transactions from a ledger CSV.
// A missing file is not an error: it returns an empty ledger so the first
// ingest run starts from nothing.
func ReadLedger(filePath string) ([]models.Transaction, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		log.WithField(logging.FieldFile, filePath).Debug("Ledger file not found, starting empty")
		return []models.Transaction{}, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, &parsererror.StoreError{Path: filePath, Op: "open", Err: err}
	}
	defer file.Close()

	var rows []ledgerRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, &parsererror.StoreError{Path: filePath, Op: "parse", Err: err}
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, fromRow(row))
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Debug("Loaded ledger")
	return transactions, nil
}

// WriteLedger writes transactions to a ledger CSV, creating parent
// directories as needed.
func WriteLedger(filePath string, transactions []models.Transaction) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &parsererror.StoreError{Path: filePath, Op: "mkdir", Err: err}
		}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return &parsererror.StoreError{Path: filePath, Op: "create", Err: err}
	}
	defer file.Close()

	rows := make([]ledgerRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, toRow(t))
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return &parsererror.StoreError{Path: filePath, Op: "write", Err: err}
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Info("Wrote ledger")
	return nil
}
