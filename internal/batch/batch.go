// Package batch imports a directory of statement CSV exports in one pass.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"spendlens/internal/logging"
	"spendlens/internal/models"
)

// DateRange is the statement period covered by a set of transactions.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the range in the format "YYYY-MM-DD_YYYY-MM-DD".
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Importer parses every statement file in a directory through a single
// parse function, merging the results into one chronological batch.
type Importer struct {
	parse  func(string) ([]models.Transaction, error)
	logger logging.Logger
}

// NewImporter creates an Importer around the given parse function.
// A nil logger uses the default.
func NewImporter(parse func(string) ([]models.Transaction, error), logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Importer{parse: parse, logger: logger}
}

// FindStatements lists the CSV files directly under dir, sorted by name so
// import order is stable across runs.
func (im *Importer) FindStatements(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ImportAll parses each file and merges the transactions chronologically.
// A file that fails to parse is skipped with a warning; one bad export
// should not abort the whole import.
func (im *Importer) ImportAll(files []string) []models.Transaction {
	var all []models.Transaction
	for _, file := range files {
		transactions, err := im.parse(file)
		if err != nil {
			im.logger.WithFields(
				logging.Field{Key: logging.FieldFile, Value: file},
				logging.Field{Key: logging.FieldError, Value: err},
			).Warn("Skipping statement file that failed to parse")
			continue
		}
		im.logger.WithFields(
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)},
			logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		).Debug("Parsed statement file")
		all = append(all, transactions...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].Amount.LessThan(all[j].Amount)
	})

	im.logger.WithFields(
		logging.Field{Key: "files", Value: len(files)},
		logging.Field{Key: logging.FieldCount, Value: len(all)},
	).Info("Imported statement batch")
	return all
}

// Range computes the statement period covered by the transactions.
func Range(transactions []models.Transaction) DateRange {
	if len(transactions) == 0 {
		return DateRange{}
	}
	dr := DateRange{Start: transactions[0].Date, End: transactions[0].Date}
	for _, txn := range transactions {
		if txn.Date.Before(dr.Start) {
			dr.Start = txn.Date
		}
		if txn.Date.After(dr.End) {
			dr.End = txn.Date
		}
	}
	return dr
}
