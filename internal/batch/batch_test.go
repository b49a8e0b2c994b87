package batch_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"spendlens/internal/batch"
	"spendlens/internal/logging"
	"spendlens/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestFindStatements(t *testing.T) {
	dir := t.TempDir()
	feb := touch(t, dir, "statement-feb.csv")
	jan := touch(t, dir, "statement-jan.CSV")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0o755))

	im := batch.NewImporter(nil, logging.NewMockLogger())
	files, err := im.FindStatements(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{feb, jan}, files, "sorted by name, case-insensitive extension, directories skipped")
}

func TestImportAll_SkipsFailedFilesAndSortsChronologically(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	parse := func(file string) ([]models.Transaction, error) {
		switch filepath.Base(file) {
		case "a.csv":
			return []models.Transaction{
				{ID: "a2", Date: day(20), Amount: decimal.NewFromInt(8)},
				{ID: "a1", Date: day(5), Amount: decimal.NewFromInt(3)},
			}, nil
		case "bad.csv":
			return nil, errors.New("unreadable export")
		default:
			return []models.Transaction{
				{ID: "b1", Date: day(5), Amount: decimal.NewFromInt(1)},
			}, nil
		}
	}

	logger := logging.NewMockLogger()
	im := batch.NewImporter(parse, logger)

	all := im.ImportAll([]string{"a.csv", "bad.csv", "b.csv"})
	require.Len(t, all, 3)
	assert.Equal(t, "b1", all[0].ID, "same-day entries order by amount")
	assert.Equal(t, "a1", all[1].ID)
	assert.Equal(t, "a2", all[2].ID)
	assert.True(t, logger.HasMessage("WARN", "Skipping statement file that failed to parse"))
}

func TestRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	txns := []models.Transaction{
		{Date: day(12)},
		{Date: day(3)},
		{Date: day(28)},
	}

	dr := batch.Range(txns)
	assert.True(t, dr.Start.Equal(day(3)))
	assert.True(t, dr.End.Equal(day(28)))
	assert.Equal(t, "2026-01-03_2026-01-28", dr.String())
}

func TestRange_Empty(t *testing.T) {
	assert.Equal(t, "", batch.Range(nil).String())
}
