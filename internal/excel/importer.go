package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/wordrecall/internal/review"
	"github.com/example/wordrecall/pkg/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	WordColumn       string // Column with the word
	DefinitionColumn string // Column with the definition, optional
	SheetName        string // Sheet to import; the first sheet when empty
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:       "A",
		DefinitionColumn: "B",
		StartRow:         2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Collector is where imported words go
type Collector interface {
	CollectWord(ctx context.Context, in review.NewWord) (*models.Word, *models.ScheduleWord, error)
}

// Importer feeds spreadsheet rows through the collection flow, so every
// imported word is scheduled for today like a hand-collected one
type Importer struct {
	collector Collector
	log       *zap.Logger
}

func NewImporter(collector Collector, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{collector: collector, log: log}
}

// Import collects every word of the file for the user
func (im *Importer) Import(ctx context.Context, userProfileID string, config ImportConfig) (*ImportResult, error) {
	wordCol, err := excelize.ColumnNameToNumber(config.WordColumn)
	if err != nil {
		return nil, fmt.Errorf("word column: %w", err)
	}
	defCol := 0
	if config.DefinitionColumn != "" {
		if defCol, err = excelize.ColumnNameToNumber(config.DefinitionColumn); err != nil {
			return nil, fmt.Errorf("definition column: %w", err)
		}
	}

	rows, err := readRows(config)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		word := cleanWord(cell(row, wordCol))
		if word == "" {
			continue
		}
		result.TotalProcessed++

		key := strings.ToLower(word)
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true

		_, _, err := im.collector.CollectWord(ctx, review.NewWord{
			UserProfileID: userProfileID,
			Word:          word,
			Definition:    strings.TrimSpace(cell(row, defCol)),
		})
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, models.ErrDuplicate):
			result.Skipped++
		default:
			im.log.Warn("failed to import row", zap.Int("row", i+1), zap.String("word", word), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	im.log.Info("import finished",
		zap.String("file", config.FilePath),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func readRows(config ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return readCSV(config.FilePath)
	}
	return readExcel(config)
}

func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cell returns the value of a 1-based column, or "" when absent
func cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}

// cleanWord drops trailing notes in parentheses, e.g. "go (went, gone)"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}
