// Package spreadsheet reads vocabulary lists from xlsx and csv files.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/eslsoft/lingolive/internal/entity"
)

// Column names recognised in a header row. Matching ignores case, spaces
// and underscores.
const (
	ColumnWord          = "word"
	ColumnTranslation   = "translation"
	ColumnPronunciation = "pronunciation"
	ColumnPartOfSpeech  = "partofspeech"
	ColumnExample       = "example"
	ColumnMastery       = "mastery"
	ColumnLanguage      = "language"
)

// defaultLayout is used when the first row is not a header.
var defaultLayout = []string{
	ColumnWord,
	ColumnTranslation,
	ColumnPronunciation,
	ColumnPartOfSpeech,
	ColumnExample,
	ColumnMastery,
}

var columnAliases = map[string]string{
	"pos":     ColumnPartOfSpeech,
	"meaning": ColumnTranslation,
	"lang":    ColumnLanguage,
}

// Options controls how rows are read.
type Options struct {
	// Sheet names the worksheet to read. Empty selects the first sheet.
	Sheet string
	// Language is applied to rows without a language column value.
	Language string
}

// Result is the parsed content of a sheet.
type Result struct {
	Entries []entity.VocabularyEntry
	// Skipped lists rows that could not be parsed, by 1-based row number.
	Skipped []string
}

// ReadFile opens path and reads it as csv or xlsx by extension.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(f, opts)
	}
	return ReadXLSX(f, opts)
}

// ReadXLSX reads a workbook.
func ReadXLSX(r io.Reader, opts Options) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return parseRows(rows, opts), nil
}

// ReadCSV reads comma separated rows.
func ReadCSV(r io.Reader, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows, opts), nil
}

func parseRows(rows [][]string, opts Options) *Result {
	result := &Result{}
	if len(rows) == 0 {
		return result
	}

	layout, start := defaultLayout, 0
	if header, ok := headerLayout(rows[0]); ok {
		layout, start = header, 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if lo.EveryBy(row, func(cell string) bool { return strings.TrimSpace(cell) == "" }) {
			continue
		}
		entry, err := rowEntry(layout, row)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if entry.Language == "" {
			entry.Language = opts.Language
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

func headerLayout(row []string) ([]string, bool) {
	layout := make([]string, len(row))
	for i, cell := range row {
		name := canonicalColumn(cell)
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		switch name {
		case ColumnWord, ColumnTranslation, ColumnPronunciation, ColumnPartOfSpeech,
			ColumnExample, ColumnMastery, ColumnLanguage:
			layout[i] = name
		}
	}
	if !lo.Contains(layout, ColumnWord) {
		return nil, false
	}
	return layout, true
}

func canonicalColumn(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func rowEntry(layout, row []string) (entity.VocabularyEntry, error) {
	var entry entity.VocabularyEntry
	for i, column := range layout {
		if i >= len(row) {
			break
		}
		value := strings.TrimSpace(row[i])
		switch column {
		case ColumnWord:
			entry.Word = value
		case ColumnTranslation:
			entry.Translation = value
		case ColumnPronunciation:
			entry.Pronunciation = value
		case ColumnPartOfSpeech:
			entry.PartOfSpeech = value
		case ColumnExample:
			entry.Example = value
		case ColumnLanguage:
			entry.Language = value
		case ColumnMastery:
			if value == "" {
				continue
			}
			mastery, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
			if err != nil {
				return entry, fmt.Errorf("invalid mastery %q", value)
			}
			entry.Mastery = mastery
		}
	}
	return entry, nil
}
