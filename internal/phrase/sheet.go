package phrase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Phrases"

// SheetConfig describes where phrases live in a spreadsheet.
type SheetConfig struct {
	SheetName  string // empty means the first sheet
	TextColumn string // column with the phrase text
	NoteColumn string // column with the note, empty to ignore
	StartRow   int    // first data row (1-based)
}

// DefaultSheetConfig reads text from A and notes from B, skipping a header row.
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		TextColumn: "A",
		NoteColumn: "B",
		StartRow:   2,
	}
}

// SheetImportResult holds the result of a spreadsheet import.
type SheetImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportSheet adds every row of an .xlsx workbook whose text is not already
// in the library. Added phrases are placed first, in sheet order. Unlike
// Import this never overwrites existing phrases.
func (l *Library) ImportSheet(ctx context.Context, r io.Reader, cfg SheetConfig) (*SheetImportResult, error) {
	textCol, err := excelize.ColumnNameToNumber(cfg.TextColumn)
	if err != nil {
		return nil, fmt.Errorf("text column: %w", err)
	}
	noteCol := 0
	if cfg.NoteColumn != "" {
		if noteCol, err = excelize.ColumnNameToNumber(cfg.NoteColumn); err != nil {
			return nil, fmt.Errorf("note column: %w", err)
		}
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ImportFormatError{Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ImportFormatError{Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}

	result := &SheetImportResult{Errors: make([]string, 0)}
	var candidates []SavedPhrase
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		text := strings.TrimSpace(cell(row, textCol))
		if text == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: empty text", i+1))
			continue
		}
		candidates = append(candidates, SavedPhrase{
			Text: text,
			Note: strings.TrimSpace(cell(row, noteCol)),
		})
	}

	added, err := l.prependNew(ctx, candidates)
	result.Created = added
	result.Skipped += len(candidates) - added
	return result, err
}

// ExportSheet writes the library as a single-sheet .xlsx workbook.
func (l *Library) ExportSheet(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Text", "Note", "Last score", "Practice count", "Created"}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range l.List() {
		var score any
		if p.LastScore != nil {
			score = *p.LastScore
		}
		row := []any{p.Text, p.Note, score, p.PracticeCount, p.Timestamp.Format("2006-01-02 15:04")}
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheetName, cellName, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheetName, "A", "A", 60); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheetName, "B", "B", 30); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportSheetFile writes the workbook to path atomically.
func (l *Library) ExportSheetFile(path string) error {
	return writeFileAtomic(path, l.ExportSheet)
}

// cell returns the 1-based column col of row, or "" when absent.
func cell(row []string, col int) string {
	if col <= 0 || col > len(row) {
		return ""
	}
	return row[col-1]
}
