// Package export renders match records as a styled spreadsheet.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jackzampolin/texthunter/internal/matcher"
)

const (
	// DefaultSheetName is the worksheet name used when Options.SheetName is empty.
	DefaultSheetName = "Extraction Results"
	// DefaultMaxColumnWidth caps auto-sized column widths.
	DefaultMaxColumnWidth = 50

	headerColor     = "1F4E79"
	headerFontColor = "FFFFFF"

	// ContentType is the MIME type of the produced workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrNoMatches is returned when there is nothing to export.
var ErrNoMatches = errors.New("no matches to export")

// Options controls the workbook layout.
type Options struct {
	IncludeContext bool
	SheetName      string
	MaxColumnWidth int
	// ContextChars only labels the context column header. Zero means
	// matcher.DefaultContextChars; negative labels it as zero.
	ContextChars int
}

func (o Options) withDefaults() Options {
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	if o.MaxColumnWidth <= 0 {
		o.MaxColumnWidth = DefaultMaxColumnWidth
	}
	switch {
	case o.ContextChars == 0:
		o.ContextChars = matcher.DefaultContextChars
	case o.ContextChars < 0:
		o.ContextChars = 0
	}
	return o
}

// Headers returns the column headers in order.
func Headers(opts Options) []string {
	opts = opts.withDefaults()
	headers := []string{"Source File", "Project ID", "Sheet No", "Page", "Match Found"}
	if opts.IncludeContext {
		headers = append(headers, fmt.Sprintf("Context (± %d chars)", opts.ContextChars))
	}
	return headers
}

// Row returns the cell values for one match, aligned with Headers.
func Row(m matcher.Match, includeContext bool) []any {
	row := []any{m.SourceFile, valueOrEmpty(m.ProjectID), valueOrEmpty(m.SheetNo), m.Page, m.MatchFound}
	if includeContext {
		row = append(row, m.Context)
	}
	return row
}

// Write renders matches as an xlsx workbook to w.
func Write(w io.Writer, matches []matcher.Match, opts Options) error {
	if len(matches) == 0 {
		return ErrNoMatches
	}
	opts = opts.withDefaults()

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := Headers(opts)
	widths := make([]int, len(headers))

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, m := range matches {
		row := Row(m, opts.IncludeContext)
		for col, v := range row {
			widths[col] = max(widths[col], cellWidth(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := styleHeader(f, sheet, len(headers)); err != nil {
		return err
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(width+2, opts.MaxColumnWidth))); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
		Font: &excelize.Font{Bold: true, Color: headerFontColor},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// Filename returns the download name for an export created at now.
func Filename(now time.Time) string {
	return "extraction_results_" + now.Format("20060102_150405") + ".xlsx"
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cellWidth(v any) int {
	switch v := v.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case int:
		return len(strconv.Itoa(v))
	default:
		return utf8.RuneCountInString(fmt.Sprint(v))
	}
}
