// Package sheet binds the command engine to an .xlsx workbook through excelize.
// A Workbook is the live spreadsheet host: it owns the file, the active
// worksheet, and the current selection, and exposes the range-level
// primitives the engine's executor needs.
package sheet

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is an open .xlsx file acting as the spreadsheet host.
type Workbook struct {
	path         string
	f            *excelize.File
	sheet        string
	selection    Range
	hasSelection bool
}

// Open opens an existing workbook and activates its active sheet.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}

	return &Workbook{
		path:  path,
		f:     f,
		sheet: f.GetSheetName(f.GetActiveSheetIndex()),
	}, nil
}

// Create makes a new workbook that will be written to path on the first Sync.
func Create(path string) *Workbook {
	f := excelize.NewFile()
	return &Workbook{
		path:  path,
		f:     f,
		sheet: f.GetSheetName(0),
	}
}

// Close releases the underlying file handle without saving.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Path returns the file path the workbook saves to.
func (w *Workbook) Path() string { return w.path }

// SheetName returns the active worksheet name.
func (w *Workbook) SheetName() string { return w.sheet }

// SetSheet switches the active worksheet.
func (w *Workbook) SetSheet(name string) error {
	for _, s := range w.f.GetSheetList() {
		if s == name {
			w.sheet = name
			return nil
		}
	}
	return fmt.Errorf("sheet %q not found — available sheets: %v", name, w.f.GetSheetList())
}

// Select sets the current selection. An empty ref clears it.
func (w *Workbook) Select(ref string) error {
	if strings.TrimSpace(ref) == "" {
		w.hasSelection = false
		w.selection = Range{}
		return nil
	}
	r, err := ParseRange(ref)
	if err != nil {
		return err
	}
	w.selection = r
	w.hasSelection = true
	return nil
}

// Selection returns the current selection in A1 notation, or "" when
// nothing is selected.
func (w *Workbook) Selection() string {
	if !w.hasSelection {
		return ""
	}
	return w.selection.String()
}

// UsedRange returns the sheet's populated area in A1 notation, or "" for an
// empty sheet.
func (w *Workbook) UsedRange() string {
	dim, err := w.f.GetSheetDimension(w.sheet)
	if err != nil || dim == "" {
		return ""
	}
	r, err := ParseRange(dim)
	if err != nil {
		return ""
	}
	return r.String()
}

// ReadValues reads the raw cell values of a range as a row-major matrix.
func (w *Workbook) ReadValues(rng string) ([][]string, error) {
	return w.readMatrix(rng, true)
}

// ReadDisplay reads the formatted display text of a range as a row-major matrix.
func (w *Workbook) ReadDisplay(rng string) ([][]string, error) {
	return w.readMatrix(rng, false)
}

func (w *Workbook) readMatrix(rng string, raw bool) ([][]string, error) {
	r, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}

	matrix := make([][]string, 0, r.Rows())
	for row := r.StartRow; row <= r.EndRow; row++ {
		line := make([]string, 0, r.Cols())
		for col := r.StartCol; col <= r.EndCol; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			v, err := w.f.GetCellValue(w.sheet, cell, excelize.Options{RawCellValue: raw})
			if err != nil {
				return nil, fmt.Errorf("could not read cell %s: %w", cell, err)
			}
			line = append(line, v)
		}
		matrix = append(matrix, line)
	}
	return matrix, nil
}

// CellEmpty reports whether a cell holds no value.
func (w *Workbook) CellEmpty(cell string) bool {
	v, err := w.f.GetCellValue(w.sheet, cell)
	return err == nil && v == ""
}

// WriteValue writes a literal value to a single cell.
func (w *Workbook) WriteValue(cell string, v any) error {
	if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
		return fmt.Errorf("could not write cell %s: %w", cell, err)
	}
	return nil
}

// WriteFormula writes a formula to a single cell.
func (w *Workbook) WriteFormula(cell, formula string) error {
	if err := w.f.SetCellFormula(w.sheet, cell, formula); err != nil {
		return fmt.Errorf("could not write formula to %s: %w", cell, err)
	}
	return nil
}

// SetNumberFormat applies a display pattern to every cell of the range.
// Reapplying the same pattern is a no-op in visible terms.
func (w *Workbook) SetNumberFormat(rng, pattern string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	styleID, err := w.f.NewStyle(&excelize.Style{CustomNumFmt: &pattern})
	if err != nil {
		return fmt.Errorf("could not build number format style: %w", err)
	}
	return w.applyStyle(r, styleID)
}

// SetFontStyle sets font attributes on every cell of the range.
func (w *Workbook) SetFontStyle(rng string, bold, italic bool) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	styleID, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: bold, Italic: italic}})
	if err != nil {
		return fmt.Errorf("could not build font style: %w", err)
	}
	return w.applyStyle(r, styleID)
}

// SetFillColor sets a solid fill color (hex RGB, e.g. "FFFF00") on the range.
func (w *Workbook) SetFillColor(rng, hexColor string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	styleID, err := w.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor}},
	})
	if err != nil {
		return fmt.Errorf("could not build fill style: %w", err)
	}
	return w.applyStyle(r, styleID)
}

func (w *Workbook) applyStyle(r Range, styleID int) error {
	start, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	end, _ := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	if err := w.f.SetCellStyle(w.sheet, start, end, styleID); err != nil {
		return fmt.Errorf("could not style %s: %w", r.String(), err)
	}
	return nil
}

// Clear removes values and formatting from every cell of the range.
func (w *Workbook) Clear(rng string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			if err := w.f.SetCellValue(w.sheet, cell, nil); err != nil {
				return fmt.Errorf("could not clear cell %s: %w", cell, err)
			}
			if err := w.f.SetCellStyle(w.sheet, cell, cell, 0); err != nil {
				return fmt.Errorf("could not clear style of %s: %w", cell, err)
			}
		}
	}
	return nil
}

// chartTypes maps command-level chart names onto excelize chart types.
var chartTypes = map[string]excelize.ChartType{
	"bar":  excelize.Col,
	"line": excelize.Line,
	"pie":  excelize.Pie,
}

// AddChart inserts a chart plotting dataRange, anchored at the given cell.
// Unknown chart types fall back to a clustered column chart.
func (w *Workbook) AddChart(chartType, dataRange, anchor, title string) error {
	r, err := ParseRange(dataRange)
	if err != nil {
		return err
	}

	ct, ok := chartTypes[strings.ToLower(chartType)]
	if !ok {
		ct = excelize.Col
	}

	chart := &excelize.Chart{
		Type: ct,
		Series: []excelize.ChartSeries{
			{Values: r.AbsRef(w.sheet)},
		},
	}
	if title != "" {
		chart.Title = []excelize.RichTextRun{{Text: title}}
	}

	if err := w.f.AddChart(w.sheet, anchor, chart); err != nil {
		return fmt.Errorf("could not add chart at %s: %w", anchor, err)
	}
	return nil
}

// AddTable converts the range to a structured table with header styling.
// Fails if the range overlaps an existing table.
func (w *Workbook) AddTable(rng string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	if err := w.f.AddTable(w.sheet, &excelize.Table{
		Range:     r.String(),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("could not create table over %s: %w", r.String(), err)
	}
	return nil
}

// Sort reorders the rows of a range by one of its columns. keyCol is
// zero-based within the range. When skipHeader is set the first row stays
// in place. Numeric cells compare numerically, everything else as text.
func (w *Workbook) Sort(rng string, keyCol int, ascending, skipHeader bool) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	if keyCol < 0 || keyCol >= r.Cols() {
		return fmt.Errorf("sort key column %d out of range for %s", keyCol, r.String())
	}

	rows, err := w.ReadValues(r.String())
	if err != nil {
		return err
	}

	body := rows
	startRow := r.StartRow
	if skipHeader && len(rows) > 1 {
		body = rows[1:]
		startRow++
	}

	sort.SliceStable(body, func(i, j int) bool {
		less := cellLess(body[i][keyCol], body[j][keyCol])
		if ascending {
			return less
		}
		return cellLess(body[j][keyCol], body[i][keyCol])
	})

	for i, row := range body {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(r.StartCol+j, startRow+i)
			if err := w.f.SetCellValue(w.sheet, cell, cellValue(val)); err != nil {
				return fmt.Errorf("could not write sorted cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

// cellLess orders two cell values, numbers before text.
func cellLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// cellValue converts a raw string back into the value to write: numbers
// stay numbers so formatting and formulas keep working.
func cellValue(s string) any {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// FreezePanes freezes all rows above and columns left of the anchor cell.
func (w *Workbook) FreezePanes(anchor string) error {
	col, row, err := excelize.CellNameToCoordinates(anchor)
	if err != nil {
		return fmt.Errorf("invalid freeze anchor %q: %w", anchor, err)
	}
	if err := w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      col - 1,
		YSplit:      row - 1,
		TopLeftCell: anchor,
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("could not freeze panes at %s: %w", anchor, err)
	}
	return nil
}

// Sync flushes the workbook to disk. Returns only after the write is durable,
// so it doubles as the commit barrier between operations.
func (w *Workbook) Sync() error {
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("could not save %s: %w", w.path, err)
	}
	return nil
}
