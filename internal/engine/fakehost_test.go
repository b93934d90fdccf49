package engine

import (
	"fmt"

	"github.com/sheetmind/sheetmind/internal/sheet"
)

// fakeHost is an in-memory Host for engine tests. Its grid is anchored at
// A1; reads past the grid come back empty. Every mutating call is appended
// to calls, and fail lets a test break one method by name.
type fakeHost struct {
	sheet     string
	selection string
	grid      [][]string

	calls []string
	syncs int
	fail  map[string]error
}

func newFakeHost(selection string, grid [][]string) *fakeHost {
	return &fakeHost{
		sheet:     "Sheet1",
		selection: selection,
		grid:      grid,
		fail:      map[string]error{},
	}
}

func (h *fakeHost) failOn(method string) {
	h.fail[method] = fmt.Errorf("%s rejected", method)
}

func (h *fakeHost) record(format string, args ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
}

func (h *fakeHost) SheetName() string { return h.sheet }
func (h *fakeHost) Selection() string { return h.selection }

func (h *fakeHost) ReadValues(rng string) ([][]string, error) {
	if err := h.fail["ReadValues"]; err != nil {
		return nil, err
	}
	r, err := sheet.ParseRange(rng)
	if err != nil {
		return nil, err
	}
	matrix := make([][]string, 0, r.Rows())
	for row := r.StartRow; row <= r.EndRow; row++ {
		line := make([]string, 0, r.Cols())
		for col := r.StartCol; col <= r.EndCol; col++ {
			line = append(line, h.cellAt(row, col))
		}
		matrix = append(matrix, line)
	}
	return matrix, nil
}

func (h *fakeHost) ReadDisplay(rng string) ([][]string, error) {
	if err := h.fail["ReadDisplay"]; err != nil {
		return nil, err
	}
	return h.ReadValues(rng)
}

func (h *fakeHost) cellAt(row, col int) string {
	if row-1 < len(h.grid) && col-1 < len(h.grid[row-1]) {
		return h.grid[row-1][col-1]
	}
	return ""
}

func (h *fakeHost) CellEmpty(cell string) bool {
	r, err := sheet.ParseRange(cell)
	if err != nil {
		return false
	}
	return h.cellAt(r.StartRow, r.StartCol) == ""
}

func (h *fakeHost) WriteFormula(cell, formula string) error {
	if err := h.fail["WriteFormula"]; err != nil {
		return err
	}
	h.record("WriteFormula(%s,%s)", cell, formula)
	return nil
}

func (h *fakeHost) SetNumberFormat(rng, pattern string) error {
	if err := h.fail["SetNumberFormat"]; err != nil {
		return err
	}
	h.record("SetNumberFormat(%s,%s)", rng, pattern)
	return nil
}

func (h *fakeHost) SetFontStyle(rng string, bold, italic bool) error {
	if err := h.fail["SetFontStyle"]; err != nil {
		return err
	}
	h.record("SetFontStyle(%s,%t,%t)", rng, bold, italic)
	return nil
}

func (h *fakeHost) SetFillColor(rng, hexColor string) error {
	if err := h.fail["SetFillColor"]; err != nil {
		return err
	}
	h.record("SetFillColor(%s,%s)", rng, hexColor)
	return nil
}

func (h *fakeHost) Clear(rng string) error {
	if err := h.fail["Clear"]; err != nil {
		return err
	}
	h.record("Clear(%s)", rng)
	return nil
}

func (h *fakeHost) AddChart(chartType, dataRange, anchor, title string) error {
	if err := h.fail["AddChart"]; err != nil {
		return err
	}
	h.record("AddChart(%s,%s,%s)", chartType, dataRange, anchor)
	return nil
}

func (h *fakeHost) AddTable(rng string) error {
	if err := h.fail["AddTable"]; err != nil {
		return err
	}
	h.record("AddTable(%s)", rng)
	return nil
}

func (h *fakeHost) Sort(rng string, keyCol int, ascending, skipHeader bool) error {
	if err := h.fail["Sort"]; err != nil {
		return err
	}
	h.record("Sort(%s,%d,%t,%t)", rng, keyCol, ascending, skipHeader)
	return nil
}

func (h *fakeHost) FreezePanes(anchor string) error {
	if err := h.fail["FreezePanes"]; err != nil {
		return err
	}
	h.record("FreezePanes(%s)", anchor)
	return nil
}

func (h *fakeHost) Sync() error {
	if err := h.fail["Sync"]; err != nil {
		return err
	}
	h.syncs++
	return nil
}
