package engine

import (
	"strconv"
	"strings"

	"github.com/sheetmind/sheetmind/internal/sheet"
)

// Matrices sent to the AI tier are clipped to this extent regardless of the
// true selection size; RowCount/ColumnCount always report the true size.
const (
	MaxSnapshotRows = 10
	MaxSnapshotCols = 10
)

// Snapshot is a bounded, read-only capture of the current selection. It is
// built fresh for every utterance and never written back to the host.
type Snapshot struct {
	Sheet       string     `json:"worksheet"`
	Selection   string     `json:"selection"`
	RowCount    int        `json:"rowCount"`
	ColumnCount int        `json:"columnCount"`
	Values      [][]string `json:"values,omitempty"`
	Display     [][]string `json:"display,omitempty"`
}

// Empty reports whether the snapshot holds no selectable data.
func (s Snapshot) Empty() bool { return s.RowCount == 0 }

// BuildSnapshot probes the host for the current selection. It never fails:
// an absent selection yields a zero-dimension snapshot and a host read error
// yields a fully degraded one, so the interpretation tiers stay callable.
func BuildSnapshot(h Host) Snapshot {
	sel := h.Selection()
	if sel == "" {
		return Snapshot{Sheet: h.SheetName()}
	}

	r, err := sheet.ParseRange(sel)
	if err != nil {
		return Snapshot{}
	}

	clipped := r.Clip(MaxSnapshotRows, MaxSnapshotCols)

	values, err := h.ReadValues(clipped.String())
	if err != nil {
		return Snapshot{}
	}
	display, err := h.ReadDisplay(clipped.String())
	if err != nil {
		return Snapshot{}
	}

	return Snapshot{
		Sheet:       h.SheetName(),
		Selection:   r.String(),
		RowCount:    r.Rows(),
		ColumnCount: r.Cols(),
		Values:      values,
		Display:     display,
	}
}

// isNumericCell reports whether a raw cell value parses as a number.
func isNumericCell(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// hasHeaderRow applies the original heuristic: a text-bearing first row over
// a numeric second row is treated as a header.
func hasHeaderRow(values [][]string) bool {
	if len(values) < 2 {
		return false
	}
	firstText := false
	for _, cell := range values[0] {
		if strings.TrimSpace(cell) != "" && !isNumericCell(cell) {
			firstText = true
			break
		}
	}
	secondNumeric := false
	for _, cell := range values[1] {
		if isNumericCell(cell) {
			secondNumeric = true
			break
		}
	}
	return firstText && secondNumeric
}
