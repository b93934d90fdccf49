package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range is a rectangular cell region in A1 notation, normalized so that
// Start is the top-left corner and End the bottom-right.
type Range struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// ParseRange parses "A1" or "A1:C10" into a normalized Range.
func ParseRange(ref string) (Range, error) {
	ref = strings.TrimSpace(strings.ToUpper(ref))
	if ref == "" {
		return Range{}, fmt.Errorf("empty range reference")
	}

	parts := strings.SplitN(ref, ":", 2)
	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}

	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		endCol, endRow, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
		}
	}

	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}

	return Range{StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}, nil
}

// String renders the range in A1 notation. Single cells render without a colon.
func (r Range) String() string {
	start, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if r.StartCol == r.EndCol && r.StartRow == r.EndRow {
		return start
	}
	end, _ := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	return start + ":" + end
}

// Rows returns the number of rows the range spans.
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns the range spans.
func (r Range) Cols() int { return r.EndCol - r.StartCol + 1 }

// IsCell reports whether the range is a single cell.
func (r Range) IsCell() bool { return r.Rows() == 1 && r.Cols() == 1 }

// StartCell returns the top-left cell in A1 notation.
func (r Range) StartCell() string {
	cell, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	return cell
}

// BelowCell returns the cell directly under the range, in its first column.
func (r Range) BelowCell() string {
	cell, _ := excelize.CoordinatesToCellName(r.StartCol, r.EndRow+1)
	return cell
}

// RightCell returns the cell directly right of the range, in its first row.
func (r Range) RightCell() string {
	cell, _ := excelize.CoordinatesToCellName(r.EndCol+1, r.StartRow)
	return cell
}

// ChartAnchor returns a cell one column past the range's right edge, used
// to position inserted charts near the data they plot.
func (r Range) ChartAnchor() string {
	cell, _ := excelize.CoordinatesToCellName(r.EndCol+2, r.StartRow)
	return cell
}

// Clip returns a copy of the range bounded to at most maxRows × maxCols,
// anchored at the top-left corner.
func (r Range) Clip(maxRows, maxCols int) Range {
	clipped := r
	if r.Rows() > maxRows {
		clipped.EndRow = r.StartRow + maxRows - 1
	}
	if r.Cols() > maxCols {
		clipped.EndCol = r.StartCol + maxCols - 1
	}
	return clipped
}

// AbsRef returns the sheet-qualified absolute reference used by chart
// series, e.g. "Sheet1!$A$1:$B$5".
func (r Range) AbsRef(sheetName string) string {
	start, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow, true)
	end, _ := excelize.CoordinatesToCellName(r.EndCol, r.EndRow, true)
	return fmt.Sprintf("%s!%s:%s", sheetName, start, end)
}
