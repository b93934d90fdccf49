package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sheetmind/sheetmind/internal/sheet"
)

// OpResult is the outcome of one operation in a batch.
type OpResult struct {
	Op     Operation
	Detail string
	Err    error
}

// Failed reports whether the operation was rejected by the host.
func (r OpResult) Failed() bool { return r.Err != nil }

// Executor applies operation batches to the host, one operation at a time.
// A failed operation is reported and the batch continues — best effort,
// non-transactional. Successful mutations are synced before the next
// operation starts, because later operations may depend on them.
type Executor struct {
	host Host
}

// NewExecutor returns an executor bound to a host.
func NewExecutor(h Host) *Executor { return &Executor{host: h} }

// Apply runs the batch in order and returns one result per operation.
func (e *Executor) Apply(snap Snapshot, ops []Operation) []OpResult {
	results := make([]OpResult, 0, len(ops))
	for _, op := range ops {
		target := op.Range
		if target == "" {
			target = snap.Selection
		}

		res := OpResult{Op: op}
		if target == "" {
			res.Err = fmt.Errorf("no target range for %s", op.Kind)
			results = append(results, res)
			continue
		}

		detail, mutated, err := e.apply(op, target)
		res.Detail = detail
		res.Err = err

		if err == nil && mutated {
			if err := e.host.Sync(); err != nil {
				res.Err = fmt.Errorf("%s applied but not committed: %w", op.Kind, err)
			}
		}
		results = append(results, res)
	}
	return results
}

func (e *Executor) apply(op Operation, target string) (detail string, mutated bool, err error) {
	r, err := sheet.ParseRange(target)
	if err != nil {
		return "", false, err
	}

	switch op.Kind {
	case KindAggregateInsert:
		return e.aggregateInsert(op, r)

	case KindNumericFormat:
		pattern := numberPattern(op.Pattern)
		if err := e.host.SetNumberFormat(r.String(), pattern); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("applied %s format to %s", formatLabel(op.Pattern), r.String()), true, nil

	case KindClear:
		if err := e.host.Clear(r.String()); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("cleared %s", r.String()), true, nil

	case KindStyleToggle:
		bold := op.Attribute != "italic"
		italic := op.Attribute == "italic"
		if err := e.host.SetFontStyle(r.String(), bold, italic); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("made %s %s", r.String(), op.Attribute), true, nil

	case KindChartCreate:
		title := strings.ToUpper(op.ChartType[:1]) + op.ChartType[1:] + " Chart"
		if err := e.host.AddChart(op.ChartType, r.String(), r.ChartAnchor(), title); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("inserted a %s chart for %s", op.ChartType, r.String()), true, nil

	case KindTableCreate:
		if err := e.host.AddTable(r.String()); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("converted %s to a table", r.String()), true, nil

	case KindSort:
		values, err := e.host.ReadValues(r.String())
		if err != nil {
			return "", false, err
		}
		skipHeader := hasHeaderRow(values)
		if err := e.host.Sort(r.String(), op.KeyColumn, !op.Descending, skipHeader); err != nil {
			return "", false, err
		}
		dir := "ascending"
		if op.Descending {
			dir = "descending"
		}
		return fmt.Sprintf("sorted %s %s by column %d", r.String(), dir, op.KeyColumn+1), true, nil

	case KindHighlight:
		color := op.Color
		if color == "" {
			color = "FFFF00"
		}
		if err := e.host.SetFillColor(r.String(), color); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("highlighted %s with #%s", r.String(), color), true, nil

	case KindFreezePanes:
		if err := e.host.FreezePanes(r.StartCell()); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("froze panes at %s", r.StartCell()), true, nil

	case KindAnalyzeSummary:
		text, err := e.analyze(r)
		return text, false, err

	default:
		return "", false, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

// aggregateInsert writes the formula into the first empty cell adjacent to
// the range: below it by default, falling right when the cell below is
// occupied. A single-cell selection always targets the next row.
func (e *Executor) aggregateInsert(op Operation, r sheet.Range) (string, bool, error) {
	cell := r.BelowCell()
	if !r.IsCell() && !e.host.CellEmpty(cell) {
		cell = r.RightCell()
	}

	fn := strings.ToUpper(op.Function)
	if fn == "" {
		fn = "SUM"
	}
	formula := fmt.Sprintf("%s(%s)", fn, r.String())
	if err := e.host.WriteFormula(cell, formula); err != nil {
		return "", false, err
	}
	return fmt.Sprintf("wrote =%s to %s", formula, cell), true, nil
}

// analyze computes a read-only summary of the range: cell counts, numeric
// ratio, and per-column averages when the data has a header row.
func (e *Executor) analyze(r sheet.Range) (string, error) {
	values, err := e.host.ReadValues(r.String())
	if err != nil {
		return "", err
	}

	nonEmpty, numeric := 0, 0
	for _, row := range values {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
				if isNumericCell(cell) {
					numeric++
				}
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Data summary for %s:\n", r.String())
	fmt.Fprintf(&b, "  %d rows × %d columns, %d non-empty cells\n", r.Rows(), r.Cols(), nonEmpty)
	if nonEmpty > 0 {
		fmt.Fprintf(&b, "  %d numeric cells (%.0f%%)\n", numeric, float64(numeric)/float64(nonEmpty)*100)
	} else {
		b.WriteString("  no data in the selection\n")
	}

	withHeader := hasHeaderRow(values)
	body := values
	if withHeader {
		body = values[1:]
	}
	for col := 0; col < r.Cols(); col++ {
		sum, n := 0.0, 0
		for _, row := range body {
			if col < len(row) && isNumericCell(row[col]) {
				f, _ := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
				sum += f
				n++
			}
		}
		if n == 0 {
			continue
		}
		label := columnLabel(values, withHeader, r, col)
		fmt.Fprintf(&b, "  average of %s: %.2f\n", label, sum/float64(n))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func columnLabel(values [][]string, withHeader bool, r sheet.Range, col int) string {
	if withHeader && col < len(values[0]) && strings.TrimSpace(values[0][col]) != "" {
		return values[0][col]
	}
	name, _ := excelize.ColumnNumberToName(r.StartCol + col)
	return "column " + name
}

// numberPattern maps a format name onto a number format code. Unrecognized
// names pass through as raw format codes.
func numberPattern(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "currency":
		return "$#,##0.00"
	case "percent", "percentage":
		return "0.00%"
	case "date":
		return "yyyy-mm-dd"
	case "number":
		return "#,##0.00"
	default:
		return name
	}
}

func formatLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return "currency"
	}
	return name
}
