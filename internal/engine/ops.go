package engine

import "strings"

// Kind identifies one operation from the closed catalog. Anything outside
// this set is dropped before execution, whichever tier produced it.
type Kind string

const (
	KindAggregateInsert Kind = "aggregate-insert"
	KindNumericFormat   Kind = "numeric-format"
	KindClear           Kind = "clear"
	KindStyleToggle     Kind = "style-toggle"
	KindChartCreate     Kind = "chart-create"
	KindTableCreate     Kind = "table-create"
	KindAnalyzeSummary  Kind = "analyze-summary"
	KindSort            Kind = "sort"
	KindHighlight       Kind = "highlight"
	KindFreezePanes     Kind = "freeze-panes"
)

// Operation is one atomic spreadsheet mutation or query request. Range is
// optional; an empty range targets the current selection.
type Operation struct {
	Kind       Kind   `json:"kind"`
	Range      string `json:"range,omitempty"`
	Function   string `json:"function,omitempty"`   // aggregate-insert: sum|average|count|max|min
	Pattern    string `json:"pattern,omitempty"`    // numeric-format: currency|percent|date or a raw format code
	Attribute  string `json:"attribute,omitempty"`  // style-toggle: bold|italic
	ChartType  string `json:"chartType,omitempty"`  // chart-create: bar|line|pie
	Color      string `json:"color,omitempty"`      // highlight: hex RGB
	KeyColumn  int    `json:"keyColumn,omitempty"`  // sort: zero-based within the range
	Descending bool   `json:"descending,omitempty"` // sort direction
}

// Interpretation is the outcome of resolving one utterance: an explanation
// plus an ordered, possibly empty, batch of operations. An empty batch is a
// valid pure answer.
type Interpretation struct {
	Explanation string      `json:"explanation"`
	Operations  []Operation `json:"operations"`
}

// CatalogKinds returns the closed operation catalog in a fixed order.
func CatalogKinds() []Kind {
	return []Kind{
		KindAggregateInsert,
		KindNumericFormat,
		KindClear,
		KindStyleToggle,
		KindChartCreate,
		KindTableCreate,
		KindAnalyzeSummary,
		KindSort,
		KindHighlight,
		KindFreezePanes,
	}
}

var catalogKinds = map[Kind]bool{
	KindAggregateInsert: true,
	KindNumericFormat:   true,
	KindClear:           true,
	KindStyleToggle:     true,
	KindChartCreate:     true,
	KindTableCreate:     true,
	KindAnalyzeSummary:  true,
	KindSort:            true,
	KindHighlight:       true,
	KindFreezePanes:     true,
}

var aggregateFunctions = map[string]bool{
	"sum": true, "average": true, "count": true, "max": true, "min": true,
}

// SanitizeOperations allow-lists a batch against the catalog. Operations of
// unknown kind are silently dropped and kind-specific parameters outside
// their allowed values are reset to catalog defaults. Operation kinds from
// the AI tier cross a trust boundary, so nothing passes through unchecked.
func SanitizeOperations(ops []Operation) []Operation {
	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		op.Kind = Kind(strings.ToLower(strings.TrimSpace(string(op.Kind))))
		if !catalogKinds[op.Kind] {
			continue
		}

		switch op.Kind {
		case KindAggregateInsert:
			op.Function = strings.ToLower(strings.TrimSpace(op.Function))
			if !aggregateFunctions[op.Function] {
				op.Function = "sum"
			}
		case KindStyleToggle:
			if op.Attribute != "italic" {
				op.Attribute = "bold"
			}
		case KindChartCreate:
			op.ChartType = strings.ToLower(op.ChartType)
			if op.ChartType != "line" && op.ChartType != "pie" {
				op.ChartType = "bar"
			}
		case KindSort:
			if op.KeyColumn < 0 {
				op.KeyColumn = 0
			}
		}
		out = append(out, op)
	}
	return out
}
