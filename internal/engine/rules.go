package engine

import (
	"context"
	"strings"
)

// RuleMatcher is the deterministic fallback tier: a case-insensitive,
// catalog-ordered substring matcher over fixed trigger phrases. It has no
// external dependency and never reports unavailability.
type RuleMatcher struct{}

// NewRuleMatcher returns the rule-based interpretation tier.
func NewRuleMatcher() *RuleMatcher { return &RuleMatcher{} }

// Name returns the tier identifier.
func (m *RuleMatcher) Name() string { return "rules" }

// ruleEntry is one catalog row: the first entry whose trigger appears in the
// utterance wins, regardless of where the trigger sits in the utterance.
type ruleEntry struct {
	triggers []string
	build    func(utterance string) (Operation, string)
}

// catalog order decides ties: "sum and highlight" always resolves to the
// aggregate entry because it comes first.
var ruleCatalog = []ruleEntry{
	{
		triggers: []string{"sum", "total", "average", "avg", "mean", "count", "max", "highest", "min", "lowest"},
		build: func(u string) (Operation, string) {
			fn := aggregateFunction(u)
			return Operation{Kind: KindAggregateInsert, Function: fn},
				"Inserting a " + strings.ToUpper(fn) + " formula next to the selection."
		},
	},
	{
		triggers: []string{"currency", "dollar", "percent", "as date", "date format", "number format"},
		build: func(u string) (Operation, string) {
			p := formatName(u)
			return Operation{Kind: KindNumericFormat, Pattern: p},
				"Formatting the selection as " + p + "."
		},
	},
	{
		triggers: []string{"clear", "erase"},
		build: func(string) (Operation, string) {
			return Operation{Kind: KindClear}, "Clearing values and formatting from the selection."
		},
	},
	{
		triggers: []string{"bold", "italic"},
		build: func(u string) (Operation, string) {
			attr := "bold"
			if strings.Contains(u, "italic") {
				attr = "italic"
			}
			return Operation{Kind: KindStyleToggle, Attribute: attr},
				"Making the selection " + attr + "."
		},
	},
	{
		triggers: []string{"chart", "graph", "plot"},
		build: func(u string) (Operation, string) {
			ct := chartType(u)
			return Operation{Kind: KindChartCreate, ChartType: ct},
				"Creating a " + ct + " chart from the selection."
		},
	},
	{
		triggers: []string{"table"},
		build: func(string) (Operation, string) {
			return Operation{Kind: KindTableCreate}, "Converting the selection to a formatted table."
		},
	},
	{
		triggers: []string{"analyze", "analysis", "statistics", "stats", "insight", "describe"},
		build: func(string) (Operation, string) {
			return Operation{Kind: KindAnalyzeSummary}, "Analyzing the selected data."
		},
	},
	{
		triggers: []string{"sort", "ascending", "descending", "order by", "arrange"},
		build: func(u string) (Operation, string) {
			desc := strings.Contains(u, "descending") || strings.Contains(u, "desc") ||
				strings.Contains(u, "high to low") || strings.Contains(u, "largest first")
			dir := "ascending"
			if desc {
				dir = "descending"
			}
			return Operation{Kind: KindSort, Descending: desc},
				"Sorting the selection by its first column, " + dir + "."
		},
	},
	{
		triggers: []string{"highlight", "color", "colour", "fill"},
		build: func(u string) (Operation, string) {
			name, hex := fillColor(u)
			return Operation{Kind: KindHighlight, Color: hex},
				"Highlighting the selection in " + name + "."
		},
	},
	{
		triggers: []string{"freeze", "lock row", "lock column"},
		build: func(string) (Operation, string) {
			return Operation{Kind: KindFreezePanes}, "Freezing panes at the selection."
		},
	},
}

const helpText = `I didn't recognize that command. Things I can do with the current selection:
  sum / average / count / max / min  — insert an aggregate formula
  format as currency / percent / date — apply a number format
  clear                               — remove values and formatting
  bold / italic                       — set the font style
  chart (bar, line, pie)              — insert a chart
  table                               — convert the range to a table
  analyze                             — describe the selected data
  sort (ascending or descending)      — reorder rows by the first column
  highlight (a color)                 — fill the cells with a color
  freeze                              — freeze panes at the selection`

// CatalogHelp returns the fixed help text enumerating supported commands.
func CatalogHelp() string { return helpText }

// Interpret resolves the utterance against the trigger catalog. An
// unmatched utterance yields the help text with zero operations.
func (m *RuleMatcher) Interpret(_ context.Context, utterance string, _ Snapshot) (*Interpretation, error) {
	u := strings.ToLower(utterance)

	for _, entry := range ruleCatalog {
		for _, trigger := range entry.triggers {
			if strings.Contains(u, trigger) {
				op, explanation := entry.build(u)
				return &Interpretation{
					Explanation: explanation,
					Operations:  []Operation{op},
				}, nil
			}
		}
	}

	return &Interpretation{Explanation: helpText}, nil
}

func aggregateFunction(u string) string {
	switch {
	case strings.Contains(u, "average"), strings.Contains(u, "avg"), strings.Contains(u, "mean"):
		return "average"
	case strings.Contains(u, "count"):
		return "count"
	case strings.Contains(u, "max"), strings.Contains(u, "highest"):
		return "max"
	case strings.Contains(u, "min"), strings.Contains(u, "lowest"):
		return "min"
	default:
		return "sum"
	}
}

func formatName(u string) string {
	switch {
	case strings.Contains(u, "percent"):
		return "percent"
	case strings.Contains(u, "date"):
		return "date"
	default:
		return "currency"
	}
}

func chartType(u string) string {
	switch {
	case strings.Contains(u, "pie"):
		return "pie"
	case strings.Contains(u, "line"):
		return "line"
	default:
		return "bar"
	}
}

var namedColors = []struct {
	name string
	hex  string
}{
	{"red", "FF0000"},
	{"green", "00B050"},
	{"blue", "0070C0"},
	{"orange", "FFA500"},
	{"gray", "BFBFBF"},
	{"grey", "BFBFBF"},
	{"yellow", "FFFF00"},
}

func fillColor(u string) (name, hex string) {
	for _, c := range namedColors {
		if strings.Contains(u, c.name) {
			return c.name, c.hex
		}
	}
	return "yellow", "FFFF00"
}
