// Package engine implements the natural-language command engine: it captures
// a bounded snapshot of the spreadsheet selection, resolves an utterance into
// a batch of operations through an ordered list of interpretation tiers, and
// applies the batch to the live workbook.
package engine

// Host is the live spreadsheet the engine reads from and writes to. It is
// implemented by sheet.Workbook. The engine never caches host state: every
// read is a fresh probe and every write goes straight through, with Sync as
// the durability barrier between operations.
type Host interface {
	SheetName() string
	Selection() string

	ReadValues(rng string) ([][]string, error)
	ReadDisplay(rng string) ([][]string, error)
	CellEmpty(cell string) bool

	WriteFormula(cell, formula string) error
	SetNumberFormat(rng, pattern string) error
	SetFontStyle(rng string, bold, italic bool) error
	SetFillColor(rng, hexColor string) error
	Clear(rng string) error
	AddChart(chartType, dataRange, anchor, title string) error
	AddTable(rng string) error
	Sort(rng string, keyCol int, ascending, skipHeader bool) error
	FreezePanes(anchor string) error

	// Sync flushes pending writes; it must not return before they are durable.
	Sync() error
}
