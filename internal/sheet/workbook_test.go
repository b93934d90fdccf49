package sheet

import (
	"fmt"
	"path/filepath"
	"testing"
)

func newTestWorkbook(t *testing.T) *Workbook {
	t.Helper()
	wb := Create(filepath.Join(t.TempDir(), "test.xlsx"))
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestSelectAndSelection(t *testing.T) {
	wb := newTestWorkbook(t)

	if wb.Selection() != "" {
		t.Errorf("expected no initial selection, got %q", wb.Selection())
	}

	if err := wb.Select("a1:c5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wb.Selection() != "A1:C5" {
		t.Errorf("expected A1:C5, got %q", wb.Selection())
	}

	// Empty ref clears the selection.
	if err := wb.Select(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wb.Selection() != "" {
		t.Errorf("expected cleared selection, got %q", wb.Selection())
	}
}

func TestSelectInvalidRange(t *testing.T) {
	wb := newTestWorkbook(t)
	if err := wb.Select("not-a-range"); err == nil {
		t.Error("expected error for invalid range")
	}
}

func TestSetSheetUnknown(t *testing.T) {
	wb := newTestWorkbook(t)
	if err := wb.SetSheet("NoSuchSheet"); err == nil {
		t.Error("expected error for unknown sheet")
	}
}

func TestReadValuesMatrixShape(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.WriteValue("A1", "name")
	wb.WriteValue("B1", "amount")
	wb.WriteValue("A2", "widget")
	wb.WriteValue("B2", 42)

	values, err := wb.ReadValues("A1:B3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 || len(values[0]) != 2 {
		t.Fatalf("expected 3×2 matrix, got %d×%d", len(values), len(values[0]))
	}
	if values[0][0] != "name" || values[1][1] != "42" {
		t.Errorf("unexpected values: %v", values)
	}
	// Cells past the data read as empty, not as an error.
	if values[2][0] != "" {
		t.Errorf("expected empty cell, got %q", values[2][0])
	}
}

func TestCellEmpty(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.WriteValue("A1", "x")

	if wb.CellEmpty("A1") {
		t.Error("A1 should not be empty")
	}
	if !wb.CellEmpty("A2") {
		t.Error("A2 should be empty")
	}
}

func TestWriteFormula(t *testing.T) {
	wb := newTestWorkbook(t)
	if err := wb.WriteFormula("A6", "SUM(A1:A5)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClearRemovesValues(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.WriteValue("A1", "x")
	wb.WriteValue("B2", 7)

	if err := wb.Clear("A1:B2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wb.CellEmpty("A1") || !wb.CellEmpty("B2") {
		t.Error("expected cleared cells to be empty")
	}
}

func TestSortNumericAscending(t *testing.T) {
	wb := newTestWorkbook(t)
	for i, v := range []int{30, 10, 20} {
		wb.WriteValue(fmt.Sprintf("A%d", i+1), v)
	}

	if err := wb.Sort("A1:A3", 0, true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, _ := wb.ReadValues("A1:A3")
	got := []string{values[0][0], values[1][0], values[2][0]}
	want := []string{"10", "20", "30"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %s, got %s", i+1, want[i], got[i])
		}
	}
}

func TestSortSkipsHeader(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.WriteValue("A1", "amount")
	wb.WriteValue("A2", 5)
	wb.WriteValue("A3", 1)

	if err := wb.Sort("A1:A3", 0, true, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, _ := wb.ReadValues("A1:A3")
	if values[0][0] != "amount" {
		t.Errorf("header moved: got %q in row 1", values[0][0])
	}
	if values[1][0] != "1" || values[2][0] != "5" {
		t.Errorf("body not sorted: %v", values)
	}
}

func TestSortDescending(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.WriteValue("A1", 1)
	wb.WriteValue("A2", 3)
	wb.WriteValue("A3", 2)

	if err := wb.Sort("A1:A3", 0, false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, _ := wb.ReadValues("A1:A3")
	if values[0][0] != "3" || values[2][0] != "1" {
		t.Errorf("expected descending order, got %v", values)
	}
}

func TestSortKeyColumnOutOfRange(t *testing.T) {
	wb := newTestWorkbook(t)
	if err := wb.Sort("A1:B3", 5, true, false); err == nil {
		t.Error("expected error for out-of-range key column")
	}
}

func TestFreezePanes(t *testing.T) {
	wb := newTestWorkbook(t)
	if err := wb.FreezePanes("B2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wb.FreezePanes("bogus"); err == nil {
		t.Error("expected error for invalid anchor")
	}
}

func TestAddChartAndTable(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.WriteValue("A1", "label")
	wb.WriteValue("B1", "value")
	wb.WriteValue("A2", "x")
	wb.WriteValue("B2", 1)

	if err := wb.AddChart("bar", "A1:B2", "D1", "Bar Chart"); err != nil {
		t.Fatalf("unexpected chart error: %v", err)
	}
	if err := wb.AddTable("A1:B2"); err != nil {
		t.Fatalf("unexpected table error: %v", err)
	}
}

func TestSyncAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.xlsx")
	wb := Create(path)
	wb.WriteValue("A1", "kept")
	if err := wb.Sync(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wb.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("could not reopen: %v", err)
	}
	defer reopened.Close()

	values, err := reopened.ReadValues("A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0][0] != "kept" {
		t.Errorf("expected persisted value, got %q", values[0][0])
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}
