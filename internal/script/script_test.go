package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidScript(t *testing.T) {
	path := writeScript(t, `
name: monthly
workbook: sales.xlsx
sheet: Data
steps:
  - id: sort
    range: A1:D20
    say: sort descending
  - say: format as currency
    on_failure: skip
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "monthly" || s.Workbook != "sales.xlsx" || s.Sheet != "Data" {
		t.Errorf("header fields wrong: %+v", s)
	}
	if len(s.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(s.Steps))
	}
	if s.Steps[0].ID != "sort" || s.Steps[0].Range != "A1:D20" {
		t.Errorf("step 1 wrong: %+v", s.Steps[0])
	}
	// Steps without an explicit id get a positional one.
	if s.Steps[1].ID != "step2" {
		t.Errorf("expected generated id step2, got %q", s.Steps[1].ID)
	}
	if s.Steps[1].OnFailure != "skip" {
		t.Errorf("on_failure not parsed: %+v", s.Steps[1])
	}
}

func TestLoadMissingWorkbook(t *testing.T) {
	path := writeScript(t, `
steps:
  - say: sum this
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "workbook") {
		t.Errorf("expected workbook error, got %v", err)
	}
}

func TestLoadNoSteps(t *testing.T) {
	path := writeScript(t, `workbook: a.xlsx`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "no steps") {
		t.Errorf("expected steps error, got %v", err)
	}
}

func TestLoadStepWithoutSay(t *testing.T) {
	path := writeScript(t, `
workbook: a.xlsx
steps:
  - range: A1:B2
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "say") {
		t.Errorf("expected say error, got %v", err)
	}
}

func TestLoadDuplicateStepIDs(t *testing.T) {
	path := writeScript(t, `
workbook: a.xlsx
steps:
  - id: x
    say: sum
  - id: x
    say: clear
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeScript(t, "workbook: [a.xlsx\n  bad")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
