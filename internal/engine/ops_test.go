package engine

import "testing"

func TestSanitizeDropsUnknownKinds(t *testing.T) {
	ops := SanitizeOperations([]Operation{
		{Kind: "aggregate-insert"},
		{Kind: "delete-everything"},
		{Kind: "exec-macro"},
		{Kind: "clear"},
	})
	if len(ops) != 2 {
		t.Fatalf("expected 2 surviving operations, got %d", len(ops))
	}
	if ops[0].Kind != KindAggregateInsert || ops[1].Kind != KindClear {
		t.Errorf("wrong survivors: %+v", ops)
	}
}

func TestSanitizeNormalizesKindSpelling(t *testing.T) {
	ops := SanitizeOperations([]Operation{{Kind: "  Aggregate-Insert "}})
	if len(ops) != 1 || ops[0].Kind != KindAggregateInsert {
		t.Errorf("expected normalized kind, got %+v", ops)
	}
}

func TestSanitizeDefaultsParameters(t *testing.T) {
	ops := SanitizeOperations([]Operation{
		{Kind: KindAggregateInsert, Function: "MEDIAN"},
		{Kind: KindStyleToggle, Attribute: "underline"},
		{Kind: KindChartCreate, ChartType: "scatter"},
		{Kind: KindSort, KeyColumn: -3},
	})

	if ops[0].Function != "sum" {
		t.Errorf("unknown aggregate should default to sum, got %s", ops[0].Function)
	}
	if ops[1].Attribute != "bold" {
		t.Errorf("unknown attribute should default to bold, got %s", ops[1].Attribute)
	}
	if ops[2].ChartType != "bar" {
		t.Errorf("unknown chart type should default to bar, got %s", ops[2].ChartType)
	}
	if ops[3].KeyColumn != 0 {
		t.Errorf("negative key column should reset to 0, got %d", ops[3].KeyColumn)
	}
}

func TestSanitizeKeepsValidParameters(t *testing.T) {
	ops := SanitizeOperations([]Operation{
		{Kind: KindAggregateInsert, Function: "AVERAGE"},
		{Kind: KindStyleToggle, Attribute: "italic"},
		{Kind: KindChartCreate, ChartType: "pie"},
		{Kind: KindSort, KeyColumn: 2, Descending: true},
	})

	if ops[0].Function != "average" {
		t.Errorf("expected average, got %s", ops[0].Function)
	}
	if ops[1].Attribute != "italic" {
		t.Errorf("expected italic, got %s", ops[1].Attribute)
	}
	if ops[2].ChartType != "pie" {
		t.Errorf("expected pie, got %s", ops[2].ChartType)
	}
	if ops[3].KeyColumn != 2 || !ops[3].Descending {
		t.Errorf("sort parameters changed: %+v", ops[3])
	}
}

func TestSanitizeEmptyBatch(t *testing.T) {
	if got := SanitizeOperations(nil); len(got) != 0 {
		t.Errorf("expected empty batch, got %+v", got)
	}
}

func TestCatalogKindsMatchesAllowList(t *testing.T) {
	kinds := CatalogKinds()
	if len(kinds) != len(catalogKinds) {
		t.Fatalf("catalog list and allow-list disagree: %d vs %d", len(kinds), len(catalogKinds))
	}
	for _, k := range kinds {
		if !catalogKinds[k] {
			t.Errorf("%s not in allow-list", k)
		}
	}
}
