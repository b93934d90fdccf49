package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// fakeTier is a scriptable interpretation tier.
type fakeTier struct {
	name   string
	interp *Interpretation
	err    error
	calls  int
}

func (f *fakeTier) Name() string { return f.name }

func (f *fakeTier) Interpret(context.Context, string, Snapshot) (*Interpretation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.interp, nil
}

func TestDispatcherEmptySelectionSkipsTiers(t *testing.T) {
	h := newFakeHost("", nil)
	tier := &fakeTier{name: "ai", interp: &Interpretation{}}
	d := NewDispatcher(h, []Interpreter{tier}, nil)

	resp := d.Handle(context.Background(), "sum this")

	if tier.calls != 0 {
		t.Errorf("tiers must not run on an empty selection, got %d calls", tier.calls)
	}
	if !strings.Contains(resp.Text, "Select some data first") {
		t.Errorf("expected the selection prompt, got %q", resp.Text)
	}
}

func TestDispatcherFirstTierWins(t *testing.T) {
	h := newFakeHost("A1:A3", numericColumn())
	aiTier := &fakeTier{name: "ai", interp: &Interpretation{
		Explanation: "Summing the column.",
		Operations:  []Operation{{Kind: KindAggregateInsert, Function: "sum"}},
	}}
	ruleTier := &fakeTier{name: "rules", interp: &Interpretation{}}
	d := NewDispatcher(h, []Interpreter{aiTier, ruleTier}, nil)

	resp := d.Handle(context.Background(), "sum this")

	if resp.Tier != "ai" {
		t.Errorf("expected ai tier to win, got %q", resp.Tier)
	}
	if ruleTier.calls != 0 {
		t.Errorf("second tier must not run, got %d calls", ruleTier.calls)
	}
	if len(resp.Results) != 1 || resp.Results[0].Failed() {
		t.Errorf("expected the operation to execute: %+v", resp.Results)
	}
}

func TestDispatcherSilentFallback(t *testing.T) {
	h := newFakeHost("A1:A3", numericColumn())
	aiTier := &fakeTier{name: "ai", err: fmt.Errorf("%w: connection refused", ErrTierUnavailable)}
	ruleTier := &fakeTier{name: "rules", interp: &Interpretation{
		Explanation: "Clearing the selection.",
		Operations:  []Operation{{Kind: KindClear}},
	}}
	d := NewDispatcher(h, []Interpreter{aiTier, ruleTier}, nil)

	resp := d.Handle(context.Background(), "clear it")

	if resp.Tier != "rules" {
		t.Errorf("expected fallback to rules, got %q", resp.Tier)
	}
	// The fallback is invisible in the response text.
	if strings.Contains(resp.Text, "unavailable") || strings.Contains(resp.Text, "connection refused") {
		t.Errorf("fallback leaked into the response: %q", resp.Text)
	}
	if len(resp.Results) != 1 || resp.Results[0].Failed() {
		t.Errorf("expected the rule operation to execute: %+v", resp.Results)
	}
}

func TestDispatcherZeroOperationResultIsAuthoritative(t *testing.T) {
	h := newFakeHost("A1:A3", numericColumn())
	aiTier := &fakeTier{name: "ai", interp: &Interpretation{
		Explanation: "The largest value is 30.",
	}}
	ruleTier := &fakeTier{name: "rules", interp: &Interpretation{
		Operations: []Operation{{Kind: KindClear}},
	}}
	d := NewDispatcher(h, []Interpreter{aiTier, ruleTier}, nil)

	resp := d.Handle(context.Background(), "what's the largest value?")

	if resp.Tier != "ai" {
		t.Errorf("a pure answer must not trigger fallback, got tier %q", resp.Tier)
	}
	if ruleTier.calls != 0 {
		t.Error("rule tier must not run when the AI answered")
	}
	if len(h.calls) != 0 {
		t.Errorf("no operations should run: %v", h.calls)
	}
	if resp.Text != "The largest value is 30." {
		t.Errorf("unexpected response text: %q", resp.Text)
	}
}

func TestDispatcherAllTiersFail(t *testing.T) {
	h := newFakeHost("A1:A3", numericColumn())
	aiTier := &fakeTier{name: "ai", err: ErrTierUnavailable}
	ruleTier := &fakeTier{name: "rules", err: fmt.Errorf("broken")}
	d := NewDispatcher(h, []Interpreter{aiTier, ruleTier}, nil)

	resp := d.Handle(context.Background(), "sum this")

	if resp.Tier != "" {
		t.Errorf("no tier should be credited, got %q", resp.Tier)
	}
	if resp.Text == "" {
		t.Error("expected an apologetic response")
	}
}

func TestDispatcherRendersFailures(t *testing.T) {
	h := newFakeHost("A1:A3", numericColumn())
	h.failOn("AddTable")
	tier := &fakeTier{name: "rules", interp: &Interpretation{
		Explanation: "Formatting and creating a table.",
		Operations: []Operation{
			{Kind: KindNumericFormat, Pattern: "currency"},
			{Kind: KindTableCreate},
		},
	}}
	d := NewDispatcher(h, []Interpreter{tier}, nil)

	resp := d.Handle(context.Background(), "format and table")

	if resp.Failures() != 1 {
		t.Fatalf("expected 1 failure, got %d", resp.Failures())
	}
	if !strings.Contains(resp.Text, "✓") {
		t.Errorf("expected a success line: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "✗ table-create") {
		t.Errorf("expected a failure line naming the operation: %q", resp.Text)
	}
}

func TestDispatcherRealTiersEndToEnd(t *testing.T) {
	// An unavailable AI tier falling back to the real rule matcher.
	h := newFakeHost("A1:A3", numericColumn())
	d := NewDispatcher(h, []Interpreter{NewAITier(nil), NewRuleMatcher()}, nil)

	resp := d.Handle(context.Background(), "sum this column")

	if resp.Tier != "rules" {
		t.Errorf("expected rules tier, got %q", resp.Tier)
	}
	if len(h.calls) != 1 || h.calls[0] != "WriteFormula(A4,SUM(A1:A3))" {
		t.Errorf("unexpected host calls: %v", h.calls)
	}
}
