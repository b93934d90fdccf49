package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sheetmind/sheetmind/internal/diag"
)

const noSelectionPrompt = "Select some data first — I can only work on a range that contains data."

// Response is what one utterance resolves to: the rendered reply text plus
// the interpretation and per-operation outcomes behind it.
type Response struct {
	Text        string
	Explanation string
	Tier        string
	Operations  []Operation
	Results     []OpResult
}

// Failures counts operations the host rejected.
func (r *Response) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// Dispatcher orchestrates one utterance end to end: snapshot capture, the
// empty-selection guard, ordered tier resolution, and batch execution. The
// AI tier strictly preempts the rule tier whenever it produces a well-formed
// result — including one with zero operations, which is a valid pure answer.
type Dispatcher struct {
	host  Host
	tiers []Interpreter
	exec  *Executor
	diag  *diag.Logger
}

// NewDispatcher builds a dispatcher over the given host and ordered tiers.
// The diagnostics logger may be nil.
func NewDispatcher(host Host, tiers []Interpreter, dl *diag.Logger) *Dispatcher {
	return &Dispatcher{
		host:  host,
		tiers: tiers,
		exec:  NewExecutor(host),
		diag:  dl,
	}
}

// Handle processes one utterance. It never returns an error: the worst
// outcome is response text describing which sub-step failed.
func (d *Dispatcher) Handle(ctx context.Context, utterance string) *Response {
	start := time.Now()
	snap := BuildSnapshot(d.host)

	if snap.Empty() {
		resp := &Response{Text: noSelectionPrompt}
		d.record(utterance, resp, "", start)
		return resp
	}

	var (
		interp   *Interpretation
		tier     string
		fallback string
	)
	for _, t := range d.tiers {
		result, err := t.Interpret(ctx, utterance, snap)
		if err != nil {
			// Tier failures are never shown to the user, only logged.
			if errors.Is(err, ErrTierUnavailable) {
				fallback = fmt.Sprintf("%s tier unavailable: %v", t.Name(), err)
			} else {
				fallback = fmt.Sprintf("%s tier failed: %v", t.Name(), err)
			}
			continue
		}
		interp = result
		tier = t.Name()
		break
	}

	if interp == nil {
		resp := &Response{Text: "No interpreter is available right now — try again in a moment."}
		d.record(utterance, resp, fallback, start)
		return resp
	}

	// Operations execute in list order, each committed before the next,
	// and always before the response text is surfaced.
	results := d.exec.Apply(snap, interp.Operations)

	resp := &Response{
		Text:        renderResponse(interp.Explanation, results),
		Explanation: interp.Explanation,
		Tier:        tier,
		Operations:  interp.Operations,
		Results:     results,
	}
	d.record(utterance, resp, fallback, start)
	return resp
}

func (d *Dispatcher) record(utterance string, resp *Response, fallback string, start time.Time) {
	d.diag.Record(diag.Entry{
		Timestamp:  time.Now(),
		Utterance:  utterance,
		Tier:       resp.Tier,
		Fallback:   fallback,
		Operations: len(resp.Operations),
		Failures:   resp.Failures(),
		DurationMs: time.Since(start).Milliseconds(),
	})
}

func renderResponse(explanation string, results []OpResult) string {
	var b strings.Builder
	if strings.TrimSpace(explanation) != "" {
		b.WriteString(strings.TrimSpace(explanation))
	}

	for _, res := range results {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if res.Failed() {
			fmt.Fprintf(&b, "✗ %s: %s", res.Op.Kind, res.Err)
		} else if res.Detail != "" {
			fmt.Fprintf(&b, "✓ %s", res.Detail)
		}
	}
	return b.String()
}
