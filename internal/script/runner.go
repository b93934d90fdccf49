package script

import (
	"context"
	"fmt"

	"github.com/sheetmind/sheetmind/internal/engine"
)

// Selector moves the selection between steps.
type Selector interface {
	Select(ref string) error
}

// StepResult is the outcome of one script step.
type StepResult struct {
	StepID   string
	Response *engine.Response
	Err      error
}

// Runner executes script steps sequentially through an engine session.
type Runner struct {
	selector Selector
	session  *engine.Session
	verbose  bool
}

// NewRunner creates a runner over a selection-capable workbook and session.
func NewRunner(selector Selector, session *engine.Session, verbose bool) *Runner {
	return &Runner{selector: selector, session: session, verbose: verbose}
}

// Run executes all steps in order. A step whose engine response includes a
// failed operation counts as failed; on_failure: skip lets the script
// continue past it.
func (r *Runner) Run(ctx context.Context, s *Script) ([]StepResult, error) {
	var results []StepResult

	if r.verbose {
		fmt.Printf("Running script: %s (%d steps)\n", s.Name, len(s.Steps))
	}

	for i, step := range s.Steps {
		if r.verbose {
			fmt.Printf("[%d/%d] %s: %s\n", i+1, len(s.Steps), step.ID, step.Utterance)
		}

		if step.Range != "" {
			if err := r.selector.Select(step.Range); err != nil {
				result := StepResult{StepID: step.ID, Err: err}
				results = append(results, result)
				if step.OnFailure == "skip" {
					continue
				}
				return results, fmt.Errorf("step %q: %w", step.ID, err)
			}
		}

		resp, err := r.session.Submit(ctx, step.Utterance)
		result := StepResult{StepID: step.ID, Response: resp, Err: err}

		if err == nil && resp.Failures() > 0 {
			result.Err = fmt.Errorf("%d operation(s) failed", resp.Failures())
		}
		results = append(results, result)

		if result.Err != nil {
			if step.OnFailure == "skip" {
				if r.verbose {
					fmt.Printf("  step %s failed (skipping): %s\n", step.ID, result.Err)
				}
				continue
			}
			return results, fmt.Errorf("step %q failed: %w", step.ID, result.Err)
		}
	}

	return results, nil
}
