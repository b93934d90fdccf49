package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sheetmind/sheetmind/internal/ai"
)

// defaultAITimeout bounds the single model call. Interactive latency matters
// more than resilience here, so there are no retries.
const defaultAITimeout = 8 * time.Second

const interpretSystemPrompt = `You are SheetMind, an assistant that turns natural-language instructions about a spreadsheet selection into structured operations.

You receive the user's instruction and a JSON context describing the current selection (worksheet, address, true dimensions, and a clipped sample of values). Respond with a single JSON object and nothing else:

{"explanation": "<one or two sentences describing what you did or answering the question>",
 "operations": [{"kind": "...", ...}]}

Allowed operation kinds and their parameters:
  aggregate-insert  {"function": "sum|average|count|max|min"}
  numeric-format    {"pattern": "currency|percent|date"}
  clear             {}
  style-toggle      {"attribute": "bold|italic"}
  chart-create      {"chartType": "bar|line|pie"}
  table-create      {}
  analyze-summary   {}
  sort              {"keyColumn": <zero-based column>, "descending": true|false}
  highlight         {"color": "<hex RGB, e.g. FFFF00>"}
  freeze-panes      {}

Every operation may carry an optional "range" in A1 notation; omit it to target the current selection. If the instruction is a question rather than a command, answer it in the explanation and return an empty operations array. Do not invent operation kinds outside this list.`

// AITier sends (utterance, capped snapshot) to a model provider and parses
// a structured interpretation out of the reply. Every failure mode —
// transport error, non-success status, malformed body, timeout — collapses
// into ErrTierUnavailable so the dispatcher can fall back silently.
type AITier struct {
	provider ai.Provider
	timeout  time.Duration
}

// NewAITier wraps a model provider as an interpretation tier. A nil
// provider yields a tier that is permanently unavailable.
func NewAITier(p ai.Provider) *AITier {
	return &AITier{provider: p, timeout: defaultAITimeout}
}

// Name returns the tier identifier.
func (t *AITier) Name() string { return "ai" }

// Interpret performs one bounded model call and allow-lists the result.
func (t *AITier) Interpret(ctx context.Context, utterance string, snap Snapshot) (*Interpretation, error) {
	if t.provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", ErrTierUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: could not encode context: %v", ErrTierUnavailable, err)
	}

	user := fmt.Sprintf("Spreadsheet context:\n%s\n\nInstruction: %s", payload, utterance)

	result, err := t.provider.Infer(ctx, interpretSystemPrompt, []ai.Message{
		{Role: "user", Content: user},
	}, ai.InferOptions{MaxTokens: 1024, Temperature: 0.2})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTierUnavailable, err)
	}

	interp, err := parseInterpretation(result.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTierUnavailable, err)
	}

	interp.Operations = SanitizeOperations(interp.Operations)
	return interp, nil
}

// parseInterpretation extracts the JSON object from a model reply, tolerating
// markdown code fences and surrounding prose.
func parseInterpretation(content string) (*Interpretation, error) {
	s := strings.TrimSpace(content)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var interp Interpretation
	if err := json.Unmarshal([]byte(s[start:end+1]), &interp); err != nil {
		return nil, fmt.Errorf("malformed model response: %w", err)
	}
	return &interp, nil
}
