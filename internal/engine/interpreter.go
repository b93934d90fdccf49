package engine

import (
	"context"
	"errors"
)

// ErrTierUnavailable signals that an interpretation tier could not produce a
// result at all — network failure, timeout, or an unparseable response. The
// dispatcher reacts by silently trying the next tier; the user never sees it.
var ErrTierUnavailable = errors.New("interpretation tier unavailable")

// Interpreter resolves an utterance against a snapshot into an
// interpretation. Tiers are tried in order; the first one that does not
// report unavailability wins.
type Interpreter interface {
	Name() string
	Interpret(ctx context.Context, utterance string, snap Snapshot) (*Interpretation, error)
}
