package tracksync

import "github.com/google/uuid"

// syncContext is the pass-scoped state threaded through every helper.
// A fresh one is built at the start of each Sync call, so no skip state
// survives between passes.
type syncContext struct {
	// passID correlates every log line of one pass
	passID string

	// skipped holds question codes rejected this pass (structural
	// violation or unresolvable parent). Descendants of a skipped
	// question must not be processed, even if the configuration's
	// ordering would otherwise reach them.
	skipped map[string]bool
}

func newSyncContext() *syncContext {
	return &syncContext{
		passID:  uuid.New().String(),
		skipped: make(map[string]bool),
	}
}

func (sc *syncContext) markQuestionSkipped(code string) {
	sc.skipped[code] = true
}

func (sc *syncContext) isQuestionSkipped(code string) bool {
	return sc.skipped[code]
}
