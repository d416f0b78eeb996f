package engine

import "errors"

// Errors surfaced by pattern resolution and execution. Structural
// failures (mixed members, tier cap, missing trigger) abort before
// any board mutation.
var (
	ErrMixedTierOrType = errors.New("mixed tier or type")
	ErrTierCap         = errors.New("tier cap exceeded")
	ErrNoTrigger       = errors.New("no trigger position")
	ErrStalePattern    = errors.New("stale pattern")
	ErrRecognizerFault = errors.New("recognizer fault")
)
