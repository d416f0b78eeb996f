package grid

import "errors"

// Errors returned by store operations. Callers classify failures with
// errors.Is; the wrapped message carries the position involved.
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrOccupied    = errors.New("position occupied")
	ErrEmpty       = errors.New("position empty")
	ErrNotFound    = errors.New("block not found")
)
