package capture

import "errors"

// ErrNotFound marks an unknown species id or device kind.
var ErrNotFound = errors.New("not found")

// ErrInvalidArgument marks an out-of-range level, health fraction, noise or count.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidProb is returned by Draw for probabilities outside [0,1].
var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")
