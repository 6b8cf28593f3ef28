package rng

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for a bound below 1, before any backend call.
var ErrInvalidInput = errors.New("invalid input")

// ErrExhausted is the cause of a BackendError returned when a sampler's
// attempt cap runs out.
var ErrExhausted = errors.New("rejection sampling exhausted")

// BackendError reports a failure to obtain a draw from the randomness backend.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error during %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
