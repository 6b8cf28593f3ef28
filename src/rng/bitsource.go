package rng

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/lost-woods/qrandom/src/backend"
	"github.com/lost-woods/qrandom/src/circuit"
)

// MaxBitWidth is the widest draw whose value fits the result types.
const MaxBitWidth = 63

// Draw is one measurement outcome: k bits and their big-endian value.
type Draw struct {
	Value uint64
	Bits  string
}

// BitSource turns one-shot executions of the uniform superposition circuit
// into random bit strings.
type BitSource struct {
	backend backend.Backend
}

func NewBitSource(b backend.Backend) *BitSource {
	return &BitSource{backend: b}
}

// Draw returns k uniformly distributed bits. It never retries; every failure
// is a *BackendError.
func (s *BitSource) Draw(ctx context.Context, k int) (Draw, error) {
	if k < 1 || k > MaxBitWidth {
		return Draw{}, &BackendError{Op: "draw", Err: fmt.Errorf("bit width %d outside [1, %d]", k, MaxBitWidth)}
	}
	if s.backend == nil {
		return Draw{}, &BackendError{Op: "draw", Err: errors.New("no backend configured")}
	}

	c, err := circuit.Uniform(k)
	if err != nil {
		return Draw{}, &BackendError{Op: "build circuit", Err: err}
	}

	counts, err := s.backend.Run(ctx, c, 1)
	if err != nil {
		var be *BackendError
		if errors.As(err, &be) {
			return Draw{}, err
		}
		return Draw{}, &BackendError{Op: "run circuit", Err: err}
	}

	return parseOutcome(counts, k)
}

func parseOutcome(counts backend.Counts, k int) (Draw, error) {
	if len(counts) != 1 {
		return Draw{}, &BackendError{Op: "read outcome", Err: fmt.Errorf("expected exactly one outcome, got %d", len(counts))}
	}
	var bits string
	var n int
	for b, c := range counts {
		bits, n = b, c
	}
	if n != 1 {
		return Draw{}, &BackendError{Op: "read outcome", Err: fmt.Errorf("expected one shot, outcome %q observed %d times", bits, n)}
	}
	if len(bits) != k {
		return Draw{}, &BackendError{Op: "read outcome", Err: fmt.Errorf("outcome %q has %d bits, want %d", bits, len(bits), k)}
	}
	v, err := strconv.ParseUint(bits, 2, k)
	if err != nil {
		return Draw{}, &BackendError{Op: "read outcome", Err: fmt.Errorf("outcome %q is not a bit string", bits)}
	}
	return Draw{Value: v, Bits: bits}, nil
}
