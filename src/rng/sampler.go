package rng

import (
	"context"
	"fmt"
	"math/bits"
)

// Drawer produces uniformly distributed k-bit draws. *BitSource is the
// production implementation.
type Drawer interface {
	Draw(ctx context.Context, k int) (Draw, error)
}

// Result is an accepted draw.
type Result struct {
	Value    int
	Bits     string
	BitWidth int
	// Attempts counts draws consumed, including the accepted one.
	Attempts int
}

// BitLength is the number of binary digits of n: the position of its highest
// set bit plus one. BitLength(0) is 0; negative n also reports 0.
func BitLength(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len(uint(n))
}

type Option func(*Sampler)

// WithMaxAttempts caps the number of draws per Sample call. n <= 0 means
// unbounded, which is the default.
func WithMaxAttempts(n int) Option {
	return func(s *Sampler) { s.maxAttempts = n }
}

// Sampler converts draws into uniform integers in [1, N] by rejection.
// It keeps no state between calls.
type Sampler struct {
	src         Drawer
	maxAttempts int
}

func NewSampler(src Drawer, opts ...Option) *Sampler {
	s := &Sampler{src: src}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample returns an integer uniformly distributed over [1, n].
//
// With k = BitLength(n), 2^(k-1) <= n < 2^k, so each draw is accepted with
// probability n/2^k > 1/2 and fewer than two draws are expected. Without an
// attempt cap the loop relies on the backend for termination. Backend errors
// are returned unchanged.
func (s *Sampler) Sample(ctx context.Context, n int) (Result, error) {
	if n < 1 {
		return Result{}, fmt.Errorf("%w: bound must be at least 1, got %d", ErrInvalidInput, n)
	}
	k := BitLength(n)
	if k > MaxBitWidth {
		return Result{}, fmt.Errorf("%w: bound %d needs %d bits, max is %d", ErrInvalidInput, n, k, MaxBitWidth)
	}

	for attempt := 1; ; attempt++ {
		if s.maxAttempts > 0 && attempt > s.maxAttempts {
			return Result{}, &BackendError{Op: "sample", Err: fmt.Errorf("%w after %d attempts", ErrExhausted, s.maxAttempts)}
		}
		if err := ctx.Err(); err != nil {
			return Result{}, &BackendError{Op: "sample", Err: err}
		}

		d, err := s.src.Draw(ctx, k)
		if err != nil {
			return Result{}, err
		}
		if d.Value >= 1 && d.Value <= uint64(n) {
			return Result{Value: int(d.Value), Bits: d.Bits, BitWidth: k, Attempts: attempt}, nil
		}
	}
}
