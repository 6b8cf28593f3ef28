package rng_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/lost-woods/qrandom/src/backend"
	"github.com/lost-woods/qrandom/src/circuit"
)

// counterBackend measures 0, 1, 2, ... in turn, wrapping at 2^k.
type counterBackend struct {
	mu    sync.Mutex
	next  uint64
	calls int
}

func (b *counterBackend) Run(_ context.Context, c *circuit.Circuit, shots int) (backend.Counts, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	k := c.NumClbits
	v := b.next % (uint64(1) << uint(k))
	b.next++
	return backend.Counts{fmt.Sprintf("%0*b", k, v): shots}, nil
}

// scriptedBackend replays fixed outcomes and errors, then fails.
type scriptedBackend struct {
	outcomes []interface{} // string or error
	i        int
}

func (b *scriptedBackend) Run(context.Context, *circuit.Circuit, int) (backend.Counts, error) {
	if b.i >= len(b.outcomes) {
		return nil, fmt.Errorf("script exhausted after %d runs", b.i)
	}
	o := b.outcomes[b.i]
	b.i++
	if err, ok := o.(error); ok {
		return nil, err
	}
	return backend.Counts{o.(string): 1}, nil
}

// countsBackend always returns the same counts.
type countsBackend struct {
	counts backend.Counts
}

func (b countsBackend) Run(context.Context, *circuit.Circuit, int) (backend.Counts, error) {
	return b.counts, nil
}

func script(outcomes ...interface{}) *scriptedBackend {
	return &scriptedBackend{outcomes: outcomes}
}

// xorshift32 is a deterministic entropy stream for smoke tests.
type xorshift32 struct {
	x uint32
}

func (r *xorshift32) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i++ {
		r.x ^= r.x << 13
		r.x ^= r.x >> 17
		r.x ^= r.x << 5
		p[i] = byte(r.x >> 24)
	}
	return len(p), nil
}

// byteCycleReader returns deterministic bytes cycling through 0..255.
// It is NOT safe for concurrent use without a lock.
type byteCycleReader struct {
	b byte
}

func (r *byteCycleReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}
