package rng_test

import (
	"context"
	"sync"
	"testing"

	"github.com/lost-woods/qrandom/src/backend"
	"github.com/lost-woods/qrandom/src/entropy"
	"github.com/lost-woods/qrandom/src/rng"
)

type rangeErr struct{ got int }

func (e *rangeErr) Error() string { return "out of range" }

func TestSampler_ConcurrentSharedEntropy_NoErrors(t *testing.T) {
	locked := entropy.NewLockedReader(&byteCycleReader{})
	sim, err := backend.NewSimulator(locked)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	s := rng.NewSampler(rng.NewBitSource(sim))

	const goroutines = 50
	const perG = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	errs := make(chan error, goroutines*perG)

	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				r, err := s.Sample(context.Background(), 52)
				if err != nil {
					errs <- err
					return
				}
				if r.Value < 1 || r.Value > 52 {
					errs <- &rangeErr{got: r.Value}
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent error: %v", err)
		}
	}
}
