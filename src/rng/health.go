package rng

import (
	"context"
	"sync"
	"time"

	"github.com/lost-woods/qrandom/src/entropy"
)

type Health struct {
	mu            sync.RWMutex
	ok            bool
	lastErr       string
	lastCheckedAt time.Time
	lastSample32  uint64
	repeatCount32 int
}

func NewHealth() *Health { return &Health{ok: false} }

func (h *Health) Set(ok bool, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ok = ok
	h.lastErr = errMsg
	h.lastCheckedAt = time.Now()
}

func (h *Health) Snapshot() (ok bool, errMsg string, t time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ok, h.lastErr, h.lastCheckedAt
}

// HealthCheck draws entropy.SampleBytes bytes through src, one 8-bit draw
// per byte, and runs the entropy sanity checks on them. It exercises the
// whole path: circuit, backend and entropy stream.
func HealthCheck(ctx context.Context, src Drawer, h *Health) error {
	buf := make([]byte, entropy.SampleBytes)
	for i := range buf {
		d, err := src.Draw(ctx, 8)
		if err != nil {
			return err
		}
		buf[i] = byte(d.Value)
	}
	if err := entropy.CheckSample(buf); err != nil {
		return err
	}

	if h != nil {
		h.mu.Lock()
		h.lastSample32 = 0
		h.repeatCount32 = 0
		h.mu.Unlock()
	}
	return nil
}

// stuckAfter repeats of the previous 32-bit draw in a row mark the source
// unhealthy; a healthy source does that with probability 2^-640.
const stuckAfter = 20

// PeriodicHealthCheck takes one 32-bit draw every interval until ctx is done.
func PeriodicHealthCheck(ctx context.Context, src Drawer, h *Health, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		checkOnce(ctx, src, h)
	}
}

// checkOnce tracks repeats of a single 32-bit draw. An unhealthy source only
// recovers after passing the full HealthCheck again.
func checkOnce(ctx context.Context, src Drawer, h *Health) {
	d, err := src.Draw(ctx, 32)
	if err != nil {
		h.Set(false, "draw failed: "+err.Error())
		return
	}

	h.mu.Lock()
	if d.Value == h.lastSample32 {
		h.repeatCount32++
	} else {
		h.repeatCount32 = 0
	}
	h.lastSample32 = d.Value
	h.lastCheckedAt = time.Now()

	if h.repeatCount32 >= stuckAfter {
		h.ok = false
		h.lastErr = "bit source appears stuck (repeating identical 32-bit draws)"
		h.mu.Unlock()
		return
	}
	wasOK := h.ok
	h.mu.Unlock()

	if !wasOK {
		if err := HealthCheck(ctx, src, nil); err != nil {
			h.Set(false, "recovery check failed: "+err.Error())
			return
		}
	}
	h.Set(true, "")
}
