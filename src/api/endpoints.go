package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lost-woods/qrandom/src/rng"
)

const defaultBound = "4"

func (h *Handlers) bound(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.DefaultQuery("max", defaultBound))
	if err != nil || n < 1 || n > h.opts.MaxBound {
		responder{c}.err(http.StatusBadRequest,
			fmt.Sprintf("Max must be an integer between 1 and %d.", h.opts.MaxBound))
		return 0, false
	}
	return n, true
}

// RandomNumber samples a uniform integer in [1, max].
func (h *Handlers) RandomNumber(c *gin.Context) {
	n, ok := h.bound(c)
	if !ok {
		return
	}

	h.handleRNG(c, func() (string, gin.H, int, string) {
		ctx := c.Request.Context()
		if h.opts.SampleTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.opts.SampleTimeout)
			defer cancel()
		}

		r, err := h.sampler.Sample(ctx, n)
		if err != nil {
			return "", nil, h.sampleFailure(err), "Error generating a random number."
		}

		return fmt.Sprintf("%d (%s)", r.Value, r.Bits), gin.H{
			"number":    r.Value,
			"bits":      r.Bits,
			"bit_width": r.BitWidth,
			"attempts":  r.Attempts,
			"max":       n,
			"steps":     steps(r.BitWidth),
		}, 0, ""
	})
}

// steps narrates how a draw of k bits is produced.
func steps(k int) []string {
	return []string{
		"Generating quantum states...",
		fmt.Sprintf("Creating %d qubits...", k),
		fmt.Sprintf("Creating %d classical bits...", k),
		"Putting qubits into superposition states using Hadamard gates...",
		"Measuring qubits...",
	}
}

func (h *Handlers) sampleFailure(err error) int {
	switch {
	case errors.Is(err, rng.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warnw("sample timed out", "error", err)
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}

	h.log.Errorw("sample failed", "error", err)
	h.markUnhealthy("error sampling: " + err.Error())
	return http.StatusServiceUnavailable
}

// Circuit returns the circuit that a draw for max runs, as OpenQASM.
func (h *Handlers) Circuit(c *gin.Context) {
	n, ok := h.bound(c)
	if !ok {
		return
	}

	k := rng.BitLength(n)
	qasm, err := h.qasm.get(k)
	if err != nil {
		h.log.Error(err)
		responder{c}.err(http.StatusInternalServerError, "Error building circuit.")
		return
	}

	h.respond(c, qasm, gin.H{"max": n, "bit_width": k, "qasm": qasm})
}

func (h *Handlers) Health(c *gin.Context) {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "UNHEALTHY: missing health monitor")
		return
	}

	ok, msg, t := h.health.Snapshot()
	if ok {
		responder{c}.ok(
			fmt.Sprintf("OK (last checked %s)", t.Format(time.RFC3339)),
			gin.H{"ok": true, "last_checked": t.Format(time.RFC3339)},
			"health-check",
		)
		return
	}

	responder{c}.err(http.StatusServiceUnavailable,
		fmt.Sprintf("UNHEALTHY: %s (last checked %s)", msg, t.Format(time.RFC3339)))
}
