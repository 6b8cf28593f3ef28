package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lost-woods/qrandom/src/rng"
)

// Sampler is satisfied by *rng.Sampler.
type Sampler interface {
	Sample(ctx context.Context, n int) (rng.Result, error)
}

type Options struct {
	// MaxBound is the largest accepted max query value.
	MaxBound int
	// SampleTimeout bounds each Sample call; zero disables it.
	SampleTimeout time.Duration
	// ListingCacheSize is how many circuit listings are kept; zero disables
	// caching.
	ListingCacheSize int64
}

type Handlers struct {
	sampler Sampler
	health  *rng.Health
	log     *zap.SugaredLogger
	opts    Options
	qasm    *listings
}

func NewHandlers(s Sampler, h *rng.Health, log *zap.SugaredLogger, opts Options) *Handlers {
	if opts.MaxBound < 1 {
		opts.MaxBound = 1
	}
	return &Handlers{sampler: s, health: h, log: log, opts: opts, qasm: newListings(opts.ListingCacheSize)}
}

func (h *Handlers) rngOK(c *gin.Context) bool {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: missing health monitor")
		return false
	}

	ok, msg, _ := h.health.Snapshot()
	if ok {
		return true
	}

	responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: "+msg)
	return false
}

func (h *Handlers) markUnhealthy(msg string) {
	if h.health != nil {
		h.health.Set(false, msg)
	}
}

func requestID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

/*
handleRNG enforces:
1. RNG health check
2. Outcome computation
3. Error handling
4. Request ID generation only after success
5. JSON vs plaintext response
*/
func (h *Handlers) handleRNG(
	c *gin.Context,
	work func() (text string, payload gin.H, status int, errMsg string),
) {
	if !h.rngOK(c) {
		return
	}

	text, payload, status, errMsg := work()
	if errMsg != "" {
		responder{c}.err(status, errMsg)
		return
	}

	h.respond(c, text, payload)
}

func (h *Handlers) respond(c *gin.Context, text string, payload gin.H) {
	id, err := requestID()
	if err != nil {
		h.log.Error(err)
		responder{c}.err(http.StatusInternalServerError, "Error generating request id.")
		return
	}
	responder{c}.ok(text, payload, id)
}

// CheckHeader rejects requests whose headerName differs from expectedValue.
// An empty expectedValue disables the check.
func CheckHeader(headerName, expectedValue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expectedValue == "" {
			c.Next()
			return
		}

		if c.GetHeader(headerName) != expectedValue {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
