package api

import (
	"github.com/dgraph-io/ristretto"

	"github.com/lost-woods/qrandom/src/circuit"
)

// listings caches the OpenQASM text of the uniform circuit per bit width.
// Every max with the same bit width shares one entry.
type listings struct {
	cache *ristretto.Cache
}

// newListings returns a cache holding up to size listings. A nil cache (size
// < 1 or a rejected config) renders every listing afresh.
func newListings(size int64) *listings {
	if size < 1 {
		return &listings{}
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
		// Cost counts entries, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return &listings{}
	}
	return &listings{cache: cache}
}

func (l *listings) get(k int) (string, error) {
	if l.cache != nil {
		if v, ok := l.cache.Get(uint64(k)); ok {
			return v.(string), nil
		}
	}

	qc, err := circuit.Uniform(k)
	if err != nil {
		return "", err
	}
	qasm := qc.QASM()
	if l.cache != nil {
		l.cache.Set(uint64(k), qasm, 1)
	}
	return qasm, nil
}
