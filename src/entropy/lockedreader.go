package entropy

import (
	"io"
	"sync"
)

// LockedReader wraps an entropy stream and serializes Read calls with a mutex,
// so one hardware or keystream handle can feed concurrent samplers and the
// background health monitor.
type LockedReader struct {
	r  io.Reader
	mu sync.Mutex
}

func (lr *LockedReader) Read(p []byte) (int, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.r.Read(p)
}

// Close closes the wrapped stream if it has a Close method.
func (lr *LockedReader) Close() error {
	c, ok := lr.r.(io.Closer)
	if !ok {
		return nil
	}
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return c.Close()
}

// NewLockedReader returns a reader that is safe for concurrent use.
// If r is already a *LockedReader, it is returned as-is.
func NewLockedReader(r io.Reader) *LockedReader {
	if r == nil {
		return nil
	}
	if lr, ok := r.(*LockedReader); ok {
		return lr
	}
	return &LockedReader{r: r}
}
