package entropy

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/chacha20"
)

// seededReader is a deterministic ChaCha20 keystream. Two readers built from
// the same seed produce the same bytes, which makes demonstration runs
// reproducible. It is not a substitute for a real entropy source.
type seededReader struct {
	c *chacha20.Cipher
}

func NewSeeded(seed string) (*LockedReader, error) {
	if seed == "" {
		return nil, errors.New("seeded entropy requires a non-empty seed")
	}
	key := sha256.Sum256([]byte(seed))
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return NewLockedReader(&seededReader{c: c}), nil
}

func (r *seededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.c.XORKeyStream(p, p)
	return len(p), nil
}
