package entropy

import (
	"context"
	"crypto/rand"
	"fmt"
)

type Kind string

const (
	KindCrypto Kind = "crypto"
	KindSerial Kind = "serial"
	KindSeeded Kind = "seeded"
)

type Config struct {
	Kind   Kind
	Seed   string
	Serial SerialConfig
}

// Open returns the configured entropy stream, serialized for concurrent use.
// Close releases the underlying device, if any.
func Open(ctx context.Context, cfg Config) (*LockedReader, error) {
	switch cfg.Kind {
	case KindCrypto, "":
		return NewLockedReader(rand.Reader), nil
	case KindSeeded:
		return NewSeeded(cfg.Seed)
	case KindSerial:
		p, err := OpenSerial(ctx, cfg.Serial)
		if err != nil {
			return nil, err
		}
		return NewLockedReader(p), nil
	}
	return nil, fmt.Errorf("unknown entropy source %q", cfg.Kind)
}
