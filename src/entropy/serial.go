package entropy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tarm/serial"
)

// SerialConfig describes a USB hardware TRNG exposed as a serial device.
type SerialConfig struct {
	Name        string // e.g. /dev/ttyACM0 or COM3
	Baud        int
	ReadTimeout time.Duration
	// Retries is how many times opening (and sanity checking) the device is
	// retried with exponential backoff before giving up.
	Retries uint64
}

func (c SerialConfig) validate() error {
	if c.Name == "" {
		return errors.New("serial device name is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid serial baud rate: %d", c.Baud)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("invalid serial read timeout: %s", c.ReadTimeout)
	}
	return nil
}

type portOpener func(*serial.Config) (io.ReadCloser, error)

func openPort(cfg *serial.Config) (io.ReadCloser, error) {
	return serial.OpenPort(cfg)
}

// OpenSerial opens the device and runs Check on it before handing it out.
func OpenSerial(ctx context.Context, cfg SerialConfig) (io.ReadCloser, error) {
	return openSerial(ctx, cfg, openPort, backoff.NewExponentialBackOff())
}

func openSerial(ctx context.Context, cfg SerialConfig, open portOpener, b backoff.BackOff) (io.ReadCloser, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pc := &serial.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		Size:        8,
		ReadTimeout: cfg.ReadTimeout,
	}

	var port io.ReadCloser
	op := func() error {
		p, err := open(pc)
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.Name, err)
		}
		if err := Check(p); err != nil {
			p.Close()
			return fmt.Errorf("serial RNG %s failed sanity check: %w", cfg.Name, err)
		}
		port = p
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, cfg.Retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return port, nil
}
