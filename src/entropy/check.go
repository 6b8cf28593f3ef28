package entropy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// SampleBytes is how much of a stream Check consumes.
const SampleBytes = 256

// Check performs a lightweight sanity check on SampleBytes read from r.
// It cannot prove randomness, but detects disconnection, stuck output and
// other common failures. Every failed check is reported.
func Check(r io.Reader) error {
	buf := make([]byte, SampleBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("entropy read failed: %w", err)
	}
	return CheckSample(buf)
}

func CheckSample(buf []byte) error {
	if len(buf) == 0 {
		return errors.New("entropy sample is empty")
	}

	var errs error

	allSame := true
	for i := 1; i < len(buf); i++ {
		if buf[i] != buf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		errs = multierr.Append(errs, errors.New("entropy appears stuck (all sampled bytes identical)"))
	}

	if len(buf) >= 8 {
		var prev uint32
		repeats := 0
		words := 0
		for i := 0; i+4 <= len(buf); i += 4 {
			w := binary.BigEndian.Uint32(buf[i : i+4])
			if words > 0 && w == prev {
				repeats++
			}
			prev = w
			words++
		}
		if words > 1 && repeats > (words-1)*3/4 {
			errs = multierr.Append(errs, errors.New("entropy appears stuck (32-bit words repeating excessively)"))
		}
	}

	distinct := make(map[byte]struct{}, 256)
	for _, b := range buf {
		distinct[b] = struct{}{}
	}
	if len(buf) >= 64 && len(distinct) < 8 {
		errs = multierr.Append(errs, fmt.Errorf("entropy sample has too few distinct byte values (%d); suspicious", len(distinct)))
	}

	return errs
}
