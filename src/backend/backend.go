package backend

import (
	"context"

	"github.com/lost-woods/qrandom/src/circuit"
)

// Counts maps each observed bit string to the number of shots that produced
// it. Bit strings are big-endian over the classical register: clbit n-1 is
// the leftmost character, clbit 0 the rightmost.
type Counts map[string]int

// Backend executes circuits. Implementations must be safe for concurrent use
// or be documented otherwise.
type Backend interface {
	Run(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error)
}
