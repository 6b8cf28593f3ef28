package backend

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lost-woods/qrandom/src/circuit"
)

var ErrInvalidShots = errors.New("shots must be at least 1")

// Simulator is an ideal, noiseless circuit simulator. Measurement outcomes are
// drawn from an entropy stream, so the quality of the output is exactly the
// quality of that stream. Safe for concurrent use if the entropy stream is.
type Simulator struct {
	entropy io.Reader
}

func NewSimulator(entropy io.Reader) (*Simulator, error) {
	if entropy == nil {
		return nil, errors.New("simulator needs an entropy source")
	}
	return &Simulator{entropy: entropy}, nil
}

func (s *Simulator) Run(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error) {
	if shots < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShots, shots)
	}
	p, err := compile(c)
	if err != nil {
		return nil, err
	}

	counts := make(Counts)
	src := &bitStream{r: s.entropy}
	for i := 0; i < shots; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := p.shot(src)
		if err != nil {
			return nil, err
		}
		counts[outcome]++
	}
	return counts, nil
}

func (p *program) shot(src *bitStream) (string, error) {
	qubits := make([]qubit, p.numQubits)
	for i := range qubits {
		qubits[i] = qubit{1, 0}
	}
	clbits := make([]byte, p.numClbits)
	for i := range clbits {
		clbits[i] = '0'
	}

	for _, st := range p.steps {
		q := &qubits[st.qubit]
		if st.gate != nil {
			q.apply(st.gate)
			continue
		}

		one, err := src.outcome(q.probOne())
		if err != nil {
			return "", err
		}
		if one {
			*q = qubit{0, 1}
			clbits[st.clbit] = '1'
		} else {
			*q = qubit{1, 0}
			clbits[st.clbit] = '0'
		}
	}

	// clbit n-1 leftmost
	out := make([]byte, len(clbits))
	for i, b := range clbits {
		out[len(clbits)-1-i] = b
	}
	return string(out), nil
}

// bitStream hands out entropy one bit at a time, most significant bit of
// each byte first.
type bitStream struct {
	r   io.Reader
	buf [1]byte
	n   uint
}

func (b *bitStream) bit() (bool, error) {
	if b.n == 0 {
		if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
			return false, fmt.Errorf("read entropy: %w", err)
		}
		b.n = 8
	}
	b.n--
	return (b.buf[0]>>b.n)&1 == 1, nil
}

// outcome reports a measurement of 1 with probability p. The gate set only
// reaches amplitudes in {0, ±1/√2, ±1}, so p is always 0, 1/2 or 1.
func (b *bitStream) outcome(p float64) (bool, error) {
	switch p {
	case 0:
		return false, nil
	case 1:
		return true, nil
	case 0.5:
		return b.bit()
	}
	return false, fmt.Errorf("unsupported measurement probability %g", p)
}
