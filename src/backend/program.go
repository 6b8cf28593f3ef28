package backend

import (
	"math"
	"math/cmplx"

	"github.com/lost-woods/qrandom/src/circuit"
)

type matrix [2][2]complex128

var (
	hadamard = matrix{
		{complex(math.Sqrt2/2, 0), complex(math.Sqrt2/2, 0)},
		{complex(math.Sqrt2/2, 0), complex(-math.Sqrt2/2, 0)},
	}
	pauliX = matrix{
		{0, 1},
		{1, 0},
	}
)

type qubit [2]complex128

func (q *qubit) apply(m *matrix) {
	a0 := m[0][0]*q[0] + m[0][1]*q[1]
	a1 := m[1][0]*q[0] + m[1][1]*q[1]
	q[0], q[1] = a0, a1
}

// probOne is the probability of reading 1. Values within rounding distance
// of 0, 1/2 or 1 are snapped so that an ideal Hadamard is exactly fair.
func (q *qubit) probOne() float64 {
	p := math.Pow(cmplx.Abs(q[1]), 2)
	for _, exact := range [...]float64{0, 0.5, 1} {
		if math.Abs(p-exact) < 1e-12 {
			return exact
		}
	}
	return p
}

type step struct {
	gate  *matrix // nil for a measurement
	qubit int
	clbit int
}

// program is a validated circuit lowered to matrices. Only single-qubit
// operations exist, so every qubit stays in a product state and is simulated
// independently.
type program struct {
	numQubits int
	numClbits int
	steps     []step
}

func compile(c *circuit.Circuit) (*program, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p := &program{
		numQubits: c.NumQubits,
		numClbits: c.NumClbits,
		steps:     make([]step, 0, len(c.Instructions)),
	}
	for _, in := range c.Instructions {
		s := step{qubit: in.Qubit, clbit: in.Clbit}
		switch in.Gate {
		case circuit.GateH:
			s.gate = &hadamard
		case circuit.GateX:
			s.gate = &pauliX
		}
		p.steps = append(p.steps, s)
	}
	return p, nil
}
