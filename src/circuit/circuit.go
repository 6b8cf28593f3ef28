package circuit

import (
	"errors"
	"fmt"
)

type Gate uint8

const (
	GateH Gate = iota + 1
	GateX
	GateMeasure
)

func (g Gate) String() string {
	switch g {
	case GateH:
		return "h"
	case GateX:
		return "x"
	case GateMeasure:
		return "measure"
	}
	return fmt.Sprintf("gate(%d)", uint8(g))
}

// Instruction applies Gate to Qubit. Clbit is only meaningful for GateMeasure.
type Instruction struct {
	Gate  Gate
	Qubit int
	Clbit int
}

// Circuit is a register of qubits and classical bits plus an ordered
// instruction list. All qubits start in |0>.
type Circuit struct {
	NumQubits    int
	NumClbits    int
	Instructions []Instruction
}

var ErrInvalidCircuit = errors.New("invalid circuit")

func New(numQubits, numClbits int) (*Circuit, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("%w: need at least one qubit, got %d", ErrInvalidCircuit, numQubits)
	}
	if numClbits < 0 {
		return nil, fmt.Errorf("%w: negative classical register size %d", ErrInvalidCircuit, numClbits)
	}
	return &Circuit{NumQubits: numQubits, NumClbits: numClbits}, nil
}

// H appends a Hadamard gate on each of the given qubits.
func (c *Circuit) H(qubits ...int) *Circuit {
	for _, q := range qubits {
		c.Instructions = append(c.Instructions, Instruction{Gate: GateH, Qubit: q})
	}
	return c
}

func (c *Circuit) X(qubits ...int) *Circuit {
	for _, q := range qubits {
		c.Instructions = append(c.Instructions, Instruction{Gate: GateX, Qubit: q})
	}
	return c
}

// Measure reads qubit q into classical bit cl.
func (c *Circuit) Measure(q, cl int) *Circuit {
	c.Instructions = append(c.Instructions, Instruction{Gate: GateMeasure, Qubit: q, Clbit: cl})
	return c
}

func (c *Circuit) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil circuit", ErrInvalidCircuit)
	}
	if c.NumQubits < 1 || c.NumClbits < 0 {
		return fmt.Errorf("%w: bad register sizes (%d qubits, %d clbits)", ErrInvalidCircuit, c.NumQubits, c.NumClbits)
	}
	for i, in := range c.Instructions {
		if in.Qubit < 0 || in.Qubit >= c.NumQubits {
			return fmt.Errorf("%w: instruction %d (%s) uses qubit %d outside [0, %d)", ErrInvalidCircuit, i, in.Gate, in.Qubit, c.NumQubits)
		}
		switch in.Gate {
		case GateH, GateX:
		case GateMeasure:
			if in.Clbit < 0 || in.Clbit >= c.NumClbits {
				return fmt.Errorf("%w: instruction %d measures into clbit %d outside [0, %d)", ErrInvalidCircuit, i, in.Clbit, c.NumClbits)
			}
		default:
			return fmt.Errorf("%w: instruction %d has unsupported gate %s", ErrInvalidCircuit, i, in.Gate)
		}
	}
	return nil
}

// Uniform builds the k-qubit circuit whose one-shot measurement is uniform
// over all 2^k bit strings: a Hadamard on every qubit, then qubit i measured
// into classical bit i.
func Uniform(k int) (*Circuit, error) {
	c, err := New(k, k)
	if err != nil {
		return nil, err
	}
	for q := 0; q < k; q++ {
		c.H(q)
	}
	for q := 0; q < k; q++ {
		c.Measure(q, q)
	}
	return c, nil
}
