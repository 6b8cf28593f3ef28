package circuit

import (
	"fmt"
	"strings"
)

// QASM renders the circuit as an OpenQASM 2.0 program.
func (c *Circuit) QASM() string {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", c.NumQubits)
	if c.NumClbits > 0 {
		fmt.Fprintf(&b, "creg c[%d];\n", c.NumClbits)
	}
	for _, in := range c.Instructions {
		if in.Gate == GateMeasure {
			fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", in.Qubit, in.Clbit)
			continue
		}
		fmt.Fprintf(&b, "%s q[%d];\n", in.Gate, in.Qubit)
	}
	return b.String()
}
