package main

import (
	"fmt"
	"slices"
	"strings"
)

// GateKind tags the variant of a Gate.
type GateKind int

const (
	GateHadamard GateKind = iota
	GatePauliX
	GatePhaseFlip // multi-controlled phase flip
)

func (k GateKind) String() string {
	switch k {
	case GateHadamard:
		return "H"
	case GatePauliX:
		return "X"
	case GatePhaseFlip:
		return "MCZ"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// Gate is a single gate application. Controls is only meaningful for
// GatePhaseFlip. Gates are values and are never mutated after construction.
type Gate struct {
	Kind     GateKind
	Target   int
	Controls []int
}

// Hadamard returns an H gate on q.
func Hadamard(q int) Gate { return Gate{Kind: GateHadamard, Target: q} }

// PauliX returns an X gate on q.
func PauliX(q int) Gate { return Gate{Kind: GatePauliX, Target: q} }

// PhaseFlip returns a phase flip of the basis state where every control and
// the target are 1. The controls slice is copied.
func PhaseFlip(controls []int, target int) Gate {
	return Gate{Kind: GatePhaseFlip, Target: target, Controls: slices.Clone(controls)}
}

// qubits returns every qubit index the gate references, target last.
func (g Gate) qubits() []int {
	return append(slices.Clone(g.Controls), g.Target)
}

// Validate checks the gate against a register of numQubits qubits.
func (g Gate) Validate(numQubits int) error {
	switch g.Kind {
	case GateHadamard, GatePauliX, GatePhaseFlip:
	default:
		return fmt.Errorf("unknown gate kind %d", int(g.Kind))
	}
	if g.Target < 0 || g.Target >= numQubits {
		return &QubitIndexError{Gate: g.Kind, Qubit: g.Target, NumQubits: numQubits, Reason: "target out of range"}
	}
	if g.Kind != GatePhaseFlip {
		if len(g.Controls) > 0 {
			return &QubitIndexError{Gate: g.Kind, Qubit: g.Controls[0], NumQubits: numQubits, Reason: "gate takes no controls"}
		}
		return nil
	}
	seen := make(map[int]bool, len(g.Controls))
	for _, c := range g.Controls {
		switch {
		case c < 0 || c >= numQubits:
			return &QubitIndexError{Gate: g.Kind, Qubit: c, NumQubits: numQubits, Reason: "control out of range"}
		case c == g.Target:
			return &QubitIndexError{Gate: g.Kind, Qubit: c, NumQubits: numQubits, Reason: "control equals target"}
		case seen[c]:
			return &QubitIndexError{Gate: g.Kind, Qubit: c, NumQubits: numQubits, Reason: "control repeated"}
		}
		seen[c] = true
	}
	return nil
}

// Circuit is an ordered gate sequence over a fixed register.
type Circuit struct {
	NumQubits int
	Gates     []Gate
}

// NewCircuit returns an empty circuit on numQubits qubits.
func NewCircuit(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// AddGate validates g and appends it.
func (c *Circuit) AddGate(g Gate) error {
	if err := g.Validate(c.NumQubits); err != nil {
		return err
	}
	c.Gates = append(c.Gates, g)
	return nil
}

// HadamardAll appends H on every qubit.
func (c *Circuit) HadamardAll() {
	for q := range c.NumQubits {
		c.Gates = append(c.Gates, Hadamard(q))
	}
}

// PauliXAll appends X on every qubit.
func (c *Circuit) PauliXAll() {
	for q := range c.NumQubits {
		c.Gates = append(c.Gates, PauliX(q))
	}
}

// Append copies the gates of other onto the end of c. Both circuits must
// share a register size.
func (c *Circuit) Append(other *Circuit) error {
	if other.NumQubits != c.NumQubits {
		return fmt.Errorf("cannot append %d-qubit circuit to %d-qubit circuit", other.NumQubits, c.NumQubits)
	}
	c.Gates = append(c.Gates, other.Gates...)
	return nil
}

// Validate checks every gate against the register.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 || c.NumQubits > MaxQubits {
		return fmt.Errorf("%w: %d", ErrInvalidQubitCount, c.NumQubits)
	}
	for i, g := range c.Gates {
		if err := g.Validate(c.NumQubits); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}

// Counts returns the number of gates of each kind.
func (c *Circuit) Counts() map[GateKind]int {
	counts := make(map[GateKind]int, 3)
	for _, g := range c.Gates {
		counts[g.Kind]++
	}
	return counts
}

// Depth returns the number of layers when every gate is placed in the
// earliest layer after the last gate touching any of its qubits. A phase
// flip gadget occupies one layer.
func (c *Circuit) Depth() int {
	level := make([]int, c.NumQubits)
	depth := 0
	for _, g := range c.Gates {
		qs := g.qubits()
		layer := 0
		for _, q := range qs {
			if q >= 0 && q < len(level) {
				layer = max(layer, level[q])
			}
		}
		layer++
		for _, q := range qs {
			if q >= 0 && q < len(level) {
				level[q] = layer
			}
		}
		depth = max(depth, layer)
	}
	return depth
}

// ToQASM generates OpenQASM 2.0 output. Phase flips are expanded into the
// H, multi-controlled X, H sequence the engine executes, and every qubit is
// measured at the end.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)

	for _, g := range c.Gates {
		writeGateQASM(&sb, g)
	}

	qubits := make([]string, numQubits)
	for q := range numQubits {
		qubits[q] = fmt.Sprintf("q[%d]", q)
	}
	fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
	for q := range numQubits {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, q)
	}
	return sb.String()
}

func writeGateQASM(sb *strings.Builder, g Gate) {
	switch g.Kind {
	case GateHadamard:
		fmt.Fprintf(sb, "h q[%d];\n", g.Target)
	case GatePauliX:
		fmt.Fprintf(sb, "x q[%d];\n", g.Target)
	case GatePhaseFlip:
		fmt.Fprintf(sb, "h q[%d];\n", g.Target)
		switch len(g.Controls) {
		case 0:
			fmt.Fprintf(sb, "x q[%d];\n", g.Target)
		case 1:
			fmt.Fprintf(sb, "cx q[%d], q[%d];\n", g.Controls[0], g.Target)
		case 2:
			fmt.Fprintf(sb, "ccx q[%d], q[%d], q[%d];\n", g.Controls[0], g.Controls[1], g.Target)
		default:
			sb.WriteString("mcx ")
			for _, ctrl := range g.Controls {
				fmt.Fprintf(sb, "q[%d], ", ctrl)
			}
			fmt.Fprintf(sb, "q[%d];\n", g.Target)
		}
		fmt.Fprintf(sb, "h q[%d];\n", g.Target)
	}
}
