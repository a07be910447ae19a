package main

import (
	"fmt"
	"math"
	"slices"
)

// IterationPolicy selects how many oracle+diffusion rounds a search runs.
type IterationPolicy string

const (
	// PolicyKnown uses the exact marked count: round(π/4·√(N/k)).
	PolicyKnown IterationPolicy = "known"
	// PolicyUpperBound assumes only that k ≥ 1: round(π/4·√N).
	PolicyUpperBound IterationPolicy = "upper-bound"
)

// Valid reports whether p is a known policy.
func (p IterationPolicy) Valid() bool {
	return p == PolicyKnown || p == PolicyUpperBound
}

// Iterations returns the round count for numQubits qubits and marked marked
// states under p. An empty marked set falls back to the upper-bound count.
func (p IterationPolicy) Iterations(numQubits, marked int) int {
	if p == PolicyUpperBound || marked <= 0 {
		return UpperBoundIterations(numQubits)
	}
	return Iterations(numQubits, marked)
}

// Iterations returns round(π/4·√(N/k)).
func Iterations(numQubits, marked int) int {
	n := float64(int(1) << numQubits)
	return int(math.Round(math.Pi / 4 * math.Sqrt(n/float64(marked))))
}

// UpperBoundIterations returns round(π/4·√N).
func UpperBoundIterations(numQubits int) int {
	n := float64(int(1) << numQubits)
	return int(math.Round(math.Pi / 4 * math.Sqrt(n)))
}

// SuccessProbability is the ideal probability of measuring a marked state
// after r rounds with k of N states marked: sin²((2r+1)·asin(√(k/N))).
func SuccessProbability(numQubits, marked, rounds int) float64 {
	if marked <= 0 {
		return 0
	}
	n := float64(int(1) << numQubits)
	theta := math.Asin(math.Sqrt(min(float64(marked)/n, 1)))
	s := math.Sin(float64(2*rounds+1) * theta)
	return s * s
}

// MarkedSet is a validated, sorted set of distinct basis indices.
type MarkedSet struct {
	numQubits int
	indices   []int
}

// NewMarkedSet validates indices against a numQubits register. Negative,
// out-of-range and repeated entries are rejected.
func NewMarkedSet(numQubits int, indices []int) (MarkedSet, error) {
	if err := checkQubitCount(numQubits); err != nil {
		return MarkedSet{}, err
	}
	limit := 1 << numQubits
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= limit {
			return MarkedSet{}, &MarkedIndexError{Index: idx, NumQubits: numQubits}
		}
		if seen[idx] {
			return MarkedSet{}, &MarkedIndexError{Index: idx, NumQubits: numQubits, Duplicate: true}
		}
		seen[idx] = true
	}
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	return MarkedSet{numQubits: numQubits, indices: sorted}, nil
}

func (m MarkedSet) NumQubits() int { return m.numQubits }

func (m MarkedSet) Len() int { return len(m.indices) }

// Indices returns a copy of the marked indices in ascending order.
func (m MarkedSet) Indices() []int { return slices.Clone(m.indices) }

func (m MarkedSet) Contains(index int) bool {
	_, found := slices.BinarySearch(m.indices, index)
	return found
}

// ContainsBitString reports whether the outcome string names a marked state.
func (m MarkedSet) ContainsBitString(bits string) bool {
	idx, err := ParseBitString(bits)
	return err == nil && m.Contains(idx)
}

func checkRegister(numQubits int, marked MarkedSet) error {
	if err := checkQubitCount(numQubits); err != nil {
		return err
	}
	if marked.Len() > 0 && marked.NumQubits() != numQubits {
		return fmt.Errorf("marked set built for %d qubits, circuit has %d", marked.NumQubits(), numQubits)
	}
	return nil
}

// phaseFlipAll flips the sign of |1…1⟩: controls on qubits 0..n-2, target n-1.
func phaseFlipAll(numQubits int) Gate {
	controls := make([]int, numQubits-1)
	for q := range controls {
		controls[q] = q
	}
	return PhaseFlip(controls, numQubits-1)
}

// Oracle returns a circuit that negates the amplitude of every marked state.
// Each marked index gets its own gadget: X on the qubits where the index has
// a 0 bit, the all-ones phase flip, then the same X gates to restore them.
func Oracle(numQubits int, marked MarkedSet) (*Circuit, error) {
	if err := checkRegister(numQubits, marked); err != nil {
		return nil, err
	}
	c := NewCircuit(numQubits)
	flip := phaseFlipAll(numQubits)
	for _, m := range marked.indices {
		var zeros []int
		for q := range numQubits {
			if m&(1<<q) == 0 {
				zeros = append(zeros, q)
			}
		}
		for _, q := range zeros {
			c.Gates = append(c.Gates, PauliX(q))
		}
		c.Gates = append(c.Gates, flip)
		for _, q := range zeros {
			c.Gates = append(c.Gates, PauliX(q))
		}
	}
	return c, nil
}

// Diffusion returns the reflection about the uniform superposition:
// H all, X all, all-ones phase flip, X all, H all.
func Diffusion(numQubits int) (*Circuit, error) {
	if err := checkQubitCount(numQubits); err != nil {
		return nil, err
	}
	c := NewCircuit(numQubits)
	c.HadamardAll()
	c.PauliXAll()
	c.Gates = append(c.Gates, phaseFlipAll(numQubits))
	c.PauliXAll()
	c.HadamardAll()
	return c, nil
}

// BuildGrover assembles H on every qubit followed by the oracle and diffusion
// repeated rounds times. It returns the circuit and the round count.
func BuildGrover(numQubits int, marked MarkedSet, policy IterationPolicy) (*Circuit, int, error) {
	oracle, err := Oracle(numQubits, marked)
	if err != nil {
		return nil, 0, err
	}
	diffusion, err := Diffusion(numQubits)
	if err != nil {
		return nil, 0, err
	}
	rounds := policy.Iterations(numQubits, marked.Len())

	c := NewCircuit(numQubits)
	c.Gates = slices.Grow(c.Gates, numQubits+rounds*(len(oracle.Gates)+len(diffusion.Gates)))
	c.HadamardAll()
	for range rounds {
		if err := c.Append(oracle); err != nil {
			return nil, 0, err
		}
		if err := c.Append(diffusion); err != nil {
			return nil, 0, err
		}
	}
	return c, rounds, nil
}
