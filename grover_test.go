package main

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterations(t *testing.T) {
	tests := []struct {
		qubits, marked, want int
	}{
		{3, 1, 2},
		{4, 4, 2},
		{6, 1, 6},
		{6, 2, 4},
		{10, 1, 25},
		{10, 4, 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Iterations(tt.qubits, tt.marked), "n=%d k=%d", tt.qubits, tt.marked)
	}
}

func TestIterationPolicy(t *testing.T) {
	assert.Equal(t, 4, PolicyKnown.Iterations(6, 2))
	assert.Equal(t, 6, PolicyUpperBound.Iterations(6, 2))
	assert.Equal(t, UpperBoundIterations(6), PolicyKnown.Iterations(6, 0), "empty marked set falls back")

	assert.True(t, PolicyKnown.Valid())
	assert.True(t, PolicyUpperBound.Valid())
	assert.False(t, IterationPolicy("").Valid())
	assert.False(t, IterationPolicy("bogus").Valid())
	assert.Equal(t, 6, UpperBoundIterations(6))
}

func TestSuccessProbability(t *testing.T) {
	assert.InDelta(t, 0.78125, SuccessProbability(3, 1, 1), 1e-12)
	assert.Greater(t, SuccessProbability(6, 2, 4), 0.99)
	assert.Equal(t, 0.0, SuccessProbability(6, 0, 6))
	assert.InDelta(t, 1.0, SuccessProbability(2, 4, 0), 1e-12, "every state marked")
}

func TestNewMarkedSet(t *testing.T) {
	m, err := NewMarkedSet(6, []int{42, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 42}, m.Indices())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Contains(42))
	assert.False(t, m.Contains(2))
	assert.True(t, m.ContainsBitString("101010"))
	assert.False(t, m.ContainsBitString("not bits"))

	m.Indices()[0] = 99
	assert.Equal(t, []int{1, 42}, m.Indices(), "Indices returns a copy")
}

func TestNewMarkedSetRejects(t *testing.T) {
	tests := []struct {
		name      string
		qubits    int
		indices   []int
		index     int
		duplicate bool
	}{
		{"past register", 6, []int{1, 64}, 64, false},
		{"negative", 3, []int{-1}, -1, false},
		{"duplicate", 6, []int{42, 1, 42}, 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMarkedSet(tt.qubits, tt.indices)
			require.ErrorIs(t, err, ErrMarkedIndex)
			var merr *MarkedIndexError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.index, merr.Index)
			assert.Equal(t, tt.duplicate, merr.Duplicate)
		})
	}
}

func TestOracleNegatesOnlyMarked(t *testing.T) {
	tests := []struct {
		name   string
		qubits int
		marked []int
	}{
		{"single", 3, []int{5}},
		{"corners", 3, []int{0, 7}},
		{"one qubit", 1, []int{0}},
		{"wide", 6, []int{1, 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marked, err := NewMarkedSet(tt.qubits, tt.marked)
			require.NoError(t, err)
			oracle, err := Oracle(tt.qubits, marked)
			require.NoError(t, err)

			s, err := NewUniformState(tt.qubits)
			require.NoError(t, err)
			require.NoError(t, s.Execute(context.Background(), oracle))

			a := 1 / math.Sqrt(float64(int(1)<<tt.qubits))
			for i, amp := range s.Amplitudes {
				want := a
				if marked.Contains(i) {
					want = -a
				}
				assert.InDelta(t, want, real(amp), ampTolerance, "index %d", i)
			}
		})
	}
}

func TestDiffusionReflectsAboutMean(t *testing.T) {
	marked, err := NewMarkedSet(3, []int{5})
	require.NoError(t, err)
	oracle, err := Oracle(3, marked)
	require.NoError(t, err)
	diffusion, err := Diffusion(3)
	require.NoError(t, err)

	s, err := NewUniformState(3)
	require.NoError(t, err)
	require.NoError(t, s.Execute(context.Background(), oracle))
	require.NoError(t, s.Execute(context.Background(), diffusion))

	// 2μ - a_i up to a global phase of -1: unmarked a/2, marked 5a/2
	a := 1 / math.Sqrt(8)
	for i, amp := range s.Amplitudes {
		want := 0.5 * a
		if i == 5 {
			want = 2.5 * a
		}
		assert.InDelta(t, want, math.Abs(real(amp)), ampTolerance, "index %d", i)
	}
	probs, err := s.Probabilities()
	require.NoError(t, err)
	assert.InDelta(t, SuccessProbability(3, 1, 1), probs[5], 1e-9)
}

func TestDiffusionOnUniformState(t *testing.T) {
	d, err := Diffusion(4)
	require.NoError(t, err)
	s, err := NewUniformState(4)
	require.NoError(t, err)
	require.NoError(t, s.Execute(context.Background(), d))
	for i, amp := range s.Amplitudes {
		assert.InDelta(t, -0.25, real(amp), ampTolerance, "index %d", i)
	}
}

func TestBuildGroverShape(t *testing.T) {
	marked, err := NewMarkedSet(3, []int{5})
	require.NoError(t, err)
	c, rounds, err := BuildGrover(3, marked, PolicyKnown)
	require.NoError(t, err)
	assert.Equal(t, 2, rounds)
	// 3 H, then per round: oracle X·MCZ·X on qubit 1, diffusion 4 layers of 3 plus MCZ
	assert.Len(t, c.Gates, 3+2*(3+13))
	assert.Equal(t, map[GateKind]int{GateHadamard: 3 + 2*6, GatePauliX: 2 * (2 + 6), GatePhaseFlip: 2 * 2}, c.Counts())
	require.NoError(t, c.Validate())
}

func TestBuildGroverEmptyMarkedSet(t *testing.T) {
	marked, err := NewMarkedSet(4, nil)
	require.NoError(t, err)
	c, rounds, err := BuildGrover(4, marked, PolicyKnown)
	require.NoError(t, err)
	assert.Equal(t, UpperBoundIterations(4), rounds)
	assert.Len(t, c.Gates, 4+rounds*len(mustDiffusion(t, 4).Gates))
}

func TestBuildGroverRegisterMismatch(t *testing.T) {
	marked, err := NewMarkedSet(3, []int{1})
	require.NoError(t, err)
	_, _, err = BuildGrover(4, marked, PolicyKnown)
	assert.Error(t, err)
}

func TestGroverFindsTwoPapers(t *testing.T) {
	marked, err := NewMarkedSet(6, []int{1, 42})
	require.NoError(t, err)
	c, rounds, err := BuildGrover(6, marked, PolicyKnown)
	require.NoError(t, err)
	require.Equal(t, 4, rounds)

	s, err := NewStateVector(6)
	require.NoError(t, err)
	require.NoError(t, s.Execute(context.Background(), c))

	probs, err := s.Probabilities()
	require.NoError(t, err)
	assert.InDelta(t, SuccessProbability(6, 2, 4), probs[1]+probs[42], 1e-9)
	assert.InDelta(t, probs[1], probs[42], 1e-9, "marked states are amplified equally")

	const shots = 10000
	hist, err := Sample(s, shots, 2024)
	require.NoError(t, err)
	hits := hist["000001"] + hist["101010"]
	assert.Greater(t, float64(hits)/shots, 0.9)

	top := TopK(hist, 2)
	require.Len(t, top, 2)
	assert.ElementsMatch(t, []int{1, 42}, []int{top[0].Index, top[1].Index})
}

func mustDiffusion(t *testing.T, n int) *Circuit {
	t.Helper()
	d, err := Diffusion(n)
	require.NoError(t, err)
	return d
}
