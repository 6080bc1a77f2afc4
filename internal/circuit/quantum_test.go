package circuit

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestSimulateBellState(t *testing.T) {
	c, q, m := newTestCircuit(t)
	require.NoError(t, c.Apply(GateH, q.Ref(0)))
	require.NoError(t, c.Apply(GateCX, q.Ref(0), q.Ref(1)))
	require.NoError(t, c.Measure([]Ref{q.Ref(0)}, []Ref{m.Ref(0)}))

	state, err := Simulate(c)
	require.NoError(t, err)

	states := state.BasisStates(1e-10)
	require.Len(t, states, 2)
	assert.Equal(t, "000", states[0].Bits)
	assert.Equal(t, "011", states[1].Bits)
	assert.InDelta(t, 0.5, states[0].Prob, tolerance)
	assert.InDelta(t, 0.5, states[1].Prob, tolerance)

	probs := state.QubitProbabilities()
	assert.InDelta(t, 0.5, probs[0].Prob1, tolerance)
	assert.InDelta(t, 0.5, probs[1].Prob1, tolerance)
	assert.InDelta(t, 0.0, probs[2].Prob1, tolerance)
}

func TestSimulateToffoliAndFredkin(t *testing.T) {
	c, q, _ := newTestCircuit(t)
	require.NoError(t, c.Apply(GateX, q.Ref(0)))
	require.NoError(t, c.Apply(GateX, q.Ref(1)))
	require.NoError(t, c.Apply(GateCCX, q.Ref(0), q.Ref(1), q.Ref(2)))
	// q = 111; cswap(q0; q1, q2) leaves it unchanged, then clear q1
	require.NoError(t, c.Apply(GateCSwap, q.Ref(0), q.Ref(1), q.Ref(2)))
	require.NoError(t, c.Apply(GateX, q.Ref(1)))
	// q = 101; cswap moves the set bit from q2 to q1
	require.NoError(t, c.Apply(GateCSwap, q.Ref(0), q.Ref(1), q.Ref(2)))

	state, err := Simulate(c)
	require.NoError(t, err)
	states := state.BasisStates(1e-10)
	require.Len(t, states, 1)
	assert.Equal(t, "011", states[0].Bits)
}

func TestRotationsMatchFixedGates(t *testing.T) {
	tests := []struct {
		rot   Gate
		fixed Gate
	}{
		{GateRX, GateX},
		{GateRY, GateY},
		{GateRZ, GateZ},
	}
	for _, tt := range tests {
		// A pi rotation equals the Pauli gate up to global phase
		a := NewStateVector(1)
		a.ApplyGate(GateH, 0, 0)
		a.ApplyGate(GateT, 0, 0)
		b := clone(a)
		a.ApplyGate(tt.rot, math.Pi, 0)
		b.ApplyGate(tt.fixed, 0, 0)
		assert.InDelta(t, 1.0, a.Fidelity(b), tolerance, "%s(pi) vs %s", tt.rot, tt.fixed)
	}
}

func clone(s *StateVector) *StateVector {
	return &StateVector{Amplitudes: slices.Clone(s.Amplitudes), NumQubits: s.NumQubits}
}

func TestAdjointGatesUndo(t *testing.T) {
	for g := GateX; g <= GateCSwap; g++ {
		wires := []int{0, 1, 2}[:g.Qubits()]
		s := NewStateVector(3)
		for w := range 3 {
			s.ApplyGate(GateH, 0, w)
			s.ApplyGate(GateT, 0, w)
		}
		s.ApplyGate(GateRY, 0.3, 1)
		start := clone(s)

		s.ApplyGate(g, 0.7, wires...)
		s.ApplyGate(g.Adjoint(), -0.7, wires...)
		assert.InDelta(t, 1.0, s.Fidelity(start), tolerance, "gate %s", g)
	}
}

func TestResetProjects(t *testing.T) {
	s := NewStateVector(1)
	s.ApplyGate(GateX, 0, 0)
	s.reset(0)
	assert.InDelta(t, 1.0, real(s.Amplitudes[0]), tolerance)

	s.ApplyGate(GateH, 0, 0)
	s.reset(0)
	assert.InDelta(t, 1.0, s.QubitProbabilities()[0].Prob0, tolerance)
}

func TestSimulateRejectsWideCircuits(t *testing.T) {
	c := New()
	require.NoError(t, c.CreateRegister(NewRegister(Quantum, MaxSimQubits+1, "q")))
	_, err := Simulate(c)
	assert.Error(t, err)
}
