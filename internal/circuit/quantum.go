package circuit

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// MaxSimQubits bounds the state vector to 2^MaxSimQubits amplitudes.
const MaxSimQubits = 24

// StateVector holds 2^n amplitudes, qubit k being bit k of the basis index.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0...0> on n qubits.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// unitary is a 2x2 matrix in row-major order.
type unitary [2][2]complex128

var invSqrt2 = complex(1/math.Sqrt2, 0)

var fixedUnitaries = map[Gate]unitary{
	GateX:   {{0, 1}, {1, 0}},
	GateY:   {{0, -1i}, {1i, 0}},
	GateZ:   {{1, 0}, {0, -1}},
	GateH:   {{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}},
	GateS:   {{1, 0}, {0, 1i}},
	GateSdg: {{1, 0}, {0, -1i}},
	GateT:   {{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}},
	GateTdg: {{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}},
}

func rotation(g Gate, theta float64) unitary {
	c := complex(math.Cos(theta/2), 0)
	s := math.Sin(theta / 2)
	switch g {
	case GateRX:
		return unitary{{c, complex(0, -s)}, {complex(0, -s), c}}
	case GateRY:
		return unitary{{c, complex(-s, 0)}, {complex(s, 0), c}}
	default:
		return unitary{{cmplx.Exp(complex(0, -theta/2)), 0}, {0, cmplx.Exp(complex(0, theta/2))}}
	}
}

// apply1 applies u to qubit q.
func (s *StateVector) apply1(q int, u unitary) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
		s.Amplitudes[i] = u[0][0]*a0 + u[0][1]*a1
		s.Amplitudes[j] = u[1][0]*a0 + u[1][1]*a1
	}
}

// controlledSwap exchanges the amplitudes of a and b wherever every control
// bit is set. With a == b it degenerates to a controlled X on a.
func (s *StateVector) controlledSwap(controls []int, a, b int) {
	mask := 0
	for _, c := range controls {
		mask |= 1 << c
	}
	aBit, bBit := 1<<a, 1<<b
	for i := range s.Amplitudes {
		if i&mask != mask {
			continue
		}
		if a == b {
			if i&aBit == 0 {
				j := i | aBit
				s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
			}
			continue
		}
		if i&aBit != 0 && i&bBit == 0 {
			j := (i &^ aBit) | bBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// reset projects qubit q onto |0> and renormalises.
func (s *StateVector) reset(q int) {
	bit := 1 << q
	prob0 := 0.0
	for i, a := range s.Amplitudes {
		if i&bit == 0 {
			prob0 += real(a * cmplx.Conj(a))
		}
	}
	if prob0 < 1e-12 {
		// |1> everywhere: flip instead of dividing by zero
		s.apply1(q, fixedUnitaries[GateX])
		return
	}
	norm := complex(math.Sqrt(prob0), 0)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			s.Amplitudes[i] /= norm
		} else {
			s.Amplitudes[i] = 0
		}
	}
}

// ApplyGate applies g to the listed qubit wires.
func (s *StateVector) ApplyGate(g Gate, angle float64, wires ...int) {
	switch g {
	case GateRX, GateRY, GateRZ:
		s.apply1(wires[0], rotation(g, angle))
	case GateCX:
		s.controlledSwap(wires[:1], wires[1], wires[1])
	case GateSwap:
		s.controlledSwap(nil, wires[0], wires[1])
	case GateCCX:
		s.controlledSwap(wires[:2], wires[2], wires[2])
	case GateCSwap:
		s.controlledSwap(wires[:1], wires[1], wires[2])
	default:
		s.apply1(wires[0], fixedUnitaries[g])
	}
}

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Label string  `json:"label" yaml:"label"`
	Prob0 float64 `json:"p0" yaml:"p0"`
	Prob1 float64 `json:"p1" yaml:"p1"`
}

// QubitProbabilities returns the marginal distribution of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, a := range s.Amplitudes {
		p := real(a * cmplx.Conj(a))
		for q := range s.NumQubits {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// BasisState is one computational basis state with non-negligible weight.
type BasisState struct {
	Index int     `json:"index" yaml:"index"`
	Bits  string  `json:"bits" yaml:"bits"`
	Prob  float64 `json:"prob" yaml:"prob"`
	Phase float64 `json:"phase" yaml:"phase"`
}

// BasisStates lists every basis state whose probability exceeds threshold.
// Bits are printed most significant qubit first.
func (s *StateVector) BasisStates(threshold float64) []BasisState {
	var states []BasisState
	for i, a := range s.Amplitudes {
		p := real(a * cmplx.Conj(a))
		if p <= threshold {
			continue
		}
		bits := make([]byte, s.NumQubits)
		for q := range s.NumQubits {
			bits[s.NumQubits-1-q] = '0' + byte(i>>q&1)
		}
		states = append(states, BasisState{Index: i, Bits: string(bits), Prob: p, Phase: cmplx.Phase(a)})
	}
	return states
}

// Simulate runs the circuit on |0...0>. Measurements and barriers do not
// change the state; resets project onto |0>.
func Simulate(c *Circuit) (*StateVector, error) {
	n := c.NumQubits()
	if n > MaxSimQubits {
		return nil, errors.Errorf("%d qubits exceeds the simulator limit of %d", n, MaxSimQubits)
	}
	state := NewStateVector(n)
	return state, state.Run(c)
}

// Run applies every op of c to the state in order.
func (s *StateVector) Run(c *Circuit) error {
	if c.NumQubits() != s.NumQubits {
		return errors.Errorf("circuit has %d qubits, state has %d", c.NumQubits(), s.NumQubits)
	}
	for _, op := range c.Ops {
		wires := make([]int, len(op.Qubits))
		for i, q := range op.Qubits {
			wires[i] = c.Wire(q)
		}
		switch op.Kind {
		case OpGate:
			s.ApplyGate(op.Gate, op.Angle, wires...)
		case OpReset:
			for _, w := range wires {
				s.reset(w)
			}
		}
	}
	return nil
}

// Fidelity returns |<s|o>|^2.
func (s *StateVector) Fidelity(o *StateVector) float64 {
	var inner complex128
	for i := range s.Amplitudes {
		inner += cmplx.Conj(s.Amplitudes[i]) * o.Amplitudes[i]
	}
	return real(inner * cmplx.Conj(inner))
}
