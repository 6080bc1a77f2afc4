package interp

import "github.com/HershLalwani/qasm3circ/internal/circuit"

// Backend receives the circuit-building calls issued by the interpreter, in
// program order for Build and reverse program order for BuildInverse.
// *circuit.Circuit is the reference implementation.
type Backend interface {
	CreateRegister(reg *circuit.Register) error
	Apply(g circuit.Gate, targets ...circuit.Ref) error
	ApplyRotation(g circuit.Gate, angle float64, target circuit.Ref) error
	Measure(qubits, bits []circuit.Ref) error
	Barrier(targets []circuit.Ref) error
	Reset(targets []circuit.Ref) error
}

var _ Backend = (*circuit.Circuit)(nil)
