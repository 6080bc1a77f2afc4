package circuit

// Gate enumerates the unitary gates the backend understands.
type Gate int

const (
	GateX Gate = iota
	GateY
	GateZ
	GateH
	GateS
	GateSdg
	GateT
	GateTdg
	GateRX
	GateRY
	GateRZ
	GateCX
	GateSwap
	GateCCX
	GateCSwap
)

var gateNames = [...]string{
	GateX:     "x",
	GateY:     "y",
	GateZ:     "z",
	GateH:     "h",
	GateS:     "s",
	GateSdg:   "sdg",
	GateT:     "t",
	GateTdg:   "tdg",
	GateRX:    "rx",
	GateRY:    "ry",
	GateRZ:    "rz",
	GateCX:    "cx",
	GateSwap:  "swap",
	GateCCX:   "ccx",
	GateCSwap: "cswap",
}

// Name returns the lowercase OpenQASM keyword for the gate.
func (g Gate) Name() string {
	if g < 0 || int(g) >= len(gateNames) {
		return "?"
	}
	return gateNames[g]
}

func (g Gate) String() string { return g.Name() }

// Qubits is the number of qubit operands the gate takes.
func (g Gate) Qubits() int {
	switch g {
	case GateCX, GateSwap:
		return 2
	case GateCCX, GateCSwap:
		return 3
	default:
		return 1
	}
}

// Parametrized reports whether the gate takes a rotation angle.
func (g Gate) Parametrized() bool {
	return g == GateRX || g == GateRY || g == GateRZ
}

// Adjoint returns the gate that undoes g. Rotations return themselves; their
// adjoint is the same gate with a negated angle.
func (g Gate) Adjoint() Gate {
	switch g {
	case GateS:
		return GateSdg
	case GateSdg:
		return GateS
	case GateT:
		return GateTdg
	case GateTdg:
		return GateT
	default:
		return g
	}
}

// SelfAdjoint reports whether applying g twice is the identity.
func (g Gate) SelfAdjoint() bool {
	return !g.Parametrized() && g.Adjoint() == g
}
