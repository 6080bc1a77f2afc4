package circuit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// OpKind tells the recorded operations apart.
type OpKind int

const (
	OpGate OpKind = iota
	OpMeasure
	OpBarrier
	OpReset
)

func (k OpKind) String() string {
	switch k {
	case OpMeasure:
		return "measure"
	case OpBarrier:
		return "barrier"
	case OpReset:
		return "reset"
	default:
		return "gate"
	}
}

// Op is one instruction applied to the circuit.
type Op struct {
	Kind   OpKind
	Gate   Gate    // only for OpGate
	Angle  float64 // only for rotation gates
	Qubits []Ref
	Bits   []Ref // measurement targets, parallel to Qubits
}

// Name returns the keyword used to display the op.
func (o Op) Name() string {
	if o.Kind == OpGate {
		return o.Gate.Name()
	}
	return o.Kind.String()
}

// Circuit records registers and operations in application order. It is the
// reference backend driven by the interpreter.
type Circuit struct {
	Registers []*Register
	Ops       []Op

	known map[*Register]bool
}

// New returns an empty circuit.
func New() *Circuit {
	return &Circuit{known: make(map[*Register]bool)}
}

// CreateRegister adds a register. Names must be unique within the circuit.
func (c *Circuit) CreateRegister(reg *Register) error {
	if reg == nil || reg.Size <= 0 {
		return errors.New("register must have a positive size")
	}
	if c.known == nil {
		c.known = make(map[*Register]bool)
	}
	for _, r := range c.Registers {
		if r.Name == reg.Name {
			return errors.Errorf("register %q already exists", reg.Name)
		}
	}
	c.Registers = append(c.Registers, reg)
	c.known[reg] = true
	return nil
}

// Apply appends a fixed gate on the given qubits.
func (c *Circuit) Apply(g Gate, targets ...Ref) error {
	if g.Parametrized() {
		return errors.Errorf("%s needs an angle", g)
	}
	if len(targets) != g.Qubits() {
		return errors.Errorf("%s takes %d qubits, got %d", g, g.Qubits(), len(targets))
	}
	if err := c.check(Quantum, targets); err != nil {
		return err
	}
	c.Ops = append(c.Ops, Op{Kind: OpGate, Gate: g, Qubits: slices.Clone(targets)})
	return nil
}

// ApplyRotation appends a rotation gate with the given angle in radians.
func (c *Circuit) ApplyRotation(g Gate, angle float64, target Ref) error {
	if !g.Parametrized() {
		return errors.Errorf("%s is not a rotation", g)
	}
	if err := c.check(Quantum, []Ref{target}); err != nil {
		return err
	}
	c.Ops = append(c.Ops, Op{Kind: OpGate, Gate: g, Angle: angle, Qubits: []Ref{target}})
	return nil
}

// Measure records a measurement of qubits[i] into bits[i].
func (c *Circuit) Measure(qubits, bits []Ref) error {
	if len(qubits) == 0 || len(qubits) != len(bits) {
		return errors.Errorf("measure needs matching operands, got %d qubits and %d bits", len(qubits), len(bits))
	}
	if err := c.check(Quantum, qubits); err != nil {
		return err
	}
	if err := c.check(Classical, bits); err != nil {
		return err
	}
	c.Ops = append(c.Ops, Op{Kind: OpMeasure, Qubits: slices.Clone(qubits), Bits: slices.Clone(bits)})
	return nil
}

// Barrier records a barrier across the given qubits.
func (c *Circuit) Barrier(targets []Ref) error {
	return c.appendPlain(OpBarrier, targets)
}

// Reset records a reset of the given qubits to |0>.
func (c *Circuit) Reset(targets []Ref) error {
	return c.appendPlain(OpReset, targets)
}

func (c *Circuit) appendPlain(kind OpKind, targets []Ref) error {
	if len(targets) == 0 {
		return errors.Errorf("%s needs at least one qubit", kind)
	}
	if err := c.check(Quantum, targets); err != nil {
		return err
	}
	c.Ops = append(c.Ops, Op{Kind: kind, Qubits: slices.Clone(targets)})
	return nil
}

func (c *Circuit) check(kind RegisterKind, refs []Ref) error {
	for _, r := range refs {
		if r.Reg == nil || !c.known[r.Reg] {
			return errors.Errorf("%s: register not part of this circuit", r)
		}
		if r.Reg.Kind != kind {
			return errors.Errorf("%s: expected a %s register", r, kind)
		}
		if r.Index < 0 || r.Index >= r.Reg.Size {
			return errors.Errorf("%s: index out of range for size %d", r, r.Reg.Size)
		}
	}
	return nil
}

// NumQubits returns the total width of all quantum registers.
func (c *Circuit) NumQubits() int {
	n := 0
	for _, r := range c.Registers {
		if r.Kind == Quantum {
			n += r.Size
		}
	}
	return n
}

// NumCbits returns the total width of all classical registers.
func (c *Circuit) NumCbits() int {
	n := 0
	for _, r := range c.Registers {
		if r.Kind == Classical {
			n += r.Size
		}
	}
	return n
}

// Wire maps a ref onto a flat wire index. Quantum and classical registers are
// numbered separately, each in declaration order.
func (c *Circuit) Wire(ref Ref) int {
	offset := 0
	for _, r := range c.Registers {
		if r.Kind != ref.Reg.Kind {
			continue
		}
		if r == ref.Reg {
			return offset + ref.Index
		}
		offset += r.Size
	}
	return -1
}

// QubitLabels returns "name[i]" for every qubit wire, in wire order.
func (c *Circuit) QubitLabels() []string {
	var labels []string
	for _, r := range c.Registers {
		if r.Kind != Quantum {
			continue
		}
		for _, ref := range r.All() {
			labels = append(labels, ref.String())
		}
	}
	return labels
}

// ToQASM generates OpenQASM 3 text for the circuit.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3.0;\n")
	sb.WriteString("include \"stdgates.inc\";\n\n")

	for _, r := range c.Registers {
		fmt.Fprintf(&sb, "%s[%d] %s;\n", r.Kind, r.Size, r.Name)
	}
	if len(c.Registers) > 0 && len(c.Ops) > 0 {
		sb.WriteString("\n")
	}

	for _, op := range c.Ops {
		writeOpQASM(&sb, op)
	}
	return sb.String()
}

func writeOpQASM(sb *strings.Builder, op Op) {
	switch op.Kind {
	case OpMeasure:
		for i := range op.Qubits {
			fmt.Fprintf(sb, "%s = measure %s;\n", op.Bits[i], op.Qubits[i])
		}
	case OpBarrier, OpReset:
		fmt.Fprintf(sb, "%s %s;\n", op.Kind, joinRefs(op.Qubits))
	default:
		if op.Gate.Parametrized() {
			fmt.Fprintf(sb, "%s(%s) %s;\n", op.Gate, FormatParam(op.Angle), joinRefs(op.Qubits))
		} else {
			fmt.Fprintf(sb, "%s %s;\n", op.Gate, joinRefs(op.Qubits))
		}
	}
}

func joinRefs(refs []Ref) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
