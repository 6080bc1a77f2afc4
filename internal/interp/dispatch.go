package interp

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

// Instruction is one tokenized source line. Line keeps the raw text so angle
// expressions survive tokenization intact.
type Instruction struct {
	Line   string
	Tokens []string
}

type shape int

const (
	shapeFixed shape = iota
	shapeRotation
	shapeBarrier
	shapeReset
)

type opSpec struct {
	shape shape
	gate  circuit.Gate
}

// opTable maps every recognised keyword to its operand shape. Measurement is
// matched separately because its keyword need not come first.
var opTable = map[string]opSpec{
	"x":       {shapeFixed, circuit.GateX},
	"y":       {shapeFixed, circuit.GateY},
	"z":       {shapeFixed, circuit.GateZ},
	"h":       {shapeFixed, circuit.GateH},
	"s":       {shapeFixed, circuit.GateS},
	"sdg":     {shapeFixed, circuit.GateSdg},
	"t":       {shapeFixed, circuit.GateT},
	"tdg":     {shapeFixed, circuit.GateTdg},
	"rx":      {shapeRotation, circuit.GateRX},
	"ry":      {shapeRotation, circuit.GateRY},
	"rz":      {shapeRotation, circuit.GateRZ},
	"cx":      {shapeFixed, circuit.GateCX},
	"cnot":    {shapeFixed, circuit.GateCX},
	"swap":    {shapeFixed, circuit.GateSwap},
	"ccx":     {shapeFixed, circuit.GateCCX},
	"toffoli": {shapeFixed, circuit.GateCCX},
	"cswap":   {shapeFixed, circuit.GateCSwap},
	"barrier": {shape: shapeBarrier},
	"reset":   {shape: shapeReset},
}

const measureKeyword = "measure"

// dispatcher turns instructions into backend calls. Every operand is
// resolved and checked before the backend is touched.
type dispatcher struct {
	symbols *Symbols
	eval    *Evaluator
	backend Backend
}

func (d *dispatcher) dispatch(ins Instruction, adjoint bool) error {
	if len(ins.Tokens) == 0 {
		return nil
	}
	for _, tok := range ins.Tokens {
		if strings.EqualFold(tok, measureKeyword) {
			return d.measure(ins)
		}
	}

	entry, ok := opTable[strings.ToLower(ins.Tokens[0])]
	if !ok {
		return newError(UnknownOperation, "%q is not a supported operation", ins.Tokens[0])
	}

	switch entry.shape {
	case shapeRotation:
		return d.rotation(entry.gate, ins, adjoint)
	case shapeBarrier:
		return d.barrier(ins.Tokens[1:])
	case shapeReset:
		return d.reset(ins.Tokens[1:])
	default:
		return d.fixed(entry.gate, ins.Tokens, adjoint)
	}
}

// fixed handles `<op> <reg> <idx> [<reg> <idx> ...]`.
func (d *dispatcher) fixed(g circuit.Gate, tokens []string, adjoint bool) error {
	want := 1 + 2*g.Qubits()
	if len(tokens) != want {
		return newError(MalformedInstruction, "%s expects %d indexed qubits", tokens[0], g.Qubits())
	}
	targets := make([]circuit.Ref, 0, g.Qubits())
	for i := 1; i < len(tokens); i += 2 {
		ref, err := d.indexed(tokens[i], tokens[i+1], circuit.Quantum)
		if err != nil {
			return err
		}
		targets = append(targets, ref)
	}
	if err := distinct(targets); err != nil {
		return err
	}
	if adjoint && !g.SelfAdjoint() {
		g = g.Adjoint()
	}
	return d.backend.Apply(g, targets...)
}

// rotation handles `<op>(<angle>) <reg> <idx>`.
func (d *dispatcher) rotation(g circuit.Gate, ins Instruction, adjoint bool) error {
	angleText, rest, ok := splitParams(stripComment(ins.Line))
	if !ok {
		return newError(MalformedInstruction, "%s needs a parenthesised angle", g)
	}
	operands := Tokenize(rest)
	if len(operands) != 2 {
		return newError(MalformedInstruction, "%s expects one indexed qubit", g)
	}
	angle, err := d.eval.Eval(angleText)
	if err != nil {
		return err
	}
	target, err := d.indexed(operands[0], operands[1], circuit.Quantum)
	if err != nil {
		return err
	}
	if adjoint {
		angle = -angle
	}
	return d.backend.ApplyRotation(g, angle, target)
}

// barrier accepts whole registers and indexed qubits in any mix. With no
// operands it spans every quantum register.
func (d *dispatcher) barrier(tokens []string) error {
	var targets []circuit.Ref
	if len(tokens) == 0 {
		for _, reg := range d.symbols.Registers(circuit.Quantum) {
			targets = append(targets, reg.All()...)
		}
		if len(targets) == 0 {
			return newError(MalformedInstruction, "barrier with no quantum registers declared")
		}
	} else {
		var err error
		if targets, err = d.operands(tokens, circuit.Quantum); err != nil {
			return err
		}
	}
	return d.backend.Barrier(targets)
}

func (d *dispatcher) reset(tokens []string) error {
	if len(tokens) == 0 {
		return newError(MalformedInstruction, "reset needs at least one operand")
	}
	targets, err := d.operands(tokens, circuit.Quantum)
	if err != nil {
		return err
	}
	return d.backend.Reset(targets)
}

// measure handles `measure q[i] -> c[j]`, `measure q -> c` and the
// assignment forms `c[j] = measure q[i]`, `c = measure q`.
func (d *dispatcher) measure(ins Instruction) error {
	line := strings.TrimSpace(stripComment(ins.Line))

	var src, dst []string
	if strings.EqualFold(ins.Tokens[0], measureKeyword) {
		before, after, ok := strings.Cut(line, "->")
		if !ok {
			return newError(MalformedInstruction, "measure needs -> and a classical target")
		}
		src, dst = Tokenize(before)[1:], Tokenize(after)
	} else {
		before, after, ok := strings.Cut(line, "=")
		if !ok {
			return newError(MalformedInstruction, "expected <bits> = measure <qubits>")
		}
		dst, src = Tokenize(before), Tokenize(after)
		if len(src) == 0 || !strings.EqualFold(src[0], measureKeyword) {
			return newError(MalformedInstruction, "expected <bits> = measure <qubits>")
		}
		src = src[1:]
	}

	qubits, err := d.operand(src, circuit.Quantum)
	if err != nil {
		return err
	}
	bits, err := d.operand(dst, circuit.Classical)
	if err != nil {
		return err
	}
	if len(qubits) != len(bits) {
		return newError(MalformedInstruction, "cannot measure %d qubits into %d bits", len(qubits), len(bits))
	}
	return d.backend.Measure(qubits, bits)
}

// operand resolves exactly one `<reg>` or `<reg> <idx>` reference.
func (d *dispatcher) operand(tokens []string, kind circuit.RegisterKind) ([]circuit.Ref, error) {
	switch len(tokens) {
	case 1:
		reg, err := d.register(tokens[0], kind)
		if err != nil {
			return nil, err
		}
		return reg.All(), nil
	case 2:
		ref, err := d.indexed(tokens[0], tokens[1], kind)
		if err != nil {
			return nil, err
		}
		return []circuit.Ref{ref}, nil
	default:
		return nil, newError(MalformedInstruction, "expected a single %s operand, got %q", kind, strings.Join(tokens, " "))
	}
}

// operands resolves a run of whole-register and indexed references. A token
// following a register name is its index unless it names a register itself.
func (d *dispatcher) operands(tokens []string, kind circuit.RegisterKind) ([]circuit.Ref, error) {
	var refs []circuit.Ref
	for i := 0; i < len(tokens); {
		if i+1 < len(tokens) && !d.isRegister(tokens[i+1]) {
			ref, err := d.indexed(tokens[i], tokens[i+1], kind)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
			i += 2
			continue
		}
		reg, err := d.register(tokens[i], kind)
		if err != nil {
			return nil, err
		}
		refs = append(refs, reg.All()...)
		i++
	}
	return refs, nil
}

func (d *dispatcher) isRegister(name string) bool {
	sym, ok := d.symbols.Lookup(name)
	if !ok {
		return false
	}
	_, ok = sym.(registerSymbol)
	return ok
}

func (d *dispatcher) register(name string, kind circuit.RegisterKind) (*circuit.Register, error) {
	reg, err := d.symbols.LookupRegister(name)
	if err != nil {
		return nil, err
	}
	if reg.Kind != kind {
		return nil, newError(TypeMismatch, "%q is a %s register, expected %s", name, reg.Kind, kind)
	}
	return reg, nil
}

// indexed resolves `<reg> <idx>`. The index may be an integer literal or an
// expression over declared scalars that evaluates to an integer.
func (d *dispatcher) indexed(name, index string, kind circuit.RegisterKind) (circuit.Ref, error) {
	reg, err := d.register(name, kind)
	if err != nil {
		return circuit.Ref{}, err
	}
	i, err := strconv.Atoi(index)
	if err != nil {
		v, evalErr := d.eval.Eval(index)
		if evalErr != nil {
			return circuit.Ref{}, evalErr
		}
		if v != math.Trunc(v) {
			return circuit.Ref{}, newError(MalformedInstruction, "index %q of %s is not an integer", index, name)
		}
		i = int(v)
	}
	if i < 0 || i >= reg.Size {
		return circuit.Ref{}, newError(IndexOutOfRange, "%s[%d] is outside %s of size %d", name, i, name, reg.Size)
	}
	return reg.Ref(i), nil
}

func distinct(refs []circuit.Ref) error {
	for i := range refs {
		if slices.Contains(refs[i+1:], refs[i]) {
			return newError(MalformedInstruction, "%s is used twice", refs[i])
		}
	}
	return nil
}

// splitParams returns the text inside the first balanced pair of parentheses
// and whatever follows the closing one.
func splitParams(line string) (params, rest string, ok bool) {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return "", "", false
	}
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return line[open+1 : i], line[i+1:], true
			}
		}
	}
	return "", "", false
}
