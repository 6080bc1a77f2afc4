package interp

import (
	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

// Scalar is a named numeric binding. Expr is kept as source text and
// evaluated each time the name is used.
type Scalar struct {
	Kind string // const, int, uint, float or angle
	Expr string
}

// Symbol is either a *circuit.Register or a Scalar.
type Symbol interface {
	isSymbol()
}

type registerSymbol struct{ reg *circuit.Register }

func (registerSymbol) isSymbol() {}
func (Scalar) isSymbol()         {}

// reservedNames cannot be declared.
var reservedNames = map[string]bool{"pi": true, "π": true}

// Symbols maps declared names to registers and scalar bindings.
type Symbols struct {
	entries map[string]Symbol
	order   []string
}

func NewSymbols() *Symbols {
	return &Symbols{entries: make(map[string]Symbol)}
}

func (s *Symbols) define(name string, sym Symbol) error {
	if reservedNames[name] {
		return newError(Redeclared, "%q is a reserved constant", name)
	}
	if _, ok := s.entries[name]; ok {
		return newError(Redeclared, "%q is already declared", name)
	}
	s.entries[name] = sym
	s.order = append(s.order, name)
	return nil
}

// DefineRegister binds name to reg. Redeclaring any existing name fails.
func (s *Symbols) DefineRegister(reg *circuit.Register) error {
	return s.define(reg.Name, registerSymbol{reg: reg})
}

// DefineScalar binds name to an unevaluated expression.
func (s *Symbols) DefineScalar(name string, sc Scalar) error {
	return s.define(name, sc)
}

// Lookup returns the symbol bound to name.
func (s *Symbols) Lookup(name string) (Symbol, bool) {
	sym, ok := s.entries[name]
	return sym, ok
}

// LookupRegister returns the register bound to name.
func (s *Symbols) LookupRegister(name string) (*circuit.Register, error) {
	sym, ok := s.entries[name]
	if !ok {
		return nil, newError(UndeclaredRegister, "%q is not a declared register", name)
	}
	rs, ok := sym.(registerSymbol)
	if !ok {
		return nil, newError(TypeMismatch, "%q is a scalar, not a register", name)
	}
	return rs.reg, nil
}

// LookupScalar returns the scalar bound to name.
func (s *Symbols) LookupScalar(name string) (Scalar, error) {
	sym, ok := s.entries[name]
	if !ok {
		return Scalar{}, newError(UnboundVariable, "%q is not declared", name)
	}
	sc, ok := sym.(Scalar)
	if !ok {
		return Scalar{}, newError(TypeMismatch, "%q is a register, not a scalar", name)
	}
	return sc, nil
}

// Registers returns every declared register in declaration order.
func (s *Symbols) Registers(kind circuit.RegisterKind) []*circuit.Register {
	var regs []*circuit.Register
	for _, name := range s.order {
		if rs, ok := s.entries[name].(registerSymbol); ok && rs.reg.Kind == kind {
			regs = append(regs, rs.reg)
		}
	}
	return regs
}
