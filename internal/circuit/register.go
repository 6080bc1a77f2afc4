package circuit

import "fmt"

// RegisterKind distinguishes quantum from classical storage.
type RegisterKind int

const (
	Quantum RegisterKind = iota
	Classical
)

func (k RegisterKind) String() string {
	if k == Classical {
		return "bit"
	}
	return "qubit"
}

// Register is a named, fixed-size run of qubits or bits. Registers are shared
// by pointer between the symbol table, the backend and every Ref into them.
type Register struct {
	Kind RegisterKind
	Size int
	Name string
}

// NewRegister returns a register of the given kind and size.
func NewRegister(kind RegisterKind, size int, name string) *Register {
	return &Register{Kind: kind, Size: size, Name: name}
}

// Ref addresses element i of the register. It does not bounds-check.
func (r *Register) Ref(i int) Ref {
	return Ref{Reg: r, Index: i}
}

// All returns a Ref for every element of the register, in index order.
func (r *Register) All() []Ref {
	refs := make([]Ref, r.Size)
	for i := range r.Size {
		refs[i] = Ref{Reg: r, Index: i}
	}
	return refs
}

func (r *Register) String() string {
	return fmt.Sprintf("%s[%d] %s", r.Kind, r.Size, r.Name)
}

// Ref is a single indexed qubit or bit.
type Ref struct {
	Reg   *Register
	Index int
}

func (r Ref) String() string {
	if r.Reg == nil {
		return fmt.Sprintf("?[%d]", r.Index)
	}
	return fmt.Sprintf("%s[%d]", r.Reg.Name, r.Index)
}
