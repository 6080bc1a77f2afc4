package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

func newQubits(name string, size int) *circuit.Register {
	return circuit.NewRegister(circuit.Quantum, size, name)
}

func TestDeclareRegisters(t *testing.T) {
	type reg struct {
		name string
		size int
		kind circuit.RegisterKind
	}
	tests := []struct {
		line string
		want []reg
	}{
		{"qreg q[3];", []reg{{"q", 3, circuit.Quantum}}},
		{"qreg q1[3], q2[5];", []reg{{"q1", 3, circuit.Quantum}, {"q2", 5, circuit.Quantum}}},
		{"qubit[4] a, b, c;", []reg{{"a", 4, circuit.Quantum}, {"b", 4, circuit.Quantum}, {"c", 4, circuit.Quantum}}},
		{"qubit q;", []reg{{"q", 1, circuit.Quantum}}},
		{"creg c[2];", []reg{{"c", 2, circuit.Classical}}},
		{"bit[2] m;", []reg{{"m", 2, circuit.Classical}}},
		{"BIT b;", []reg{{"b", 1, circuit.Classical}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			syms := NewSymbols()
			regs, err := declareRegisters(syms, Tokenize(tt.line))
			require.NoError(t, err)
			require.Len(t, regs, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w.name, regs[i].Name)
				assert.Equal(t, w.size, regs[i].Size)
				assert.Equal(t, w.kind, regs[i].Kind)

				got, err := syms.LookupRegister(w.name)
				require.NoError(t, err)
				assert.Same(t, regs[i], got)
			}
		})
	}
}

func TestDeclareRegistersMalformed(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
	}{
		{"qreg;", MalformedDeclaration},
		{"qreg a[2], b;", MalformedDeclaration},
		{"qubit[0] q;", MalformedDeclaration},
		{"qubit[-2] q;", MalformedDeclaration},
		{"qubit[x] q;", MalformedDeclaration},
		{"qreg 3q[2];", MalformedDeclaration},
		{"qreg pi[2];", Redeclared},
		{"qubit[2] a, a;", Redeclared},
	}
	for _, tt := range tests {
		_, err := declareRegisters(NewSymbols(), Tokenize(tt.line))
		require.Error(t, err, tt.line)
		assert.Equal(t, tt.kind, KindOf(err), "%s: %v", tt.line, err)
	}
}

func TestDeclareScalar(t *testing.T) {
	tests := []struct {
		line string
		name string
		want Scalar
	}{
		{"const a = 2;", "a", Scalar{Kind: "const", Expr: "2"}},
		{"float[64] theta = pi / 4;", "theta", Scalar{Kind: "float", Expr: "pi / 4"}},
		{"angle phi = -(a+1)*pi; // tilt", "phi", Scalar{Kind: "angle", Expr: "-(a+1)*pi"}},
		{"int n=3", "n", Scalar{Kind: "int", Expr: "3"}},
		{"const int n = 1;", "n", Scalar{Kind: "const", Expr: "1"}},
		{"const float[64] x = pi/8;", "x", Scalar{Kind: "const", Expr: "pi/8"}},
		{"const a = 2;   ", "a", Scalar{Kind: "const", Expr: "2"}},
	}
	for _, tt := range tests {
		syms := NewSymbols()
		require.NoError(t, declareScalar(syms, tt.line), tt.line)
		got, err := syms.LookupScalar(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDeclareScalarMalformed(t *testing.T) {
	for _, line := range []string{
		"const a;",
		"const = 3;",
		"const a b = 3;",
		"const a = ;",
		"float[x] a = 1;",
		"const 1a = 2;",
		"const int = 2;",
		"const float[64] = 2;",
		"const a = 2; x q[0];",
		"int n = 1; int m = 2;",
	} {
		err := declareScalar(NewSymbols(), line)
		require.Error(t, err, line)
		assert.Equal(t, MalformedDeclaration, KindOf(err), "%s: %v", line, err)
	}
}

func TestSymbolsLookupKinds(t *testing.T) {
	syms := NewSymbols()
	require.NoError(t, syms.DefineRegister(newQubits("q", 2)))
	require.NoError(t, syms.DefineScalar("a", Scalar{Kind: "const", Expr: "1"}))
	require.NoError(t, syms.DefineRegister(circuit.NewRegister(circuit.Classical, 1, "c")))
	require.NoError(t, syms.DefineRegister(newQubits("r", 1)))

	_, err := syms.LookupRegister("a")
	assert.Equal(t, TypeMismatch, KindOf(err))
	_, err = syms.LookupScalar("q")
	assert.Equal(t, TypeMismatch, KindOf(err))
	_, err = syms.LookupRegister("nope")
	assert.Equal(t, UndeclaredRegister, KindOf(err))

	var names []string
	for _, r := range syms.Registers(circuit.Quantum) {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"q", "r"}, names)

	err = syms.DefineScalar("q", Scalar{Kind: "const", Expr: "2"})
	assert.Equal(t, Redeclared, KindOf(err))
}
