package interp

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

// call is one recorded backend invocation.
type call struct {
	op     string
	angle  float64
	qubits []string
	bits   []string
}

// recorder is a Backend that remembers what it was asked to do.
type recorder struct {
	regs  []*circuit.Register
	calls []call
	fail  error
}

func refNames(refs []circuit.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}

func (r *recorder) CreateRegister(reg *circuit.Register) error {
	r.regs = append(r.regs, reg)
	return nil
}

func (r *recorder) Apply(g circuit.Gate, targets ...circuit.Ref) error {
	if r.fail != nil {
		return r.fail
	}
	r.calls = append(r.calls, call{op: g.Name(), qubits: refNames(targets)})
	return nil
}

func (r *recorder) ApplyRotation(g circuit.Gate, angle float64, target circuit.Ref) error {
	r.calls = append(r.calls, call{op: g.Name(), angle: angle, qubits: refNames([]circuit.Ref{target})})
	return nil
}

func (r *recorder) Measure(qubits, bits []circuit.Ref) error {
	r.calls = append(r.calls, call{op: "measure", qubits: refNames(qubits), bits: refNames(bits)})
	return nil
}

func (r *recorder) Barrier(targets []circuit.Ref) error {
	r.calls = append(r.calls, call{op: "barrier", qubits: refNames(targets)})
	return nil
}

func (r *recorder) Reset(targets []circuit.Ref) error {
	r.calls = append(r.calls, call{op: "reset", qubits: refNames(targets)})
	return nil
}

func (r *recorder) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op + " " + strings.Join(c.qubits, ",")
	}
	return out
}

func build(t *testing.T, src string) *recorder {
	t.Helper()
	rec := &recorder{}
	require.NoError(t, New(src).Build(rec))
	return rec
}

func buildInverse(t *testing.T, src string) *recorder {
	t.Helper()
	rec := &recorder{}
	require.NoError(t, New(src).BuildInverse(rec))
	return rec
}

const preamble = "OPENQASM 3.0;\ninclude \"stdgates.inc\";\n"

func TestBuildDeclarationsOnly(t *testing.T) {
	src := preamble + "\nqubit[2] q;\nbit[2] c;\nconst n = 3;\n"
	for name, rec := range map[string]*recorder{
		"forward": build(t, src),
		"inverse": buildInverse(t, src),
	} {
		t.Run(name, func(t *testing.T) {
			require.Len(t, rec.regs, 2)
			assert.Equal(t, "q", rec.regs[0].Name)
			assert.Equal(t, circuit.Quantum, rec.regs[0].Kind)
			assert.Equal(t, "c", rec.regs[1].Name)
			assert.Equal(t, circuit.Classical, rec.regs[1].Kind)
			assert.Empty(t, rec.calls)
		})
	}
}

func TestBuildForwardOrder(t *testing.T) {
	src := preamble + `qubit[3] q;
bit[3] c;
h q[0];
cx q[0], q[1];
toffoli q[0], q[1], q[2];
barrier q;
reset q[2];
measure q -> c;
`
	rec := build(t, src)
	assert.Equal(t, []string{
		"h q[0]",
		"cx q[0],q[1]",
		"ccx q[0],q[1],q[2]",
		"barrier q[0],q[1],q[2]",
		"reset q[2]",
		"measure q[0],q[1],q[2]",
	}, rec.ops())
	assert.Equal(t, []string{"c[0]", "c[1]", "c[2]"}, rec.calls[5].bits)
}

func TestBuildInverseSelfAdjointReversal(t *testing.T) {
	src := preamble + `qubit[3] q;
x q[0];
h q[1];
cx q[0], q[1];
swap q[1], q[2];
ccx q[0], q[1], q[2];
cswap q[2], q[0], q[1];
`
	fwd := build(t, src).ops()
	inv := buildInverse(t, src).ops()

	require.Len(t, inv, len(fwd))
	for i := range fwd {
		assert.Equal(t, fwd[len(fwd)-1-i], inv[i])
	}
}

func TestBuildInversePhaseGates(t *testing.T) {
	src := "qubit[1] q;\nS q[0];\nT q[0];\n"
	assert.Equal(t, []string{"tdg q[0]", "sdg q[0]"}, buildInverse(t, src).ops())

	src = "qubit[1] q;\nsdg q[0];\ntdg q[0];\n"
	assert.Equal(t, []string{"t q[0]", "s q[0]"}, buildInverse(t, src).ops())
}

func TestBuildInverseRotation(t *testing.T) {
	rec := buildInverse(t, "qubit[1] q;\nRX(0.5) q[0];")
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "rx", rec.calls[0].op)
	assert.InDelta(t, -0.5, rec.calls[0].angle, 1e-12)
}

func TestBuildScalarBinding(t *testing.T) {
	rec := build(t, "qubit[1] q;\nconst a = 2;\nRX(a*pi/4) q[0];\n")
	require.Len(t, rec.calls, 1)
	assert.InDelta(t, 2*math.Pi/4, rec.calls[0].angle, 1e-9)
}

func TestBuildScalarIsEvaluatedAsNumber(t *testing.T) {
	rec := build(t, "qubit[1] q;\nint a = 1 + 1;\nrz(a*2) q[0];\n")
	require.Len(t, rec.calls, 1)
	assert.InDelta(t, 4.0, rec.calls[0].angle, 1e-12)
}

func TestDeclarationFormEquivalence(t *testing.T) {
	sizes := func(rec *recorder) map[string]int {
		out := make(map[string]int)
		for _, r := range rec.regs {
			out[r.Name] = r.Size
		}
		return out
	}
	want := map[string]int{"q1": 3, "q2": 5}
	assert.Equal(t, want, sizes(build(t, "qreg q1[3], q2[5];")))
	assert.Equal(t, want, sizes(build(t, "qubit[3] q1;\nqubit[5] q2;")))
	assert.Equal(t, map[string]int{"a": 2, "b": 2}, sizes(build(t, "qubit[2] a, b;")))
}

func TestBuildUnboundVariable(t *testing.T) {
	for _, inverse := range []bool{false, true} {
		rec := &recorder{}
		in := New("qubit[1] q;\nRX(b) q[0];\n")
		var err error
		if inverse {
			err = in.BuildInverse(rec)
		} else {
			err = in.Build(rec)
		}
		require.Error(t, err)
		assert.Equal(t, UnboundVariable, KindOf(err))
		assert.Empty(t, rec.calls)

		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, 2, e.Line)
		assert.Equal(t, "RX(b) q[0];", e.Text)
	}
}

func TestMeasureWholeAndIndexedAgree(t *testing.T) {
	decl := "qubit[1] q;\nbit[1] c;\n"
	forms := []string{
		"measure q -> c;",
		"measure q[0] -> c[0];",
		"c = measure q;",
		"c[0] = measure q[0];",
	}
	var first []call
	for _, form := range forms {
		rec := build(t, decl+form)
		require.Len(t, rec.calls, 1, form)
		if first == nil {
			first = rec.calls
			continue
		}
		assert.Equal(t, first, rec.calls, form)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind Kind
		line int
	}{
		{"unknown op", "qubit[1] q;\nfoo q[0];", UnknownOperation, 2},
		{"index out of range", "qubit[2] q;\nx q[2];", IndexOutOfRange, 2},
		{"undeclared register", "qubit[1] q;\nh r[0];", UndeclaredRegister, 2},
		{"redeclared", "qubit[1] q;\nbit[1] q;", Redeclared, 2},
		{"bad size", "qreg q[0];", MalformedDeclaration, 1},
		{"scalar without value", "qubit[1] q;\nconst a;", MalformedDeclaration, 2},
		{"statement after scalar", "qubit[1] q;\nconst a = 2; x q[0];", MalformedDeclaration, 2},
		{"classical gate target", "bit[1] c;\nx c[0];", TypeMismatch, 2},
		{"wrong arity", "qubit[2] q;\ncx q[0];", MalformedInstruction, 2},
		{"repeated operand", "qubit[2] q;\ncx q[0], q[0];", MalformedInstruction, 2},
		{"measure size mismatch", "qubit[2] q;\nbit[1] c;\nmeasure q -> c;", MalformedInstruction, 3},
		{"bad expression", "qubit[1] q;\nrx(1 +) q[0];", InvalidExpression, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.src).Build(&recorder{})
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err), err.Error())

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.line, e.Line)
		})
	}
}

func TestScalarDeclarationSwallowsNothing(t *testing.T) {
	src := "qubit[1] q;\nconst a = 2; x q[0];\n"

	rec := &recorder{}
	err := New(src).Build(rec)
	assert.Equal(t, MalformedDeclaration, KindOf(err))
	assert.Len(t, rec.regs, 1)
	assert.Empty(t, rec.calls)

	rec = &recorder{}
	err = New(src).BuildInverse(rec)
	assert.Equal(t, MalformedDeclaration, KindOf(err))
	assert.Len(t, rec.regs, 1)
	assert.Empty(t, rec.calls)
}

func TestBuildLogsRegisterCounts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	src := "qubit[2] q;\nqreg r[1];\nbit[2] c;\nconst a = 1;\nfloat b = 2;\nrx(a) q[0];\n"
	in := New(src, WithLogger(zap.New(core)))

	require.NoError(t, in.Build(&recorder{}))
	require.NoError(t, in.BuildInverse(&recorder{}))

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		fields := e.ContextMap()
		assert.EqualValues(t, 2, fields["qubit_registers"], e.Message)
		assert.EqualValues(t, 1, fields["bit_registers"], e.Message)
		assert.EqualValues(t, 1, fields["instructions"], e.Message)
	}
}

func TestBuildBackendFailure(t *testing.T) {
	rec := &recorder{fail: errors.New("disk on fire")}
	err := New("qubit[1] q;\nx q[0];").Build(rec)
	require.Error(t, err)
	assert.Equal(t, BackendFailure, KindOf(err))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestPhaseTransitions(t *testing.T) {
	in := New("qubit[1] q;\nx q[0];")
	assert.Equal(t, Done, in.Phase())
	require.NoError(t, in.BuildInverse(&recorder{}))
	assert.Equal(t, Done, in.Phase())

	in = New("qubit[1] q;\nfoo q[0];")
	require.Error(t, in.BuildInverse(&recorder{}))
	assert.Equal(t, InverseScanPhase2, in.Phase())
}

func TestBuildIsRepeatable(t *testing.T) {
	in := New("qubit[1] q;\nconst a = pi;\nrz(a) q[0];")
	first, err := in.Circuit()
	require.NoError(t, err)
	second, err := in.Circuit()
	require.NoError(t, err)
	assert.Equal(t, first.ToQASM(), second.ToQASM())
}

func TestInverseUndoesForward(t *testing.T) {
	src := preamble + `qubit[3] q;
const theta = 0.3;
h q[0];
s q[1];
t q[2];
rx(theta) q[0];
ry(2*theta) q[1];
rz(-pi/3) q[2];
cx q[0], q[1];
ccx q[0], q[1], q[2];
cswap q[2], q[0], q[1];
sdg q[0];
`
	in := New(src)
	fwd, err := in.Circuit()
	require.NoError(t, err)
	inv, err := in.InverseCircuit()
	require.NoError(t, err)

	state := circuit.NewStateVector(fwd.NumQubits())
	require.NoError(t, state.Run(fwd))
	require.NoError(t, state.Run(inv))

	assert.InDelta(t, 1.0, state.Fidelity(circuit.NewStateVector(3)), 1e-9)
}

func TestInverseSkipsTrailingComments(t *testing.T) {
	src := "qubit[2] q;\n// prepare\nh q[0];\n\ncx q[0], q[1]; // entangle\n// done\n"
	assert.Equal(t, []string{"cx q[0],q[1]", "h q[0]"}, buildInverse(t, src).ops())
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile("/nonexistent/prog.qasm")
	require.Error(t, err)
	assert.Zero(t, KindOf(err))
}
