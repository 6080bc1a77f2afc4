package render

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

func bellCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New()
	q := circuit.NewRegister(circuit.Quantum, 2, "q")
	m := circuit.NewRegister(circuit.Classical, 1, "c")
	require.NoError(t, c.CreateRegister(q))
	require.NoError(t, c.CreateRegister(m))
	require.NoError(t, c.Apply(circuit.GateH, q.Ref(0)))
	require.NoError(t, c.Apply(circuit.GateCX, q.Ref(0), q.Ref(1)))
	require.NoError(t, c.Measure([]circuit.Ref{q.Ref(1)}, []circuit.Ref{m.Ref(0)}))
	require.NoError(t, c.ApplyRotation(circuit.GateRX, math.Pi/2, q.Ref(0)))
	return c
}

func plain() *Styles {
	st := PlainStyles()
	return &st
}

func TestDiagram(t *testing.T) {
	out := Diagram(bellCircuit(t), Options{Styles: plain()})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	// header, two qubits of three rows, one bit of two rows
	require.Len(t, lines, 1+2*3+2)
	assert.Equal(t, "0        1        2", strings.TrimSpace(lines[0]))

	assert.True(t, strings.HasPrefix(lines[2], "q[0] ─"))
	assert.True(t, strings.HasPrefix(lines[5], "q[1] ─"))
	assert.True(t, strings.HasPrefix(lines[8], "c[0] ═"))

	assert.Contains(t, lines[2], "┤  H  ├")
	assert.Contains(t, lines[2], "●")
	assert.Contains(t, lines[2], "┤ RX  ├")
	assert.Contains(t, lines[3], "└─π/2─┘")
	assert.Contains(t, lines[5], "⊕")
	assert.Contains(t, lines[5], "┤  M  ├")
	assert.Contains(t, lines[6], "└──╥──┘")
	assert.Contains(t, lines[8], "╩")

	width := 6 + 3*DefaultCellWidth
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), width, l)
	}
}

func TestDiagramWindow(t *testing.T) {
	out := Diagram(bellCircuit(t), Options{Styles: plain(), Start: 1, Steps: 1})
	lines := strings.Split(out, "\n")

	assert.Equal(t, "1", strings.TrimSpace(lines[0]))
	assert.NotContains(t, out, "H")
	assert.Contains(t, out, "●")
	assert.NotContains(t, out, "RX")
}

func TestDiagramEmptyCircuit(t *testing.T) {
	c := circuit.New()
	require.NoError(t, c.CreateRegister(circuit.NewRegister(circuit.Quantum, 1, "q")))
	out := Diagram(c, Options{Styles: plain(), CellWidth: 5})
	assert.Contains(t, out, "q[0] ──────")
}

func TestDiagramBarrierAndSwap(t *testing.T) {
	c := circuit.New()
	q := circuit.NewRegister(circuit.Quantum, 3, "q")
	require.NoError(t, c.CreateRegister(q))
	require.NoError(t, c.Apply(circuit.GateSwap, q.Ref(0), q.Ref(2)))
	require.NoError(t, c.Barrier(q.All()))
	require.NoError(t, c.Reset([]circuit.Ref{q.Ref(1)}))

	g := Layout(c)
	require.Equal(t, 3, g.Steps())
	out := g.Render(Options{Styles: plain()})

	assert.Equal(t, 2, strings.Count(out, "×"))
	assert.Contains(t, out, "┼", "swap connector crosses the middle wire")
	assert.Equal(t, 3, strings.Count(out, "─┆─"))
	assert.Contains(t, out, "|0>")

	op, ok := g.OpAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, circuit.OpBarrier, op.Kind)
	_, ok = g.OpAt(2, 0)
	assert.False(t, ok)
}

func TestGateLabel(t *testing.T) {
	assert.Equal(t, "H", GateLabel(circuit.GateH))
	assert.Equal(t, "S†", GateLabel(circuit.GateSdg))
	assert.Equal(t, "T†", GateLabel(circuit.GateTdg))
	assert.Equal(t, "RZ", GateLabel(circuit.GateRZ))
}

func TestPadCenter(t *testing.T) {
	assert.Equal(t, "  H  ", padCenter("H", 5, ' '))
	assert.Equal(t, "─π/2─", padCenter("π/2", 5, '─'))
	assert.Equal(t, "-3*π…", padCenter("-3*π/4", 5, '─'))
}

func TestStepsThatFit(t *testing.T) {
	g := Layout(bellCircuit(t))
	assert.Equal(t, 6, g.LabelWidth())
	assert.Equal(t, 2, g.StepsThatFit(6+1+2*9+3, 9))
	assert.Equal(t, 1, g.StepsThatFit(3, 9))
}
