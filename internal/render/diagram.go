// Package render draws circuits as box-drawing diagrams, one column per DAG
// step. Each qubit wire takes three text rows and each classical bit two.
package render

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
)

// DefaultCellWidth is the column width used when Options leaves it unset.
const DefaultCellWidth = 9

const minCellWidth = 5

// Cursor marks one cell for highlighting. Wire uses DAG numbering.
type Cursor struct {
	Step int
	Wire int
}

// Options controls what part of the circuit is drawn and how.
type Options struct {
	CellWidth int
	Start     int // first step drawn
	Steps     int // number of steps drawn; zero draws to the end
	Cursor    *Cursor
	Styles    *Styles
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellBox
	cellControl
	cellTarget
	cellSwap
	cellCross
	cellBarrier
	cellBit
)

// cell is what one wire shows at one step.
type cell struct {
	kind   cellKind
	label  string
	param  string
	up     bool // connector leaves towards the wire above
	down   bool // connector leaves towards the wire below
	double bool // classical connector
}

// Grid is a circuit laid out into cells.
type Grid struct {
	Circuit *circuit.Circuit
	DAG     *circuit.CircuitDAG
	Labels  []string // qubit wires, then classical wires

	cells [][]cell // [wire][step]
}

// Layout places every op of c into the grid.
func Layout(c *circuit.Circuit) *Grid {
	dag := c.DAG()
	g := &Grid{
		Circuit: c,
		DAG:     dag,
		Labels:  wireLabels(c),
	}
	g.cells = make([][]cell, dag.NumQubits+dag.NumCbits)
	for w := range g.cells {
		g.cells[w] = make([]cell, dag.Steps)
	}

	for _, node := range dag.Nodes {
		g.place(node)
	}
	return g
}

func wireLabels(c *circuit.Circuit) []string {
	labels := c.QubitLabels()
	for _, r := range c.Registers {
		if r.Kind != circuit.Classical {
			continue
		}
		for _, ref := range r.All() {
			labels = append(labels, ref.String())
		}
	}
	return labels
}

// Steps is the number of columns in the grid.
func (g *Grid) Steps() int { return g.DAG.Steps }

// Wires is the number of rows of cells.
func (g *Grid) Wires() int { return len(g.cells) }

// OpAt returns the op drawn at (step, wire).
func (g *Grid) OpAt(step, wire int) (circuit.Op, bool) {
	node := g.DAG.NodeAt(step, wire)
	if node == nil {
		return circuit.Op{}, false
	}
	return g.Circuit.Ops[node.Op], true
}

func (g *Grid) place(node *circuit.DAGNode) {
	op := g.Circuit.Ops[node.Op]
	step := node.Step
	lo, hi := slices.Min(node.Wires), slices.Max(node.Wires)

	set := func(w int, cl cell) {
		cl.up = w > lo
		cl.down = w < hi
		cl.double = op.Kind == circuit.OpMeasure
		g.cells[w][step] = cl
	}
	qubit := func(ref circuit.Ref) int { return g.Circuit.Wire(ref) }

	if op.Kind == circuit.OpBarrier {
		for w := lo; w <= hi; w++ {
			g.cells[w][step] = cell{kind: cellBarrier}
		}
		return
	}
	for w := lo; w <= hi; w++ {
		set(w, cell{kind: cellCross})
	}

	switch op.Kind {
	case circuit.OpReset:
		for _, q := range op.Qubits {
			set(qubit(q), cell{kind: cellBox, label: "|0>"})
		}
	case circuit.OpMeasure:
		for i, q := range op.Qubits {
			set(qubit(q), cell{kind: cellBox, label: "M"})
			set(g.DAG.NumQubits+g.Circuit.Wire(op.Bits[i]), cell{kind: cellBit})
		}
	default:
		qs := op.Qubits
		switch op.Gate {
		case circuit.GateCX:
			set(qubit(qs[0]), cell{kind: cellControl})
			set(qubit(qs[1]), cell{kind: cellTarget})
		case circuit.GateCCX:
			set(qubit(qs[0]), cell{kind: cellControl})
			set(qubit(qs[1]), cell{kind: cellControl})
			set(qubit(qs[2]), cell{kind: cellTarget})
		case circuit.GateSwap:
			set(qubit(qs[0]), cell{kind: cellSwap})
			set(qubit(qs[1]), cell{kind: cellSwap})
		case circuit.GateCSwap:
			set(qubit(qs[0]), cell{kind: cellControl})
			set(qubit(qs[1]), cell{kind: cellSwap})
			set(qubit(qs[2]), cell{kind: cellSwap})
		default:
			cl := cell{kind: cellBox, label: GateLabel(op.Gate)}
			if op.Gate.Parametrized() {
				cl.param = strings.ReplaceAll(circuit.FormatParam(op.Angle), "pi", "π")
			}
			set(qubit(qs[0]), cl)
		}
	}
}

// GateLabel is the text drawn inside a single-qubit gate box.
func GateLabel(g circuit.Gate) string {
	switch g {
	case circuit.GateSdg:
		return "S†"
	case circuit.GateTdg:
		return "T†"
	default:
		return strings.ToUpper(g.Name())
	}
}

// LabelWidth is the width of the wire-label gutter.
func (g *Grid) LabelWidth() int {
	w := 0
	for _, l := range g.Labels {
		w = max(w, lipgloss.Width(l))
	}
	return w + 1
}

// StepsThatFit returns how many columns fit in width characters.
func (g *Grid) StepsThatFit(width, cellWidth int) int {
	cellWidth = max(cellWidth, minCellWidth)
	return max((width-g.LabelWidth()-1)/cellWidth, 1)
}

// Diagram lays out and draws c.
func Diagram(c *circuit.Circuit, opts Options) string {
	return Layout(c).Render(opts)
}

// Render draws the grid.
func (g *Grid) Render(opts Options) string {
	w := opts.CellWidth
	if w == 0 {
		w = DefaultCellWidth
	}
	w = max(w, minCellWidth)
	st := DefaultStyles()
	if opts.Styles != nil {
		st = *opts.Styles
	}
	p := painter{w: w, st: st}

	total := g.Steps()
	start := min(max(opts.Start, 0), max(total-1, 0))
	end := total
	if opts.Steps > 0 {
		end = min(start+opts.Steps, total)
	}
	// an empty circuit still shows its wires
	blankColumn := total == 0

	labelW := g.LabelWidth()
	gutter := strings.Repeat(" ", labelW+1)

	var sb strings.Builder
	sb.WriteString(gutter)
	for step := start; step < end; step++ {
		sb.WriteString(st.Header.Render(padCenter(strconv.Itoa(step), w, ' ')))
	}
	sb.WriteString("\n")

	for wire := range g.Wires() {
		classical := wire >= g.DAG.NumQubits
		label := padRight(g.Labels[wire], labelW)

		var rows [3]strings.Builder
		if classical {
			rows[0].WriteString(gutter)
			rows[1].WriteString(st.ClassicalLabel.Render(label) + st.ClassicalWire.Render("═"))
		} else {
			rows[0].WriteString(gutter)
			rows[1].WriteString(st.QubitLabel.Render(label) + st.Wire.Render("─"))
			rows[2].WriteString(gutter)
		}

		for step := start; step < end; step++ {
			var out [3]string
			if classical {
				out[0], out[1] = p.classical(g.cells[wire][step])
			} else {
				out[0], out[1], out[2] = p.quantum(g.cells[wire][step])
			}
			if opts.Cursor != nil && opts.Cursor.Step == step && opts.Cursor.Wire == wire {
				for i := range out {
					out[i] = st.Cursor.Render(out[i])
				}
			}
			for i := range out {
				rows[i].WriteString(out[i])
			}
		}
		if blankColumn {
			if classical {
				rows[1].WriteString(st.ClassicalWire.Render(strings.Repeat("═", w)))
			} else {
				rows[1].WriteString(st.Wire.Render(strings.Repeat("─", w)))
			}
		}

		n := 3
		if classical {
			n = 2
		}
		for i := range n {
			sb.WriteString(strings.TrimRight(rows[i].String(), " "))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// painter draws single cells at a fixed width.
type painter struct {
	w  int
	st Styles
}

func (p painter) blank() string { return strings.Repeat(" ", p.w) }

// vert is a row holding only a vertical stroke in the centre column.
func (p painter) vert(stroke string) string {
	h := p.w / 2
	return strings.Repeat(" ", h) + stroke + strings.Repeat(" ", p.w-h-1)
}

// through is a wire row with a symbol in the centre column.
func (p painter) through(wire, symbol string) string {
	h := p.w / 2
	return strings.Repeat(wire, h) + symbol + strings.Repeat(wire, p.w-h-1)
}

func (p painter) connector(cl cell, show bool) string {
	if !show {
		return p.blank()
	}
	if cl.double {
		return p.st.Connector.Render(p.vert("║"))
	}
	return p.st.Wire.Render(p.vert("│"))
}

func (p painter) quantum(cl cell) (top, mid, bot string) {
	wire := p.st.Wire
	switch cl.kind {
	case cellBox:
		return p.box(cl)
	case cellControl:
		return p.connector(cl, cl.up), p.st.Gate.Render(p.through("─", "●")), p.connector(cl, cl.down)
	case cellTarget:
		return p.connector(cl, cl.up), p.st.Gate.Render(p.through("─", "⊕")), p.connector(cl, cl.down)
	case cellSwap:
		return p.connector(cl, cl.up), p.st.Gate.Render(p.through("─", "×")), p.connector(cl, cl.down)
	case cellCross:
		if cl.double {
			return p.connector(cl, true), wire.Render(p.through("─", "╫")), p.connector(cl, true)
		}
		return p.connector(cl, true), wire.Render(p.through("─", "┼")), p.connector(cl, true)
	case cellBarrier:
		b := p.st.Barrier
		return b.Render(p.vert("┆")), b.Render(p.through("─", "┆")), b.Render(p.vert("┆"))
	default:
		return p.blank(), wire.Render(strings.Repeat("─", p.w)), p.blank()
	}
}

func (p painter) classical(cl cell) (top, mid string) {
	wire := p.st.ClassicalWire
	switch cl.kind {
	case cellBit:
		return p.connector(cl, true), wire.Render(p.through("═", "╩"))
	case cellCross:
		return p.connector(cl, true), wire.Render(p.through("═", "╬"))
	default:
		return p.blank(), wire.Render(strings.Repeat("═", p.w))
	}
}

// box draws a labelled gate box. Connectors attach to the middle of the top
// and bottom edges; a rotation angle is written into the bottom edge.
func (p painter) box(cl cell) (top, mid, bot string) {
	inner := p.w - 4
	joint := func(double bool, single, dbl string) string {
		if double {
			return dbl
		}
		return single
	}

	topEdge := strings.Repeat("─", inner)
	if cl.up {
		topEdge = withCentre(topEdge, joint(cl.double, "┴", "╨"))
	}
	botEdge := strings.Repeat("─", inner)
	switch {
	case cl.param != "":
		botEdge = padCenter(cl.param, inner, '─')
	case cl.down:
		botEdge = withCentre(botEdge, joint(cl.double, "┬", "╥"))
	}

	g := p.st.Gate
	top = " " + g.Render("┌"+topEdge+"┐") + " "
	mid = p.st.Wire.Render("─") + g.Render("┤"+padCenter(cl.label, inner, ' ')+"├") + p.st.Wire.Render("─")
	bot = " " + g.Render("└"+botEdge+"┘") + " "
	return top, mid, bot
}

func withCentre(edge, symbol string) string {
	r := []rune(edge)
	r[len(r)/2] = []rune(symbol)[0]
	return string(r)
}

// padCenter centres s within width display columns, truncating with an
// ellipsis when it does not fit.
func padCenter(s string, width int, fill rune) string {
	sw := lipgloss.Width(s)
	if sw > width {
		r := []rune(s)
		for lipgloss.Width(string(r)) > width-1 && len(r) > 0 {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
		sw = lipgloss.Width(s)
	}
	total := width - sw
	left := total / 2
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), total-left)
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}
