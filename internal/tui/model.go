// Package tui is the interactive viewer: an OpenQASM editor next to a live
// diagram of the circuit it builds, or of that circuit's inverse.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/HershLalwani/qasm3circ/internal/circuit"
	"github.com/HershLalwani/qasm3circ/internal/interp"
	"github.com/HershLalwani/qasm3circ/internal/render"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusSource
	focusMenu
)

// Options configures the viewer.
type Options struct {
	CellWidth int
	CacheSize int
	SavePath  string // where ctrl+s writes the displayed circuit
	Inverse   bool   // start on the inverse circuit
	Logger    *zap.Logger
}

// Model represents the TUI application state.
type Model struct {
	opts Options

	source   textarea.Model
	lastSrc  string
	forward  *render.Grid
	inverse  *render.Grid
	buildErr error

	showInverse bool
	cursorWire  int
	cursorStep  int
	width       int
	height      int
	focus       focus
	statusMsg   string

	menuCat  int
	menuItem int
}

// New returns a viewer editing src.
func New(src string, opts Options) Model {
	if opts.CellWidth == 0 {
		opts.CellWidth = render.DefaultCellWidth
	}
	if opts.SavePath == "" {
		opts.SavePath = "circuit.qasm"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "OPENQASM 3.0;\nqubit[2] q;\nh q[0];"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.SetValue(src)

	m := Model{
		opts:        opts,
		source:      ta,
		showInverse: opts.Inverse,
		focus:       focusCircuit,
	}
	m.rebuild()
	return m
}

// rebuild interprets the editor contents. On failure the last good diagrams
// stay on screen and the error is shown in the status line.
func (m *Model) rebuild() {
	src := m.source.Value()
	if src == m.lastSrc && m.forward != nil {
		return
	}
	m.lastSrc = src

	in := interp.New(src,
		interp.WithLogger(m.opts.Logger),
		interp.WithCacheSize(m.opts.CacheSize),
	)
	fwd, err := in.Circuit()
	if err != nil {
		m.buildErr = err
		m.opts.Logger.Debug("rebuild failed", zap.Error(err))
		m.ensureGrids()
		return
	}
	inv, err := in.InverseCircuit()
	if err != nil {
		m.buildErr = err
		m.ensureGrids()
		return
	}
	m.buildErr = nil
	m.forward = render.Layout(fwd)
	m.inverse = render.Layout(inv)
	m.clampCursor()
}

// ensureGrids gives the view something to draw before the first good build.
func (m *Model) ensureGrids() {
	if m.forward == nil {
		m.forward = render.Layout(circuit.New())
	}
	if m.inverse == nil {
		m.inverse = render.Layout(circuit.New())
	}
	m.clampCursor()
}

func (m *Model) grid() *render.Grid {
	if m.showInverse {
		return m.inverse
	}
	return m.forward
}

func (m *Model) clampCursor() {
	g := m.grid()
	m.cursorWire = min(m.cursorWire, max(g.Wires()-1, 0))
	m.cursorStep = min(m.cursorStep, max(g.Steps()-1, 0))
}

// insertLine appends line to the source and rebuilds.
func (m *Model) insertLine(line string) {
	src := m.source.Value()
	if src != "" && !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	m.source.SetValue(src + line + "\n")
	m.rebuild()
	if m.buildErr == nil {
		m.cursorStep = max(m.grid().Steps()-1, 0)
	}
}

// insertFromMenu turns the selected menu item into a source line aimed at
// the qubit under the cursor.
func (m *Model) insertFromMenu() {
	item := gateMenu[m.menuCat].items[m.menuItem]
	g := m.forward
	qubits := g.Labels[:g.DAG.NumQubits]
	bits := g.Labels[g.DAG.NumQubits:]

	line, err := item.snippet(qubits, bits, m.cursorWire)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.insertLine(line)
	m.statusMsg = "Inserted " + line
}

func (m Model) save() string {
	c := m.grid().Circuit
	if err := os.WriteFile(m.opts.SavePath, []byte(c.ToQASM()), 0o644); err != nil {
		return fmt.Sprintf("Save error: %v", err)
	}
	return "Saved " + m.opts.SavePath
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.source.SetWidth(max(msg.Width/3-6, 20))
		m.source.SetHeight(max(msg.Height-controlsHeight-6, 4))

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			m.statusMsg = ""
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusSource
				return m, m.source.Focus()
			case "i":
				m.showInverse = !m.showInverse
				m.clampCursor()
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "ctrl+s":
				m.statusMsg = m.save()
			case "up", "k":
				m.cursorWire = max(m.cursorWire-1, 0)
			case "down", "j":
				m.cursorWire = min(m.cursorWire+1, max(m.grid().Wires()-1, 0))
			case "left", "h":
				m.cursorStep = max(m.cursorStep-1, 0)
			case "right", "l":
				m.cursorStep = min(m.cursorStep+1, max(m.grid().Steps()-1, 0))
			case "home":
				m.cursorStep = 0
			case "end":
				m.cursorStep = max(m.grid().Steps()-1, 0)
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				m.menuItem = max(m.menuItem-1, 0)
			case "down", "j":
				m.menuItem = min(m.menuItem+1, len(gateMenu[m.menuCat].items)-1)
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				m.insertFromMenu()
				m.focus = focusCircuit
			}

		case focusSource:
			if key == "esc" || key == "tab" {
				m.source.Blur()
				m.focus = focusCircuit
				return m, nil
			}
			var cmd tea.Cmd
			m.source, cmd = m.source.Update(msg)
			m.rebuild()
			return m, cmd
		}

	default:
		if m.focus == focusSource {
			var cmd tea.Cmd
			m.source, cmd = m.source.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// ──────────────────────────── View ────────────────────────────

const controlsHeight = 4

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sourceWidth := m.width / 3
	circuitWidth := m.width - sourceWidth - 4
	panelHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, panelHeight)
	sourcePanel := m.renderSourcePanel(sourceWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width - 4)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, sourcePanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	return frame
}

func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	title := "Circuit"
	if m.showInverse {
		title = "Inverse Circuit"
	}
	sb.WriteString(render.Title.Render(title))
	sb.WriteString("\n\n")

	g := m.grid()
	visible := g.StepsThatFit(width-4, m.opts.CellWidth)
	start := 0
	if m.cursorStep >= visible {
		start = m.cursorStep - visible + 1
	}
	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", start, start+visible-1)
	}
	sb.WriteString(g.Render(render.Options{
		CellWidth: m.opts.CellWidth,
		Start:     start,
		Steps:     visible,
		Cursor:    &render.Cursor{Step: m.cursorStep, Wire: m.cursorWire},
	}))

	sb.WriteString("\n")
	switch {
	case m.buildErr != nil:
		sb.WriteString(render.Error.Render("  " + m.buildErr.Error()))
	case m.statusMsg != "":
		sb.WriteString("  " + render.Accent.Render(m.statusMsg))
	default:
		sb.WriteString("  " + m.describeCursor())
	}

	return render.CircuitPanel.Width(width).Height(height).Render(sb.String())
}

// describeCursor names the op under the cursor.
func (m Model) describeCursor() string {
	g := m.grid()
	if g.Wires() == 0 {
		return render.Dim.Render("declare a register to begin")
	}
	where := fmt.Sprintf("Step %d, %s", m.cursorStep, g.Labels[m.cursorWire])
	op, ok := g.OpAt(m.cursorStep, m.cursorWire)
	if !ok {
		return render.Dim.Render(where)
	}
	return render.Dim.Render(where+"  │  ") + render.Accent.Render(describeOp(op))
}

func describeOp(op circuit.Op) string {
	refs := make([]string, len(op.Qubits))
	for i, q := range op.Qubits {
		refs[i] = q.String()
	}
	name := op.Name()
	if op.Kind == circuit.OpGate && op.Gate.Parametrized() {
		name += "(" + circuit.FormatParam(op.Angle) + ")"
	}
	s := name + " " + strings.Join(refs, ", ")
	if op.Kind == circuit.OpMeasure {
		bits := make([]string, len(op.Bits))
		for i, b := range op.Bits {
			bits[i] = b.String()
		}
		s += " -> " + strings.Join(bits, ", ")
	}
	return s
}

func (m Model) renderSourcePanel(width, height int) string {
	var sb strings.Builder

	title := "OpenQASM"
	if m.focus == focusSource {
		title += " [EDITING]"
	}
	sb.WriteString(render.Title.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.source.View())

	return render.SourcePanel.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderControlsPanel(width int) string {
	var sb strings.Builder

	sb.WriteString(render.Accent.Render("Navigate: "))
	sb.WriteString("↑↓/jk Wire  ←→/hl Step  Home/End  i Forward/Inverse")
	sb.WriteString("\n")
	sb.WriteString(render.Accent.Render("Actions:  "))
	sb.WriteString("Tab Edit source  a Insert  ^S Save  q/^C Quit")

	return render.ControlsPanel.Width(width).Render(sb.String())
}

// Run starts the viewer on the alternate screen.
func Run(src string, opts Options) error {
	p := tea.NewProgram(New(src, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
