package tui

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/HershLalwani/qasm3circ/internal/render"
)

// menuItem is one instruction the menu can insert into the source.
type menuItem struct {
	name    string
	keyword string
	qubits  int
	param   bool
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the instruction picker categories and items.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", keyword: "h", qubits: 1},
			{name: "Pauli-X (NOT)", keyword: "x", qubits: 1},
			{name: "Pauli-Y", keyword: "y", qubits: 1},
			{name: "Pauli-Z", keyword: "z", qubits: 1},
			{name: "Phase (S)", keyword: "s", qubits: 1},
			{name: "Phase Dagger (S†)", keyword: "sdg", qubits: 1},
			{name: "T Gate", keyword: "t", qubits: 1},
			{name: "T Dagger (T†)", keyword: "tdg", qubits: 1},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", keyword: "rx", qubits: 1, param: true},
			{name: "Rotate Y", keyword: "ry", qubits: 1, param: true},
			{name: "Rotate Z", keyword: "rz", qubits: 1, param: true},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", keyword: "cx", qubits: 2},
			{name: "Swap", keyword: "swap", qubits: 2},
			{name: "Toffoli", keyword: "ccx", qubits: 3},
			{name: "Fredkin", keyword: "cswap", qubits: 3},
		},
	},
	{
		name: "Other",
		items: []menuItem{
			{name: "Measure", keyword: "measure", qubits: 1},
			{name: "Reset", keyword: "reset", qubits: 1},
			{name: "Barrier", keyword: "barrier"},
		},
	},
}

// snippet builds the source line for item, starting at qubit wire start and
// taking further operands from the following wires.
func (item menuItem) snippet(qubits, bits []string, start int) (string, error) {
	if item.keyword == "barrier" {
		return "barrier;", nil
	}
	if len(qubits) < item.qubits {
		return "", errors.Errorf("%s needs %d qubits", item.name, item.qubits)
	}
	start = min(max(start, 0), len(qubits)-1)

	operands := make([]string, item.qubits)
	for k := range operands {
		operands[k] = qubits[(start+k)%len(qubits)]
	}

	switch {
	case item.keyword == "measure":
		if len(bits) == 0 {
			return "", errors.New("declare a classical register to measure into")
		}
		return fmt.Sprintf("measure %s -> %s;", operands[0], bits[min(start, len(bits)-1)]), nil
	case item.param:
		return fmt.Sprintf("%s(pi/2) %s;", item.keyword, operands[0]), nil
	default:
		return fmt.Sprintf("%s %s;", item.keyword, strings.Join(operands, ", ")), nil
	}
}

// renderMenu renders the instruction picker overlay.
func (m Model) renderMenu() string {
	var sb strings.Builder

	var tabs []string
	for i, cat := range gateMenu {
		if i == m.menuCat {
			tabs = append(tabs, menuSelectedStyle.Render("["+cat.name+"]"))
		} else {
			tabs = append(tabs, render.Dim.Render(" "+cat.name+" "))
		}
	}
	sb.WriteString(strings.Join(tabs, " "))
	sb.WriteString("\n\n")

	for i, item := range gateMenu[m.menuCat].items {
		line := fmt.Sprintf("%-6s %s", item.keyword, item.name)
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render("▸ " + line))
		} else {
			sb.WriteString(menuNormalStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(render.Dim.Render("←→ Category  ↑↓ Select  ⏎ Insert  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
