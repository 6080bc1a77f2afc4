package render

import "github.com/charmbracelet/lipgloss"

// Styles colours the parts of a diagram.
type Styles struct {
	Header         lipgloss.Style
	QubitLabel     lipgloss.Style
	ClassicalLabel lipgloss.Style
	Wire           lipgloss.Style
	ClassicalWire  lipgloss.Style
	Gate           lipgloss.Style
	Connector      lipgloss.Style
	Barrier        lipgloss.Style
	Cursor         lipgloss.Style
}

// DefaultStyles is the terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),
		QubitLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")),
		ClassicalLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		Wire:           lipgloss.NewStyle(),
		ClassicalWire:  lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),
		Gate:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#73daca")),
		Connector:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0af68")),
		Barrier:        lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")),
		Cursor:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64")),
	}
}

// PlainStyles renders without any escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:         plain,
		QubitLabel:     plain,
		ClassicalLabel: plain,
		Wire:           plain,
		ClassicalWire:  plain,
		Gate:           plain,
		Connector:      plain,
		Barrier:        plain,
		Cursor:         plain,
	}
}

// Panel styles shared by the interactive viewer.
var (
	CircuitPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)

	SourcePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Padding(0, 1)

	ControlsPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9ece6a")).
			Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff9e64"))

	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#565f89"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f7768e"))

	Accent = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#e0af68"))
)
