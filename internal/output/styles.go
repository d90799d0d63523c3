package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// StyleSet holds the lipgloss styles for text output
type StyleSet struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	URL     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the colored style set
func DefaultStyles() StyleSet {
	return StyleSet{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Value:   lipgloss.NewStyle().Bold(true),
		URL:     lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Underline(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() StyleSet {
	plain := lipgloss.NewStyle()
	return StyleSet{
		Title:   plain,
		Header:  plain,
		Label:   plain,
		Value:   plain,
		URL:     plain,
		Success: plain,
		Warning: plain,
		Danger:  plain,
		Muted:   plain,
	}
}

// StylesFor picks colored styles only when w is a terminal
func StylesFor(w io.Writer) StyleSet {
	if IsTerminal(w) {
		return DefaultStyles()
	}
	return PlainStyles()
}

// IsTerminal reports whether w is an *os.File attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StatusIcon maps a check status to its marker
func (s StyleSet) StatusIcon(status string) string {
	switch status {
	case "ok":
		return s.Success.Render("✓")
	case "warning":
		return s.Warning.Render("⚠")
	case "error":
		return s.Danger.Render("✗")
	default:
		return "?"
	}
}
