package cli

import "github.com/charmbracelet/lipgloss"

// Theme styles the labels the session prints. Message bodies are printed as
// they are so multi-line replies keep their layout.
type Theme struct {
	Title     lipgloss.Style
	Prompt    lipgloss.Style
	Assistant lipgloss.Style
	Alert     lipgloss.Style
	Muted     lipgloss.Style

	plain bool
}

// DefaultTheme is used on colour terminals.
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Alert:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// PlainTheme prints everything unstyled.
func PlainTheme() Theme {
	return Theme{plain: true}
}

func (t Theme) render(style lipgloss.Style, text string) string {
	if t.plain || text == "" {
		return text
	}
	return style.Render(text)
}
