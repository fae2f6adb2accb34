package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the pre-configured lipgloss styles of the chat view.
type Styles struct {
	// Title renders the application header.
	Title lipgloss.Style

	// User renders the user's own lines in the transcript.
	User lipgloss.Style

	// Muted renders secondary information (sources, hints, previews).
	Muted lipgloss.Style

	// Error renders failures and refusals.
	Error lipgloss.Style

	// InputBox frames the question input.
	InputBox lipgloss.Style

	// Status renders the one-line state footer.
	Status lipgloss.Style
}

// DefaultStyles returns the default chat styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		User:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		InputBox: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}
