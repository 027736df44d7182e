package picker

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the picker.
type Styles struct {
	Header   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Match    lipgloss.Style
	URL      lipgloss.Style
	HintKey  lipgloss.Style
	HintDesc lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Grayscale with a single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),

		Item: lipgloss.NewStyle().
			Foreground(primary),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Match: lipgloss.NewStyle().
			Underline(true),

		URL: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		HintKey: lipgloss.NewStyle().
			Foreground(accent),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
