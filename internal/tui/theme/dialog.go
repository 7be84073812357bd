package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// CreateDialogStyle creates a consistent dialog style; an empty borderColor
// uses the primary accent
func CreateDialogStyle(width int, borderColor string) lipgloss.Style {
	if borderColor == "" {
		borderColor = ColorBrightBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1, 2).
		Width(width).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreatePromptStyle creates a style for prompt text in dialogs
func CreatePromptStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightYellow)).
		Bold(true)
}

// CreateDialogButtonStyle creates a style for dialog buttons
func CreateDialogButtonStyle(selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Padding(0, 2).
		Margin(0, 1)

	if selected {
		return style.
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(ColorBrightYellow))
	}

	return style.
		Foreground(lipgloss.Color(ColorBrightCyan))
}
