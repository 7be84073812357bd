package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// URLColorCode is the ANSI 256 color used for links
const URLColorCode = "51"

// CreateURLSectionStyle creates a style for link section headers
func CreateURLSectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightGreen)).
		Bold(true)
}

// FormatClickableURL formats a URL as an OSC 8 terminal hyperlink
func FormatClickableURL(displayText, url string) string {
	hyperlink := fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, displayText)
	return fmt.Sprintf("\033[38;5;%sm\033[4m%s\033[0m", URLColorCode, hyperlink)
}
