package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// CreateProgressTextStyle creates a style for progress text
func CreateProgressTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightCyan)).
		Bold(true)
}

// FormatProgressMessage formats a transfer line, e.g. "Downloading a.txt 1.2 MiB / 4.0 MiB".
// A non-positive total hides the size part.
func FormatProgressMessage(operation, filename string, done, total int64) string {
	if total > 0 {
		return fmt.Sprintf("%s %s %s / %s", operation, filename,
			humanize.IBytes(uint64(done)), humanize.IBytes(uint64(total)))
	}
	return fmt.Sprintf("%s %s...", operation, filename)
}

// FormatErrorMessage formats an error message
func FormatErrorMessage(operation string, err error) string {
	return fmt.Sprintf("%s failed: %v", operation, err)
}
