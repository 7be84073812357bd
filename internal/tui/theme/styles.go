package theme

import "github.com/charmbracelet/lipgloss"

// BorderStyleUnified is the box border used by panels and dialogs
var BorderStyleUnified = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}

// CreateUnifiedPanelStyle creates a consistent panel style
func CreateUnifiedPanelStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(BorderStyleUnified).
		BorderForeground(lipgloss.Color(ColorBrightBlue)).
		Padding(0, 1).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateSectionHeaderStyle creates a consistent section header style
func CreateSectionHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan)).
		MarginBottom(1)
}

// CreateSecondaryTextStyle creates a consistent secondary text style
func CreateSecondaryTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true)
}

// CreateHeaderStyle creates a consistent header style
func CreateHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan)).
		MarginLeft(1)
}

// CreateFooterStyle creates a consistent footer style
func CreateFooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		MarginLeft(1)
}

// CreateLoadingStyle creates a consistent loading state style
func CreateLoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightYellow))
}

// CreateErrorStyle creates a consistent error style
func CreateErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightRed))
}

// CreateCrumbStyle styles one breadcrumb; the last crumb is highlighted
func CreateCrumbStyle(last bool) lipgloss.Style {
	if last {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorBrightYellow))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightBlue))
}

// CreateMenuStyle styles the context menu box
func CreateMenuStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBrightCyan)).
		Padding(0, 1)
}

// CreateMenuItemStyle styles one context menu row
func CreateMenuItemStyle(cursor bool) lipgloss.Style {
	if cursor {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(ColorBrightCyan)).
			Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite))
}

// CreateBadgeStyle styles small status badges such as the search marker
func CreateBadgeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		Bold(true)
}
