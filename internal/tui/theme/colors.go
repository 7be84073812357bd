package theme

import (
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// Terminal-compatible color constants using ANSI standard colors
const (
	ColorWhite        = "#FFFFFF" // ANSI 15 - primary text
	ColorBrightBlack  = "#808080" // ANSI 8 - secondary text
	ColorBrightBlue   = "#5C7CFA" // ANSI 12 - primary accent
	ColorBrightCyan   = "#66D9E8" // ANSI 14 - secondary accent
	ColorBrightGreen  = "#51CF66" // ANSI 10 - success/links
	ColorBrightYellow = "#FFD43B" // ANSI 11 - warning
	ColorBrightRed    = "#FF6B6B" // ANSI 9 - error

	// Row colors
	ColorFolder      = "#FCC419" // Amber
	ColorFileImage   = "#74C0FC" // Light blue
	ColorFileCode    = "#B197FC" // Light purple
	ColorFileAudio   = "#DA77F2" // Purple
	ColorFileVideo   = "#FF8787" // Light red
	ColorFileArchive = "#FFA94D" // Orange
	ColorFileText    = "#69DB7C" // Light green
)

// EntryColor returns the row color for a listing entry
func EntryColor(name string, isDir bool) string {
	if isDir {
		return ColorFolder
	}
	switch utils.PreviewClassOf(name) {
	case utils.PreviewImage:
		return ColorFileImage
	case utils.PreviewCode:
		return ColorFileCode
	case utils.PreviewAudio:
		return ColorFileAudio
	case utils.PreviewVideo:
		return ColorFileVideo
	}
	switch utils.CategoryOf(name) {
	case "archive":
		return ColorFileArchive
	case "text", "document":
		return ColorFileText
	}
	return ColorWhite
}

// EntryIcon returns the icon shown in front of a listing entry
func EntryIcon(name string, isDir bool) string {
	if isDir {
		return "📁"
	}
	switch utils.PreviewClassOf(name) {
	case utils.PreviewImage:
		return "🖼"
	case utils.PreviewAudio:
		return "🎵"
	case utils.PreviewVideo:
		return "🎬"
	}
	return "📄"
}

// MessageColor returns the color for a notification level
func MessageColor(level browser.Level) string {
	switch level {
	case browser.LevelError:
		return ColorBrightRed
	case browser.LevelSuccess:
		return ColorBrightGreen
	case browser.LevelWarning:
		return ColorBrightYellow
	default:
		return ColorBrightCyan
	}
}

// MessageIcon returns the icon for a notification level
func MessageIcon(level browser.Level) string {
	switch level {
	case browser.LevelError:
		return "❌"
	case browser.LevelSuccess:
		return "✅"
	case browser.LevelWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
