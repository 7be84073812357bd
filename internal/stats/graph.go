// Package stats renders download statistics as text bar charts.
package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/HaiFongPan/fsb-cli/internal/api"
)

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Label formats the x-axis label of p for the graph flag
func Label(flag string, p api.Point) string {
	switch flag {
	case api.GraphYear:
		return strconv.Itoa(p.Year)
	case api.GraphMonth:
		if p.Year > 0 {
			return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
		}
		return time.Month(p.Month).String()
	case api.GraphDay:
		return fmt.Sprintf("%02d-%02d", p.Month, p.Day)
	case api.GraphWeekday:
		return time.Weekday(p.Weekday % 7).String()
	default:
		return "?"
	}
}

// Labels returns the labels of every point in order
func Labels(g api.Graph) []string {
	labels := make([]string, len(g.PointList))
	for i, p := range g.PointList {
		labels[i] = Label(g.Flag, p)
	}
	return labels
}

// Title names the series for a graph flag
func Title(flag string) string {
	switch flag {
	case api.GraphYear:
		return "Downloads per year"
	case api.GraphMonth:
		return "Downloads per month"
	case api.GraphDay:
		return "Daily downloads"
	case api.GraphWeekday:
		return "Downloads per weekday"
	default:
		return "Downloads"
	}
}

// Render draws one bar per point, scaled so the longest bar fits width columns
func Render(g api.Graph, width int) string {
	labels := Labels(g)

	labelWidth, maxCnt := 0, 0
	for i, p := range g.PointList {
		labelWidth = max(labelWidth, runewidth.StringWidth(labels[i]))
		maxCnt = max(maxCnt, p.Cnt)
	}
	countWidth := len(humanize.Comma(int64(maxCnt)))

	barWidth := width - labelWidth - countWidth - 4
	if barWidth < 1 {
		barWidth = 1
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(Title(g.Flag)))
	b.WriteString("\n")
	if len(g.PointList) == 0 {
		b.WriteString(labelStyle.Render("no data"))
		b.WriteString("\n")
		return b.String()
	}

	for i, p := range g.PointList {
		n := 0
		if maxCnt > 0 {
			n = p.Cnt * barWidth / maxCnt
		}
		if n == 0 && p.Cnt > 0 {
			n = 1
		}
		label := labels[i] + strings.Repeat(" ", labelWidth-runewidth.StringWidth(labels[i]))
		fmt.Fprintf(&b, "%s │%s %*s\n",
			labelStyle.Render(label),
			barStyle.Render(strings.Repeat("█", n)),
			countWidth, humanize.Comma(int64(p.Cnt)))
	}
	return b.String()
}
