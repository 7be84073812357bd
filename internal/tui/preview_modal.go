package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HaiFongPan/fsb-cli/internal/browser"
	tuicfg "github.com/HaiFongPan/fsb-cli/internal/tui/config"
	img "github.com/HaiFongPan/fsb-cli/internal/tui/image"
	"github.com/HaiFongPan/fsb-cli/internal/tui/theme"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// PreviewModel is a fullscreen modal showing a text file, an image or a
// media link
type PreviewModel struct {
	width  int
	height int
	res    browser.PreviewResult
	link   string

	viewport viewport.Model
	rendered string
	pixels   img.ImageSize
	cacheHit bool
	err      error
}

type modalClosedMsg struct{}

// NewPreviewModel prepares the modal for res. Images are rendered right
// away through cache; baseURL prefixes media links.
func NewPreviewModel(res browser.PreviewResult, baseURL string, renderer *img.Renderer, cache *img.Cache, width, height int) *PreviewModel {
	m := &PreviewModel{width: width, height: height, res: res, link: baseURL + res.Endpoint}

	cols := max(1, width-tuicfg.PreviewMarginCols)
	rows := max(1, height-tuicfg.PreviewMarginRows)

	switch res.Class {
	case utils.PreviewCode:
		m.viewport = viewport.New(cols, rows)
		m.viewport.SetContent(numberLines(string(res.Data)))
	case utils.PreviewImage:
		renderer.SetCellSize(cols, rows)
		p, err := cache.RenderCached(renderer, res.Endpoint, res.Data)
		if err != nil {
			m.err = err
			break
		}
		m.rendered = p.Rendered
		m.pixels = p.OriginalSize
		m.cacheHit = p.CacheHit
	}
	return m
}

func numberLines(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))
	gutter := theme.CreateSecondaryTextStyle().UnsetItalic()

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(gutter.Render(fmt.Sprintf("%*d ", width, i+1)))
		b.WriteString(strings.ReplaceAll(line, "\t", "    "))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *PreviewModel) Init() tea.Cmd { return nil }

func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "esc", "p", "P":
			return m, func() tea.Msg { return modalClosedMsg{} }
		case "y":
			if err := utils.CopyToClipboard(m.link); err != nil {
				m.err = err
			}
			return m, nil
		}
	}
	if m.res.Class == utils.PreviewCode {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *PreviewModel) View() string {
	center := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center)

	name := center.Bold(true).
		Foreground(lipgloss.Color(theme.ColorBrightCyan)).
		Render(theme.EntryIcon(m.res.Entry.Name, false) + " " + m.res.Entry.Name)

	var status string
	switch {
	case m.err != nil:
		status = theme.CreateErrorStyle().Render(fmt.Sprintf("Failed to render: %v", m.err))
	case m.res.Class == utils.PreviewImage:
		status = fmt.Sprintf("%dx%d  •  %s", m.pixels.Width, m.pixels.Height, utils.FormatFileSize(m.res.Entry.FileSize))
		if m.cacheHit {
			status += "  •  cached"
		}
	case m.res.Class == utils.PreviewCode:
		status = fmt.Sprintf("%s  •  %3.f%%", utils.FormatFileSize(m.res.Entry.FileSize), m.viewport.ScrollPercent()*100)
	default:
		status = fmt.Sprintf("%s  •  %s", m.res.Class, utils.FormatFileSize(m.res.Entry.FileSize))
	}

	hint := center.Foreground(lipgloss.Color(theme.ColorBrightBlack)).
		Render("q/esc/p to close • y to copy link • ↑/↓ to scroll")

	var body string
	switch m.res.Class {
	case utils.PreviewCode:
		body = m.viewport.View()
	case utils.PreviewImage:
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.rendered)
	case utils.PreviewAudio, utils.PreviewVideo:
		body = lipgloss.JoinVertical(lipgloss.Center,
			theme.CreateURLSectionStyle().Render("🔗 Open in a player:"),
			theme.FormatClickableURL(m.link, m.link),
		)
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}

	return strings.Join([]string{name, center.Render(status), hint, "", body}, "\n")
}
