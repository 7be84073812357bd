package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	ptable "github.com/HaiFongPan/fsb-cli/internal/table"
	"github.com/HaiFongPan/fsb-cli/internal/tui/theme"
)

// PageTableKeyMap defines keybindings for paginated tables
type PageTableKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	First   key.Binding
	Last    key.Binding
	Bigger  key.Binding
	Smaller key.Binding
	Sort    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultPageTableKeyMap returns default keybindings
func DefaultPageTableKeyMap() PageTableKeyMap {
	return PageTableKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/n", "next page")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/p", "previous page")),
		First:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first page")),
		Last:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last page")),
		Bigger:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more rows")),
		Smaller: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer rows")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
	}
}

// ShortHelp returns the short help view
func (k PageTableKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Sort, k.Help, k.Quit}
}

// FullHelp returns the full help view
func (k PageTableKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next, k.First, k.Last},
		{k.Bigger, k.Smaller, k.Sort, k.Delete, k.Refresh},
		{k.Help, k.Quit},
	}
}

type pageLoadedMsg struct {
	err error
}

type rowDeletedMsg struct {
	label string
	err   error
}

// PageTableModel browses a server-paginated table page by page
type PageTableModel[T any] struct {
	ctx     context.Context
	title   string
	tbl     *ptable.Table[T]
	cols    []ptable.Column[T]
	sortCol int

	// onDelete removes a row; nil disables deletion
	onDelete func(ctx context.Context, row T) error
	rowLabel func(row T) string

	view     table.Model
	keyMap   PageTableKeyMap
	help     help.Model
	spinner  spinner.Model
	loading  bool
	showHelp bool
	confirm  bool
	message  string
	msgIsErr bool

	windowWidth  int
	windowHeight int
}

// tableHeaderHeight is the header line plus its bottom border; bubbles
// counts it in the table height
const tableHeaderHeight = 2

// tableHeight is the table height that shows rows data rows
func tableHeight(rows int) int {
	return rows + tableHeaderHeight
}

// NewPageTableModel creates a viewer for tbl
func NewPageTableModel[T any](title string, tbl *ptable.Table[T], cols []ptable.Column[T]) *PageTableModel[T] {
	tcols := make([]table.Column, len(cols))
	for i, c := range cols {
		tcols[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	v := table.New(
		table.WithColumns(tcols),
		table.WithFocused(true),
		table.WithStyles(table.Styles{
			Header: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(theme.ColorBrightCyan)).
				BorderBottom(true).
				Bold(true).
				Foreground(lipgloss.Color(theme.ColorBrightCyan)),
			Selected: lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)).
				Background(lipgloss.Color(theme.ColorBrightBlue)).
				Bold(true),
			Cell: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWhite)),
		}),
		// after the styles: the header height depends on its border
		table.WithHeight(tableHeight(tbl.OnePageCount())),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.CreateLoadingStyle()

	return &PageTableModel[T]{
		ctx:          context.Background(),
		title:        title,
		tbl:          tbl,
		cols:         cols,
		sortCol:      -1,
		view:         v,
		keyMap:       DefaultPageTableKeyMap(),
		help:         help.New(),
		spinner:      s,
		loading:      true,
		windowWidth:  80,
		windowHeight: 24,
	}
}

// WithDelete enables row deletion; label names a row in the prompt
func (m *PageTableModel[T]) WithDelete(fn func(ctx context.Context, row T) error, label func(row T) string) *PageTableModel[T] {
	m.onDelete = fn
	m.rowLabel = label
	return m
}

// Init loads the first page
func (m *PageTableModel[T]) Init() tea.Cmd {
	return tea.Batch(m.load(m.tbl.Load), m.spinner.Tick)
}

// load runs a table operation off the UI goroutine. The table is not read
// by View while loading.
func (m *PageTableModel[T]) load(fn func(ctx context.Context) error) tea.Cmd {
	m.loading = true
	ctx := m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{err: fn(ctx)}
	}
}

// Update handles messages
func (m *PageTableModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		m.view.SetWidth(msg.Width - 2)
		return m, nil

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			logrus.WithError(msg.err).WithField("endpoint", m.tbl.Endpoint()).Error("page load failed")
			m.setMessage(api.UserMessage(msg.err), true)
		}
		m.refreshRows()
		return m, nil

	case rowDeletedMsg:
		if msg.err != nil {
			m.loading = false
			m.setMessage(fmt.Sprintf("%s: %s", msg.label, api.UserMessage(msg.err)), true)
			return m, nil
		}
		m.setMessage(msg.label+" deleted", false)
		return m, m.load(m.tbl.Load)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *PageTableModel[T]) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap
	if m.loading {
		if key.Matches(msg, km.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.confirm {
		m.confirm = false
		if key.Matches(msg, km.Confirm) {
			return m, m.deleteSelected()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Quit):
		return m, tea.Quit
	case key.Matches(msg, km.Up, km.Down):
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	case key.Matches(msg, km.Next):
		if m.tbl.Page() < m.tbl.TotalPages() {
			return m, m.load(m.tbl.Next)
		}
	case key.Matches(msg, km.Prev):
		if m.tbl.Page() > 1 {
			return m, m.load(m.tbl.Prev)
		}
	case key.Matches(msg, km.First):
		return m, m.load(func(ctx context.Context) error { return m.tbl.SetPage(ctx, 1) })
	case key.Matches(msg, km.Last):
		last := max(1, m.tbl.TotalPages())
		return m, m.load(func(ctx context.Context) error { return m.tbl.SetPage(ctx, last) })
	case key.Matches(msg, km.Bigger), key.Matches(msg, km.Smaller):
		if size, ok := nextPageSize(m.tbl.OnePageCount(), key.Matches(msg, km.Bigger)); ok {
			m.view.SetHeight(tableHeight(size))
			return m, m.load(func(ctx context.Context) error { return m.tbl.SetPageSize(ctx, size) })
		}
	case key.Matches(msg, km.Sort):
		m.sortCol = (m.sortCol + 1) % len(m.cols)
		c := m.cols[m.sortCol]
		m.tbl.SortBy(c.Key, c.Less)
		m.refreshRows()
	case key.Matches(msg, km.Delete):
		if m.onDelete != nil && m.view.Cursor() < len(m.tbl.Rows()) {
			m.confirm = true
		}
	case key.Matches(msg, km.Refresh):
		return m, m.load(m.tbl.Load)
	case key.Matches(msg, km.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

// nextPageSize steps through the allowed page sizes
func nextPageSize(current int, bigger bool) (int, bool) {
	i := slices.Index(ptable.PageSizes, current)
	if i < 0 {
		return ptable.DefaultPageSize, true
	}
	if bigger {
		i++
	} else {
		i--
	}
	if i < 0 || i >= len(ptable.PageSizes) {
		return current, false
	}
	return ptable.PageSizes[i], true
}

func (m *PageTableModel[T]) deleteSelected() tea.Cmd {
	rows := m.tbl.Rows()
	i := m.view.Cursor()
	if i < 0 || i >= len(rows) {
		return nil
	}
	row, label := rows[i], m.rowLabel(rows[i])
	m.loading = true
	ctx := m.ctx
	return func() tea.Msg {
		return rowDeletedMsg{label: label, err: m.onDelete(ctx, row)}
	}
}

func (m *PageTableModel[T]) refreshRows() {
	rows := m.tbl.Rows()
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(ptable.Cells(m.cols, r))
	}
	m.view.SetRows(out)
	switch {
	case m.view.Cursor() < 0 && len(out) > 0:
		m.view.SetCursor(0)
	case m.view.Cursor() >= len(out):
		m.view.SetCursor(max(0, len(out)-1))
	}
}

func (m *PageTableModel[T]) setMessage(text string, isErr bool) {
	m.message = text
	m.msgIsErr = isErr
}

// View renders the table, the pager and the help line
func (m *PageTableModel[T]) View() string {
	title := theme.CreateHeaderStyle().Render("📋 " + m.title)
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, "", " "+m.spinner.View()+" Loading...")
	}

	parts := []string{title, m.view.View(), m.renderPager()}
	if m.confirm {
		label := m.rowLabel(m.tbl.Rows()[m.view.Cursor()])
		parts = append(parts, theme.CreatePromptStyle().Render(fmt.Sprintf(" Delete %s? (y/n)", label)))
	} else if m.message != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorBrightGreen))
		if m.msgIsErr {
			style = theme.CreateErrorStyle()
		}
		parts = append(parts, " "+style.Render(m.message))
	}
	parts = append(parts, theme.CreateFooterStyle().Render(m.help.View(m.keyMap)))
	return strings.Join(parts, "\n")
}

func (m *PageTableModel[T]) renderPager() string {
	buttons := m.tbl.PageButtons()
	labels := make([]string, 0, len(buttons))
	for _, b := range buttons {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorBrightBlack))
		switch {
		case b.Current:
			style = theme.CreateDialogButtonStyle(true).Margin(0)
		case b.Kind == ptable.ButtonNumber:
			style = style.Foreground(lipgloss.Color(theme.ColorBrightCyan))
		}
		labels = append(labels, style.Render(b.Label))
	}

	info := fmt.Sprintf("page %d/%d • %d rows • %d per page", m.tbl.Page(), max(1, m.tbl.TotalPages()), m.tbl.Sum(), m.tbl.OnePageCount())
	if k, desc := m.tbl.SortKey(); k != "" {
		order := "↑"
		if desc {
			order = "↓"
		}
		info += fmt.Sprintf(" • sorted by %s %s", k, order)
	}
	return " " + strings.Join(labels, " ") + "  " + theme.CreateSecondaryTextStyle().Render(info)
}
