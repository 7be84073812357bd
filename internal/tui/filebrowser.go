package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	tuicfg "github.com/HaiFongPan/fsb-cli/internal/tui/config"
	img "github.com/HaiFongPan/fsb-cli/internal/tui/image"
	"github.com/HaiFongPan/fsb-cli/internal/tui/messaging"
	"github.com/HaiFongPan/fsb-cli/internal/tui/theme"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// Options wires a FileBrowserModel. Controller and Status are required.
type Options struct {
	Controller *browser.Controller
	History    *browser.History
	Status     *messaging.StatusManagerImpl
	Downloads  *DownloadSink
	App        *browser.AppContext
	BaseURL    string
	StartPath  string
	Renderer   *img.Renderer
}

// SessionExpiredMsg tells the browser that the server no longer accepts
// the session
type SessionExpiredMsg struct{}

type (
	opDoneMsg struct {
		op  string
		err error
	}
	statusChangedMsg struct{}
	statusTickMsg    time.Time
)

// FileBrowserModel renders a browser.Controller and turns keys into
// controller operations. Blocking operations run as tea.Cmds and the view
// is rebuilt from a fresh Snapshot whenever one finishes.
type FileBrowserModel struct {
	ctx        context.Context
	ctrl       *browser.Controller
	history    *browser.History
	status     *messaging.StatusManagerImpl
	downloads  *DownloadSink
	app        *browser.AppContext
	baseURL    string
	startPath  string
	renderer   *img.Renderer
	imageCache *img.Cache

	snap    browser.Snapshot
	entries []api.Entry
	pending int

	windowWidth  int
	windowHeight int
	tableHeight  int

	fileTable    table.Model
	input        textinput.Model
	keyMap       KeyMap
	help         help.Model
	spinner      spinner.Model
	helpViewport viewport.Model
	showHelp     bool

	menuCursor    int
	confirmDelete bool
	deleteTarget  string
	preview       *PreviewModel
	expired       bool

	downloading      bool
	downloadingFile  string
	downloadDone     int64
	downloadTotal    int64
	downloadProgress progress.Model

	program *tea.Program
}

// NewFileBrowserModel creates a new file browser model
func NewFileBrowserModel(opts Options) *FileBrowserModel {
	columns := []table.Column{
		{Title: "📄 NAME", Width: tuicfg.DefaultColumnNameWidth},
		{Title: "📊 SIZE", Width: tuicfg.DefaultColumnSizeWidth},
		{Title: "🕒 MODIFIED", Width: tuicfg.DefaultColumnModifiedWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(tuicfg.DefaultTableHeight),
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
			Cell: lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)),
		}),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.CreateLoadingStyle()

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = tuicfg.DialogLargeWidth - 8

	vp := viewport.New(60, 15)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColorBrightYellow)).
		Padding(1, 2)

	renderer := opts.Renderer
	if renderer == nil {
		renderer = img.NewRenderer(0, 0)
	}
	history := opts.History
	if history == nil {
		history = browser.NewHistory()
	}
	downloads := opts.Downloads
	startPath := opts.StartPath
	if startPath == "" {
		startPath = browser.Separator
	}

	return &FileBrowserModel{
		ctx:              context.Background(),
		ctrl:             opts.Controller,
		history:          history,
		status:           opts.Status,
		downloads:        downloads,
		app:              opts.App,
		baseURL:          strings.TrimSuffix(opts.BaseURL, "/"),
		startPath:        startPath,
		renderer:         renderer,
		imageCache:       img.NewCache(img.DefaultCacheEntries),
		windowWidth:      80,
		windowHeight:     24,
		tableHeight:      tuicfg.DefaultTableHeight,
		fileTable:        t,
		input:            ti,
		keyMap:           DefaultKeyMap(),
		help:             help.New(),
		spinner:          s,
		helpViewport:     vp,
		downloadProgress: progress.New(progress.WithDefaultGradient()),
	}
}

// SetProgram connects background notifications and downloads to p
func (m *FileBrowserModel) SetProgram(p *tea.Program) {
	m.program = p
	// Send blocks until the event loop reads it, and messages may be set
	// from inside Update.
	m.status.OnChange(func() { go p.Send(statusChangedMsg{}) })
	if m.downloads != nil {
		m.downloads.SetSend(p.Send)
	}
}

// Expired reports whether the browser quit because the session ended
func (m *FileBrowserModel) Expired() bool {
	return m.expired
}

// Init implements tea.Model
func (m *FileBrowserModel) Init() tea.Cmd {
	start := m.startPath
	return tea.Batch(
		m.run("navigate", func(ctx context.Context) error { return m.ctrl.Navigate(ctx, start) }),
		m.spinner.Tick,
		tickStatus(),
	)
}

func tickStatus() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return statusTickMsg(t) })
}

// run executes a blocking controller operation off the UI goroutine
func (m *FileBrowserModel) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// Update implements tea.Model
func (m *FileBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.tableHeight = max(3, msg.Height-tuicfg.ReservedRows)
		m.updateTableSize(msg.Width, m.tableHeight)
		m.helpViewport.Width = min(70, msg.Width-10)
		m.helpViewport.Height = min(18, msg.Height-6)
		return m, nil

	case opDoneMsg:
		m.pending = max(0, m.pending-1)
		logrus.WithFields(logrus.Fields{"op": msg.op, "error": msg.err}).Debug("operation finished")
		if errors.Is(msg.err, browser.ErrConfirmationRequired) {
			m.askDelete()
		} else {
			m.reportError(msg.err)
		}
		return m, m.sync()

	case statusChangedMsg:
		return m, m.sync()

	case statusTickMsg:
		m.status.Expire(time.Time(msg))
		return m, tickStatus()

	case SessionExpiredMsg:
		m.expired = true
		return m, tea.Quit

	case modalClosedMsg:
		m.preview = nil
		m.ctrl.ClosePreview()
		return m, m.sync()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DownloadStartedMsg:
		m.downloading = true
		m.downloadingFile = msg.Name
		m.downloadDone, m.downloadTotal = 0, msg.Size
		m.downloadProgress = progress.New(progress.WithDefaultGradient())
		return m, nil

	case DownloadProgressMsg:
		m.downloadDone, m.downloadTotal = msg.Done, msg.Total
		return m, m.downloadProgress.SetPercent(msg.Percent())

	case DownloadRejectedMsg:
		m.status.SetMessage(fmt.Sprintf("%s not downloaded: %v", msg.Name, msg.Err), messaging.MessageWarning)
		return m, nil

	case DownloadCompletedMsg:
		m.downloading = false
		m.downloadingFile = ""
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.status.SetMessage("Download cancelled", messaging.MessageWarning)
		case msg.Err != nil:
			m.status.SetMessage(theme.FormatErrorMessage("Download of "+msg.Name, errMessage(msg.Err)), messaging.MessageError)
		default:
			m.status.SetMessage(fmt.Sprintf("Saved to %s", msg.Path), messaging.MessageSuccess)
		}
		return m, nil

	case tea.MouseMsg:
		if m.preview == nil && msg.Button == tea.MouseButtonRight && msg.Action == tea.MouseActionPress {
			m.ctrl.OpenContextMenu(msg.X, msg.Y)
			m.menuCursor = 0
			return m, m.sync()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		var cmd tea.Cmd
		progressModel, progressCmd := m.downloadProgress.Update(msg)
		if pm, ok := progressModel.(progress.Model); ok {
			m.downloadProgress = pm
		}
		cmd = progressCmd
		if m.input.Focused() {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmd = tea.Batch(cmd, inputCmd)
		}
		return m, cmd
	}
}

func (m *FileBrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.preview != nil:
		_, cmd := m.preview.Update(msg)
		return m, cmd
	case m.confirmDelete:
		return m.handleDeleteConfirmation(msg)
	case m.snap.Edit != browser.EditIdle:
		return m.handleEdit(msg)
	case m.snap.Menu != nil:
		return m.handleMenu(msg)
	case m.showHelp:
		if key.Matches(msg, m.keyMap.Help) || msg.String() == "esc" || msg.String() == "q" {
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpViewport, cmd = m.helpViewport.Update(msg)
		return m, cmd
	}
	return m.handleNavigation(msg)
}

// handleNavigation handles keys while no modal is open
func (m *FileBrowserModel) handleNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap
	switch {
	case key.Matches(msg, km.Quit):
		if m.downloading && m.downloads != nil && m.downloads.Cancel() {
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, km.Up, km.Down, km.PageUp, km.PageDown, km.Home, km.End):
		var cmd tea.Cmd
		m.fileTable, cmd = m.fileTable.Update(msg)
		m.ctrl.Highlight(m.keyAtCursor())
		return m, tea.Batch(cmd, m.sync())

	case msg.String() == "esc":
		return m, m.key(browser.KeyEscape)

	case key.Matches(msg, km.Open):
		e, ok := m.ctrl.SelectedEntry()
		switch {
		case !ok:
			return m, nil
		case e.IsDir:
			return m, m.keyOp("open", browser.KeyEnter)
		case utils.PreviewClassOf(e.Name) != utils.PreviewUnknown:
			return m, m.dispatch(browser.CmdPreview)
		case !m.downloading:
			return m, m.dispatch(browser.CmdDownload)
		}
		return m, nil

	case key.Matches(msg, km.GoUp):
		return m, m.dispatch(browser.CmdGoUp)

	case key.Matches(msg, km.Back):
		if s, ok := m.history.Back(); ok {
			return m, m.run("back", func(ctx context.Context) error { return m.ctrl.Reconcile(ctx, s) })
		}
		return m, nil

	case key.Matches(msg, km.Forward):
		if s, ok := m.history.Forward(); ok {
			return m, m.run("forward", func(ctx context.Context) error { return m.ctrl.Reconcile(ctx, s) })
		}
		return m, nil

	case key.Matches(msg, km.Toggle):
		if k := m.keyAtCursor(); k != "" {
			m.ctrl.Select(k, true)
		}
		return m, m.sync()

	case key.Matches(msg, km.Refresh):
		return m, m.keyOp("refresh", browser.KeyRefresh)

	case key.Matches(msg, km.Rename):
		return m, m.key(browser.KeyF2)

	case key.Matches(msg, km.Delete):
		return m, m.key(browser.KeyDelete)

	case key.Matches(msg, km.NewFolder):
		return m, m.dispatch(browser.CmdNewFolder)

	case key.Matches(msg, km.Upload):
		return m, m.dispatch(browser.CmdUpload)

	case key.Matches(msg, km.Download):
		if m.downloading {
			return m, nil
		}
		return m, m.dispatch(browser.CmdDownload)

	case key.Matches(msg, km.Preview):
		return m, m.dispatch(browser.CmdPreview)

	case key.Matches(msg, km.Search):
		return m, m.dispatch(browser.CmdSearch)

	case key.Matches(msg, km.Locate):
		return m, m.dispatch(browser.CmdLocate)

	case key.Matches(msg, km.Menu):
		m.ctrl.OpenContextMenu(0, m.fileTable.Cursor())
		m.menuCursor = 0
		return m, m.sync()

	case key.Matches(msg, km.SortName):
		m.ctrl.SortBy(browser.SortName)
		return m, m.sync()

	case key.Matches(msg, km.SortSize):
		m.ctrl.SortBy(browser.SortSize)
		return m, m.sync()

	case key.Matches(msg, km.SortTime):
		m.ctrl.SortBy(browser.SortModTime)
		return m, m.sync()

	case key.Matches(msg, km.CopyLink):
		m.copyLink()
		return m, nil

	case key.Matches(msg, km.Help):
		m.showHelp = true
		m.help.ShowAll = true
		m.helpViewport.SetContent(m.help.View(m.keyMap))
		return m, nil
	}
	return m, nil
}

// handleEdit feeds keys to the edit input
func (m *FileBrowserModel) handleEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctrl.SetEditBuffer(m.input.Value())
		return m, m.run("commit "+m.snap.Edit.String(), m.ctrl.CommitEdit)
	case "esc":
		m.ctrl.CancelEdit()
		m.input.Blur()
		return m, m.sync()
	case "tab":
		if m.snap.Edit == browser.EditUploading {
			m.ctrl.SetUploadFolder(!m.snap.UploadDir)
			return m, m.sync()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetEditBuffer(m.input.Value())
	m.snap.Buffer = m.input.Value()
	return m, cmd
}

// handleMenu moves through and runs context menu items
func (m *FileBrowserModel) handleMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snap.Menu.Items
	switch {
	case msg.String() == "esc" || key.Matches(msg, m.keyMap.Menu):
		return m, m.key(browser.KeyEscape)
	case key.Matches(msg, m.keyMap.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.menuCursor < len(items)-1 {
			m.menuCursor++
		}
	case msg.String() == "enter":
		if m.menuCursor < len(items) {
			return m, m.dispatch(items[m.menuCursor])
		}
		return m, m.key(browser.KeyEscape)
	}
	return m, nil
}

// handleDeleteConfirmation handles delete confirmation dialog
func (m *FileBrowserModel) handleDeleteConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Confirm):
		m.confirmDelete = false
		m.status.SetMessage(fmt.Sprintf("Deleting %s...", m.deleteTarget), messaging.MessageInfo)
		return m, m.run("delete", func(ctx context.Context) error {
			return m.ctrl.DispatchConfirmed(ctx, browser.CmdDelete)
		})

	case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.Quit):
		m.confirmDelete = false
		m.deleteTarget = ""
	}
	return m, nil
}

func (m *FileBrowserModel) askDelete() {
	e, ok := m.ctrl.SelectedEntry()
	if !ok {
		return
	}
	m.confirmDelete = true
	m.deleteTarget = e.Name
}

func (m *FileBrowserModel) dispatch(cmd browser.Command) tea.Cmd {
	return m.run(cmd.String(), func(ctx context.Context) error { return m.ctrl.Dispatch(ctx, cmd) })
}

// key runs a shortcut that never touches the network
func (m *FileBrowserModel) key(k browser.Key) tea.Cmd {
	if err := m.ctrl.HandleKey(m.ctx, k); err != nil {
		if errors.Is(err, browser.ErrConfirmationRequired) {
			m.askDelete()
		} else {
			m.reportError(err)
		}
	}
	return m.sync()
}

func (m *FileBrowserModel) keyOp(op string, k browser.Key) tea.Cmd {
	return m.run(op, func(ctx context.Context) error { return m.ctrl.HandleKey(ctx, k) })
}

// reportError shows errors the controller does not report itself
func (m *FileBrowserModel) reportError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, browser.ErrNoSelection),
		errors.Is(err, browser.ErrCommandDisabled),
		errors.Is(err, browser.ErrPermissionDenied),
		errors.Is(err, browser.ErrEditInProgress):
		m.status.SetMessage(err.Error(), messaging.MessageWarning)
	}
}

// sync pulls a fresh snapshot and rebuilds everything derived from it
func (m *FileBrowserModel) sync() tea.Cmd {
	m.snap = m.ctrl.Snapshot()
	m.updateTable()

	if m.snap.Menu != nil && m.menuCursor >= len(m.snap.Menu.Items) {
		m.menuCursor = max(0, len(m.snap.Menu.Items)-1)
	}
	if m.snap.Preview != nil && m.preview == nil {
		m.preview = NewPreviewModel(*m.snap.Preview, m.baseURL, m.renderer, m.imageCache, m.windowWidth, m.windowHeight)
	}

	var cmd tea.Cmd
	if m.ctrl.TakeFocus() {
		m.input.Prompt = editPrompt(m.snap.Edit)
		m.input.SetValue(m.snap.Buffer)
		m.input.CursorEnd()
		cmd = m.input.Focus()
	} else if m.snap.Edit == browser.EditIdle && m.input.Focused() {
		m.input.Blur()
		m.input.SetValue("")
	}
	return cmd
}

func editPrompt(s browser.EditState) string {
	switch s {
	case browser.EditRenaming:
		return "New name: "
	case browser.EditCreatingFolder:
		return "Folder name: "
	case browser.EditSearching:
		return "Search: "
	case browser.EditUploading:
		return "Local files: "
	}
	return "> "
}

func (m *FileBrowserModel) keyAtCursor() string {
	i := m.fileTable.Cursor()
	if i < 0 || i >= len(m.entries) {
		return ""
	}
	return browser.KeyOf(m.entries[i])
}

// updateTable rebuilds table rows from the snapshot listing and moves the
// cursor onto the selected entry
func (m *FileBrowserModel) updateTable() {
	m.entries = m.snap.Listing.Entries
	selected := make(map[string]bool, len(m.snap.Selected))
	for _, k := range m.snap.Selected {
		selected[k] = true
	}

	nameWidth := m.fileTable.Columns()[0].Width
	rows := make([]table.Row, len(m.entries))
	cursor := -1
	for i, e := range m.entries {
		k := browser.KeyOf(e)
		name := e.Name
		if m.snap.Listing.ForSearch {
			name = k
		}
		if e.IsDir {
			name += browser.Separator
		}
		mark := "  "
		if selected[k] && len(m.snap.Selected) > 1 {
			mark = "✓ "
		}
		name = utils.Truncate(name, max(4, nameWidth-5))
		rows[i] = table.Row{
			mark + theme.EntryIcon(e.Name, e.IsDir) + " " + name,
			utils.FormatFileSize(e.FileSize),
			utils.FormatUnix(e.ModTime),
		}
		if k == m.snap.SelectedKey && cursor < 0 {
			cursor = i
		}
	}
	m.fileTable.SetRows(rows)
	switch {
	case cursor >= 0:
		m.fileTable.SetCursor(cursor)
	case m.fileTable.Cursor() < 0 && len(rows) > 0:
		m.fileTable.SetCursor(0)
	case m.fileTable.Cursor() >= len(rows):
		m.fileTable.SetCursor(max(0, len(rows)-1))
	}
}

func (m *FileBrowserModel) updateTableSize(width, height int) {
	fixed := tuicfg.DefaultColumnSizeWidth + tuicfg.DefaultColumnModifiedWidth + 8
	nameWidth := max(tuicfg.MinColumnNameWidth, width-fixed)
	m.fileTable.SetColumns([]table.Column{
		{Title: "📄 NAME", Width: nameWidth},
		{Title: "📊 SIZE", Width: tuicfg.DefaultColumnSizeWidth},
		{Title: "🕒 MODIFIED", Width: tuicfg.DefaultColumnModifiedWidth},
	})
	m.fileTable.SetWidth(width - 2)
	m.fileTable.SetHeight(height)
	m.updateTable()
}

// entryURL is the absolute link of a file or archive download
func (m *FileBrowserModel) entryURL(e api.Entry) string {
	k := browser.KeyOf(e)
	if e.IsDir {
		return m.baseURL + api.ArchiveEndpoint(k)
	}
	return m.baseURL + api.FileEndpoint(k)
}

func (m *FileBrowserModel) copyLink() {
	e, ok := m.ctrl.SelectedEntry()
	if !ok {
		m.status.SetMessage(browser.ErrNoSelection.Error(), messaging.MessageWarning)
		return
	}
	if err := utils.CopyToClipboard(m.entryURL(e)); err != nil {
		m.status.SetMessage(theme.FormatErrorMessage("Copy", err), messaging.MessageError)
		return
	}
	m.status.SetMessage("Link copied to clipboard", messaging.MessageSuccess)
}

func errMessage(err error) error {
	return errors.New(api.UserMessage(err))
}

// View implements tea.Model
func (m *FileBrowserModel) View() string {
	if m.preview != nil {
		return m.preview.View()
	}

	parts := []string{m.renderHeader(), m.renderCrumbs(), m.renderTable(), m.renderFooter()}
	if line := m.status.RenderMessage(); line != "" {
		parts = append(parts, " "+line)
	}
	base := strings.Join(parts, "\n")

	switch {
	case m.downloading:
		return m.renderFloatingDialog(m.renderDownloadProgress())
	case m.confirmDelete:
		return m.renderFloatingDialog(m.renderDeleteConfirmation())
	case m.snap.Edit != browser.EditIdle:
		return m.renderFloatingDialog(m.renderEditDialog())
	case m.snap.Menu != nil:
		return m.renderFloatingDialog(m.renderMenu())
	case m.showHelp:
		return m.renderFloatingDialog(m.renderHelpDialog())
	}
	return base
}

func (m *FileBrowserModel) renderHeader() string {
	title := "📂 File Browser"
	if m.app != nil {
		u := m.app.User
		who := u.Name
		if u.RealName != "" {
			who = fmt.Sprintf("%s (%s)", u.RealName, u.Name)
		}
		title += fmt.Sprintf(" • %s • %s", who, u.Class)
	}
	header := theme.CreateHeaderStyle().Render(title)
	if m.snap.Listing.ForSearch {
		header += " " + theme.CreateBadgeStyle(theme.ColorBrightYellow).Render("SEARCH "+m.snap.SearchExpr)
	}
	if m.snap.Loading || m.pending > 0 {
		header += " " + m.spinner.View()
	}
	return header
}

func (m *FileBrowserModel) renderCrumbs() string {
	crumbs := m.snap.Crumbs
	parts := make([]string, 0, len(crumbs))
	for i, c := range crumbs {
		name := c.Name
		if name == "" {
			name = browser.Separator
		}
		parts = append(parts, theme.CreateCrumbStyle(i == len(crumbs)-1).Render(name))
	}
	return " " + strings.Join(parts, theme.CreateSecondaryTextStyle().Render(" › "))
}

func (m *FileBrowserModel) renderTable() string {
	if len(m.entries) == 0 {
		text := "Empty folder"
		if m.snap.Loading {
			text = m.spinner.View() + " Loading..."
		} else if m.snap.Listing.ForSearch {
			text = "No matches"
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ColorBrightBlack)).
			Width(max(10, m.windowWidth-2)).
			Height(m.tableHeight).
			Align(lipgloss.Center).
			AlignVertical(lipgloss.Center).
			Render(text)
	}
	return m.fileTable.View()
}

func (m *FileBrowserModel) renderFooter() string {
	var total int64
	dirs := 0
	for _, e := range m.entries {
		if e.IsDir {
			dirs++
		} else if e.FileSize > 0 {
			total += e.FileSize
		}
	}
	info := fmt.Sprintf("%d folders, %d files, %s", dirs, len(m.entries)-dirs, utils.FormatFileSize(total))
	if m.snap.Sort != browser.SortNone {
		order := "↑"
		if m.snap.SortDesc {
			order = "↓"
		}
		info += fmt.Sprintf(" • sorted by %s %s", m.snap.Sort, order)
	}
	return theme.CreateFooterStyle().Render(info + " • " + m.help.ShortHelpView(m.keyMap.ShortHelp()))
}

// renderFloatingDialog centers dialog on the screen
func (m *FileBrowserModel) renderFloatingDialog(dialog string) string {
	return lipgloss.Place(
		m.windowWidth,
		m.windowHeight,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#222222")),
	)
}

func (m *FileBrowserModel) renderDownloadProgress() string {
	var b strings.Builder
	b.WriteString(theme.CreateProgressTextStyle().Render(
		theme.FormatProgressMessage("Downloading", m.downloadingFile, m.downloadDone, m.downloadTotal)))
	b.WriteString("\n\n")
	if m.downloadTotal > 0 {
		b.WriteString(m.downloadProgress.View())
	} else {
		b.WriteString(m.spinner.View() + " " + utils.FormatFileSize(m.downloadDone))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.CreateSecondaryTextStyle().Render("q to cancel"))
	return theme.CreateDialogStyle(tuicfg.DialogDefaultWidth, theme.ColorBrightBlue).Render(b.String())
}

func (m *FileBrowserModel) renderDeleteConfirmation() string {
	var b strings.Builder
	b.WriteString(theme.CreatePromptStyle().Render("🗑  Delete " + m.deleteTarget + "?"))
	b.WriteString("\n\n")
	b.WriteString(theme.CreateDialogButtonStyle(true).Render("y  Yes"))
	b.WriteString(theme.CreateDialogButtonStyle(false).Render("n  No"))
	return theme.CreateDialogStyle(tuicfg.DialogDefaultWidth, theme.ColorBrightRed).Render(b.String())
}

func (m *FileBrowserModel) renderEditDialog() string {
	titles := map[browser.EditState]string{
		browser.EditRenaming:       "✏️  Rename",
		browser.EditCreatingFolder: "📁 New folder in " + m.snap.Path,
		browser.EditSearching:      "🔍 Search under " + m.snap.Path,
		browser.EditUploading:      "⬆️  Upload to " + m.snap.Path,
	}

	var b strings.Builder
	b.WriteString(theme.CreatePromptStyle().Render(titles[m.snap.Edit]))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	hint := "enter to confirm • esc to cancel"
	if m.snap.Edit == browser.EditUploading {
		mode := "files"
		if m.snap.UploadDir {
			mode = "archive extracted into a folder"
		}
		hint = fmt.Sprintf("separate paths with %q, globs allowed • tab: %s • %s",
			string(filepath.ListSeparator), mode, hint)
	}
	b.WriteString(theme.CreateSecondaryTextStyle().Render(hint))
	return theme.CreateDialogStyle(tuicfg.DialogLargeWidth, "").Render(b.String())
}

func (m *FileBrowserModel) renderMenu() string {
	items := m.snap.Menu.Items
	if len(items) == 0 {
		return theme.CreateMenuStyle().Render(theme.CreateSecondaryTextStyle().Render("no actions"))
	}
	lines := make([]string, len(items))
	for i, cmd := range items {
		lines[i] = theme.CreateMenuItemStyle(i == m.menuCursor).
			Width(tuicfg.MenuWidth).
			Render(cmd.Label())
	}
	return theme.CreateMenuStyle().Render(strings.Join(lines, "\n"))
}

func (m *FileBrowserModel) renderHelpDialog() string {
	title := theme.CreateSectionHeaderStyle().Render("Keyboard shortcuts")
	labels := make([]string, 0, len(browser.Commands()))
	for _, c := range m.visibleCommands() {
		labels = append(labels, c.Label())
	}
	available := theme.CreateSecondaryTextStyle().Render("Available here: " + strings.Join(labels, ", "))
	return lipgloss.JoinVertical(lipgloss.Left, title, available, m.helpViewport.View())
}

// visibleCommands lists the commands the current user may run right now
func (m *FileBrowserModel) visibleCommands() []browser.Command {
	return slices.DeleteFunc(browser.Commands(), func(c browser.Command) bool {
		return !browser.Visible(c, m.snap.Gate)
	})
}
