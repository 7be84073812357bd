package tui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/tui/messaging"
)

// fakeFS 是内存中的文件服务器
type fakeFS struct {
	mu       sync.Mutex
	dirs     map[string][]api.Entry
	hits     []api.Entry
	files    map[string][]byte
	listed   []string
	searched []string
	deleted  []string
	renamed  map[string]string
	created  []string
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		dirs: map[string][]api.Entry{
			"/": {{Path: "/", Name: "docs", IsDir: true, FileSize: 4096, ModTime: 1700000000}},
			"/docs/": {
				{Path: "/docs/", Name: "2024", IsDir: true, FileSize: 0, ModTime: 1700000000},
				{Path: "/docs/", Name: "a.txt", FileSize: 12, ModTime: 1700000000},
				{Path: "/docs/", Name: "photo.png", FileSize: 2048, ModTime: 1700000100},
			},
		},
		hits: []api.Entry{
			{Path: "/docs/2024/", Name: "report.md", FileSize: 300, ModTime: 1700000200},
		},
		files:   map[string][]byte{"/docs/a.txt": []byte("hello\nworld")},
		renamed: map[string]string{},
	}
}

func (f *fakeFS) ListDir(_ context.Context, dir string) ([]api.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, dir)
	return f.dirs[dir], nil
}

func (f *fakeFS) Search(_ context.Context, dir, expr string) ([]api.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searched = append(f.searched, dir+"|"+expr)
	return f.hits, nil
}

func (f *fakeFS) CreateDir(_ context.Context, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, target)
	return nil
}

func (f *fakeFS) DeleteDir(_ context.Context, key string) error {
	return f.DeleteFile(context.Background(), key)
}

func (f *fakeFS) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFS) Rename(_ context.Context, key, newName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renamed[key] = newName
	return nil
}

func (f *fakeFS) Upload(_ context.Context, _, name string, body io.Reader, _ int64) (string, error) {
	_, err := io.Copy(io.Discard, body)
	return name, err
}

func (f *fakeFS) ReadFile(_ context.Context, key string, _ int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[key], nil
}

func newTestBrowser(t *testing.T, class string) (*FileBrowserModel, *fakeFS) {
	t.Helper()
	fs := newFakeFS()
	status := messaging.NewStatusManager()
	history := browser.NewHistory()
	app := browser.NewAppContext(api.UserInfo{Name: "tester", Class: class}, api.SysConfig{}, browser.Limits{}, "", "")

	ctrl, err := browser.NewController(browser.Options{
		API:       fs,
		App:       app,
		Notifier:  status,
		Navigator: history,
	})
	require.NoError(t, err)

	m := NewFileBrowserModel(Options{
		Controller: ctrl,
		History:    history,
		Status:     status,
		App:        app,
		BaseURL:    "http://fsb.example/",
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, fs
}

// runOp 执行命令并把 opDoneMsg 交回 Update
func runOp(t *testing.T, m *FileBrowserModel, cmd tea.Cmd) opDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	done, ok := cmd().(opDoneMsg)
	require.True(t, ok, "expected an operation to finish")
	m.Update(done)
	return done
}

func navigateTo(t *testing.T, m *FileBrowserModel, dir string) {
	t.Helper()
	done := runOp(t, m, m.run("navigate", func(ctx context.Context) error { return m.ctrl.Navigate(ctx, dir) }))
	require.NoError(t, done.err)
}

func press(m *FileBrowserModel, k string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return cmd
}

func pressType(m *FileBrowserModel, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestFileBrowser_NavigateRendersListing(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")

	assert.Equal(t, []string{"/docs/"}, fs.listed)
	assert.Len(t, m.entries, 3)
	assert.Equal(t, 0, m.pending)

	view := m.View()
	assert.Contains(t, view, "a.txt")
	assert.Contains(t, view, "photo.png")
	assert.Contains(t, view, "docs")
	assert.Contains(t, view, "1 folders, 2 files")
}

func TestFileBrowser_CursorHighlightsEntry(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")

	press(m, "j")
	assert.Equal(t, "/docs/a.txt", m.snap.SelectedKey)

	pressType(m, tea.KeyDown)
	assert.Equal(t, "/docs/photo.png", m.snap.SelectedKey)
	assert.Equal(t, 2, m.fileTable.Cursor())
}

func TestFileBrowser_CursorStartsOnFirstRowAfterEmptyFolder(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassUser)
	fs.dirs["/empty/"] = nil
	navigateTo(t, m, "/empty/")
	assert.Empty(t, m.entries)

	navigateTo(t, m, "/docs/")
	require.Len(t, m.entries, 3)
	assert.Equal(t, 0, m.fileTable.Cursor())

	press(m, "j")
	assert.Equal(t, 1, m.fileTable.Cursor())
	assert.Equal(t, "/docs/a.txt", m.snap.SelectedKey)
}

func TestFileBrowser_EnterOpensFolder(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassUser)
	fs.dirs["/docs/2024/"] = fs.hits
	navigateTo(t, m, "/docs/")

	// 光标在第一行时只移动不选中，先上下移动一次
	press(m, "j")
	press(m, "k")
	require.Equal(t, "/docs/2024", m.snap.SelectedKey)

	runOp(t, m, pressType(m, tea.KeyEnter))
	assert.Equal(t, "/docs/2024/", m.snap.Path)
	assert.Contains(t, m.View(), "report.md")
}

func TestFileBrowser_DeleteAsksForConfirmation(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassConfigAdmin)
	navigateTo(t, m, "/docs/")
	press(m, "j")

	cmd := press(m, "x")
	assert.Nil(t, cmd)
	require.True(t, m.confirmDelete)
	assert.Equal(t, "a.txt", m.deleteTarget)
	assert.Contains(t, m.View(), "Delete a.txt?")
	assert.Empty(t, fs.deleted)

	done := runOp(t, m, press(m, "y"))
	require.NoError(t, done.err)
	assert.False(t, m.confirmDelete)
	assert.Equal(t, []string{"/docs/a.txt"}, fs.deleted)

	text, typ, ok := m.status.GetMessage()
	require.True(t, ok)
	assert.Equal(t, messaging.MessageSuccess, typ)
	assert.Equal(t, "a.txt deleted", text)
}

func TestFileBrowser_DeleteCancelled(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassConfigAdmin)
	navigateTo(t, m, "/docs/")
	press(m, "j")
	press(m, "x")
	require.True(t, m.confirmDelete)

	assert.Nil(t, press(m, "n"))
	assert.False(t, m.confirmDelete)
	assert.Empty(t, fs.deleted)
}

func TestFileBrowser_GuestCannotDelete(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassGuest)
	navigateTo(t, m, "/docs/")
	press(m, "j")
	press(m, "x")

	assert.False(t, m.confirmDelete)
	assert.Empty(t, fs.deleted)
	text, typ, ok := m.status.GetMessage()
	require.True(t, ok)
	assert.Equal(t, messaging.MessageWarning, typ)
	assert.Contains(t, text, browser.ErrPermissionDenied.Error())
}

func TestFileBrowser_RenameThroughEditDialog(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassConfigAdmin)
	navigateTo(t, m, "/docs/")
	press(m, "j")

	press(m, "e")
	require.Equal(t, browser.EditRenaming, m.snap.Edit)
	assert.True(t, m.input.Focused())
	assert.Equal(t, "a.txt", m.input.Value())
	assert.Contains(t, m.View(), "Rename")

	m.input.SetValue("b.txt")
	done := runOp(t, m, pressType(m, tea.KeyEnter))
	require.NoError(t, done.err)

	assert.Equal(t, map[string]string{"/docs/a.txt": "b.txt"}, fs.renamed)
	assert.Equal(t, browser.EditIdle, m.snap.Edit)
	assert.False(t, m.input.Focused())
}

func TestFileBrowser_EscapeCancelsEdit(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassConfigAdmin)
	navigateTo(t, m, "/docs/")

	runOp(t, m, press(m, "n"))
	require.Equal(t, browser.EditCreatingFolder, m.snap.Edit)
	assert.Equal(t, browser.DefaultFolderName, m.input.Value())

	pressType(m, tea.KeyEsc)
	assert.Equal(t, browser.EditIdle, m.snap.Edit)
	assert.False(t, m.input.Focused())
	assert.Empty(t, fs.created)
}

func TestFileBrowser_SearchAndHistoryBack(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")

	runOp(t, m, press(m, "/"))
	require.Equal(t, browser.EditSearching, m.snap.Edit)
	require.True(t, m.input.Focused())

	m.input.SetValue("report")
	done := runOp(t, m, pressType(m, tea.KeyEnter))
	require.NoError(t, done.err)

	assert.Equal(t, []string{"/docs/|report"}, fs.searched)
	assert.True(t, m.snap.Listing.ForSearch)
	view := m.View()
	assert.Contains(t, view, "SEARCH report")
	assert.Contains(t, view, "/docs/2024/report.md")

	runOp(t, m, press(m, "["))
	assert.False(t, m.snap.Listing.ForSearch)
	assert.Equal(t, "/docs/", m.snap.Path)
	assert.Len(t, m.entries, 3)
}

func TestFileBrowser_EmptySearchWarns(t *testing.T) {
	m, fs := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")
	runOp(t, m, press(m, "/"))

	done := runOp(t, m, pressType(m, tea.KeyEnter))
	assert.True(t, browser.IsValidation(done.err))
	assert.Empty(t, fs.searched)

	_, typ, ok := m.status.GetMessage()
	require.True(t, ok)
	assert.Equal(t, messaging.MessageWarning, typ)
}

func TestFileBrowser_ContextMenu(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassConfigAdmin)
	navigateTo(t, m, "/docs/")

	press(m, "m")
	require.NotNil(t, m.snap.Menu)
	assert.Equal(t, []browser.Command{browser.CmdRefresh, browser.CmdNewFolder}, m.snap.Menu.Items)
	view := m.View()
	assert.Contains(t, view, "Refresh")
	assert.Contains(t, view, "New folder")

	pressType(m, tea.KeyDown)
	assert.Equal(t, 1, m.menuCursor)

	runOp(t, m, pressType(m, tea.KeyEnter))
	assert.Nil(t, m.snap.Menu)
	assert.Equal(t, browser.EditCreatingFolder, m.snap.Edit)
}

func TestFileBrowser_MenuClosesOnEscape(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")

	press(m, "m")
	require.NotNil(t, m.snap.Menu)
	pressType(m, tea.KeyEsc)
	assert.Nil(t, m.snap.Menu)
}

func TestFileBrowser_SortKeysToggleOrder(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")

	press(m, "2")
	assert.Equal(t, browser.SortSize, m.snap.Sort)
	assert.False(t, m.snap.SortDesc)
	assert.Contains(t, m.View(), "sorted by size ↑")

	press(m, "2")
	assert.True(t, m.snap.SortDesc)
	assert.Contains(t, m.View(), "sorted by size ↓")
}

func TestFileBrowser_PreviewCodeFile(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")
	press(m, "j")

	done := runOp(t, m, press(m, "p"))
	require.NoError(t, done.err)
	require.NotNil(t, m.preview)
	view := m.View()
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "world")

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Nil(t, m.preview)
	assert.Nil(t, m.snap.Preview)
}

func TestFileBrowser_DownloadDialog(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")

	m.Update(DownloadStartedMsg{Name: "a.txt", Size: 2048})
	assert.True(t, m.downloading)
	assert.Contains(t, m.View(), "Downloading a.txt")

	m.Update(DownloadCompletedMsg{Name: "a.txt", Path: "/tmp/a.txt"})
	assert.False(t, m.downloading)
	text, typ, ok := m.status.GetMessage()
	require.True(t, ok)
	assert.Equal(t, messaging.MessageSuccess, typ)
	assert.Equal(t, "Saved to /tmp/a.txt", text)
}

func TestFileBrowser_RejectedDownloadKeepsRunningOne(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	navigateTo(t, m, "/docs/")

	m.Update(DownloadStartedMsg{Name: "big.iso", Size: 1 << 30})
	m.Update(DownloadRejectedMsg{Name: "a.txt", Err: errDownloadBusy})

	assert.True(t, m.downloading)
	assert.Equal(t, "big.iso", m.downloadingFile)
	assert.Contains(t, m.View(), "Downloading big.iso")

	text, typ, ok := m.status.GetMessage()
	require.True(t, ok)
	assert.Equal(t, messaging.MessageWarning, typ)
	assert.Contains(t, text, "a.txt")
	assert.Contains(t, text, errDownloadBusy.Error())
}

func TestFileBrowser_CancelledDownloadWarns(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	m.Update(DownloadStartedMsg{Name: "big.iso"})
	m.Update(DownloadCompletedMsg{Name: "big.iso", Err: context.Canceled})

	text, typ, _ := m.status.GetMessage()
	assert.Equal(t, messaging.MessageWarning, typ)
	assert.Equal(t, "Download cancelled", text)
}

func TestFileBrowser_SessionExpiredQuits(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassUser)
	_, cmd := m.Update(SessionExpiredMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.Expired())
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFileBrowser_HelpDialogListsCommands(t *testing.T) {
	m, _ := newTestBrowser(t, api.ClassGuest)
	navigateTo(t, m, "/docs/")

	press(m, "?")
	require.True(t, m.showHelp)
	view := m.View()
	assert.Contains(t, view, "Keyboard shortcuts")
	assert.Contains(t, view, "Refresh")
	assert.False(t, strings.Contains(view, "New folder"))

	press(m, "?")
	assert.False(t, m.showHelp)
}
