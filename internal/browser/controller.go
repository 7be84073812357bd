// Package browser implements the directory browsing state machine: the
// current path, listing cache, selection, edit workflow and command gate,
// reconciled against the remote file API.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Preview size caps in bytes
const (
	MaxCodePreview  int64 = 1 << 20
	MaxImagePreview int64 = 16 << 20
)

// FileAPI is the part of the server API the controller talks to
type FileAPI interface {
	ListDir(ctx context.Context, dir string) ([]api.Entry, error)
	Search(ctx context.Context, dir, expr string) ([]api.Entry, error)
	CreateDir(ctx context.Context, target string) error
	DeleteDir(ctx context.Context, key string) error
	DeleteFile(ctx context.Context, key string) error
	Rename(ctx context.Context, key, newName string) error
	Upload(ctx context.Context, endpoint, name string, body io.Reader, size int64) (string, error)
	ReadFile(ctx context.Context, key string, limit int64) ([]byte, error)
}

// Options configures a Controller. API and App are required.
type Options struct {
	API            FileAPI
	App            *AppContext
	Notifier       Notifier
	Navigator      Navigator
	Downloads      DownloadSink
	OnUnauthorized func()
}

// Key is a keyboard shortcut understood by HandleKey
type Key int

const (
	KeyEscape Key = iota
	KeyDelete
	KeyF2
	KeyRefresh
	KeyEnter
)

// ContextMenu is an open context menu and its visible commands
type ContextMenu struct {
	X, Y  int
	Items []Command
}

// PreviewResult is the content fetched for the preview modal
type PreviewResult struct {
	Entry    api.Entry
	Class    utils.PreviewClass
	Endpoint string
	Data     []byte
}

// Snapshot is a consistent copy of the controller state for rendering
type Snapshot struct {
	Path        string
	SearchMode  bool
	SearchExpr  string
	Listing     Listing
	SelectedKey string
	Selected    []string
	Edit        EditState
	Buffer      string
	UploadDir   bool
	Menu        *ContextMenu
	Crumbs      []Crumb
	Loading     bool
	Level       int
	Gate        GateInput
	Sort        SortColumn
	SortDesc    bool
	Preview     *PreviewResult
}

type nopNavigator struct{}

func (nopNavigator) Sync(NavState) {}

// Controller owns the browsing state. Methods are safe for concurrent use;
// network calls run outside the lock and stale listings are dropped.
type Controller struct {
	api            FileAPI
	app            *AppContext
	notifier       Notifier
	nav            Navigator
	downloads      DownloadSink
	onUnauthorized func()

	mu           sync.Mutex
	seq          uint64
	path         string
	searchMode   bool
	searchExpr   string
	listing      Listing
	cache        *ListingCache
	sel          *Selection
	edit         EditWorkflow
	uploadFolder bool
	menu         *ContextMenu
	loading      bool
	sortCol      SortColumn
	sortDesc     bool
	preview      *PreviewResult
}

// NewController returns a controller positioned at the root directory.
// Nothing is fetched until Navigate or Refresh is called.
func NewController(opts Options) (*Controller, error) {
	if opts.API == nil {
		return nil, errors.New("browser: file API is required")
	}
	if opts.App == nil {
		return nil, errors.New("browser: application context is required")
	}

	c := &Controller{
		api:            opts.API,
		app:            opts.App,
		notifier:       opts.Notifier,
		nav:            opts.Navigator,
		downloads:      opts.Downloads,
		onUnauthorized: opts.OnUnauthorized,
		path:           Separator,
		listing:        Listing{Path: Separator},
		cache:          NewListingCache(),
		sel:            NewSelection(),
	}
	if c.notifier == nil {
		c.notifier = discardNotifier{}
	}
	if c.nav == nil {
		c.nav = nopNavigator{}
	}
	return c, nil
}

// Refresh shows the listing of the current path, or re-runs the current
// search. Directory listings come from the cache when present.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	dir, search, expr := c.path, c.searchMode, c.searchExpr

	if !search {
		if l, ok := c.cache.Get(dir); ok {
			c.listing = l
			c.loading = false
			state := c.navStateLocked()
			c.mu.Unlock()
			c.nav.Sync(state)
			return nil
		}
	}
	c.loading = true
	c.mu.Unlock()

	var entries []api.Entry
	var err error
	if search {
		entries, err = c.api.Search(ctx, dir, expr)
	} else {
		entries, err = c.api.ListDir(ctx, dir)
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		logrus.WithFields(logrus.Fields{"path": dir, "seq": seq}).Debug("dropping stale listing")
		return nil
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		return c.fail("list "+dir, err)
	}

	l := Listing{Path: dir, Expr: expr, ForSearch: search, Entries: entries}
	c.cache.Put(dir, l)
	c.listing = l
	state := c.navStateLocked()
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{"path": dir, "search": search, "entries": len(entries)}).Debug("listing applied")
	c.nav.Sync(state)
	return nil
}

// Navigate leaves search mode and shows dir
func (c *Controller) Navigate(ctx context.Context, dir string) error {
	c.mu.Lock()
	prev := c.navStateLocked()
	c.path = Normalize(dir)
	c.leaveSearchLocked()
	c.sel.Clear()
	seq := c.seq
	c.mu.Unlock()
	return c.moveTo(ctx, prev, seq)
}

// moveTo refreshes after the path changed. When the listing fails the path
// and search state go back to prev, so they keep matching the shown listing.
func (c *Controller) moveTo(ctx context.Context, prev NavState, seq uint64) error {
	err := c.Refresh(ctx)
	if err == nil {
		return nil
	}
	c.mu.Lock()
	// a later navigation owns the state
	if c.seq == seq+1 {
		c.path, c.searchMode, c.searchExpr = prev.Path, prev.Search, prev.Expr
	}
	c.mu.Unlock()
	return err
}

// Ascend moves -levels directories up and selects the folders that were left
func (c *Controller) Ascend(ctx context.Context, levels int) error {
	if levels >= 0 {
		return nil
	}

	c.mu.Lock()
	dir, exited, err := Ascend(c.path, levels)
	if err != nil {
		c.mu.Unlock()
		c.notifier.Notify(LevelWarning, err.Error())
		return err
	}
	prev := c.navStateLocked()
	c.path = dir
	c.leaveSearchLocked()
	c.sel.Set(exited...)
	seq := c.seq
	c.mu.Unlock()
	return c.moveTo(ctx, prev, seq)
}

// Open enters a directory or downloads a file
func (c *Controller) Open(ctx context.Context, e api.Entry) error {
	if e.IsDir {
		return c.Navigate(ctx, Join(e.Path, e.Name))
	}
	return c.Download(e)
}

// Locate shows the folder of the selected search hit with the hit selected
func (c *Controller) Locate(ctx context.Context) error {
	c.mu.Lock()
	e, ok := c.sel.ResolveEntry(c.listing)
	if !ok {
		c.mu.Unlock()
		return ErrNoSelection
	}
	c.path = Normalize(e.Path)
	c.leaveSearchLocked()
	c.sel.Set(KeyOf(e))
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Reconcile applies a navigation state coming from outside, such as
// history back and forward
func (c *Controller) Reconcile(ctx context.Context, s NavState) error {
	target := Normalize(s.Path)

	c.mu.Lock()
	if !s.Search {
		same := !c.searchMode && c.path == target
		c.mu.Unlock()
		if same {
			return nil
		}
		return c.Navigate(ctx, target)
	}

	if c.searchMode && c.searchExpr == s.Expr && c.path == target {
		c.mu.Unlock()
		return nil
	}
	if !c.searchMode {
		c.cache.InvalidateAll()
	}
	c.path = target
	c.searchMode = true
	c.searchExpr = s.Expr
	c.sel.Clear()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Select toggles key in the selection
func (c *Controller) Select(key string, additive bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.Toggle(key, additive)
}

// Highlight makes key the only selected entry
func (c *Controller) Highlight(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		c.sel.Clear()
		return
	}
	c.sel.Set(key)
}

// SelectedEntry resolves the selection against the displayed listing
func (c *Controller) SelectedEntry() (api.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.ResolveEntry(c.listing)
}

// SortBy sorts the displayed listing by col, toggling the order when col
// is already active
func (c *Controller) SortBy(col SortColumn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortCol == col {
		c.sortDesc = !c.sortDesc
		return
	}
	c.sortCol = col
	c.sortDesc = false
}

// Download hands the entry to the download sink. Directories larger than
// the download limit are refused.
func (c *Controller) Download(e api.Entry) error {
	if e.IsDir && e.FileSize > c.app.Limits.MaxFileDownload {
		c.notifier.Notify(LevelWarning, "folder size exceeds the download limit")
		return &ValidationError{Field: "size", Value: e.Name, Reason: "folder size exceeds the download limit"}
	}
	if c.downloads == nil {
		return errors.New("no download target configured")
	}

	key := KeyOf(e)
	d := Download{Endpoint: api.FileEndpoint(key), Name: e.Name, IsDir: e.IsDir, Size: e.FileSize}
	if e.IsDir {
		d.Endpoint = api.ArchiveEndpoint(key)
		d.Name = e.Name + ".zip"
	}
	logrus.WithFields(logrus.Fields{"endpoint": d.Endpoint, "size": d.Size}).Info("download requested")
	c.downloads.Start(d)
	return nil
}

func (c *Controller) downloadSelected(ctx context.Context) error {
	e, ok := c.SelectedEntry()
	if !ok {
		return ErrNoSelection
	}
	return c.Download(e)
}

// Remove deletes the selected entry
func (c *Controller) Remove(ctx context.Context) error {
	e, ok := c.SelectedEntry()
	if !ok {
		return ErrNoSelection
	}

	key := KeyOf(e)
	var err error
	if e.IsDir {
		err = c.api.DeleteDir(ctx, key)
	} else {
		err = c.api.DeleteFile(ctx, key)
	}
	if err != nil {
		return c.fail("delete "+key, err)
	}

	c.mu.Lock()
	c.cache.InvalidateAll()
	c.sel.Clear()
	c.mu.Unlock()

	c.notifier.Notify(LevelSuccess, fmt.Sprintf("%s deleted", e.Name))
	return c.Refresh(ctx)
}

// Preview fetches the selected file for the preview modal. Audio and video
// only carry their endpoint.
func (c *Controller) Preview(ctx context.Context) (PreviewResult, error) {
	e, ok := c.SelectedEntry()
	if !ok {
		return PreviewResult{}, ErrNoSelection
	}

	key := KeyOf(e)
	res := PreviewResult{Entry: e, Class: utils.PreviewClassOf(e.Name), Endpoint: api.FileEndpoint(key)}

	var limit int64
	switch res.Class {
	case utils.PreviewCode:
		limit = MaxCodePreview
	case utils.PreviewImage:
		limit = MaxImagePreview
	case utils.PreviewAudio, utils.PreviewVideo:
	default:
		return PreviewResult{}, &ValidationError{Field: "preview", Value: e.Name, Reason: "file type cannot be previewed"}
	}

	if limit > 0 {
		data, err := c.api.ReadFile(ctx, key, limit)
		if err != nil {
			if errors.Is(err, api.ErrTooLarge) {
				c.notifier.Notify(LevelWarning, fmt.Sprintf("%s is too large to preview", e.Name))
				return PreviewResult{}, err
			}
			return PreviewResult{}, c.fail("preview "+key, err)
		}
		res.Data = data
	}

	c.mu.Lock()
	c.preview = &res
	c.mu.Unlock()
	return res, nil
}

// ClosePreview drops the preview result
func (c *Controller) ClosePreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = nil
}

// OpenContextMenu builds the menu from the commands visible right now
func (c *Controller) OpenContextMenu(x, y int) ContextMenu {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := []Command{CmdRefresh, CmdPreview, CmdRename, CmdDelete, CmdDownload}
	if c.listing.ForSearch {
		base = append(base, CmdLocate)
	} else {
		base = append(base, CmdNewFolder)
	}

	in := c.gateLocked()
	items := make([]Command, 0, len(base))
	for _, cmd := range base {
		if Visible(cmd, in) {
			items = append(items, cmd)
		}
	}
	c.menu = &ContextMenu{X: x, Y: y, Items: items}
	return ContextMenu{X: x, Y: y, Items: slices.Clone(items)}
}

// CloseContextMenu hides the menu
func (c *Controller) CloseContextMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menu = nil
}

// BeginEdit enters an edit state for the current selection and path
func (c *Controller) BeginEdit(state EditState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edit.Begin(state, c.selectedKeyLocked(), c.path)
}

// BeginUpload starts an upload edit in file or folder (archive) mode
func (c *Controller) BeginUpload(intoFolder bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.edit.Begin(EditUploading, "", c.path); err != nil {
		return err
	}
	c.uploadFolder = intoFolder
	return nil
}

// SetUploadFolder switches a pending upload between file and folder mode
func (c *Controller) SetUploadFolder(intoFolder bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploadFolder = intoFolder
}

// SetEditBuffer replaces the edit text
func (c *Controller) SetEditBuffer(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit.SetBuffer(s)
}

// TakeFocus reports whether the UI should focus the edit input now
func (c *Controller) TakeFocus() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edit.TakeFocus()
}

// CancelEdit returns the edit workflow to Idle
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit.Reset()
}

// CommitEdit applies the buffer of the active edit state. Failed renames
// and folder creations stay in their state; uploads and searches always
// return to Idle.
func (c *Controller) CommitEdit(ctx context.Context) error {
	c.mu.Lock()
	state, buf := c.edit.State(), c.edit.Buffer()
	dir, key, folder := c.path, c.selectedKeyLocked(), c.uploadFolder
	c.mu.Unlock()

	switch state {
	case EditRenaming:
		return c.commitRename(ctx, key, buf)
	case EditCreatingFolder:
		return c.commitNewFolder(ctx, dir, buf)
	case EditSearching:
		return c.commitSearch(ctx, buf)
	case EditUploading:
		files, err := ExpandLocalFiles(buf)
		if err != nil {
			c.CancelEdit()
			c.notifier.Notify(LevelWarning, err.Error())
			return err
		}
		return c.Upload(ctx, files, folder)
	}
	return nil
}

func (c *Controller) commitRename(ctx context.Context, key, buf string) error {
	if key == "" {
		return ErrNoSelection
	}
	name := strings.TrimSpace(buf)
	if err := ValidateName(name); err != nil {
		c.notifier.Notify(LevelWarning, err.Error())
		return err
	}
	if err := c.api.Rename(ctx, key, name); err != nil {
		return c.fail("rename "+key, err)
	}

	c.mu.Lock()
	c.cache.InvalidateAll()
	c.edit.Reset()
	c.sel.Set(Join(Parent(key), name))
	c.mu.Unlock()

	c.notifier.Notify(LevelSuccess, fmt.Sprintf("renamed to %s", name))
	return c.Refresh(ctx)
}

func (c *Controller) commitNewFolder(ctx context.Context, dir, buf string) error {
	name := strings.TrimSpace(buf)
	if err := ValidateName(name); err != nil {
		c.notifier.Notify(LevelWarning, err.Error())
		return err
	}
	target := Join(dir, name)
	if err := c.api.CreateDir(ctx, target); err != nil {
		return c.fail("create "+target, err)
	}

	c.mu.Lock()
	c.cache.InvalidateAll()
	c.edit.Reset()
	c.sel.Set(target)
	c.mu.Unlock()

	c.notifier.Notify(LevelSuccess, fmt.Sprintf("folder %s created", name))
	return c.Refresh(ctx)
}

func (c *Controller) commitSearch(ctx context.Context, buf string) error {
	expr := strings.TrimSpace(buf)

	c.mu.Lock()
	c.edit.Reset()
	if expr == "" {
		c.mu.Unlock()
		err := &ValidationError{Field: "search", Reason: "search expression must not be empty"}
		c.notifier.Notify(LevelWarning, err.Error())
		return err
	}
	if !c.searchMode {
		c.cache.InvalidateAll()
	}
	c.searchMode = true
	c.searchExpr = expr
	c.sel.Clear()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Upload sends files into the current directory. Files failing the
// extension or size check are skipped with a warning; the rest go out
// concurrently.
func (c *Controller) Upload(ctx context.Context, files []LocalFile, intoFolder bool) error {
	defer c.finishUpload()

	policy, err := c.app.Policy(intoFolder)
	if err != nil {
		c.notifier.Notify(LevelError, err.Error())
		return err
	}

	c.mu.Lock()
	dir := c.path
	c.mu.Unlock()

	var accepted []LocalFile
	rejected := 0
	for _, f := range files {
		if err := policy.Check(f.Name(), f.Size()); err != nil {
			logrus.WithError(err).WithField("file", f.Name()).Warn("upload rejected")
			c.notifier.Notify(LevelWarning, err.Error())
			rejected++
			continue
		}
		accepted = append(accepted, f)
	}

	var g errgroup.Group
	for _, f := range accepted {
		g.Go(func() error {
			if err := c.uploadOne(ctx, dir, f, intoFolder); err != nil {
				logrus.WithError(err).WithField("file", f.Name()).Error("upload failed")
				c.notifier.Notify(LevelError, fmt.Sprintf("%s upload failed: %s", f.Name(), api.UserMessage(err)))
				c.checkUnauthorized(err)
				return fmt.Errorf("upload %s: %w", f.Name(), err)
			}
			c.notifier.Notify(LevelSuccess, fmt.Sprintf("%s uploaded", f.Name()))
			c.mu.Lock()
			c.cache.InvalidateAll()
			c.mu.Unlock()
			return c.Refresh(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if rejected > 0 {
		return &ValidationError{Field: "file", Reason: fmt.Sprintf("%d of %d files rejected", rejected, len(files))}
	}
	return nil
}

func (c *Controller) uploadOne(ctx context.Context, dir string, f LocalFile, intoFolder bool) error {
	body, err := f.Open()
	if err != nil {
		return err
	}
	defer body.Close()

	endpoint := api.FileEndpoint(Join(dir, f.Name()))
	if intoFolder {
		endpoint = api.ArchiveEndpoint(Join(dir, f.Name()))
	}
	_, err = c.api.Upload(ctx, endpoint, f.Name(), body, f.Size())
	return err
}

func (c *Controller) finishUpload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit.State() == EditUploading {
		c.edit.Reset()
	}
}

// Dispatch runs cmd if the user level and the gate allow it. Commands that
// need confirmation return ErrConfirmationRequired.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	return c.dispatch(ctx, cmd, false)
}

// DispatchConfirmed runs cmd after the user confirmed it
func (c *Controller) DispatchConfirmed(ctx context.Context, cmd Command) error {
	return c.dispatch(ctx, cmd, true)
}

func (c *Controller) dispatch(ctx context.Context, cmd Command, confirmed bool) error {
	if !cmd.Valid() {
		return fmt.Errorf("unknown command %d", int(cmd))
	}

	c.mu.Lock()
	in := c.gateLocked()
	c.menu = nil
	c.mu.Unlock()

	if cmd.Level() > in.Level {
		return fmt.Errorf("%s: %w", cmd, ErrPermissionDenied)
	}
	if Status(cmd, in) != StatusEnabled {
		return fmt.Errorf("%s: %w", cmd, ErrCommandDisabled)
	}

	h := handlers[cmd]
	if h.confirm && !confirmed {
		return ErrConfirmationRequired
	}
	logrus.WithField("command", cmd.String()).Debug("dispatch")
	return h.run(c, ctx)
}

// HandleKey maps a keyboard shortcut to a command. Keys are ignored while
// an edit is active.
func (c *Controller) HandleKey(ctx context.Context, k Key) error {
	c.mu.Lock()
	active := c.edit.Active()
	c.mu.Unlock()
	if active {
		return nil
	}

	switch k {
	case KeyEscape:
		c.CloseContextMenu()
	case KeyDelete:
		return c.Dispatch(ctx, CmdDelete)
	case KeyF2:
		return c.Dispatch(ctx, CmdRename)
	case KeyRefresh:
		return c.Dispatch(ctx, CmdRefresh)
	case KeyEnter:
		if e, ok := c.SelectedEntry(); ok && e.IsDir {
			return c.Navigate(ctx, Join(e.Path, e.Name))
		}
	}
	return nil
}

type handler struct {
	confirm bool
	run     func(*Controller, context.Context) error
}

var handlers = [commandCount]handler{
	CmdRefresh: {run: (*Controller).forceRefresh},
	CmdGoUp: {run: func(c *Controller, ctx context.Context) error {
		return c.Ascend(ctx, -1)
	}},
	CmdPreview: {run: func(c *Controller, ctx context.Context) error {
		_, err := c.Preview(ctx)
		return err
	}},
	CmdRename: {run: func(c *Controller, _ context.Context) error {
		return c.BeginEdit(EditRenaming)
	}},
	CmdNewFolder: {run: func(c *Controller, _ context.Context) error {
		return c.BeginEdit(EditCreatingFolder)
	}},
	CmdDelete: {confirm: true, run: (*Controller).Remove},
	CmdUpload: {run: func(c *Controller, _ context.Context) error {
		return c.BeginUpload(false)
	}},
	CmdDownload: {run: (*Controller).downloadSelected},
	CmdSearch: {run: func(c *Controller, _ context.Context) error {
		return c.BeginEdit(EditSearching)
	}},
	CmdLocate: {run: (*Controller).Locate},
}

func (c *Controller) forceRefresh(ctx context.Context) error {
	c.mu.Lock()
	c.cache.InvalidateAll()
	c.sel.Clear()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Snapshot returns a copy of the state for rendering
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.listing
	l.Entries = sortEntries(c.listing.Entries, c.sortCol, c.sortDesc)

	in := c.gateLocked()
	highlighted := ""
	if l.ForSearch {
		highlighted = in.SelectedKey
	}

	s := Snapshot{
		Path:        c.path,
		SearchMode:  c.searchMode,
		SearchExpr:  c.searchExpr,
		Listing:     l,
		SelectedKey: in.SelectedKey,
		Selected:    c.sel.Keys(),
		Edit:        c.edit.State(),
		Buffer:      c.edit.Buffer(),
		UploadDir:   c.uploadFolder,
		Crumbs:      Breadcrumbs(c.path, highlighted),
		Loading:     c.loading,
		Level:       in.Level,
		Gate:        in,
		Sort:        c.sortCol,
		SortDesc:    c.sortDesc,
	}
	if c.menu != nil {
		m := ContextMenu{X: c.menu.X, Y: c.menu.Y, Items: slices.Clone(c.menu.Items)}
		s.Menu = &m
	}
	if c.preview != nil {
		p := *c.preview
		s.Preview = &p
	}
	return s
}

// CacheLen returns the number of cached directory listings
func (c *Controller) CacheLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func (c *Controller) selectedKeyLocked() string {
	e, ok := c.sel.ResolveEntry(c.listing)
	if !ok {
		return ""
	}
	return KeyOf(e)
}

// gateLocked builds the gate input from the displayed listing
func (c *Controller) gateLocked() GateInput {
	return NewGateInput(c.selectedKeyLocked(), c.listing.ForSearch, c.app.Level())
}

func (c *Controller) navStateLocked() NavState {
	return NavState{Path: c.path, Search: c.searchMode, Expr: c.searchExpr}
}

func (c *Controller) leaveSearchLocked() {
	if !c.searchMode {
		return
	}
	c.searchMode = false
	c.searchExpr = ""
	c.cache.InvalidateAll()
}

func (c *Controller) fail(op string, err error) error {
	logrus.WithError(err).WithField("op", op).Error("request failed")
	c.notifier.Notify(LevelError, api.UserMessage(err))
	c.checkUnauthorized(err)
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Controller) checkUnauthorized(err error) {
	if api.IsUnauthorized(err) && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
