package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// Fetcher opens download streams
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (*api.Stream, error)
}

// DownloadStartedMsg is sent when a transfer begins
type DownloadStartedMsg struct {
	Name string
	Size int64
}

// DownloadProgressMsg reports transferred bytes
type DownloadProgressMsg struct {
	Done  int64
	Total int64
}

// Percent returns the completed fraction, 0 when the total is unknown
func (m DownloadProgressMsg) Percent() float64 {
	if m.Total <= 0 {
		return 0
	}
	return float64(m.Done) / float64(m.Total)
}

// DownloadCompletedMsg is sent when a transfer ends
type DownloadCompletedMsg struct {
	Name string
	Path string
	Err  error
}

// DownloadRejectedMsg is sent when a download is refused before it starts.
// The running transfer, if any, is unaffected.
type DownloadRejectedMsg struct {
	Name string
	Err  error
}

// errDownloadBusy is reported when a second download starts while one runs
var errDownloadBusy = errors.New("another download is in progress")

// DownloadSink streams controller downloads to disk in the background and
// reports progress as bubbletea messages
type DownloadSink struct {
	fetch Fetcher
	saver *utils.FileDownloader

	mu     sync.Mutex
	send   func(tea.Msg)
	cancel context.CancelFunc
}

// NewDownloadSink creates a sink saving through saver
func NewDownloadSink(fetch Fetcher, saver *utils.FileDownloader) *DownloadSink {
	return &DownloadSink{fetch: fetch, saver: saver, send: func(tea.Msg) {}}
}

// SetSend sets where messages go, usually tea.Program.Send
func (s *DownloadSink) SetSend(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *DownloadSink) emit(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	send(msg)
}

// Start implements browser.DownloadSink
func (s *DownloadSink) Start(d browser.Download) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		s.emit(DownloadRejectedMsg{Name: d.Name, Err: errDownloadBusy})
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(ctx, d)
}

// Cancel stops the running download and reports whether one was running
func (s *DownloadSink) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

func (s *DownloadSink) run(ctx context.Context, d browser.Download) {
	path, err := s.transfer(ctx, d)

	s.mu.Lock()
	s.cancel = nil
	s.mu.Unlock()

	if err != nil {
		logrus.WithError(err).WithField("endpoint", d.Endpoint).Error("download failed")
	} else {
		logrus.WithField("path", path).Info("download finished")
	}
	s.emit(DownloadCompletedMsg{Name: d.Name, Path: path, Err: err})
}

func (s *DownloadSink) transfer(ctx context.Context, d browser.Download) (string, error) {
	s.emit(DownloadStartedMsg{Name: d.Name, Size: d.Size})

	stream, err := s.fetch.Fetch(ctx, d.Endpoint)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	total := stream.Size
	if total < 0 && !d.IsDir {
		total = d.Size
	}
	name := utils.LocalName(stream.Name, d.Name)
	return s.saver.Save(ctx, stream, total, name, func(done, total int64) {
		s.emit(DownloadProgressMsg{Done: done, Total: total})
	})
}
