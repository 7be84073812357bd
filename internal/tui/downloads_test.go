package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

type fetchFunc func(ctx context.Context, endpoint string) (*api.Stream, error)

func (f fetchFunc) Fetch(ctx context.Context, endpoint string) (*api.Stream, error) {
	return f(ctx, endpoint)
}

func collect(s *DownloadSink) <-chan tea.Msg {
	msgs := make(chan tea.Msg, 64)
	s.SetSend(func(msg tea.Msg) { msgs <- msg })
	return msgs
}

// waitCompleted 读取消息直到下载结束
func waitCompleted(t *testing.T, msgs <-chan tea.Msg) ([]tea.Msg, DownloadCompletedMsg) {
	t.Helper()
	var seen []tea.Msg
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if done, ok := msg.(DownloadCompletedMsg); ok {
				return seen, done
			}
			seen = append(seen, msg)
		case <-timeout:
			t.Fatal("download did not complete")
		}
	}
}

func waitRejected(t *testing.T, msgs <-chan tea.Msg) DownloadRejectedMsg {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-msgs:
			switch msg := msg.(type) {
			case DownloadRejectedMsg:
				return msg
			case DownloadCompletedMsg:
				t.Fatalf("unexpected completion of %s", msg.Name)
			}
		case <-timeout:
			t.Fatal("download was not rejected")
		}
	}
}

func TestDownloadSink_SavesFile(t *testing.T) {
	dir := t.TempDir()
	var requested string
	sink := NewDownloadSink(fetchFunc(func(_ context.Context, endpoint string) (*api.Stream, error) {
		requested = endpoint
		return &api.Stream{Body: io.NopCloser(strings.NewReader("file body")), Size: 9}, nil
	}), utils.NewFileDownloader(dir))
	msgs := collect(sink)

	sink.Start(browser.Download{Endpoint: api.FileEndpoint("/docs/a.txt"), Name: "a.txt", Size: 9})
	seen, done := waitCompleted(t, msgs)

	require.NoError(t, done.Err)
	assert.Equal(t, api.FileEndpoint("/docs/a.txt"), requested)
	assert.Equal(t, filepath.Join(dir, "a.txt"), done.Path)
	data, err := os.ReadFile(done.Path)
	require.NoError(t, err)
	assert.Equal(t, "file body", string(data))

	require.NotEmpty(t, seen)
	assert.Equal(t, DownloadStartedMsg{Name: "a.txt", Size: 9}, seen[0])
	last, ok := seen[len(seen)-1].(DownloadProgressMsg)
	require.True(t, ok)
	assert.Equal(t, int64(9), last.Done)
	assert.InDelta(t, 1.0, last.Percent(), 0.001)
}

func TestDownloadSink_UsesServerFileName(t *testing.T) {
	dir := t.TempDir()
	sink := NewDownloadSink(fetchFunc(func(context.Context, string) (*api.Stream, error) {
		return &api.Stream{Body: io.NopCloser(strings.NewReader("zip")), Size: -1, Name: "2024.zip"}, nil
	}), utils.NewFileDownloader(dir))
	msgs := collect(sink)

	sink.Start(browser.Download{Endpoint: api.ArchiveEndpoint("/docs/2024"), Name: "2024.zip", IsDir: true, Size: 4096})
	_, done := waitCompleted(t, msgs)

	require.NoError(t, done.Err)
	assert.Equal(t, filepath.Join(dir, "2024.zip"), done.Path)
}

func TestDownloadSink_UnusableServerNameFallsBack(t *testing.T) {
	for _, serverName := range []string{".", "..", "/"} {
		dir := t.TempDir()
		sink := NewDownloadSink(fetchFunc(func(context.Context, string) (*api.Stream, error) {
			return &api.Stream{Body: io.NopCloser(strings.NewReader("zip")), Size: 3, Name: serverName}, nil
		}), utils.NewFileDownloader(dir))
		msgs := collect(sink)

		sink.Start(browser.Download{Endpoint: api.ArchiveEndpoint("/docs/2024"), Name: "2024.zip", IsDir: true})
		_, done := waitCompleted(t, msgs)

		require.NoError(t, done.Err, "server name %q", serverName)
		assert.Equal(t, filepath.Join(dir, "2024.zip"), done.Path)
	}
}

func TestDownloadSink_OneAtATime(t *testing.T) {
	release := make(chan struct{})
	sink := NewDownloadSink(fetchFunc(func(ctx context.Context, _ string) (*api.Stream, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &api.Stream{Body: io.NopCloser(strings.NewReader("x")), Size: 1}, nil
	}), utils.NewFileDownloader(t.TempDir()))
	msgs := collect(sink)

	sink.Start(browser.Download{Endpoint: "/file/a", Name: "a"})
	sink.Start(browser.Download{Endpoint: "/file/b", Name: "b"})

	// 第二个下载立即被拒绝，不会产生 DownloadCompletedMsg
	busy := waitRejected(t, msgs)
	assert.Equal(t, "b", busy.Name)
	assert.ErrorIs(t, busy.Err, errDownloadBusy)

	assert.True(t, sink.Cancel())
	_, done := waitCompleted(t, msgs)
	assert.Equal(t, "a", done.Name)
	assert.ErrorIs(t, done.Err, context.Canceled)
	close(release)

	assert.Eventually(t, func() bool { return !sink.Cancel() }, time.Second, 10*time.Millisecond)
}

func TestDownloadProgressMsg_PercentUnknownTotal(t *testing.T) {
	assert.Zero(t, DownloadProgressMsg{Done: 10}.Percent())
	assert.InDelta(t, 0.25, DownloadProgressMsg{Done: 1, Total: 4}.Percent(), 0.0001)
}
