package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileDownloader writes downloaded streams into a local directory
type FileDownloader struct {
	dir string
}

// NewFileDownloader returns a downloader saving into dir. An empty dir means ~/Downloads.
func NewFileDownloader(dir string) *FileDownloader {
	return &FileDownloader{dir: dir}
}

// Dir resolves the target directory
func (d *FileDownloader) Dir() (string, error) {
	if d.dir != "" {
		return ExpandHome(d.dir)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// LocalName returns the last element of name when it can name a local
// file, otherwise fallback
func LocalName(name, fallback string) string {
	base := filepath.Base(filepath.FromSlash(name))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return fallback
	}
	return base
}

// Save copies body into dir/name, choosing a free name on conflict, and
// returns the local path. progress may be nil.
func (d *FileDownloader) Save(ctx context.Context, body io.Reader, size int64, name string, progress func(done, total int64)) (string, error) {
	dir, err := d.Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	base := LocalName(name, "")
	if base == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	localPath := resolveFileNameConflict(filepath.Join(dir, base))
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create local file: %w", err)
	}

	reader := &CallbackProgressReader{Reader: body, total: size, callback: progress}
	_, copyErr := io.Copy(file, &contextReader{ctx: ctx, r: reader})
	closeErr := file.Close()
	if copyErr != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to write file content: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to close local file: %w", closeErr)
	}

	logrus.Infof("File downloaded successfully to: %s", localPath)
	return localPath, nil
}

func resolveFileNameConflict(originalPath string) string {
	if _, err := os.Stat(originalPath); os.IsNotExist(err) {
		return originalPath
	}

	ext := filepath.Ext(originalPath)
	baseName := originalPath[:len(originalPath)-len(ext)]
	for i := 1; i < 1000; i++ {
		newPath := fmt.Sprintf("%s (%d)%s", baseName, i, ext)
		if _, err := os.Stat(newPath); os.IsNotExist(err) {
			return newPath
		}
	}
	return fmt.Sprintf("%s_%d%s", baseName, os.Getpid(), ext)
}

// CallbackProgressReader wraps an io.Reader and reports progress through a callback
type CallbackProgressReader struct {
	io.Reader
	total    int64
	read     int64
	callback func(done, total int64)
	lastSent int64
}

func (pr *CallbackProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	if n > 0 && pr.callback != nil {
		pr.read += int64(n)
		// throttle to roughly every 5% (or 1 MiB when the size is unknown)
		step := int64(1 << 20)
		if pr.total > 0 {
			step = pr.total / 20
		}
		if pr.read-pr.lastSent >= step || err == io.EOF || (pr.total > 0 && pr.read >= pr.total) {
			pr.callback(pr.read, pr.total)
			pr.lastSent = pr.read
		}
	}
	return n, err
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// ExpandHome replaces a leading "~" with the user home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !hasHomePrefix(path) {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

func hasHomePrefix(path string) bool {
	return len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
