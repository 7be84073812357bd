package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalFile is a file picked for upload
type LocalFile interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type diskFile struct {
	path string
	size int64
}

func (f diskFile) Name() string                 { return filepath.Base(f.path) }
func (f diskFile) Size() int64                  { return f.size }
func (f diskFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// OpenLocal stats a regular file on disk
func OpenLocal(path string) (LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return diskFile{path: path, size: info.Size()}, nil
}

// ExpandLocalFiles turns a path list (OS list separator, glob patterns
// allowed) into local files. Patterns without a match are reported.
func ExpandLocalFiles(list string) ([]LocalFile, error) {
	var files []LocalFile
	for _, pattern := range filepath.SplitList(list) {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, &ValidationError{Field: "file", Value: pattern, Reason: "no such file"}
		}
		for _, m := range matches {
			f, err := OpenLocal(m)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, &ValidationError{Field: "file", Reason: "no files given"}
	}
	return files, nil
}
