package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/metrics"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// ErrTooLarge is returned by ReadFile when the body exceeds the limit
var ErrTooLarge = errors.New("file too large")

// Stream is an open download
type Stream struct {
	Body io.ReadCloser
	Size int64  // -1 when the server did not send a length
	Name string // from Content-Disposition, may be empty
}

// Read implements io.Reader and counts transferred bytes
func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.Body.Read(p)
	metrics.RecordTransfer(metrics.Download, int64(n))
	return n, err
}

// Close releases the response body
func (s *Stream) Close() error {
	return s.Body.Close()
}

// Fetch opens a GET on a file or archive endpoint. The caller closes the stream.
func (c *Client) Fetch(ctx context.Context, endpoint string) (*Stream, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req, endpoint)
	if err != nil {
		return nil, err
	}

	name := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			name = params["filename"]
		}
	}
	return &Stream{Body: resp.Body, Size: resp.ContentLength, Name: name}, nil
}

// ReadFile fetches a whole file into memory, refusing bodies above limit bytes
func (c *Client) ReadFile(ctx context.Context, key string, limit int64) ([]byte, error) {
	s, err := c.Fetch(ctx, FileEndpoint(key))
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if s.Size > limit {
		return nil, fmt.Errorf("%s: %w (%d bytes)", key, ErrTooLarge, s.Size)
	}
	data, err := io.ReadAll(io.LimitReader(s, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", key, ErrTooLarge)
	}
	return data, nil
}

// Upload posts body as a multipart form with fields File and FileName.
// endpoint is the file or archive endpoint of the destination.
func (c *Client) Upload(ctx context.Context, endpoint, name string, body io.Reader, size int64) (string, error) {
	pr, pw := io.Pipe()
	defer pr.Close()

	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadBody(mw, name, body))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, nil, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	metrics.RecordTransfer(metrics.Upload, size)
	logrus.Debugf("uploaded %s (%d bytes) to %s", name, size, endpoint)
	return strings.TrimSpace(string(text)), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeUploadBody(mw *multipart.Writer, name string, body io.Reader) error {
	if err := mw.WriteField("FileName", name); err != nil {
		return fmt.Errorf("failed to write FileName field: %w", err)
	}

	contentType, err := utils.DetectContentType(name, nil)
	if err != nil {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="File"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	return mw.Close()
}
