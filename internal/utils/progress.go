package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ProgressReader wraps an io.Reader and prints transfer progress to stderr
type ProgressReader struct {
	reader      io.Reader
	total       int64
	read        int64
	description string
	startTime   time.Time
	lastPrint   time.Time
	finished    bool
	lastLineLen int
}

// NewProgressReader creates a new progress reader. total <= 0 hides the bar.
func NewProgressReader(reader io.Reader, total int64, description string) *ProgressReader {
	return &ProgressReader{
		reader:      reader,
		total:       total,
		description: description,
		startTime:   time.Now(),
		lastPrint:   time.Now(),
	}
}

// Read implements io.Reader interface and shows progress
func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)

	if n > 0 {
		pr.read += int64(n)
		now := time.Now()
		if now.Sub(pr.lastPrint) > 200*time.Millisecond || err != nil {
			pr.printProgress()
			pr.lastPrint = now
		}
	}

	if err == io.EOF && !pr.finished {
		pr.finished = true
		pr.printProgress()
		fmt.Fprintln(os.Stderr)
	}

	return n, err
}

// Callback returns a progress callback that redraws the same line, for
// transfers that report progress instead of being read through this reader.
func (pr *ProgressReader) Callback() func(done, total int64) {
	return func(done, total int64) {
		pr.read = done
		if total > 0 {
			pr.total = total
		}
		pr.printProgress()
	}
}

func (pr *ProgressReader) printProgress() {
	elapsed := time.Since(pr.startTime)
	var speed string
	if elapsed.Seconds() > 0.1 {
		bytesPerSec := float64(pr.read) / elapsed.Seconds()
		speed = fmt.Sprintf(" %s/s", humanize.IBytes(uint64(bytesPerSec)))
	}

	var line string
	if pr.total > 0 {
		percentage := float64(pr.read) / float64(pr.total) * 100
		barWidth := 40
		filled := int(percentage * float64(barWidth) / 100)
		if filled > barWidth {
			filled = barWidth
		}
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
		line = fmt.Sprintf("%s %s %.1f%% (%s/%s)%s",
			pr.description, bar, percentage,
			humanize.IBytes(uint64(pr.read)), humanize.IBytes(uint64(pr.total)), speed)
	} else {
		line = fmt.Sprintf("%s %s%s", pr.description, humanize.IBytes(uint64(pr.read)), speed)
	}

	if pr.lastLineLen > len(line) {
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", pr.lastLineLen))
	}
	fmt.Fprintf(os.Stderr, "\r%s", line)
	pr.lastLineLen = len(line)
}

// Close finishes the progress display
func (pr *ProgressReader) Close() error {
	if !pr.finished {
		pr.finished = true
		pr.printProgress()
		fmt.Fprintln(os.Stderr)
	}
	return nil
}
