package utils

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatFileSize renders a byte count; negative sizes (unknown) render empty
func FormatFileSize(size int64) string {
	if size < 0 {
		return ""
	}
	return humanize.IBytes(uint64(size))
}

// FormatIP renders an IPv4 address stored as an integer, high byte first
func FormatIP(ip int64) string {
	if ip == 0 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d.%d", (ip>>24)&0xff, (ip>>16)&0xff, (ip>>8)&0xff, ip&0xff)
}

// FormatUnix renders unix seconds as local time, zero renders empty
func FormatUnix(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}

// FormatAge renders unix seconds relative to now ("3 hours ago")
func FormatAge(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return humanize.Time(time.Unix(ts, 0))
}

// Truncate shortens s to at most n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
