package table

import (
	"strconv"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// Column describes how one field of T is shown and sorted
type Column[T any] struct {
	Key   string
	Title string
	Width int
	Value func(T) string
	Less  func(a, b T) bool
}

// Cells renders row as one string per column
func Cells[T any](cols []Column[T], row T) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Value(row)
	}
	return out
}

func pathValue(isDir bool, p string, size int64) string {
	if size < 0 {
		return p + " (deleted)"
	}
	if isDir {
		return p + "/"
	}
	return p
}

// UserColumns are the columns of the users table
func UserColumns() []Column[api.UserRecord] {
	return []Column[api.UserRecord]{
		{Key: "uid", Title: "UID", Width: 6,
			Value: func(u api.UserRecord) string { return strconv.FormatInt(u.Uid, 10) },
			Less:  func(a, b api.UserRecord) bool { return a.Uid < b.Uid }},
		{Key: "name", Title: "NAME", Width: 14,
			Value: func(u api.UserRecord) string { return u.Name },
			Less:  func(a, b api.UserRecord) bool { return a.Name < b.Name }},
		{Key: "realname", Title: "REAL NAME", Width: 12,
			Value: func(u api.UserRecord) string { return u.RealName },
			Less:  func(a, b api.UserRecord) bool { return a.RealName < b.RealName }},
		{Key: "department", Title: "DEPARTMENT", Width: 14,
			Value: func(u api.UserRecord) string { return u.Department },
			Less:  func(a, b api.UserRecord) bool { return a.Department < b.Department }},
		{Key: "class", Title: "CLASS", Width: 10,
			Value: func(u api.UserRecord) string { return u.Class },
			Less:  func(a, b api.UserRecord) bool { return api.ClassLevel(a.Class) < api.ClassLevel(b.Class) }},
		{Key: "lastip", Title: "LAST IP", Width: 15,
			Value: func(u api.UserRecord) string { return utils.FormatIP(u.LastIp) },
			Less:  func(a, b api.UserRecord) bool { return a.LastIp < b.LastIp }},
		{Key: "lastlogin", Title: "LAST LOGIN", Width: 19,
			Value: func(u api.UserRecord) string { return utils.FormatUnix(u.LastLoginTime) },
			Less:  func(a, b api.UserRecord) bool { return a.LastLoginTime < b.LastLoginTime }},
		{Key: "registered", Title: "REGISTERED", Width: 19,
			Value: func(u api.UserRecord) string { return utils.FormatUnix(u.RegTime) },
			Less:  func(a, b api.UserRecord) bool { return a.RegTime < b.RegTime }},
	}
}

// CountColumns are the columns of the download counter table
func CountColumns() []Column[api.CountRecord] {
	return []Column[api.CountRecord]{
		{Key: "path", Title: "PATH", Width: 40,
			Value: func(c api.CountRecord) string { return pathValue(c.IsDir, c.Path, c.FileSize) },
			Less:  func(a, b api.CountRecord) bool { return a.Path < b.Path }},
		{Key: "size", Title: "SIZE", Width: 10,
			Value: func(c api.CountRecord) string { return utils.FormatFileSize(c.FileSize) },
			Less:  func(a, b api.CountRecord) bool { return a.FileSize < b.FileSize }},
		{Key: "count", Title: "DOWNLOADS", Width: 10,
			Value: func(c api.CountRecord) string { return strconv.Itoa(c.Cnt) },
			Less:  func(a, b api.CountRecord) bool { return a.Cnt < b.Cnt }},
		{Key: "time", Title: "LAST", Width: 19,
			Value: func(c api.CountRecord) string { return utils.FormatUnix(c.Time) },
			Less:  func(a, b api.CountRecord) bool { return a.Time < b.Time }},
	}
}

// DownloadColumns are the columns of the download record table
func DownloadColumns() []Column[api.DownloadRecord] {
	return []Column[api.DownloadRecord]{
		{Key: "path", Title: "PATH", Width: 36,
			Value: func(d api.DownloadRecord) string { return pathValue(d.IsDir, d.Path, d.FileSize) },
			Less:  func(a, b api.DownloadRecord) bool { return a.Path < b.Path }},
		{Key: "size", Title: "SIZE", Width: 10,
			Value: func(d api.DownloadRecord) string { return utils.FormatFileSize(d.FileSize) },
			Less:  func(a, b api.DownloadRecord) bool { return a.FileSize < b.FileSize }},
		{Key: "realname", Title: "USER", Width: 12,
			Value: func(d api.DownloadRecord) string { return d.RealName },
			Less:  func(a, b api.DownloadRecord) bool { return a.RealName < b.RealName }},
		{Key: "department", Title: "DEPARTMENT", Width: 14,
			Value: func(d api.DownloadRecord) string { return d.Department },
			Less:  func(a, b api.DownloadRecord) bool { return a.Department < b.Department }},
		{Key: "ip", Title: "IP", Width: 15,
			Value: func(d api.DownloadRecord) string { return utils.FormatIP(d.Ip) },
			Less:  func(a, b api.DownloadRecord) bool { return a.Ip < b.Ip }},
		{Key: "time", Title: "TIME", Width: 19,
			Value: func(d api.DownloadRecord) string { return utils.FormatUnix(d.Time) },
			Less:  func(a, b api.DownloadRecord) bool { return a.Time < b.Time }},
	}
}

// ColumnByKey finds a column by its key
func ColumnByKey[T any](cols []Column[T], key string) (Column[T], bool) {
	for _, c := range cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}
