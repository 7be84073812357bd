package browser

import (
	"fmt"
	"strings"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
)

// Default transfer limits used when the server does not report its own
const (
	DefaultMaxFileUpload   int64 = 5 << 30
	DefaultMaxFileDownload int64 = 10 << 30
)

// Limits caps transfer sizes in bytes
type Limits struct {
	MaxFileUpload   int64
	MaxFileDownload int64
}

// AppContext is the signed-in user and server configuration, built once at
// startup and passed to everything that needs it
type AppContext struct {
	User         api.UserInfo
	Config       api.SysConfig
	Limits       Limits
	ExtTable     string
	ArchiveTable string
}

// NewAppContext merges the server configuration over fallback values.
// Positive server limits and non-empty server tables win.
func NewAppContext(user api.UserInfo, conf api.SysConfig, fallback Limits, extTable, archiveTable string) *AppContext {
	limits := Limits{MaxFileUpload: DefaultMaxFileUpload, MaxFileDownload: DefaultMaxFileDownload}
	if fallback.MaxFileUpload > 0 {
		limits.MaxFileUpload = fallback.MaxFileUpload
	}
	if fallback.MaxFileDownload > 0 {
		limits.MaxFileDownload = fallback.MaxFileDownload
	}
	if conf.MaxUploadSize > 0 {
		limits.MaxFileUpload = conf.MaxUploadSize
	}
	if conf.MaxDownloadSize > 0 {
		limits.MaxFileDownload = conf.MaxDownloadSize
	}
	if conf.ExtTable != "" {
		extTable = conf.ExtTable
	}
	if conf.ArchiveTable != "" {
		archiveTable = conf.ArchiveTable
	}

	return &AppContext{
		User:         user,
		Config:       conf,
		Limits:       limits,
		ExtTable:     extTable,
		ArchiveTable: archiveTable,
	}
}

// Level returns the permission level of the signed-in user
func (a *AppContext) Level() int {
	if a == nil {
		return api.LevelGuest
	}
	return a.User.Level()
}

// UploadPolicy decides which local files may be sent
type UploadPolicy struct {
	matcher glob.Glob
	table   string
	maxSize int64
}

// NewUploadPolicy compiles a comma-separated extension table such as
// ".zip,.tar" into a case-insensitive matcher. An empty table allows every name.
func NewUploadPolicy(table string, maxSize int64) (*UploadPolicy, error) {
	var exts []string
	for _, ext := range strings.Split(table, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, glob.QuoteMeta(ext))
	}

	p := &UploadPolicy{table: table, maxSize: maxSize}
	if len(exts) == 0 {
		return p, nil
	}

	g, err := glob.Compile("*{" + strings.Join(exts, ",") + "}")
	if err != nil {
		return nil, fmt.Errorf("invalid extension table %q: %w", table, err)
	}
	p.matcher = g
	return p, nil
}

// Policy returns the upload policy for folder (archive) or file mode
func (a *AppContext) Policy(intoFolder bool) (*UploadPolicy, error) {
	if intoFolder {
		return NewUploadPolicy(a.ArchiveTable, a.Limits.MaxFileUpload)
	}
	return NewUploadPolicy(a.ExtTable, a.Limits.MaxFileUpload)
}

// Check returns a ValidationError when name or size is not allowed
func (p *UploadPolicy) Check(name string, size int64) error {
	if p.matcher != nil && !p.matcher.Match(strings.ToLower(name)) {
		return &ValidationError{Field: "extension", Value: name, Reason: "file type is not allowed"}
	}
	if p.maxSize > 0 && size > p.maxSize {
		return &ValidationError{
			Field:  "size",
			Value:  name,
			Reason: fmt.Sprintf("file exceeds the upload limit of %s", humanize.IBytes(uint64(p.maxSize))),
		}
	}
	return nil
}
