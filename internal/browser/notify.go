package browser

// Level is the severity of a user-facing notification
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows transient messages to the user
type Notifier interface {
	Notify(level Level, text string)
}

// NotifyFunc adapts a function to Notifier
type NotifyFunc func(level Level, text string)

// Notify calls f
func (f NotifyFunc) Notify(level Level, text string) { f(level, text) }

type discardNotifier struct{}

func (discardNotifier) Notify(Level, string) {}

// NavState is the navigation state published after each applied refresh
type NavState struct {
	Path   string
	Search bool
	Expr   string
}

// Navigator receives navigation states, e.g. a history stack
type Navigator interface {
	Sync(NavState)
}

// Download is a transfer request handed to a DownloadSink
type Download struct {
	Endpoint string
	Name     string
	IsDir    bool
	Size     int64
}

// DownloadSink streams downloads to disk
type DownloadSink interface {
	Start(Download)
}
