package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/browser"
	"github.com/HaiFongPan/fsb-cli/internal/tui/theme"
)

// MessageType is the severity of a status message
type MessageType = browser.Level

// Message type constants
const (
	MessageInfo    = browser.LevelInfo
	MessageSuccess = browser.LevelSuccess
	MessageWarning = browser.LevelWarning
	MessageError   = browser.LevelError
)

// DefaultTTL is how long a message stays visible
const DefaultTTL = 5 * time.Second

// StatusManager manages status messages and their display
type StatusManager interface {
	browser.Notifier
	SetMessage(message string, msgType MessageType)
	ClearMessage()
	GetMessage() (string, MessageType, bool)
	RenderMessage() string
	HasMessage() bool
	Expire(now time.Time) bool
}

// StatusManagerImpl implements StatusManager. Notify may be called from
// any goroutine; the onChange hook lets the UI repaint.
type StatusManagerImpl struct {
	mu            sync.Mutex
	statusMessage string
	messageType   MessageType
	messageTimer  time.Time
	ttl           time.Duration
	onChange      func()
}

// NewStatusManager creates a new status manager instance
func NewStatusManager() *StatusManagerImpl {
	return &StatusManagerImpl{messageType: MessageInfo, ttl: DefaultTTL}
}

// OnChange registers a hook called after every message change
func (sm *StatusManagerImpl) OnChange(fn func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onChange = fn
}

// Notify implements browser.Notifier
func (sm *StatusManagerImpl) Notify(level browser.Level, text string) {
	sm.SetMessage(text, level)
}

// SetMessage sets a status message with type
func (sm *StatusManagerImpl) SetMessage(message string, msgType MessageType) {
	sm.mu.Lock()
	sm.statusMessage = message
	sm.messageType = msgType
	sm.messageTimer = time.Now()
	hook := sm.onChange
	sm.mu.Unlock()

	logrus.Debugf("StatusManager: message=%q type=%s", message, msgType)
	if hook != nil {
		hook()
	}
}

// ClearMessage clears the status message
func (sm *StatusManagerImpl) ClearMessage() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.statusMessage = ""
}

// Expire clears the message once it is older than the TTL and reports
// whether anything changed
func (sm *StatusManagerImpl) Expire(now time.Time) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.statusMessage == "" || now.Sub(sm.messageTimer) < sm.ttl {
		return false
	}
	sm.statusMessage = ""
	return true
}

// GetMessage returns the current message, type, and whether a message exists
func (sm *StatusManagerImpl) GetMessage() (string, MessageType, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.statusMessage, sm.messageType, sm.statusMessage != ""
}

// HasMessage returns whether there is currently a status message
func (sm *StatusManagerImpl) HasMessage() bool {
	_, _, ok := sm.GetMessage()
	return ok
}

// RenderMessage renders the current status message with appropriate styling
func (sm *StatusManagerImpl) RenderMessage() string {
	msg, typ, ok := sm.GetMessage()
	if !ok {
		return ""
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.MessageColor(typ))).
		Bold(true)

	return messageStyle.Render(fmt.Sprintf("%s %s", theme.MessageIcon(typ), msg))
}
