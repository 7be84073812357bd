package messaging

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/HaiFongPan/fsb-cli/internal/browser"
)

func TestStatusManager_Notify(t *testing.T) {
	sm := NewStatusManager()
	changed := 0
	sm.OnChange(func() { changed++ })

	var n browser.Notifier = sm
	n.Notify(browser.LevelWarning, "a.exe: extension not allowed")

	msg, typ, ok := sm.GetMessage()
	assert.True(t, ok)
	assert.Equal(t, "a.exe: extension not allowed", msg)
	assert.Equal(t, MessageWarning, typ)
	assert.Equal(t, 1, changed)
	assert.Contains(t, sm.RenderMessage(), "a.exe")
}

func TestStatusManager_ClearAndExpire(t *testing.T) {
	sm := NewStatusManager()
	assert.Empty(t, sm.RenderMessage())

	sm.SetMessage("done", MessageSuccess)
	assert.False(t, sm.Expire(time.Now()))
	assert.True(t, sm.Expire(time.Now().Add(DefaultTTL)))
	assert.False(t, sm.HasMessage())

	sm.SetMessage("again", MessageInfo)
	sm.ClearMessage()
	assert.False(t, sm.HasMessage())
}

func TestStatusManager_ConcurrentNotify(t *testing.T) {
	sm := NewStatusManager()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sm.Notify(browser.LevelSuccess, "x uploaded")
		}()
	}
	wg.Wait()
	assert.True(t, sm.HasMessage())
}
