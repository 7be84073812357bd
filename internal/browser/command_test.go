package browser

import (
	"testing"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/stretchr/testify/assert"
)

func TestCommandTable_CoversEveryCommand(t *testing.T) {
	seen := map[string]bool{}
	for _, cmd := range Commands() {
		info := commandTable[cmd]
		assert.NotEmpty(t, info.name, "command %d has no name", int(cmd))
		assert.NotEmpty(t, info.label, "%s has no label", cmd)
		assert.NotNil(t, info.rule, "%s has no gate rule", cmd)
		assert.NotNil(t, handlers[cmd].run, "%s has no handler", cmd)
		assert.GreaterOrEqual(t, info.level, api.LevelGuest)
		assert.False(t, seen[info.name], "duplicate command name %s", info.name)
		seen[info.name] = true

		parsed, ok := ParseCommand(info.name)
		assert.True(t, ok)
		assert.Equal(t, cmd, parsed)
	}
	assert.Len(t, Commands(), int(commandCount))
}

func TestCommandLevels(t *testing.T) {
	levels := map[Command]int{
		CmdRefresh: 1, CmdGoUp: 1, CmdSearch: 1, CmdLocate: 1,
		CmdPreview: 2, CmdDownload: 2,
		CmdRename: 3, CmdNewFolder: 3, CmdDelete: 3, CmdUpload: 3,
	}
	for cmd, want := range levels {
		assert.Equal(t, want, cmd.Level(), cmd.String())
	}
}

func TestStatus(t *testing.T) {
	none := NewGateInput("", false, api.LevelSystemAdmin)
	file := NewGateInput("/docs/a.png", false, api.LevelSystemAdmin)
	search := NewGateInput("/docs/a.png", true, api.LevelSystemAdmin)
	searchNone := NewGateInput("", true, api.LevelSystemAdmin)

	assert.Equal(t, StatusEnabled, Status(CmdRefresh, none))
	assert.Equal(t, StatusEnabled, Status(CmdSearch, search))

	assert.Equal(t, StatusDisabled, Status(CmdRename, none))
	assert.Equal(t, StatusEnabled, Status(CmdRename, file))
	assert.Equal(t, StatusDisabled, Status(CmdRename, search))

	assert.Equal(t, StatusDisabled, Status(CmdDelete, none))
	assert.Equal(t, StatusEnabled, Status(CmdDelete, search))
	assert.Equal(t, StatusDisabled, Status(CmdDownload, none))

	assert.Equal(t, StatusEnabled, Status(CmdNewFolder, none))
	assert.Equal(t, StatusDisabled, Status(CmdUpload, search))
	assert.Equal(t, StatusDisabled, Status(CmdGoUp, searchNone))

	assert.Equal(t, StatusHidden, Status(CmdLocate, file))
	assert.Equal(t, StatusDisabled, Status(CmdLocate, searchNone))
	assert.Equal(t, StatusEnabled, Status(CmdLocate, search))
}

func TestStatus_PreviewDependsOnClass(t *testing.T) {
	assert.Equal(t, StatusDisabled, Status(CmdPreview, NewGateInput("/x/data.xyz", false, 4)))
	assert.Equal(t, StatusEnabled, Status(CmdPreview, NewGateInput("/x/photo.png", false, 4)))
	assert.Equal(t, StatusDisabled, Status(CmdPreview, NewGateInput("", false, 4)))
}

func TestVisible_RenameNeedsSelectionAtEveryLevel(t *testing.T) {
	for level := api.LevelGuest; level <= api.LevelSystemAdmin; level++ {
		assert.False(t, Visible(CmdRename, NewGateInput("", false, level)), "level %d", level)
	}
	assert.False(t, Visible(CmdRename, NewGateInput("/a.txt", false, api.LevelUser)))
	assert.True(t, Visible(CmdRename, NewGateInput("/a.txt", false, api.LevelConfigAdmin)))
}
