package browser

import (
	"fmt"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

// Command is one user action of the directory browser
type Command int

const (
	CmdRefresh Command = iota
	CmdGoUp
	CmdPreview
	CmdRename
	CmdNewFolder
	CmdDelete
	CmdUpload
	CmdDownload
	CmdSearch
	CmdLocate
	commandCount
)

// CommandStatus is the gate decision for a command
type CommandStatus int

const (
	StatusHidden CommandStatus = iota
	StatusDisabled
	StatusEnabled
)

func (s CommandStatus) String() string {
	switch s {
	case StatusHidden:
		return "hidden"
	case StatusDisabled:
		return "disabled"
	case StatusEnabled:
		return "enabled"
	default:
		return fmt.Sprintf("CommandStatus(%d)", int(s))
	}
}

// GateInput is the state a gate rule looks at
type GateInput struct {
	SelectedKey string
	SearchMode  bool
	Level       int
	Class       utils.PreviewClass
}

// NewGateInput fills Class from the selected key
func NewGateInput(selectedKey string, searchMode bool, level int) GateInput {
	return GateInput{
		SelectedKey: selectedKey,
		SearchMode:  searchMode,
		Level:       level,
		Class:       utils.PreviewClassOf(selectedKey),
	}
}

type commandInfo struct {
	name  string
	label string
	level int
	rule  func(GateInput) CommandStatus
}

func always(GateInput) CommandStatus { return StatusEnabled }

func needSelection(in GateInput) CommandStatus {
	if in.SelectedKey == "" {
		return StatusDisabled
	}
	return StatusEnabled
}

func notInSearch(in GateInput) CommandStatus {
	if in.SearchMode {
		return StatusDisabled
	}
	return StatusEnabled
}

var commandTable = [commandCount]commandInfo{
	CmdRefresh: {name: "refresh", label: "Refresh", level: api.LevelGuest, rule: always},
	CmdGoUp:    {name: "goup", label: "Go up", level: api.LevelGuest, rule: notInSearch},
	CmdPreview: {name: "preview", label: "Preview", level: api.LevelUser, rule: func(in GateInput) CommandStatus {
		if in.SelectedKey == "" || in.Class == utils.PreviewUnknown {
			return StatusDisabled
		}
		return StatusEnabled
	}},
	CmdRename: {name: "rename", label: "Rename", level: api.LevelConfigAdmin, rule: func(in GateInput) CommandStatus {
		if in.SelectedKey == "" || in.SearchMode {
			return StatusDisabled
		}
		return StatusEnabled
	}},
	CmdNewFolder: {name: "newfolder", label: "New folder", level: api.LevelConfigAdmin, rule: notInSearch},
	CmdDelete:    {name: "delete", label: "Delete", level: api.LevelConfigAdmin, rule: needSelection},
	CmdUpload:    {name: "upload", label: "Upload", level: api.LevelConfigAdmin, rule: notInSearch},
	CmdDownload:  {name: "download", label: "Download", level: api.LevelUser, rule: needSelection},
	CmdSearch:    {name: "search", label: "Search", level: api.LevelGuest, rule: always},
	CmdLocate: {name: "locate", label: "Open folder", level: api.LevelGuest, rule: func(in GateInput) CommandStatus {
		if !in.SearchMode {
			return StatusHidden
		}
		return needSelection(in)
	}},
}

// Commands returns every command in declaration order
func Commands() []Command {
	cmds := make([]Command, 0, commandCount)
	for c := Command(0); c < commandCount; c++ {
		cmds = append(cmds, c)
	}
	return cmds
}

// Valid reports whether c is a member of the enumeration
func (c Command) Valid() bool {
	return c >= 0 && c < commandCount
}

func (c Command) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandTable[c].name
}

// Label is the menu text of the command
func (c Command) Label() string {
	if !c.Valid() {
		return c.String()
	}
	return commandTable[c].label
}

// Level is the minimum permission level needed to run the command
func (c Command) Level() int {
	if !c.Valid() {
		return api.LevelSystemAdmin + 1
	}
	return commandTable[c].level
}

// ParseCommand maps a command name back to its value
func ParseCommand(name string) (Command, bool) {
	for c := Command(0); c < commandCount; c++ {
		if commandTable[c].name == name {
			return c, true
		}
	}
	return 0, false
}

// Status evaluates the gate rule of cmd
func Status(cmd Command, in GateInput) CommandStatus {
	if !cmd.Valid() {
		return StatusHidden
	}
	return commandTable[cmd].rule(in)
}

// Visible reports whether cmd belongs in the menu for in
func Visible(cmd Command, in GateInput) bool {
	return cmd.Level() <= in.Level && Status(cmd, in) == StatusEnabled
}
