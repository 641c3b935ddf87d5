// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/rtsfx/audio"
)

// CommandKind selects what a Command does to the engine state.
type CommandKind uint8

const (
	CmdAddSource CommandKind = iota
	CmdRemoveSource
	CmdSetSourceVolume
	CmdSetMasterVolume
	CmdStartSource
	CmdStopSource
	CmdPauseSource
	CmdResumeSource
)

var commandNames = [...]string{
	CmdAddSource:       "add_source",
	CmdRemoveSource:    "remove_source",
	CmdSetSourceVolume: "set_source_volume",
	CmdSetMasterVolume: "set_master_volume",
	CmdStartSource:     "start_source",
	CmdStopSource:      "stop_source",
	CmdPauseSource:     "pause_source",
	CmdResumeSource:    "resume_source",
}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", uint8(k))
}

// Command is a request from a control goroutine, applied by the render
// goroutine at the start of its next callback. Value carries the volume for
// the two volume commands and is ignored otherwise; Source is nil for
// CmdSetMasterVolume.
type Command struct {
	Kind   CommandKind
	Source audio.Source
	Value  float32
}
