package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bomb-arena/internal/core"
)

// KeyMapper translates Bubble Tea key messages to platform actions and raw
// key tokens. Reserved keys drive the platform; every other key is passed to
// the game untouched, since several players share one keyboard.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a reserved key to its action. ok is false for keys the
// platform does not handle.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, ok bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "b", "esc":
		return core.ActionBack, true
	case "p":
		return core.ActionPause, true
	case "r":
		return core.ActionRestart, true
	case "ctrl+s":
		// Screenshots are taken by the model, not the game.
		return core.ActionNone, true
	}
	return core.ActionNone, false
}

// MapKeyToFrame records a key in the input frame: reserved keys set their
// action, anything else is appended as a raw token.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, reserved := km.MapKey(msg)
	if !reserved {
		frame.Press(msg.String())
		return false
	}
	if action != core.ActionNone {
		frame.Set(action)
	}
	return action == core.ActionQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionHistory
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab", "h":
		return MenuActionHistory
	}
	return MenuActionNone
}
