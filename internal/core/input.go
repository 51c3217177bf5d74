package core

// Action is a platform-level intent, separate from the per-player key
// bindings a game resolves itself.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Menu navigation
	ActionDown           // Menu navigation
	ActionConfirm        // Enter in menus
	ActionBack           // B, Escape - back to menu
	ActionRestart        // R - new match after game over
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame is everything the platform collected for one simulation tick:
// the platform actions that fired and the raw key tokens pressed, in arrival
// order. Several players share one keyboard, so games map Keys to players
// through their own bindings.
type InputFrame struct {
	Actions map[Action]bool
	Keys    []string
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Press appends a raw key token.
func (f *InputFrame) Press(key string) {
	f.Keys = append(f.Keys, key)
}

// Clear resets the frame for the next tick, keeping its allocations.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Keys = f.Keys[:0]
}

// Clone creates a deep copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Keys = append([]string(nil), f.Keys...)
	return clone
}
