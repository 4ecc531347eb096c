package core

import "fmt"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // W, Up arrow
	ActionDown               // S, Down arrow - soft drop in Tetris
	ActionLeft               // A, Left arrow
	ActionRight              // D, Right arrow
	ActionRotate             // X, Up arrow in Tetris
	ActionDrop               // Space - hard drop in Tetris
	ActionToggle             // Space - flip the Life cell under the cursor
	ActionRun                // Enter - start/stop Life auto-stepping
	ActionStep               // N - single Life generation while stopped
	ActionClear              // C - empty the Life board
	ActionNextPattern        // Tab - load the next configured Life pattern
	ActionConfirm            // Enter - confirm selection in menu
	ActionBack               // B, Escape - go back to menu
	ActionRestart            // R key - restart game after game over
	ActionQuit               // Q, Ctrl+C - exit game/session
	ActionPause              // P - pause/unpause game
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionUp:          "up",
	ActionDown:        "down",
	ActionLeft:        "left",
	ActionRight:       "right",
	ActionRotate:      "rotate",
	ActionDrop:        "drop",
	ActionToggle:      "toggle",
	ActionRun:         "run",
	ActionStep:        "step",
	ActionClear:       "clear",
	ActionNextPattern: "pattern",
	ActionConfirm:     "confirm",
	ActionBack:        "back",
	ActionRestart:     "restart",
	ActionQuit:        "quit",
	ActionPause:       "pause",
}

// String returns the lower-case wire name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction maps a wire name back to an action. Used by the web client protocol.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, true
		}
	}
	return ActionNone, false
}

// MarshalText encodes the action by its wire name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a wire name.
func (a *Action) UnmarshalText(b []byte) error {
	act, ok := ParseAction(string(b))
	if !ok {
		return fmt.Errorf("core: unknown action %q", b)
	}
	*a = act
	return nil
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
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

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return true
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
