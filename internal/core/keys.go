package core

// KeyMap binds key names, as Bubble Tea reports them ("up", "enter", " ",
// "x"), to actions.
type KeyMap map[string]Action

// CommonKeys are shared by every game.
var CommonKeys = KeyMap{
	"up":    ActionUp,
	"w":     ActionUp,
	"down":  ActionDown,
	"s":     ActionDown,
	"left":  ActionLeft,
	"a":     ActionLeft,
	"right": ActionRight,
	"d":     ActionRight,
	"p":     ActionPause,
	"r":     ActionRestart,
}

// With returns a copy of k with extra bindings layered on top.
func (k KeyMap) With(extra KeyMap) KeyMap {
	out := make(KeyMap, len(k)+len(extra))
	for key, a := range k {
		out[key] = a
	}
	for key, a := range extra {
		out[key] = a
	}
	return out
}

// Lookup returns the action bound to key, or ActionNone.
func (k KeyMap) Lookup(key string) Action {
	if a, ok := k[key]; ok {
		return a
	}
	return ActionNone
}

// browserKeys translates terminal key names to KeyboardEvent.key values.
var browserKeys = map[string]string{
	"up":    "ArrowUp",
	"down":  "ArrowDown",
	"left":  "ArrowLeft",
	"right": "ArrowRight",
	"enter": "Enter",
	"tab":   "Tab",
	"esc":   "Escape",
}

// Browser returns the bindings keyed by browser KeyboardEvent.key names,
// with actions as wire names.
func (k KeyMap) Browser() map[string]string {
	out := make(map[string]string, len(k))
	for key, a := range k {
		if b, ok := browserKeys[key]; ok {
			key = b
		}
		out[key] = a.String()
	}
	return out
}
