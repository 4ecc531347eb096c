package life

import "github.com/vovakirdan/grid-arcade/internal/gridsim"

// GameStateType represents the current game state.
type GameStateType string

const (
	StateEditing     GameStateType = "editing"
	StateRunning     GameStateType = "running"
	StatePaused      GameStateType = "paused"
	StateStable      GameStateType = "stable"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Generation uint64
	Population int
	Cursor     gridsim.Coord
	Pattern    string
	State      GameStateType
	Digest     uint64
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StateEditing
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.sim.IsTerminal():
		state = StateStable
	case g.paused:
		state = StatePaused
	case g.sim.Running():
		state = StateRunning
	}
	return Snapshot{
		Tick:       g.tick,
		Generation: g.sim.Ticks(),
		Population: g.sim.Population(),
		Cursor:     g.cursor,
		Pattern:    g.PatternName(),
		State:      state,
		Digest:     g.sim.Digest(),
	}
}
