package snake

import "github.com/vovakirdan/grid-arcade/internal/gridsim"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateWin         GameStateType = "win"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick           uint64
	Score          int
	SnakeLen       int
	Head           gridsim.Coord
	Dir            gridsim.Dir
	Item           gridsim.Coord
	HasItem        bool
	MoveEveryTicks int
	State          GameStateType
	Digest         uint64
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	body := g.sim.Body()
	item, hasItem := g.sim.Item()
	return Snapshot{
		Tick:           g.tick,
		Score:          g.sim.Score(),
		SnakeLen:       len(body),
		Head:           body[0],
		Dir:            g.sim.Direction(),
		Item:           item,
		HasItem:        hasItem,
		MoveEveryTicks: g.moveEveryTicks,
		State:          state,
		Digest:         g.sim.Digest(),
	}
}
