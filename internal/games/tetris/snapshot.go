package tetris

import "github.com/vovakirdan/grid-arcade/internal/gridsim"

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick     uint64
	Score    int
	Lines    int
	Level    int
	Current  gridsim.Piece
	Next     gridsim.PieceKind
	GameOver bool
	Digest   uint64
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	cur, _ := g.sim.Current()
	return Snapshot{
		Tick:     g.tick,
		Score:    g.sim.Score(),
		Lines:    g.sim.Lines(),
		Level:    g.Level(),
		Current:  cur,
		Next:     g.sim.Next(),
		GameOver: g.gameOver,
		Digest:   g.sim.Digest(),
	}
}
