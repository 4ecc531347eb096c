// Package tetris implements Tetris on top of the grid simulator.
package tetris

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/grid-arcade/internal/config"
	"github.com/vovakirdan/grid-arcade/internal/core"
	"github.com/vovakirdan/grid-arcade/internal/games/board"
	"github.com/vovakirdan/grid-arcade/internal/gridsim"
	"github.com/vovakirdan/grid-arcade/internal/registry"
)

// Info is the menu and web card metadata.
var Info = registry.GameInfo{
	ID:          "tetris",
	Title:       "Tetris",
	Description: "Game, where you learn to pack your luggage.",
	Rating:      4.7,
	Keys: core.CommonKeys.With(core.KeyMap{
		" ": core.ActionDrop,
		"x": core.ActionRotate,
	}),
}

var _ registry.Simulated = (*Game)(nil)

func init() {
	registry.Register(Info, func(opts registry.Options) (registry.Game, error) {
		cfg, err := config.LoadTetris(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if opts.Difficulty != "" {
			config.ApplyTetrisPreset(&cfg, opts.Difficulty)
		}
		return New(WithConfig(cfg))
	})
}

// sidePanelW is the width of the score / next-piece panel.
const sidePanelW = 14

// pieceColors maps piece kinds to their display colors.
var pieceColors = map[gridsim.PieceKind]core.Color{
	gridsim.PieceNone: core.ColorGray,
	gridsim.PieceI:    core.ColorBrightCyan,
	gridsim.PieceO:    core.ColorBrightYellow,
	gridsim.PieceT:    core.ColorMagenta,
	gridsim.PieceS:    core.ColorBrightGreen,
	gridsim.PieceZ:    core.ColorBrightRed,
	gridsim.PieceJ:    core.ColorBlue,
	gridsim.PieceL:    core.ColorOrange,
}

// Option customises a Game at construction.
type Option func(*Game)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.TetrisConfig) Option {
	return func(g *Game) { g.cfg = cfg }
}

// Game implements Tetris.
type Game struct {
	cfg    config.TetrisConfig
	simCfg gridsim.Config

	sim     *gridsim.Simulator
	journal func(gridsim.Event)
	seed    int64
	rng     *rand.Rand
	tick    uint64

	fallTicker int

	gameOver bool
	paused   bool
	tooSmall bool

	screenW, screenH int
	layout           board.Layout
}

// New creates a Tetris game.
func New(opts ...Option) (*Game, error) {
	g := &Game{cfg: config.DefaultTetrisConfig()}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if g.cfg.Gravity.FramesPerTick < 1 {
		g.cfg.Gravity.FramesPerTick = 1
	}
	g.cfg.StartLevel = max(g.cfg.StartLevel, 1)
	g.simCfg = gridsim.Config{
		Ruleset: gridsim.RulesetTetris,
		Width:   g.cfg.Board.Width,
		Height:  g.cfg.Board.Height,
		Tetris: gridsim.TetrisConfig{
			Randomizer: gridsim.Randomizer(g.cfg.Randomizer),
			StartLevel: g.cfg.StartLevel,
		},
	}
	if err := g.simCfg.Validate(); err != nil {
		return nil, fmt.Errorf("tetris: %w", err)
	}
	return g, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return Info.ID }

// Title returns the display name.
func (g *Game) Title() string { return Info.Title }

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.seed = cfg.Seed
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	sim, err := gridsim.New(g.simCfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		panic(err)
	}
	sim.SetJournal(g.journal)
	g.sim = sim

	g.tick = 0
	g.fallTicker = 0
	g.gameOver = sim.IsTerminal()
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	l, ok := board.Fit(cfg.ScreenW, cfg.ScreenH, sim.Width(), sim.Height(), sidePanelW, true)
	g.layout, g.tooSmall = l, !ok
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 { return g.seed }

// SimConfig returns the simulator configuration.
func (g *Game) SimConfig() gridsim.Config { return g.simCfg }

// Resize re-fits the board to a new screen without restarting.
func (g *Game) Resize(screenW, screenH int) {
	g.screenW, g.screenH = screenW, screenH
	l, ok := board.Fit(screenW, screenH, g.sim.Width(), g.sim.Height(), sidePanelW, true)
	g.layout, g.tooSmall = l, !ok
}

// Digest returns the simulator state hash.
func (g *Game) Digest() uint64 { return g.sim.Digest() }

// SetJournal forwards simulator operations to fn, including after restarts.
func (g *Game) SetJournal(fn func(gridsim.Event)) {
	g.journal = fn
	if g.sim != nil {
		g.sim.SetJournal(fn)
	}
}

// Level returns the current level, counted from the configured start level.
func (g *Game) Level() int {
	return g.sim.Level()
}

// fallEvery returns the driver frames between gravity steps.
func (g *Game) fallEvery() int {
	return gridsim.FallIntervalAt(g.Level()) * g.cfg.Gravity.FramesPerTick
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) && g.gameOver {
		g.Reset(core.RuntimeConfig{
			Seed:    g.rng.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Manual moves are validated by the simulator; blocked ones are ignored.
	if input.Has(core.ActionLeft) {
		_ = g.sim.MoveHorizontal(-1)
	}
	if input.Has(core.ActionRight) {
		_ = g.sim.MoveHorizontal(1)
	}
	if input.Has(core.ActionRotate) || input.Has(core.ActionUp) {
		_ = g.sim.Rotate()
	}
	if input.Has(core.ActionDown) {
		_ = g.sim.SoftDrop()
	}

	var out gridsim.Outcome
	switch {
	case input.Has(core.ActionDrop):
		out, _ = g.sim.HardDrop()
		g.fallTicker = 0
	default:
		g.fallTicker++
		if g.fallTicker >= g.fallEvery() {
			g.fallTicker = 0
			out = g.sim.Tick(gridsim.Input{})
		}
	}
	if out.GameOver {
		g.gameOver = true
	}

	return core.StepResult{State: g.State()}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	board.HUD(dst, fmt.Sprintf(" Tetris — Score: %d  Lines: %d  Level: %d",
		g.sim.Score(), g.sim.Lines(), g.Level()))

	if g.tooSmall {
		needW, needH := board.MinSize(g.sim.Width(), g.sim.Height(), sidePanelW, true)
		board.TooSmall(dst, needW, needH)
		return
	}

	l := g.layout
	l.Frame(dst, core.ColorGray)
	for y := 0; y < g.sim.Height(); y++ {
		for x := 0; x < g.sim.Width(); x++ {
			c := g.sim.Cell(x, y)
			if c.Kind == gridsim.KindOccupied {
				l.Cell(dst, x, y, '█', pieceColors[gridsim.PieceKind(c.Payload)])
			} else {
				l.Cell(dst, x, y, ' ', core.ColorDefault)
			}
		}
	}
	if !g.gameOver {
		for _, c := range g.sim.GhostCells() {
			l.Cell(dst, c.X, c.Y, '░', core.ColorGray)
		}
		cur, _ := g.sim.Current()
		for _, c := range g.sim.CurrentCells() {
			l.Cell(dst, c.X, c.Y, '█', pieceColors[cur.Kind])
		}
	}

	g.renderPanel(dst, l.Right()+2, l.Y)

	switch {
	case g.gameOver:
		board.Overlay(dst, "Game Over", fmt.Sprintf("Score: %d  Press R to restart", g.sim.Score()))
	case g.paused:
		board.Overlay(dst, "Paused", "Press P to continue")
	}
}

// renderPanel draws the stats and next-piece preview beside the board.
func (g *Game) renderPanel(dst *core.Screen, x, y int) {
	dst.DrawText(x, y, fmt.Sprintf("Score %d", g.sim.Score()))
	dst.DrawText(x, y+1, fmt.Sprintf("Lines %d", g.sim.Lines()))
	dst.DrawText(x, y+2, fmt.Sprintf("Level %d", g.Level()))
	dst.DrawText(x, y+4, "Next:")

	next := gridsim.Piece{Kind: g.sim.Next()}
	for _, off := range next.Shape() {
		dst.SetColored(x+off.X*2, y+5+off.Y, '█', pieceColors[next.Kind])
		dst.SetColored(x+off.X*2+1, y+5+off.Y, '█', pieceColors[next.Kind])
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.sim == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.sim.Score(),
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}
