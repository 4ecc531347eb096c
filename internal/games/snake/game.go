// Package snake implements Snake on top of the grid simulator.
package snake

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
	ID:          "snake",
	Title:       "Snake",
	Description: "Snake arcade: collect apples, and don't bump into anything.",
	Rating:      4.2,
	Keys:        core.CommonKeys,
}

var _ registry.Simulated = (*Game)(nil)

func init() {
	registry.Register(Info, func(opts registry.Options) (registry.Game, error) {
		cfg, err := config.LoadSnake(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if opts.Difficulty != "" {
			config.ApplySnakePreset(&cfg, opts.Difficulty)
		}
		return New(WithConfig(cfg))
	})
}

// Option customises a Game at construction.
type Option func(*Game)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.SnakeConfig) Option {
	return func(g *Game) { g.cfg = cfg }
}

// Game implements the Snake game.
type Game struct {
	cfg    config.SnakeConfig
	diff   *config.DifficultyManager
	simCfg gridsim.Config

	sim     *gridsim.Simulator
	journal func(gridsim.Event)
	seed    int64
	rng     *rand.Rand // restart seeds only; the simulator owns its own source
	tick    uint64

	moveEveryTicks int
	moveTicker     int

	gameOver bool
	won      bool
	paused   bool
	tooSmall bool

	screenW, screenH int
	layout           board.Layout
}

// New creates a Snake game. The board is validated here so Reset cannot fail.
func New(opts ...Option) (*Game, error) {
	g := &Game{cfg: config.DefaultSnakeConfig()}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	g.simCfg = simConfig(g.cfg)
	if err := g.simCfg.Validate(); err != nil {
		return nil, fmt.Errorf("snake: %w", err)
	}
	g.diff = config.NewDifficultyManager(g.cfg.Difficulty)
	return g, nil
}

// simConfig maps the YAML board onto a simulator config. In a layout '#' is
// a wall and 'S' is the head of a three-segment snake facing right.
func simConfig(cfg config.SnakeConfig) gridsim.Config {
	sc := gridsim.Config{
		Ruleset: gridsim.RulesetSnake,
		Width:   cfg.Board.Width,
		Height:  cfg.Board.Height,
		Walled:  cfg.Board.Walled,
	}
	if len(cfg.Layout) == 0 {
		return sc
	}
	sc.Width, sc.Height, sc.Walled = len(cfg.Layout[0]), len(cfg.Layout), false
	for y, row := range cfg.Layout {
		for x, ch := range row {
			switch ch {
			case '#':
				sc.Walls = append(sc.Walls, gridsim.C(x, y))
			case 'S':
				sc.Snake.Body = []gridsim.Coord{gridsim.C(x, y), gridsim.C(x-1, y), gridsim.C(x-2, y)}
			}
		}
	}
	return sc
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
		// simCfg was validated in New.
		panic(err)
	}
	sim.SetJournal(g.journal)
	g.sim = sim

	g.tick = 0
	g.moveTicker = 0
	g.moveEveryTicks = g.diff.Interval(g.cfg.Speed.MoveEveryTicks, g.cfg.Speed.MinEveryTicks, 0, 0)
	g.gameOver = sim.IsTerminal()
	g.won = false
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	l, ok := board.Fit(cfg.ScreenW, cfg.ScreenH, sim.Width(), sim.Height(), 0, false)
	g.layout, g.tooSmall = l, !ok
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 { return g.seed }

// SimConfig returns the simulator configuration.
func (g *Game) SimConfig() gridsim.Config { return g.simCfg }

// Resize re-fits the board to a new screen without restarting.
func (g *Game) Resize(screenW, screenH int) {
	g.screenW, g.screenH = screenW, screenH
	l, ok := board.Fit(screenW, screenH, g.sim.Width(), g.sim.Height(), 0, false)
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

func (g *Game) over() bool { return g.gameOver || g.won }

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) && g.over() {
		g.Reset(core.RuntimeConfig{
			Seed:    g.rng.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.over() {
		g.paused = !g.paused
	}
	if g.over() || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.processInput(input)

	g.moveTicker++
	if g.moveTicker >= g.moveEveryTicks {
		g.moveTicker = 0
		g.move()
	}

	return core.StepResult{State: g.State()}
}

// processInput queues a direction change. The simulator ignores reversals.
func (g *Game) processInput(input core.InputFrame) {
	var dir gridsim.Dir
	switch {
	case input.Has(core.ActionUp):
		dir = gridsim.DirUp
	case input.Has(core.ActionDown):
		dir = gridsim.DirDown
	case input.Has(core.ActionLeft):
		dir = gridsim.DirLeft
	case input.Has(core.ActionRight):
		dir = gridsim.DirRight
	default:
		return
	}
	_ = g.sim.ChangeDirection(dir)
}

func (g *Game) move() {
	out := g.sim.Tick(gridsim.Input{})
	if out.ItemConsumed {
		g.moveEveryTicks = g.diff.Interval(g.cfg.Speed.MoveEveryTicks, g.cfg.Speed.MinEveryTicks, g.sim.Score(), g.tick)
	}
	if out.GameOver {
		// Without a collision the board is full.
		g.gameOver = out.Collided
		g.won = !out.Collided
		return
	}
	if n := g.cfg.Scoring.WinLength; n > 0 && len(g.sim.Body()) >= n {
		g.won = true
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	board.HUD(dst, fmt.Sprintf(" Snake — Score: %d  Length: %d  Speed: %d",
		g.sim.Score(), len(g.sim.Body()), g.cfg.Speed.MoveEveryTicks-g.moveEveryTicks+1))

	if g.tooSmall {
		needW, needH := board.MinSize(g.sim.Width(), g.sim.Height(), 0, false)
		board.TooSmall(dst, needW, needH)
		return
	}

	l := g.layout
	for y := 0; y < g.sim.Height(); y++ {
		for x := 0; x < g.sim.Width(); x++ {
			c := g.sim.Cell(x, y)
			switch {
			case c.Kind == gridsim.KindWall:
				l.Cell(dst, x, y, '█', core.ColorGray)
			case c.Kind == gridsim.KindOccupied && c.Payload == gridsim.PayloadHead:
				l.Cell(dst, x, y, '@', core.ColorBrightGreen)
			case c.Kind == gridsim.KindOccupied:
				l.Cell(dst, x, y, 'o', core.ColorGreen)
			default:
				l.Cell(dst, x, y, '·', core.ColorGray)
			}
		}
	}
	if item, ok := g.sim.Item(); ok {
		l.Cell(dst, item.X, item.Y, '*', core.ColorBrightRed)
	}

	switch {
	case g.won:
		board.Overlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", g.sim.Score()))
	case g.gameOver:
		board.Overlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		board.Overlay(dst, "Paused", "Press P to continue")
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.sim == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.sim.Score(),
		GameOver: g.over(),
		Paused:   g.paused,
	}
}
