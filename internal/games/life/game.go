// Package life implements an editable Conway's Game of Life on top of the
// grid simulator.
package life

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
	ID:          "life",
	Title:       "Game of Life",
	Description: "Basic game of life with black and white squares.",
	Rating:      4.6,
	Keys: core.CommonKeys.With(core.KeyMap{
		" ":     core.ActionToggle,
		"enter": core.ActionRun,
		"n":     core.ActionStep,
		"c":     core.ActionClear,
		"tab":   core.ActionNextPattern,
	}),
}

var _ registry.Simulated = (*Game)(nil)

func init() {
	registry.Register(Info, func(opts registry.Options) (registry.Game, error) {
		cfg, err := config.LoadLife(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if opts.Difficulty != "" {
			config.ApplyLifePreset(&cfg, opts.Difficulty)
		}
		return New(WithConfig(cfg))
	})
}

// Option customises a Game at construction.
type Option func(*Game)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.LifeConfig) Option {
	return func(g *Game) { g.cfg = cfg }
}

// Game is the Life editor and runner.
type Game struct {
	cfg    config.LifeConfig
	simCfg gridsim.Config

	sim     *gridsim.Simulator
	journal func(gridsim.Event)
	seed    int64
	rng     *rand.Rand // restart seeds only
	tick    uint64

	stepTicker int
	cursor     gridsim.Coord
	pattern    int // index of the last loaded pattern, -1 for none

	paused   bool
	tooSmall bool

	screenW, screenH int
	layout           board.Layout
}

// New creates a Life game.
func New(opts ...Option) (*Game, error) {
	g := &Game{cfg: config.DefaultLifeConfig()}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	g.simCfg = gridsim.Config{
		Ruleset: gridsim.RulesetLife,
		Width:   g.cfg.Board.Width,
		Height:  g.cfg.Board.Height,
		Life:    gridsim.LifeConfig{HaltOnStable: g.cfg.HaltOnStable},
	}
	if err := g.simCfg.Validate(); err != nil {
		return nil, fmt.Errorf("life: %w", err)
	}
	return g, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return Info.ID }

// Title returns the display name.
func (g *Game) Title() string { return Info.Title }

// Reset clears the board and stops the simulation.
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
	g.stepTicker = 0
	g.cursor = gridsim.C(sim.Width()/2, sim.Height()/2)
	g.pattern = -1
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	l, ok := board.Fit(cfg.ScreenW, cfg.ScreenH, sim.Width(), sim.Height(), 0, true)
	g.layout, g.tooSmall = l, !ok
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 { return g.seed }

// SimConfig returns the simulator configuration.
func (g *Game) SimConfig() gridsim.Config { return g.simCfg }

// Resize re-fits the board to a new screen without restarting.
func (g *Game) Resize(screenW, screenH int) {
	g.screenW, g.screenH = screenW, screenH
	l, ok := board.Fit(screenW, screenH, g.sim.Width(), g.sim.Height(), 0, true)
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

// Cursor returns the edit cursor position.
func (g *Game) Cursor() gridsim.Coord { return g.cursor }

// Step handles one frame of editing or running.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) {
		g.clearBoard()
		return core.StepResult{State: g.State()}
	}
	if input.Has(core.ActionPause) && !g.sim.IsTerminal() {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall || g.sim.IsTerminal() {
		return core.StepResult{State: g.State()}
	}

	g.moveCursor(input)

	switch {
	case input.Has(core.ActionRun):
		_ = g.sim.SetRunning(!g.sim.Running())
		g.stepTicker = 0
	case input.Has(core.ActionToggle):
		// Toggle is rejected by the simulator while running.
		_ = g.sim.Toggle(g.cursor.X, g.cursor.Y)
	case input.Has(core.ActionClear):
		g.clearBoard()
	case input.Has(core.ActionNextPattern):
		g.loadPattern((g.pattern + 1) % max(1, len(g.cfg.Patterns)))
	case input.Has(core.ActionStep) && !g.sim.Running():
		g.sim.Tick(gridsim.Input{})
	}

	if g.sim.Running() {
		g.stepTicker++
		if g.stepTicker >= g.cfg.StepEveryTicks {
			g.stepTicker = 0
			g.sim.Tick(gridsim.Input{})
		}
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) moveCursor(input core.InputFrame) {
	dx, dy := 0, 0
	switch {
	case input.Has(core.ActionUp):
		dy = -1
	case input.Has(core.ActionDown):
		dy = 1
	case input.Has(core.ActionLeft):
		dx = -1
	case input.Has(core.ActionRight):
		dx = 1
	}
	g.cursor.X = core.Clamp(g.cursor.X+dx, 0, g.sim.Width()-1)
	g.cursor.Y = core.Clamp(g.cursor.Y+dy, 0, g.sim.Height()-1)
}

// clearBoard stops the simulation and kills every live cell through
// Toggle, so the edit is journalled. A halted board starts a new run.
func (g *Game) clearBoard() {
	if g.sim.IsTerminal() {
		g.Reset(core.RuntimeConfig{
			Seed:    g.rng.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return
	}
	if g.sim.Running() {
		_ = g.sim.SetRunning(false)
	}
	grid := g.sim.Grid()
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.At(gridsim.C(x, y)).Kind == gridsim.KindOccupied {
				_ = g.sim.Toggle(x, y)
			}
		}
	}
}

// loadPattern clears the board and centres pattern i on it.
func (g *Game) loadPattern(i int) {
	if i >= len(g.cfg.Patterns) {
		return
	}
	g.clearBoard()
	g.pattern = i

	cells, w, h := g.cfg.Patterns[i].Cells()
	ox := (g.sim.Width() - w) / 2
	oy := (g.sim.Height() - h) / 2
	for _, c := range cells {
		_ = g.sim.Toggle(ox+c[0], oy+c[1])
	}
}

// PatternName returns the name of the last loaded pattern, if any.
func (g *Game) PatternName() string {
	if g.pattern < 0 || g.pattern >= len(g.cfg.Patterns) {
		return ""
	}
	return g.cfg.Patterns[g.pattern].Name
}

// Render draws the board and cursor.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	mode := "EDIT"
	if g.sim.Running() {
		mode = "RUNNING"
	}
	hud := fmt.Sprintf(" Life — Generation: %d  Population: %d  [%s]", g.sim.Ticks(), g.sim.Population(), mode)
	if name := g.PatternName(); name != "" {
		hud += "  Pattern: " + name
	}
	board.HUD(dst, hud)

	if g.tooSmall {
		needW, needH := board.MinSize(g.sim.Width(), g.sim.Height(), 0, true)
		board.TooSmall(dst, needW, needH)
		return
	}

	l := g.layout
	l.Frame(dst, core.ColorGray)
	for y := 0; y < g.sim.Height(); y++ {
		for x := 0; x < g.sim.Width(); x++ {
			switch g.sim.Cell(x, y).Kind {
			case gridsim.KindOccupied:
				l.Cell(dst, x, y, '█', core.ColorBrightWhite)
			case gridsim.KindWall:
				l.Cell(dst, x, y, '▒', core.ColorGray)
			default:
				l.Cell(dst, x, y, ' ', core.ColorDefault)
			}
		}
	}
	if !g.sim.Running() {
		if g.sim.Cell(g.cursor.X, g.cursor.Y).Kind == gridsim.KindOccupied {
			l.Cell(dst, g.cursor.X, g.cursor.Y, '▓', core.ColorYellow)
		} else {
			l.Cell(dst, g.cursor.X, g.cursor.Y, '+', core.ColorYellow)
		}
	}

	switch {
	case g.sim.IsTerminal():
		board.Overlay(dst, "Stable", fmt.Sprintf("Generation %d  Press R to clear", g.sim.Ticks()))
	case g.paused:
		board.Overlay(dst, "Paused", "Press P to continue")
	}
}

// State reports generations as the score. Life only ends when the board
// halts on a stable state.
func (g *Game) State() core.GameState {
	if g.sim == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    int(g.sim.Ticks()),
		GameOver: g.sim.IsTerminal(),
		Paused:   g.paused,
	}
}
