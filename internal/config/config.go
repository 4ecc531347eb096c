// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import (
	"fmt"
	"strings"
)

// Board is the size of a game's playfield in cells.
type Board struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Walled bool `yaml:"walled"`
}

// SnakeConfig contains all configuration for the Snake game.
type SnakeConfig struct {
	Board Board      `yaml:"board"`
	Speed SnakeSpeed `yaml:"speed"`
	// Layout draws the board as text rows; '#' is a wall, anything else is
	// free. When set it overrides Board.
	Layout     []string         `yaml:"layout"`
	Scoring    SnakeScoring     `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SnakeSpeed controls how often the snake moves.
type SnakeSpeed struct {
	MoveEveryTicks int `yaml:"move_every_ticks"` // Frames between moves at the start
	MinEveryTicks  int `yaml:"min_every_ticks"`  // Fastest allowed move interval
}

// SnakeScoring defines when a snake run is won.
type SnakeScoring struct {
	WinLength int `yaml:"win_length"` // 0 means play until the board is full
}

// TetrisConfig contains all configuration for the Tetris game.
type TetrisConfig struct {
	Board      Board         `yaml:"board"`
	StartLevel int           `yaml:"start_level"`
	Randomizer string        `yaml:"randomizer"` // "uniform" or "bag"
	Gravity    TetrisGravity `yaml:"gravity"`
}

// TetrisGravity scales the level-based fall interval to the driver frame rate.
type TetrisGravity struct {
	FramesPerTick int `yaml:"frames_per_tick"`
}

// LifeConfig contains all configuration for the Game of Life.
type LifeConfig struct {
	Board          Board         `yaml:"board"`
	StepEveryTicks int           `yaml:"step_every_ticks"`
	HaltOnStable   bool          `yaml:"halt_on_stable"`
	Patterns       []LifePattern `yaml:"patterns"`
}

// LifePattern is a named starting population drawn as text rows; 'O' or '#'
// marks a live cell. The pattern is centred on the board when loaded.
type LifePattern struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
}

// Cells returns the live cell offsets of the pattern and its bounding size.
func (p LifePattern) Cells() (cells [][2]int, w, h int) {
	for y, row := range p.Rows {
		w = max(w, len(row))
		for x, ch := range row {
			if ch == 'O' || ch == '#' {
				cells = append(cells, [2]int{x, y})
			}
		}
	}
	return cells, w, len(p.Rows)
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Speed added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name from the command line.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(s)); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// Validate checks the values the game cannot run without.
func (c SnakeConfig) Validate() error {
	if len(c.Layout) == 0 {
		if err := c.Board.validate("snake"); err != nil {
			return err
		}
	} else {
		w := len(c.Layout[0])
		for i, row := range c.Layout {
			if len(row) != w {
				return fmt.Errorf("config: snake layout row %d has width %d, want %d", i, len(row), w)
			}
		}
	}
	if c.Speed.MoveEveryTicks < 1 {
		return fmt.Errorf("config: snake move_every_ticks must be positive, got %d", c.Speed.MoveEveryTicks)
	}
	return nil
}

// Validate checks the values the game cannot run without.
func (c TetrisConfig) Validate() error {
	if err := c.Board.validate("tetris"); err != nil {
		return err
	}
	if c.Board.Walled {
		return fmt.Errorf("config: tetris boards cannot be walled")
	}
	switch c.Randomizer {
	case "", "uniform", "bag":
	default:
		return fmt.Errorf("config: tetris randomizer %q (want uniform or bag)", c.Randomizer)
	}
	if c.StartLevel < 0 {
		return fmt.Errorf("config: tetris start_level must not be negative, got %d", c.StartLevel)
	}
	return nil
}

// Validate checks the values the game cannot run without.
func (c LifeConfig) Validate() error {
	if err := c.Board.validate("life"); err != nil {
		return err
	}
	if c.StepEveryTicks < 1 {
		return fmt.Errorf("config: life step_every_ticks must be positive, got %d", c.StepEveryTicks)
	}
	for _, p := range c.Patterns {
		if _, w, h := p.Cells(); w > c.Board.Width || h > c.Board.Height {
			return fmt.Errorf("config: life pattern %q (%dx%d) does not fit the board", p.Name, w, h)
		}
	}
	return nil
}

func (b Board) validate(game string) error {
	if b.Width <= 2 || b.Height <= 2 {
		return fmt.Errorf("config: %s board %dx%d is too small", game, b.Width, b.Height)
	}
	return nil
}
