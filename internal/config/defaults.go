package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

//go:embed defaults/life.yaml
var defaultLifeYAML []byte

// DefaultSnakeConfig returns the default Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: Board{Width: 20, Height: 20, Walled: true},
		Speed: SnakeSpeed{
			MoveEveryTicks: 10,
			MinEveryTicks:  4,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 300,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.5,
			},
		},
	}
}

// DefaultTetrisConfig returns the default Tetris configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board:      Board{Width: 10, Height: 20},
		StartLevel: 1,
		Randomizer: "uniform",
		Gravity:    TetrisGravity{FramesPerTick: 2},
	}
}

// DefaultLifeConfig returns the default Game of Life configuration.
func DefaultLifeConfig() LifeConfig {
	return LifeConfig{
		Board:          Board{Width: 20, Height: 20},
		StepEveryTicks: 6,
		Patterns: []LifePattern{
			{Name: "glider", Rows: []string{".O.", "..O", "OOO"}},
			{Name: "blinker", Rows: []string{"OOO"}},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "snake":
		return defaultSnakeYAML
	case "tetris":
		return defaultTetrisYAML
	case "life":
		return defaultLifeYAML
	default:
		return nil
	}
}
