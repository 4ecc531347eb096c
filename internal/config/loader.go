package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// load fills cfg from the first readable source.
// Search order: customPath -> ~/.arcade/configs/<game>.yaml -> ./configs/<game>.yaml -> embedded default.
// A custom path that cannot be read or parsed is an error; the other sources
// are skipped silently.
func load[T any](gameID, customPath string, cfg *T) error {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return nil
	}

	filename := gameID + ".yaml"
	for _, path := range []string{userConfigPath(filename), filepath.Join("configs", filename)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		// Decode into a copy so a half-parsed file does not leak into cfg.
		tmp := *cfg
		if err := yaml.Unmarshal(data, &tmp); err == nil {
			*cfg = tmp
			return nil
		}
	}

	if err := yaml.Unmarshal(GetDefaultYAML(gameID), cfg); err != nil {
		return fmt.Errorf("config: embedded %s defaults: %w", gameID, err)
	}
	return nil
}

// LoadSnake loads Snake configuration, starting from the hardcoded defaults
// so a partial file only overrides the keys it names.
func LoadSnake(customPath string) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()
	if err := load("snake", customPath, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadTetris loads Tetris configuration.
func LoadTetris(customPath string) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()
	if err := load("tetris", customPath, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadLife loads Game of Life configuration.
func LoadLife(customPath string) (LifeConfig, error) {
	cfg := DefaultLifeConfig()
	if err := load("life", customPath, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Speed.MoveEveryTicks = max(cfg.Speed.MoveEveryTicks, 12)
	case DifficultyHard:
		cfg.Speed.MoveEveryTicks = max(1, cfg.Speed.MoveEveryTicks-4)
	}
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
// Tetris speed comes from the level, so presets pick the starting level.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.StartLevel = 1
		cfg.Randomizer = "bag"
	case DifficultyHard:
		cfg.StartLevel = max(cfg.StartLevel, 6)
	case DifficultyFixed:
		cfg.StartLevel = 1
	}
}

// ApplyLifePreset adjusts the generation rate; Life has no difficulty.
func ApplyLifePreset(cfg *LifeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.StepEveryTicks = max(cfg.StepEveryTicks, 10)
	case DifficultyHard:
		cfg.StepEveryTicks = max(1, cfg.StepEveryTicks/2)
	}
}
