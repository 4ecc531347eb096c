// arcade runs grid games (Snake, Tetris, Game of Life) in the terminal,
// over SSH and in the browser.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH server for remote play
//	arcade web               - Start the browser front end
//	arcade scores <game>     - Show high scores for a game
//	arcade replay <file>     - Verify a recorded session
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.arcade/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/grid-arcade/internal/games/life"
	_ "github.com/vovakirdan/grid-arcade/internal/games/snake"
	_ "github.com/vovakirdan/grid-arcade/internal/games/tetris"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Grid Arcade - Snake, Tetris and Life in your terminal",
	Long: `Grid Arcade plays grid games in the terminal, over SSH or in a browser.
Every game runs on the same deterministic grid simulator, so sessions can be
recorded and verified later.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  web      - Start the browser front end
  scores   - View high scores
  replay   - Verify a recorded session

Examples:
  arcade list
  arcade play tetris
  arcade play snake --record run.jsonl.zst
  arcade replay run.jsonl.zst
  arcade menu
  arcade serve --ssh :2222
  arcade web --addr :8080
  arcade scores tetris`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
}
