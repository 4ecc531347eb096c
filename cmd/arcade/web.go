package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/grid-arcade/internal/config"
	"github.com/vovakirdan/grid-arcade/internal/registry"
	"github.com/vovakirdan/grid-arcade/internal/storage"
	"github.com/vovakirdan/grid-arcade/internal/web"
)

var (
	flagWebAddr       string
	flagWebFPS        int
	flagWebDifficulty string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser front end",
	Long: `Serve the arcade over HTTP. The index page lists the games; each game
is played over a WebSocket that streams rendered frames.

Endpoints:
  GET /                        - Game list
  GET /play/<game>             - Play page
  GET /api/games               - Game metadata as JSON
  GET /api/games/<game>/scores - Top scores as JSON (?limit=1..100)
  GET /api/games/<game>/play   - WebSocket session

Examples:
  arcade web
  arcade web --addr :9000 --frame-rate 20
  arcade web --difficulty hard`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
	webCmd.Flags().IntVar(&flagWebFPS, "frame-rate", 30, "Frames per second streamed to browsers")
	webCmd.Flags().StringVar(&flagWebDifficulty, "difficulty", "", "Difficulty preset for every session")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})

	var preset config.DifficultyPreset
	if flagWebDifficulty != "" {
		p, err := config.ParsePreset(flagWebDifficulty)
		if err != nil {
			logger.Fatal("Invalid difficulty", "err", err)
		}
		preset = p
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("Scores disabled", "err", err)
		store = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(web.Config{
		Store:  store,
		Logger: logger,
		FPS:    flagWebFPS,
		Game:   registry.Options{Difficulty: preset},
	})
	err = srv.ListenAndServe(ctx, flagWebAddr)

	if store != nil {
		store.Close()
	}
	if err != nil {
		logger.Fatal("Server error", "err", err)
	}
}
