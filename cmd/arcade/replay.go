package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/grid-arcade/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Verify a recorded session",
	Long: `Load a replay written by 'arcade play --record', re-run every event on a
fresh simulator and compare the final board digest with the recorded one.

Exits with status 1 when the digests differ.

Examples:
  arcade replay tetris.jsonl.zst`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "replay"})

	rec, err := replay.Load(args[0])
	if err != nil {
		logger.Fatal("Load failed", "file", args[0], "err", err)
	}
	h := rec.Header
	logger.Info("Loaded",
		"game", h.GameID,
		"ruleset", h.Config.Ruleset,
		"width", h.Config.Width,
		"height", h.Config.Height,
		"seed", h.Seed,
		"events", h.Events,
	)

	res, err := replay.Verify(rec)
	switch {
	case errors.Is(err, replay.ErrDigestMismatch):
		logger.Error("Digest mismatch", "want", res.Want, "got", res.Got, "ticks", res.Ticks)
		os.Exit(1)
	case err != nil:
		logger.Fatal("Verify failed", "err", err)
	}
	logger.Info("Verified", "digest", res.Got, "events", res.Events, "ticks", res.Ticks)
}
