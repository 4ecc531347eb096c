package replay

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/grid-arcade/internal/config"
	"github.com/vovakirdan/grid-arcade/internal/core"
	"github.com/vovakirdan/grid-arcade/internal/games/tetris"
	"github.com/vovakirdan/grid-arcade/internal/gridsim"
)

func snakeConfig() gridsim.Config {
	return gridsim.Config{Ruleset: gridsim.RulesetSnake, Width: 12, Height: 12, Walled: true}
}

// record drives a simulator through a short scripted session.
func record(t *testing.T, cfg gridsim.Config, seed int64) (*Recorder, *gridsim.Simulator) {
	t.Helper()
	sim, err := gridsim.New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("gridsim.New: %v", err)
	}
	rec := NewRecorder(string(cfg.Ruleset))
	rec.Begin(cfg, seed)
	sim.SetJournal(rec.Record)

	turns := []gridsim.Dir{gridsim.DirDown, gridsim.DirLeft, gridsim.DirUp, gridsim.DirRight}
	for i := 0; i < 40 && !sim.IsTerminal(); i++ {
		if i%5 == 0 {
			_ = sim.ChangeDirection(turns[(i/5)%len(turns)])
		}
		sim.Tick(gridsim.Input{})
	}
	return rec, sim
}

// compress writes raw lines as a recording file body.
func compress(t *testing.T, lines ...string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range lines {
		enc.Write([]byte(l + "\n"))
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestSaveLoadVerify(t *testing.T) {
	rec, sim := record(t, snakeConfig(), 99)
	path := filepath.Join(t.TempDir(), "runs", "snake.jsonl.zst")

	if err := Save(path, rec.Recording(sim.Digest())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Header.Seed != 99 || loaded.Header.GameID != "snake" || loaded.Header.Version != Version {
		t.Errorf("header = %+v", loaded.Header)
	}
	if len(loaded.Events) != rec.Len() {
		t.Fatalf("loaded %d events, recorded %d", len(loaded.Events), rec.Len())
	}

	res, err := Verify(loaded)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Ticks != sim.Ticks() || res.Got != FormatDigest(sim.Digest()) {
		t.Errorf("result = %+v, want %d ticks", res, sim.Ticks())
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec, sim := record(t, snakeConfig(), 5)
	r := rec.Recording(sim.Digest())
	r.Events = r.Events[:len(r.Events)-1]
	r.Header.Events--

	_, err := Verify(r)
	if !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("Verify err = %v, want ErrDigestMismatch", err)
	}
}

func TestVerifyTetrisGame(t *testing.T) {
	g, err := tetris.New(tetris.WithConfig(config.DefaultTetrisConfig()))
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder(g.ID())
	g.SetJournal(rec.Record)
	g.Reset(core.RuntimeConfig{Seed: 1234, ScreenW: 80, ScreenH: 30})
	rec.Begin(g.SimConfig(), g.Seed())

	script := []core.Action{core.ActionLeft, core.ActionRotate, core.ActionNone, core.ActionDown, core.ActionRight, core.ActionDrop}
	for i := 0; i < 300; i++ {
		in := core.NewInputFrame()
		in.Set(script[i%len(script)])
		g.Step(in)
	}

	var buf bytes.Buffer
	if err := Write(&buf, rec.Recording(g.Digest())); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := Verify(loaded); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestRecorderBeginDropsPreviousRun(t *testing.T) {
	rec, _ := record(t, snakeConfig(), 1)
	if rec.Len() == 0 {
		t.Fatal("nothing recorded")
	}
	rec.Begin(snakeConfig(), 2)
	if rec.Len() != 0 || rec.Seed() != 2 || !rec.Started() {
		t.Errorf("after Begin: len=%d seed=%d", rec.Len(), rec.Seed())
	}
}

func TestReadRejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		errSub string
	}{
		{"empty", nil, "empty recording"},
		{"not json", []string{"{"}, "header"},
		{"wrong version", []string{`{"version":2,"game_id":"snake","seed":1,"config":{"ruleset":"snake","width":5,"height":5},"events":0,"digest":"0000000000000000"}`}, "invalid header"},
		{"bad digest", []string{`{"version":1,"game_id":"snake","seed":1,"config":{"ruleset":"snake","width":5,"height":5},"events":0,"digest":"xyz"}`}, "invalid header"},
		{"unknown ruleset", []string{`{"version":1,"game_id":"pong","seed":1,"config":{"ruleset":"pong","width":5,"height":5},"events":0,"digest":"0000000000000000"}`}, "invalid header"},
		{"missing seed", []string{`{"version":1,"game_id":"snake","config":{"ruleset":"snake","width":5,"height":5},"events":0,"digest":"0000000000000000"}`}, "invalid header"},
		{"event count", []string{
			`{"version":1,"game_id":"snake","seed":1,"config":{"ruleset":"snake","width":5,"height":5},"events":2,"digest":"0000000000000000"}`,
			`{"op":"tick"}`,
		}, "header counts 2 events"},
		{"bad event", []string{
			`{"version":1,"game_id":"snake","seed":1,"config":{"ruleset":"snake","width":5,"height":5},"events":1,"digest":"0000000000000000"}`,
			`{"op":`,
		}, "line 2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(compress(t, tc.lines...))
			if err == nil || !strings.Contains(err.Error(), tc.errSub) {
				t.Errorf("Read err = %v, want containing %q", err, tc.errSub)
			}
		})
	}
}

func TestWriteRejectsCountMismatch(t *testing.T) {
	r := &Recording{Header: Header{Version: Version, Events: 3}}
	if err := Write(&bytes.Buffer{}, r); err == nil {
		t.Error("expected error for mismatched event count")
	}
}
