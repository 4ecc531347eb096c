package gridsim

import (
	"errors"
	"testing"
)

func tetrisConfig(w, h int, seq []PieceKind, filled ...Coord) Config {
	return Config{
		Ruleset: RulesetTetris,
		Width:   w,
		Height:  h,
		Tetris:  TetrisConfig{Sequence: seq, Filled: filled},
	}
}

func rowCells(y int, xs ...int) []Coord {
	out := make([]Coord, len(xs))
	for i, x := range xs {
		out[i] = C(x, y)
	}
	return out
}

func TestTetrisShapeTable(t *testing.T) {
	want := map[PieceKind]int{
		PieceI: 2, PieceO: 1, PieceT: 4, PieceS: 2, PieceZ: 2, PieceJ: 4, PieceL: 4,
	}
	for kind, n := range want {
		if got := RotationCount(kind); got != n {
			t.Errorf("%v: %d rotations, want %d", kind, got, n)
		}
	}
}

func TestTetrisSpawn(t *testing.T) {
	s := mustNew(t, tetrisConfig(10, 6, []PieceKind{PieceI, PieceO}))
	cur, ok := s.Current()
	if !ok || cur.Kind != PieceI || cur.Origin != C(4, 0) || cur.Rotation != 0 {
		t.Errorf("current = %+v", cur)
	}
	if s.Next() != PieceO {
		t.Errorf("next = %v, want O", s.Next())
	}
	want := rowCells(1, 4, 5, 6, 7)
	if got := s.CurrentCells(); !coordsEqual(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
}

func TestTetrisGravity(t *testing.T) {
	s := mustNew(t, tetrisConfig(10, 6, []PieceKind{PieceO, PieceO, PieceO}))

	out := s.Tick(Input{})
	if !out.Moved || out.Locked {
		t.Fatalf("outcome = %+v", out)
	}
	if cur, _ := s.Current(); cur.Origin != C(4, 1) {
		t.Errorf("origin = %v, want (4,1)", cur.Origin)
	}

	// O covers rows y and y+1; it can fall until y = 4.
	for i := 0; i < 3; i++ {
		s.Tick(Input{})
	}
	out = s.Tick(Input{})
	if !out.Locked || !out.Collided || out.Moved {
		t.Fatalf("expected lock, outcome = %+v", out)
	}
	if got := s.Grid().Count(KindOccupied); got != 4 {
		t.Errorf("occupied = %d, want 4", got)
	}
	if c := s.Cell(4, 5); c.Kind != KindOccupied || PieceKind(c.Payload) != PieceO {
		t.Errorf("locked cell = %+v", c)
	}
	if cur, _ := s.Current(); cur.Origin != C(4, 0) {
		t.Errorf("next piece origin = %v", cur.Origin)
	}
}

func TestTetrisLineClears(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		rotate    bool
		lines     int
		score     int
		remaining []Coord
	}{
		{
			name:  "zero lines",
			cfg:   tetrisConfig(10, 6, []PieceKind{PieceI, PieceO}),
			lines: 0,
			// 4 cells dropped, 2 points each.
			score:     8,
			remaining: rowCells(5, 4, 5, 6, 7),
		},
		{
			name: "one line shifts rows above down",
			cfg: tetrisConfig(10, 6, []PieceKind{PieceI, PieceO},
				append(rowCells(5, 0, 1, 2, 3, 8, 9), C(0, 4))...),
			lines:     1,
			score:     100 + 8,
			remaining: []Coord{C(0, 5)},
		},
		{
			name: "one line at start level 6",
			cfg: func() Config {
				cfg := tetrisConfig(10, 6, []PieceKind{PieceI, PieceO}, rowCells(5, 0, 1, 2, 3, 8, 9)...)
				cfg.Tetris.StartLevel = 6
				return cfg
			}(),
			lines:     1,
			score:     600 + 8,
			remaining: nil,
		},
		{
			name: "four lines at once",
			cfg: tetrisConfig(5, 6, []PieceKind{PieceI, PieceO},
				concat(
					rowCells(2, 0, 1, 2, 3),
					rowCells(3, 0, 1, 2, 3),
					rowCells(4, 0, 1, 2, 3),
					rowCells(5, 0, 1, 2, 3),
				)...),
			rotate:    true,
			lines:     4,
			score:     400 + 4,
			remaining: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustNew(t, tt.cfg)
			if tt.rotate {
				if err := s.Rotate(); err != nil {
					t.Fatalf("Rotate: %v", err)
				}
			}
			out, err := s.HardDrop()
			if err != nil {
				t.Fatalf("HardDrop: %v", err)
			}
			if !out.Locked || out.GameOver {
				t.Errorf("outcome = %+v", out)
			}
			if out.LinesCleared != tt.lines {
				t.Errorf("lines cleared = %d, want %d", out.LinesCleared, tt.lines)
			}
			if s.Lines() != tt.lines {
				t.Errorf("Lines() = %d, want %d", s.Lines(), tt.lines)
			}
			if s.Score() != tt.score {
				t.Errorf("score = %d, want %d", s.Score(), tt.score)
			}
			if s.Height() != tt.cfg.Height {
				t.Errorf("height = %d", s.Height())
			}
			g := s.Grid()
			if got := g.Count(KindOccupied); got != len(tt.remaining) {
				t.Errorf("occupied = %d, want %d\n%s", got, len(tt.remaining), g)
			}
			for _, c := range tt.remaining {
				if g.At(c).Kind != KindOccupied {
					t.Errorf("cell %v should be occupied\n%s", c, g)
				}
			}
		})
	}
}

func TestTetrisRotateBlockedLeavesPieceUnchanged(t *testing.T) {
	// Vertical I would occupy column 7, rows 0..3.
	s := mustNew(t, tetrisConfig(10, 6, []PieceKind{PieceI, PieceO}, C(7, 3)))
	before, _ := s.Current()

	err := s.Rotate()
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Rotate err = %v, want ErrInvalidOperation", err)
	}
	if after, _ := s.Current(); after != before {
		t.Errorf("piece changed: %+v -> %+v", before, after)
	}
}

func TestTetrisRotateCycles(t *testing.T) {
	s := mustNew(t, tetrisConfig(10, 8, []PieceKind{PieceT, PieceO}))
	for i := 1; i <= 4; i++ {
		if err := s.Rotate(); err != nil {
			t.Fatalf("Rotate %d: %v", i, err)
		}
		cur, _ := s.Current()
		if cur.Rotation != i%4 {
			t.Errorf("rotation = %d, want %d", cur.Rotation, i%4)
		}
	}

	o := mustNew(t, tetrisConfig(10, 8, []PieceKind{PieceO, PieceO}))
	if err := o.Rotate(); err != nil {
		t.Fatalf("O rotate: %v", err)
	}
	if cur, _ := o.Current(); cur.Rotation != 0 {
		t.Errorf("O rotation = %d, want 0", cur.Rotation)
	}
}

func TestTetrisStartLevel(t *testing.T) {
	cfg := tetrisConfig(10, 6, nil)
	cfg.Tetris.StartLevel = 6
	s := mustNew(t, cfg)
	if s.Level() != 6 || s.FallInterval() != 20 {
		t.Errorf("level = %d, interval = %d", s.Level(), s.FallInterval())
	}

	cfg.Tetris.StartLevel = -1
	if _, err := New(cfg, newRand(1)); !errors.Is(err, ErrConfig) {
		t.Errorf("negative start level err = %v", err)
	}
}

func TestTetrisSoftDrop(t *testing.T) {
	// O covers rows y and y+1 on a 6-row board, so it rests at y = 4.
	s := mustNew(t, tetrisConfig(10, 6, []PieceKind{PieceO, PieceO}))
	var ops []Op
	s.SetJournal(func(ev Event) { ops = append(ops, ev.Op) })

	for i := 0; i < 4; i++ {
		if err := s.SoftDrop(); err != nil {
			t.Fatalf("SoftDrop %d: %v", i, err)
		}
	}
	if s.Score() != 4 {
		t.Errorf("score = %d, want 1 per row", s.Score())
	}

	err := s.SoftDrop()
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("blocked SoftDrop err = %v", err)
	}
	cur, _ := s.Current()
	if cur.Origin != C(4, 4) {
		t.Errorf("origin = %v, want (4,4)", cur.Origin)
	}
	if n := s.Grid().Count(KindOccupied); n != 0 {
		t.Errorf("soft drop locked %d cells", n)
	}
	if s.Score() != 4 || len(ops) != 4 {
		t.Errorf("blocked drop changed state: score %d, %d events", s.Score(), len(ops))
	}

	// Gravity still locks it.
	if out := s.Tick(Input{}); !out.Locked {
		t.Errorf("outcome = %+v, want lock", out)
	}
}

func TestTetrisMoveHorizontal(t *testing.T) {
	s := mustNew(t, tetrisConfig(10, 6, []PieceKind{PieceI, PieceO}))

	for i := 0; i < 2; i++ {
		if err := s.MoveHorizontal(1); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
	}
	want := rowCells(1, 6, 7, 8, 9)
	if got := s.CurrentCells(); !coordsEqual(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
	if err := s.MoveHorizontal(1); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("move past edge err = %v", err)
	}
	if got := s.CurrentCells(); !coordsEqual(got, want) {
		t.Errorf("blocked move changed cells to %v", got)
	}
	for _, dx := range []int{0, 2, -3} {
		if err := s.MoveHorizontal(dx); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("MoveHorizontal(%d) err = %v", dx, err)
		}
	}
}

func TestTetrisGameOverOnSpawnOverlap(t *testing.T) {
	// A filled cell under the spawn keeps the first O at the top, so the
	// second O cannot spawn.
	s := mustNew(t, tetrisConfig(10, 6, []PieceKind{PieceO, PieceO, PieceO}, C(4, 2)))

	out, err := s.HardDrop()
	if err != nil {
		t.Fatalf("HardDrop: %v", err)
	}
	if !out.GameOver || !s.IsTerminal() {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Moved {
		t.Error("piece should not have moved")
	}
	if _, err := s.HardDrop(); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("HardDrop on terminal err = %v", err)
	}
	if out := s.Tick(Input{}); !out.GameOver {
		t.Errorf("tick after game over = %+v", out)
	}
}

func TestTetrisBlockedSpawnAtReset(t *testing.T) {
	s := mustNew(t, tetrisConfig(10, 6, []PieceKind{PieceI, PieceO}, C(5, 1)))
	if !s.IsTerminal() {
		t.Error("piece spawning over a filled cell should be terminal")
	}
}

func TestTetrisLevelAndFallInterval(t *testing.T) {
	r := &tetrisRules{}
	tests := []struct {
		lines, level, interval int
	}{
		{0, 1, 30},
		{9, 1, 30},
		{10, 2, 28},
		{55, 6, 20},
		{120, 13, 6},
		{200, 21, 5},
	}
	for _, tt := range tests {
		r.lines = tt.lines
		if got := r.level(); got != tt.level {
			t.Errorf("lines=%d: level %d, want %d", tt.lines, got, tt.level)
		}
		if got := r.fallInterval(); got != tt.interval {
			t.Errorf("lines=%d: interval %d, want %d", tt.lines, got, tt.interval)
		}
	}
}

func TestTetrisInputOrder(t *testing.T) {
	s := mustNew(t, tetrisConfig(10, 8, []PieceKind{PieceI, PieceO}))
	out := s.Tick(Input{Shift: -1, Rotate: true})
	if !out.Moved {
		t.Fatalf("outcome = %+v", out)
	}
	cur, _ := s.Current()
	if cur.Origin != C(3, 1) || cur.Rotation != 1 {
		t.Errorf("piece = %+v", cur)
	}
}

func TestTetrisBagRandomizer(t *testing.T) {
	cfg := tetrisConfig(10, 22, nil)
	cfg.Tetris.Randomizer = RandomBag
	s := mustNew(t, cfg)
	r := s.rules.(*tetrisRules)

	seen := map[PieceKind]int{r.cur.Kind: 1}
	seen[r.next]++
	for i := 0; i < 5; i++ {
		seen[r.draw()]++
	}
	if len(seen) != 7 {
		t.Errorf("first bag should contain all seven kinds, got %v", seen)
	}
}

func TestTetrisConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"too narrow", tetrisConfig(4, 10, nil)},
		{"too short", tetrisConfig(10, 3, nil)},
		{"walled", Config{Ruleset: RulesetTetris, Width: 10, Height: 10, Walled: true}},
		{"bad kind", tetrisConfig(10, 10, []PieceKind{PieceKind(42)})},
		{"filled outside", tetrisConfig(10, 10, nil, C(10, 0))},
		{"bad randomizer", Config{Ruleset: RulesetTetris, Width: 10, Height: 10,
			Tetris: TetrisConfig{Randomizer: "lucky"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, newRand(1)); !errors.Is(err, ErrConfig) {
				t.Errorf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func concat(parts ...[]Coord) []Coord {
	var out []Coord
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
