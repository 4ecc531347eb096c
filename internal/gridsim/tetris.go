package gridsim

import "hash"

// Scoring and speed constants for TETRIS.
const (
	linesPerLevel     = 10
	lineScore         = 100
	tetrisScore       = 400
	hardDropCellScore = 2
	softDropCellScore = 1
	baseFallInterval  = 30
	fallIntervalStep  = 2
	minFallInterval   = 5
)

type tetrisRules struct {
	grid       *Grid
	rng        Rand
	randomizer Randomizer
	start      int
	sequence   []PieceKind
	bag        []PieceKind
	cur        Piece
	next       PieceKind
	lines      int
	score      int
}

func newTetrisRules(cfg Config, grid *Grid, rng Rand) *tetrisRules {
	r := &tetrisRules{
		grid:       grid,
		rng:        rng,
		randomizer: cfg.Tetris.Randomizer,
		start:      max(cfg.Tetris.StartLevel, 1),
		sequence:   append([]PieceKind(nil), cfg.Tetris.Sequence...),
	}
	for _, c := range cfg.Tetris.Filled {
		grid.Set(c, Occupied(uint8(PieceNone)))
	}
	r.cur = r.spawnPiece(r.draw())
	r.next = r.draw()
	return r
}

// draw returns the next kind: scripted sequence first, then the randomizer.
func (r *tetrisRules) draw() PieceKind {
	if len(r.sequence) > 0 {
		k := r.sequence[0]
		r.sequence = r.sequence[1:]
		return k
	}
	if r.randomizer == RandomBag {
		if len(r.bag) == 0 {
			r.bag = append(r.bag[:0], AllPieces[:]...)
			for i := len(r.bag) - 1; i > 0; i-- {
				j := r.rng.Intn(i + 1)
				r.bag[i], r.bag[j] = r.bag[j], r.bag[i]
			}
		}
		k := r.bag[0]
		r.bag = r.bag[1:]
		return k
	}
	return AllPieces[r.rng.Intn(len(AllPieces))]
}

func (r *tetrisRules) spawnPiece(kind PieceKind) Piece {
	return Piece{Kind: kind, Origin: C(r.grid.w/2-1, 0)}
}

// fits reports whether every cell of p is on the board and empty.
func (r *tetrisRules) fits(p Piece) bool {
	for _, c := range p.Cells() {
		if !r.grid.IsEmpty(c) {
			return false
		}
	}
	return true
}

func (r *tetrisRules) level() int {
	return max(r.start, 1) + r.lines/linesPerLevel
}

func (r *tetrisRules) fallInterval() int {
	return FallIntervalAt(r.level())
}

// FallIntervalAt returns the frames between gravity steps at a TETRIS level:
// 30 at level 1, two fewer per level, never below 5.
func FallIntervalAt(level int) int {
	return max(minFallInterval, baseFallInterval-fallIntervalStep*(level-1))
}

func (r *tetrisRules) shift(dx int) error {
	p := r.cur.moved(dx, 0)
	if !r.fits(p) {
		return opErr(OpShift, "piece blocked at %v", p.Origin)
	}
	r.cur = p
	return nil
}

func (r *tetrisRules) rotate() error {
	prev := r.cur.Rotation
	r.cur = r.cur.rotated()
	if !r.fits(r.cur) {
		r.cur.Rotation = prev
		return opErr(OpRotate, "rotation blocked at %v", r.cur.Origin)
	}
	return nil
}

// softDrop moves the piece one row down. A blocked piece stays where it is
// and is not locked; gravity does that.
func (r *tetrisRules) softDrop() error {
	p := r.cur.moved(0, 1)
	if !r.fits(p) {
		return opErr(OpSoftDrop, "piece blocked at %v", r.cur.Origin)
	}
	r.cur = p
	r.score += softDropCellScore
	return nil
}

// landing returns the current piece moved down as far as it fits.
func (r *tetrisRules) landing() Piece {
	p := r.cur
	for r.fits(p.moved(0, 1)) {
		p = p.moved(0, 1)
	}
	return p
}

func (r *tetrisRules) hardDrop() Outcome {
	landed := r.landing()
	dropped := landed.Origin.Y - r.cur.Origin.Y
	r.cur = landed
	r.score += hardDropCellScore * dropped
	out := r.lock()
	out.Moved = dropped > 0
	return out
}

// lock writes the current piece into the grid, clears full rows and spawns
// the next piece.
func (r *tetrisRules) lock() Outcome {
	for _, c := range r.cur.Cells() {
		r.grid.Set(c, Occupied(uint8(r.cur.Kind)))
	}
	n := r.grid.clearFullRows()
	if n > 0 {
		// Points use the level before these lines are added.
		lvl := r.level()
		if n >= 4 {
			r.score += tetrisScore * lvl
		} else {
			r.score += lineScore * n * lvl
		}
		r.lines += n
	}

	r.cur = r.spawnPiece(r.next)
	r.next = r.draw()
	return Outcome{
		Collided:     true,
		Locked:       true,
		LinesCleared: n,
		GameOver:     !r.fits(r.cur),
	}
}

func (r *tetrisRules) gravity() Outcome {
	if p := r.cur.moved(0, 1); r.fits(p) {
		r.cur = p
		return Outcome{Moved: true}
	}
	return r.lock()
}

func (r *tetrisRules) step(in Input) Outcome {
	if in.Shift != 0 {
		_ = r.shift(sign(in.Shift))
	}
	if in.Rotate {
		_ = r.rotate()
	}
	if in.Drop {
		return r.hardDrop()
	}
	return r.gravity()
}

func (r *tetrisRules) digest(h hash.Hash64) {
	writeInt(h, int64(r.cur.Kind))
	writeInt(h, int64(r.cur.Rotation))
	writeCoord(h, r.cur.Origin)
	writeInt(h, int64(r.next))
	writeInt(h, int64(r.lines))
	writeInt(h, int64(r.score))
	writeInt(h, int64(len(r.sequence)))
	for _, k := range r.bag {
		writeInt(h, int64(k))
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
