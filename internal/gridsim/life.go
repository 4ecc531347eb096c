package gridsim

import "hash"

type lifeRules struct {
	grid         *Grid
	haltOnStable bool
	generation   int
	// scratch is the back buffer the next generation is written into.
	scratch []Cell
}

func newLifeRules(cfg Config, grid *Grid) *lifeRules {
	for _, c := range cfg.Life.Alive {
		if grid.At(c).Kind == KindEmpty {
			grid.Set(c, Occupied(PayloadAlive))
		}
	}
	return &lifeRules{
		grid:         grid,
		haltOnStable: cfg.Life.HaltOnStable,
		scratch:      make([]Cell, len(grid.cells)),
	}
}

// neighbours counts live cells in the 8-neighbourhood of (x, y). Cells past
// the board edge do not exist.
func (r *lifeRules) neighbours(x, y int) int {
	g := r.grid
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= g.w || ny < 0 || ny >= g.h {
				continue
			}
			if g.cells[ny*g.w+nx].Kind == KindOccupied {
				n++
			}
		}
	}
	return n
}

// nextAlive is Conway's B3/S23 rule.
func nextAlive(alive bool, n int) bool {
	if alive {
		return n == 2 || n == 3
	}
	return n == 3
}

func (r *lifeRules) step(Input) Outcome {
	g := r.grid
	changed := 0
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			cur := g.cells[i]
			if cur.Kind == KindWall {
				r.scratch[i] = cur
				continue
			}
			alive := cur.Kind == KindOccupied
			next := nextAlive(alive, r.neighbours(x, y))
			if next != alive {
				changed++
			}
			if next {
				r.scratch[i] = Occupied(PayloadAlive)
			} else {
				r.scratch[i] = Empty()
			}
		}
	}
	g.cells, r.scratch = r.scratch, g.cells
	r.generation++
	return Outcome{
		Moved:    changed > 0,
		Changed:  changed,
		GameOver: r.haltOnStable && changed == 0,
	}
}

func (r *lifeRules) toggle(c Coord) error {
	if !r.grid.InBounds(c) {
		return opErr(OpToggle, "cell %v outside %dx%d board", c, r.grid.w, r.grid.h)
	}
	switch r.grid.At(c).Kind {
	case KindWall:
		return opErr(OpToggle, "cell %v is a wall", c)
	case KindOccupied:
		r.grid.Set(c, Empty())
	default:
		r.grid.Set(c, Occupied(PayloadAlive))
	}
	return nil
}

func (r *lifeRules) digest(h hash.Hash64) {
	writeInt(h, int64(r.generation))
	writeBool(h, r.haltOnStable)
}
