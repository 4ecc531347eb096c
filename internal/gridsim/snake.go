package gridsim

import "hash"

// snakeItemScore is awarded for every item eaten.
const snakeItemScore = 10

type snakeRules struct {
	grid    *Grid
	rng     Rand
	body    []Coord // head first
	dir     Dir
	next    Dir
	item    Coord
	hasItem bool
	score   int
	eaten   int
}

func newSnakeRules(cfg Config, grid *Grid, rng Rand) *snakeRules {
	dir := cfg.Snake.Direction
	if dir == DirNone {
		dir = DirRight
	}
	r := &snakeRules{
		grid: grid,
		rng:  rng,
		body: append([]Coord(nil), cfg.snakeBody()...),
		dir:  dir,
		next: dir,
	}
	for i, seg := range r.body {
		if i == 0 {
			grid.Set(seg, Occupied(PayloadHead))
		} else {
			grid.Set(seg, Occupied(PayloadBody))
		}
	}
	if it := cfg.Snake.Item; it != nil {
		r.item, r.hasItem = *it, true
	} else {
		r.spawnItem()
	}
	return r
}

// turn queues d unless it reverses the current direction.
func (r *snakeRules) turn(d Dir) {
	if d == r.dir.Opposite() {
		return
	}
	r.next = d
}

// spawnItem places the item on a uniformly chosen empty cell. The item is
// not stored in the grid, so the snake body is the only occupant to avoid.
func (r *snakeRules) spawnItem() {
	free := r.grid.EmptyCells()
	if len(free) == 0 {
		r.hasItem = false
		return
	}
	r.item = free[r.rng.Intn(len(free))]
	r.hasItem = true
}

func (r *snakeRules) step(in Input) Outcome {
	if in.Turn != DirNone && in.Turn.Valid() {
		r.turn(in.Turn)
	}
	r.dir = r.next

	head := r.body[0].Step(r.dir)
	if r.grid.At(head).Kind == KindWall {
		return Outcome{Collided: true, GameOver: true}
	}

	grow := r.hasItem && head == r.item
	// The tail cell is vacated this tick unless the snake grows.
	hit := r.body
	if !grow {
		hit = r.body[:len(r.body)-1]
	}
	for _, seg := range hit {
		if seg == head {
			return Outcome{Collided: true, GameOver: true}
		}
	}

	if !grow {
		tail := r.body[len(r.body)-1]
		r.grid.Set(tail, Empty())
		r.body = r.body[:len(r.body)-1]
	}
	r.grid.Set(r.body[0], Occupied(PayloadBody))
	r.body = append([]Coord{head}, r.body...)
	r.grid.Set(head, Occupied(PayloadHead))

	out := Outcome{Moved: true}
	if grow {
		out.ItemConsumed = true
		r.score += snakeItemScore
		r.eaten++
		r.spawnItem()
		if !r.hasItem {
			out.GameOver = true
		}
	}
	return out
}

func (r *snakeRules) digest(h hash.Hash64) {
	writeInt(h, int64(len(r.body)))
	for _, seg := range r.body {
		writeCoord(h, seg)
	}
	writeInt(h, int64(r.dir))
	writeInt(h, int64(r.next))
	writeBool(h, r.hasItem)
	writeCoord(h, r.item)
	writeInt(h, int64(r.score))
}
