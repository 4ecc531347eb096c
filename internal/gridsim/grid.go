package gridsim

import "strings"

// CellKind is the tag of a grid cell.
type CellKind uint8

const (
	KindEmpty CellKind = iota
	KindWall
	KindOccupied
)

// Payloads used by the built-in rulesets. TETRIS stores the PieceKind instead.
const (
	PayloadBody  uint8 = 1
	PayloadHead  uint8 = 2
	PayloadAlive uint8 = 1
)

// Cell is a single grid cell. Payload is meaningful only for KindOccupied.
type Cell struct {
	Kind    CellKind
	Payload uint8
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{Kind: KindEmpty}
}

// Wall returns a wall cell.
func Wall() Cell {
	return Cell{Kind: KindWall}
}

// Occupied returns an occupied cell carrying payload p.
func Occupied(p uint8) Cell {
	return Cell{Kind: KindOccupied, Payload: p}
}

// Grid is a fixed-size rectangular board stored in row-major order.
type Grid struct {
	w, h  int
	cells []Cell
}

// NewGrid allocates an empty w×h grid.
func NewGrid(w, h int) *Grid {
	return &Grid{w: w, h: h, cells: make([]Cell, w*h)}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

func (g *Grid) index(c Coord) int {
	return c.Y*g.w + c.X
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.w && c.Y >= 0 && c.Y < g.h
}

// At returns the cell at c. Coordinates outside the grid read as walls.
func (g *Grid) At(c Coord) Cell {
	if !g.InBounds(c) {
		return Wall()
	}
	return g.cells[g.index(c)]
}

// Set stores cell at c. Out-of-bounds writes are ignored.
func (g *Grid) Set(c Coord, cell Cell) {
	if g.InBounds(c) {
		g.cells[g.index(c)] = cell
	}
}

// IsEmpty reports whether c is in bounds and empty.
func (g *Grid) IsEmpty(c Coord) bool {
	return g.InBounds(c) && g.cells[g.index(c)].Kind == KindEmpty
}

// Count returns the number of cells of the given kind.
func (g *Grid) Count(kind CellKind) int {
	n := 0
	for _, c := range g.cells {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// EmptyCells returns the coordinates of all empty cells, row by row.
func (g *Grid) EmptyCells() []Coord {
	var out []Coord
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if g.cells[y*g.w+x].Kind == KindEmpty {
				out = append(out, C(x, y))
			}
		}
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{w: g.w, h: g.h, cells: cells}
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.w != other.w || g.h != other.h {
		return false
	}
	for i, c := range g.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}

// fillBorder turns the outermost ring of cells into walls.
func (g *Grid) fillBorder() {
	for x := 0; x < g.w; x++ {
		g.Set(C(x, 0), Wall())
		g.Set(C(x, g.h-1), Wall())
	}
	for y := 0; y < g.h; y++ {
		g.Set(C(0, y), Wall())
		g.Set(C(g.w-1, y), Wall())
	}
}

// rowFull reports whether every cell in row y is occupied.
func (g *Grid) rowFull(y int) bool {
	for x := 0; x < g.w; x++ {
		if g.cells[y*g.w+x].Kind != KindOccupied {
			return false
		}
	}
	return true
}

// clearFullRows removes every full row, shifts the rows above down and
// inserts empty rows at the top. Returns the number of rows removed.
func (g *Grid) clearFullRows() int {
	kept := make([]Cell, 0, len(g.cells))
	removed := 0
	for y := 0; y < g.h; y++ {
		if g.rowFull(y) {
			removed++
			continue
		}
		kept = append(kept, g.cells[y*g.w:(y+1)*g.w]...)
	}
	if removed == 0 {
		return 0
	}
	cells := make([]Cell, removed*g.w, len(g.cells))
	g.cells = append(cells, kept...)
	return removed
}

// String renders the grid as text: '.' empty, '#' wall, 'o' occupied.
// Used by tests and debug output.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.w + 1) * g.h)
	for y := 0; y < g.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.w; x++ {
			switch g.cells[y*g.w+x].Kind {
			case KindWall:
				sb.WriteByte('#')
			case KindOccupied:
				sb.WriteByte('o')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
