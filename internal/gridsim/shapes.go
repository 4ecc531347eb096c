package gridsim

// PieceKind identifies one of the seven tetrominoes. It doubles as the
// payload of locked TETRIS cells.
type PieceKind uint8

const (
	PieceNone PieceKind = iota
	PieceI
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// AllPieces lists the seven kinds in table order.
var AllPieces = [...]PieceKind{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

// Valid reports whether k names a real piece.
func (k PieceKind) Valid() bool {
	return k >= PieceI && k <= PieceL
}

// String returns the single-letter piece name.
func (k PieceKind) String() string {
	switch k {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	default:
		return "?"
	}
}

// shapeRows holds every rotation state as text rows; '#' marks a cell.
// Rotations cycle in slice order.
var shapeRows = map[PieceKind][][]string{
	PieceI: {
		{"....", "####", "....", "...."},
		{"...#", "...#", "...#", "...#"},
	},
	PieceO: {
		{"##", "##"},
	},
	PieceT: {
		{".#.", "###", "..."},
		{".#.", ".##", ".#."},
		{"...", "###", ".#."},
		{".#.", "##.", ".#."},
	},
	PieceS: {
		{".##", "##.", "..."},
		{".#.", ".##", "..#"},
	},
	PieceZ: {
		{"##.", ".##", "..."},
		{"..#", ".##", ".#."},
	},
	PieceJ: {
		{"#..", "###", "..."},
		{".##", ".#.", ".#."},
		{"...", "###", "..#"},
		{".#.", ".#.", "##."},
	},
	PieceL: {
		{"..#", "###", "..."},
		{".#.", ".#.", ".##"},
		{"...", "###", "#.."},
		{"##.", ".#.", ".#."},
	},
}

// shapes is shapeRows parsed into cell offsets, indexed [kind][rotation].
var shapes = parseShapes()

func parseShapes() map[PieceKind][][4]Coord {
	out := make(map[PieceKind][][4]Coord, len(shapeRows))
	for kind, rotations := range shapeRows {
		states := make([][4]Coord, len(rotations))
		for r, rows := range rotations {
			n := 0
			for y, row := range rows {
				for x, ch := range row {
					if ch != '#' {
						continue
					}
					if n == 4 {
						panic("gridsim: shape " + kind.String() + " has more than 4 cells")
					}
					states[r][n] = C(x, y)
					n++
				}
			}
			if n != 4 {
				panic("gridsim: shape " + kind.String() + " has fewer than 4 cells")
			}
		}
		out[kind] = states
	}
	return out
}

// RotationCount returns how many rotation states kind has.
func RotationCount(kind PieceKind) int {
	return len(shapes[kind])
}

// Piece is a falling tetromino: its kind, rotation index and board origin.
type Piece struct {
	Kind     PieceKind `json:"kind"`
	Rotation int       `json:"rotation"`
	Origin   Coord     `json:"origin"`
}

// Cells returns the absolute board cells the piece covers.
func (p Piece) Cells() [4]Coord {
	var out [4]Coord
	for i, off := range shapes[p.Kind][p.Rotation] {
		out[i] = C(p.Origin.X+off.X, p.Origin.Y+off.Y)
	}
	return out
}

// Shape returns the piece's offsets in its current rotation.
func (p Piece) Shape() [4]Coord {
	return shapes[p.Kind][p.Rotation]
}

// moved returns a copy shifted by (dx, dy).
func (p Piece) moved(dx, dy int) Piece {
	p.Origin = p.Origin.Add(dx, dy)
	return p
}

// rotated returns a copy advanced to the next rotation state in the cycle.
func (p Piece) rotated() Piece {
	p.Rotation = (p.Rotation + 1) % len(shapes[p.Kind])
	return p
}
