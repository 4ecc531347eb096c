package gridsim

import "testing"

func TestGridOutOfBoundsReadsAsWall(t *testing.T) {
	g := NewGrid(4, 3)
	for _, c := range []Coord{C(-1, 0), C(0, -1), C(4, 0), C(0, 3)} {
		if g.At(c).Kind != KindWall {
			t.Errorf("At(%v) = %v, want wall", c, g.At(c).Kind)
		}
		g.Set(c, Occupied(1)) // ignored
	}
	if g.Count(KindOccupied) != 0 {
		t.Error("out-of-bounds Set should not write")
	}
}

func TestGridFillBorder(t *testing.T) {
	g := NewGrid(4, 3)
	g.fillBorder()
	want := "####\n#..#\n####"
	if got := g.String(); got != want {
		t.Errorf("border grid:\n%s\nwant:\n%s", got, want)
	}
	if free := g.EmptyCells(); !coordsEqual(free, []Coord{C(1, 1), C(2, 1)}) {
		t.Errorf("EmptyCells = %v", free)
	}
}

func TestGridClearFullRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		want    []string
		removed int
	}{
		{
			name:    "no full rows",
			rows:    []string{"...", "o..", "oo."},
			want:    []string{"...", "o..", "oo."},
			removed: 0,
		},
		{
			name:    "one full row shifts rows above",
			rows:    []string{"o..", ".o.", "ooo"},
			want:    []string{"...", "o..", ".o."},
			removed: 1,
		},
		{
			name:    "non-adjacent full rows",
			rows:    []string{"ooo", "o.o", "ooo", ".o."},
			want:    []string{"...", "...", "o.o", ".o."},
			removed: 2,
		},
		{
			name:    "all rows full",
			rows:    []string{"ooo", "ooo"},
			want:    []string{"...", "..."},
			removed: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFromRows(tt.rows)
			if n := g.clearFullRows(); n != tt.removed {
				t.Errorf("removed %d rows, want %d", n, tt.removed)
			}
			if want := gridFromRows(tt.want); !g.Equal(want) {
				t.Errorf("grid after clear:\n%s\nwant:\n%s", g, want)
			}
			if g.Height() != len(tt.rows) {
				t.Errorf("height changed to %d", g.Height())
			}
		})
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := NewGrid(3, 3)
	c := g.Clone()
	c.Set(C(1, 1), Occupied(1))
	if !g.IsEmpty(C(1, 1)) {
		t.Error("mutating clone changed original")
	}
	if g.Equal(c) {
		t.Error("grids should differ")
	}
}

func gridFromRows(rows []string) *Grid {
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			switch ch {
			case 'o':
				g.Set(C(x, y), Occupied(1))
			case '#':
				g.Set(C(x, y), Wall())
			}
		}
	}
	return g
}
