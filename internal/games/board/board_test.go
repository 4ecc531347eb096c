package board

import (
	"strings"
	"testing"

	"github.com/vovakirdan/grid-arcade/internal/core"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name        string
		screenW, sH int
		w, h, side  int
		framed      bool
		ok          bool
		cellW       int
	}{
		{"wide screen uses double cells", 80, 30, 10, 20, 12, true, true, 2},
		{"narrow screen falls back", 30, 30, 10, 20, 12, true, true, 1},
		{"too narrow", 20, 30, 10, 20, 12, true, false, 0},
		{"too short", 80, 10, 10, 20, 0, false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := Fit(tt.screenW, tt.sH, tt.w, tt.h, tt.side, tt.framed)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if l.CellW != tt.cellW {
				t.Errorf("CellW = %d, want %d", l.CellW, tt.cellW)
			}
			if l.Right()+tt.side > tt.screenW {
				t.Errorf("board and panel overflow: right=%d", l.Right())
			}
			if l.Y < HUDHeight {
				t.Errorf("board overlaps HUD at y=%d", l.Y)
			}
		})
	}

	w, h := MinSize(10, 20, 12, true)
	if _, ok := Fit(w, h, 10, 20, 12, true); !ok {
		t.Errorf("MinSize %dx%d should fit", w, h)
	}
	if _, ok := Fit(w-1, h, 10, 20, 12, true); ok {
		t.Error("one column less should not fit")
	}
}

func TestCellDoubleWidth(t *testing.T) {
	dst := core.NewScreen(10, 5)
	l := Layout{X: 1, Y: 2, CellW: 2, W: 3, H: 1}
	l.Cell(dst, 0, 0, '█', core.ColorRed)
	l.Cell(dst, 1, 0, '*', core.ColorYellow)
	l.Cell(dst, 5, 0, 'x', core.ColorRed) // outside the board

	if got := dst.Row(2); got != " ██*      " {
		t.Errorf("row = %q", got)
	}
	if dst.GetCell(2, 2).Color != core.ColorRed || dst.GetCell(3, 2).Color != core.ColorYellow {
		t.Error("wrong colors")
	}
}

func TestOverlayAndHUD(t *testing.T) {
	dst := core.NewScreen(30, 9)
	HUD(dst, " Score: 10")
	Overlay(dst, "Game Over", "Press R")

	if !strings.HasPrefix(dst.Row(0), " Score: 10") || dst.Get(5, 1) != '─' {
		t.Errorf("HUD rows: %q / %q", dst.Row(0), dst.Row(1))
	}
	if !strings.Contains(dst.String(), "Game Over") || !strings.Contains(dst.String(), "Press R") {
		t.Errorf("overlay missing:\n%s", dst)
	}
}
