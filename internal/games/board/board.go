// Package board draws simulator grids, HUD lines and overlays into a
// core.Screen. It is shared by the grid games.
package board

import (
	"fmt"

	"github.com/vovakirdan/grid-arcade/internal/core"
)

// HUDHeight is the number of screen rows used by the status line and its separator.
const HUDHeight = 2

// Layout places a board of W×H cells on the screen. Each cell is CellW
// characters wide; Framed boards get a one-character box around them.
type Layout struct {
	X, Y   int // screen position of cell (0, 0)
	CellW  int
	W, H   int
	Framed bool
}

// Fit centres a w×h board below the HUD, leaving sideW columns to its right
// for a side panel. Cells are two characters wide when there is room, else
// one. ok is false when even the narrow layout does not fit.
func Fit(screenW, screenH, w, h, sideW int, framed bool) (l Layout, ok bool) {
	frame := 0
	if framed {
		frame = 1
	}
	needH := HUDHeight + h + 2*frame
	if screenH < needH {
		return Layout{}, false
	}
	for cellW := 2; cellW >= 1; cellW-- {
		total := w*cellW + 2*frame + sideW
		if total > screenW {
			continue
		}
		x := (screenW-total)/2 + frame
		y := HUDHeight + frame + (screenH-needH)/2
		return Layout{X: x, Y: y, CellW: cellW, W: w, H: h, Framed: framed}, true
	}
	return Layout{}, false
}

// Right returns the first screen column after the board and its frame.
func (l Layout) Right() int {
	r := l.X + l.W*l.CellW
	if l.Framed {
		r++
	}
	return r
}

// Cell draws r at board cell (x, y). Solid block runes fill the whole cell;
// other runes are padded with a space.
func (l Layout) Cell(dst *core.Screen, x, y int, r rune, c core.Color) {
	if x < 0 || x >= l.W || y < 0 || y >= l.H {
		return
	}
	sx := l.X + x*l.CellW
	sy := l.Y + y
	dst.SetColored(sx, sy, r, c)
	if l.CellW == 2 {
		second := ' '
		if isBlock(r) {
			second = r
		}
		dst.SetColored(sx+1, sy, second, c)
	}
}

// Frame draws the box around a framed board.
func (l Layout) Frame(dst *core.Screen, c core.Color) {
	if !l.Framed {
		return
	}
	dst.DrawBoxColored(core.NewRect(l.X-1, l.Y-1, l.W*l.CellW+2, l.H+2), c)
}

func isBlock(r rune) bool {
	switch r {
	case '█', '▓', '▒', '░':
		return true
	}
	return false
}

// HUD draws the status line and a separator across the top of the screen.
func HUD(dst *core.Screen, text string) {
	dst.DrawText(0, 0, text)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// Overlay draws a centred box with two lines of text.
func Overlay(dst *core.Screen, line1, line2 string) {
	maxLen := max(len([]rune(line1)), len([]rune(line2)))
	boxW := maxLen + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBoxColored(box, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

// MinSize returns the smallest screen that Fit accepts for the same board.
func MinSize(w, h, sideW int, framed bool) (int, int) {
	frame := 0
	if framed {
		frame = 2
	}
	return w + frame + sideW, HUDHeight + h + frame
}

// TooSmall renders the message shown when the terminal cannot hold the board.
func TooSmall(dst *core.Screen, needW, needH int) {
	Overlay(dst, "Window too small", fmt.Sprintf("Need %dx%d, resize to continue", needW, needH))
}
