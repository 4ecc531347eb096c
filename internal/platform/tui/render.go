package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/grid-arcade/internal/core"
)

// palette maps screen colors to ANSI 256 color codes. Colors missing here
// render unstyled.
var palette = map[core.Color]lipgloss.Color{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

var cellStyles = func() map[core.Color]lipgloss.Style {
	m := make(map[core.Color]lipgloss.Style, len(palette))
	for c, code := range palette {
		m[c] = lipgloss.NewStyle().Foreground(code)
	}
	return m
}()

// RenderScreen turns a screen buffer into terminal text. Each row is split
// into runs of one color so a run costs a single escape sequence.
func RenderScreen(s *core.Screen) string {
	var out, run strings.Builder
	out.Grow(s.Width()*s.Height()*2 + s.Height())

	flush := func(c core.Color) {
		if run.Len() == 0 {
			return
		}
		if st, ok := cellStyles[c]; ok {
			out.WriteString(st.Render(run.String()))
		} else {
			out.WriteString(run.String())
		}
		run.Reset()
	}

	for y := range s.Height() {
		if y > 0 {
			out.WriteByte('\n')
		}
		color := s.GetCell(0, y).Color
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != color {
				flush(color)
				color = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		flush(color)
	}
	return out.String()
}
