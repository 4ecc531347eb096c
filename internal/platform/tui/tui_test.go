package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/grid-arcade/internal/config"
	"github.com/vovakirdan/grid-arcade/internal/core"
	_ "github.com/vovakirdan/grid-arcade/internal/games/life"
	_ "github.com/vovakirdan/grid-arcade/internal/games/snake"
	_ "github.com/vovakirdan/grid-arcade/internal/games/tetris"
	"github.com/vovakirdan/grid-arcade/internal/registry"
	"github.com/vovakirdan/grid-arcade/internal/replay"
	"github.com/vovakirdan/grid-arcade/internal/storage"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapperPerGame(t *testing.T) {
	tests := []struct {
		game string
		key  string
		want core.Action
	}{
		{"snake", "up", core.ActionUp},
		{"snake", " ", core.ActionNone},
		{"tetris", " ", core.ActionDrop},
		{"tetris", "x", core.ActionRotate},
		{"life", " ", core.ActionToggle},
		{"life", "enter", core.ActionRun},
		{"life", "tab", core.ActionNextPattern},
		{"life", "n", core.ActionStep},
		{"life", "r", core.ActionRestart},
		{"unknown", "left", core.ActionLeft},
	}
	for _, tc := range tests {
		km := NewKeyMapper(tc.game)
		got, quit := km.MapKey(keyMsg(tc.key))
		if quit || got != tc.want {
			t.Errorf("%s %q = %v (quit=%v), want %v", tc.game, tc.key, got, quit, tc.want)
		}
	}

	if _, quit := NewKeyMapper("snake").MapKey(keyMsg("q")); !quit {
		t.Error("q should quit")
	}
}

func TestMenuActions(t *testing.T) {
	tests := map[string]MenuAction{
		"up": MenuActionUp, "j": MenuActionDown, "left": MenuActionLeft, "l": MenuActionRight,
		"enter": MenuActionSelect, "esc": MenuActionBack, "tab": MenuActionScoreboard, "q": MenuActionQuit,
		"z": MenuActionNone,
	}
	for key, want := range tests {
		if got := MapKeyToMenuAction(keyMsg(key)); got != want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", key, got, want)
		}
	}
}

func newGame(t *testing.T, id string) registry.Game {
	t.Helper()
	g, err := registry.Create(id, registry.Options{})
	if err != nil {
		t.Fatalf("Create(%s): %v", id, err)
	}
	return g
}

func tick(m GameModel, n int) GameModel {
	for i := 0; i < n; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(GameModel)
	}
	return m
}

func press(m GameModel, key string) GameModel {
	next, _ := m.Update(keyMsg(key))
	return next.(GameModel)
}

func TestGameModelRecordsReplay(t *testing.T) {
	rec := replay.NewRecorder("tetris")
	m := NewGameModel(newGame(t, "tetris"), nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 11}, rec)
	m.Init()

	for i := 0; i < 40; i++ {
		m = press(m, []string{"left", "x", " ", "right"}[i%4])
		m = tick(m, 3)
	}

	recording := m.Recording()
	if recording == nil || len(recording.Events) == 0 {
		t.Fatal("nothing recorded")
	}
	if recording.Header.Seed != 11 || recording.Header.GameID != "tetris" {
		t.Errorf("header = %+v", recording.Header)
	}

	path := filepath.Join(t.TempDir(), "run.jsonl.zst")
	if err := replay.Save(path, recording); err != nil {
		t.Fatal(err)
	}
	loaded, err := replay.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := replay.Verify(loaded); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestGameModelResizeKeepsRun(t *testing.T) {
	rec := replay.NewRecorder("life")
	m := NewGameModel(newGame(t, "life"), nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 3}, rec)
	m.Init()
	m = press(m, " ")
	m = tick(m, 1)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(GameModel)
	m = tick(m, 1)

	recording := m.Recording()
	if recording.Header.Seed != 3 {
		t.Errorf("resize restarted the run with seed %d", recording.Header.Seed)
	}
	if _, err := replay.Verify(recording); err != nil {
		t.Errorf("Verify after resize: %v", err)
	}
	if !strings.Contains(m.View(), "Population: 1") {
		t.Error("toggled cell lost on resize")
	}
}

func TestGameModelSavesScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := NewGameModel(newGame(t, "tetris"), store, core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 5}, nil)
	m.Init()
	for i := 0; i < 200 && !m.gameState.GameOver; i++ {
		m = press(m, " ")
		m = tick(m, 1)
	}
	if !m.gameState.GameOver {
		t.Fatal("stack never topped out")
	}
	m = tick(m, 5)

	scores, err := store.TopScores("tetris", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Score != m.gameState.Score {
		t.Errorf("scores = %+v, want one entry of %d", scores, m.gameState.Score)
	}

	m = press(m, "b")
	if !m.BackToMenu() {
		t.Error("b after game over should return to the menu")
	}
}

func TestMenuDifficultyAndSelect(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 100, ScreenH: 30})
	if m.Difficulty() != config.DifficultyNormal {
		t.Fatalf("default difficulty = %s", m.Difficulty())
	}

	update := func(key string) {
		next, _ := m.Update(keyMsg(key))
		m = next.(MenuModel)
	}
	update("right")
	if m.Difficulty() != config.DifficultyHard {
		t.Errorf("after right: %s", m.Difficulty())
	}
	update("left")
	update("left")
	update("left")
	if m.Difficulty() != config.DifficultyFixed {
		t.Errorf("difficulty should wrap, got %s", m.Difficulty())
	}

	view := m.View()
	for _, want := range []string{"Game of Life", "Snake", "Tetris", "fixed"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view missing %q", want)
		}
	}

	update("down")
	update("enter")
	if sel := m.Selected(); sel == nil || sel.ID != "snake" {
		t.Errorf("selected = %+v, want snake", sel)
	}
}

func TestSessionMenuGameMenu(t *testing.T) {
	s := NewSessionModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60}, "tester", nil)
	update := func(msg tea.Msg) {
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	update(keyMsg("down"))
	update(keyMsg("down"))
	update(keyMsg("enter"))
	if s.gameModel == nil || s.lastGame != "tetris" {
		t.Fatalf("expected tetris to start, lastGame=%q", s.lastGame)
	}
	if !strings.Contains(s.View(), "Score") {
		t.Error("game view not shown")
	}

	update(keyMsg("p"))
	update(TickMsg{})
	update(keyMsg("b"))
	if s.gameModel != nil {
		t.Fatal("b while paused should return to the menu")
	}
	if !strings.Contains(s.View(), "Select a game") {
		t.Error("menu not shown after leaving the game")
	}

	update(keyMsg("tab"))
	if s.scoreboard == nil {
		t.Fatal("tab should open the scoreboard")
	}
	update(keyMsg("esc"))
	if s.scoreboard != nil {
		t.Error("esc should leave the scoreboard")
	}
}

func TestScoreboard(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	for _, s := range []struct {
		game  string
		score int
	}{{"tetris", 300}, {"tetris", 1200}, {"snake", 40}} {
		if _, err := store.SaveScore(s.game, s.score); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, "tetris", 100, 30)
	if g, _ := m.selected(); g.ID != "tetris" {
		t.Fatalf("opened on %q, want tetris", g.ID)
	}
	if len(m.scores) != 2 || m.scores[0].Score != 1200 {
		t.Errorf("scores = %+v", m.scores)
	}
	if line := m.statsLine(); !strings.Contains(line, "Played 2") || !strings.Contains(line, "Best 1200") {
		t.Errorf("stats line = %q", line)
	}
	view := m.View()
	for _, want := range []string{"HIGH SCORES - Tetris", "1200", "40"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Games are sorted life, snake, tetris; tab wraps to life.
	next, _ := m.Update(keyMsg("tab"))
	m = next.(ScoreboardModel)
	if g, _ := m.selected(); g.ID != "life" || len(m.scores) != 0 || m.statsLine() != "" {
		t.Errorf("after tab: game %q, %d scores", g.ID, len(m.scores))
	}
	next, _ = m.Update(keyMsg("left"))
	m = next.(ScoreboardModel)
	if g, _ := m.selected(); g.ID != "tetris" {
		t.Errorf("left should wrap back to tetris, got %q", g.ID)
	}

	next, _ = m.Update(keyMsg("esc"))
	if sb := next.(ScoreboardModel); !sb.IsGoingBack() || sb.IsQuitting() {
		t.Error("esc should go back to the menu")
	}

	narrow := NewScoreboardModel(nil, "", 60, 20)
	if v := narrow.View(); !strings.Contains(v, "No scores recorded yet") {
		t.Errorf("narrow view without a store:\n%s", v)
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawText(0, 0, "Score: 10")
	s.DrawTextColored(2, 1, "██", core.ColorBrightCyan)
	s.DrawTextColored(4, 1, "██", core.ColorOrange)
	s.SetColored(11, 2, '@', core.ColorRed)

	// Tests run without a terminal, so styles add no escape codes.
	if got, want := RenderScreen(s), s.String(); got != want {
		t.Errorf("RenderScreen =\n%q\nwant\n%q", got, want)
	}
}
