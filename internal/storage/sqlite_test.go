package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func save(t *testing.T, store *Store, gameID string, scores ...int) {
	t.Helper()
	for _, sc := range scores {
		if _, err := store.SaveScore(gameID, sc); err != nil {
			t.Fatalf("SaveScore(%s, %d) failed: %v", gameID, sc, err)
		}
	}
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openStore(t)
	save(t, store, "snake", 100, 50, 200)
	save(t, store, "tetris", 500)

	tests := []struct {
		game  string
		limit int
		want  []int
	}{
		{"snake", 10, []int{200, 100, 50}},
		{"snake", 2, []int{200, 100}},
		{"tetris", 10, []int{500}},
		{"life", 10, nil},
	}
	for _, tc := range tests {
		scores, err := store.TopScores(tc.game, tc.limit)
		if err != nil {
			t.Fatalf("TopScores(%s) failed: %v", tc.game, err)
		}
		if len(scores) != len(tc.want) {
			t.Errorf("TopScores(%s, %d) returned %d rows, want %d", tc.game, tc.limit, len(scores), len(tc.want))
			continue
		}
		for i, e := range scores {
			if e.Score != tc.want[i] || e.GameID != tc.game {
				t.Errorf("TopScores(%s)[%d] = %+v, want score %d", tc.game, i, e, tc.want[i])
			}
			if e.CreatedAt.IsZero() {
				t.Errorf("TopScores(%s)[%d] has no timestamp", tc.game, i)
			}
		}
	}
}

func TestStoreDefaultLimit(t *testing.T) {
	store := openStore(t)
	for i := 0; i < 15; i++ {
		save(t, store, "tetris", i*100)
	}
	scores, err := store.TopScores("tetris", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(scores))
	}

	all, err := store.AllScores("tetris")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 15 {
		t.Errorf("AllScores returned %d rows, want 15", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openStore(t)

	high, err := store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	save(t, store, "snake", 100, 300, 200)
	high, err = store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openStore(t)
	save(t, store, "snake", 100, 200)
	save(t, store, "tetris", 300)

	if err := store.ClearScores("snake"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("snake", 10); len(scores) != 0 {
		t.Errorf("Expected 0 snake scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("tetris", 10); len(scores) != 1 {
		t.Error("tetris scores should not be affected by clearing snake")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openStore(t)

	empty, err := store.GetGameStats("life")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected stats for unplayed game: %+v", empty)
	}

	save(t, store, "snake", 10, 20, 30)
	stats, err := store.GetGameStats("snake")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 || stats.HighScore != 30 || stats.TotalScore != 60 || stats.AvgScore != 20 {
		t.Errorf("snake stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}

func TestStoreAllGamesStats(t *testing.T) {
	store := openStore(t)
	save(t, store, "snake", 40)
	save(t, store, "tetris", 100, 300)

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected stats for 2 games, got %d", len(all))
	}
	if got := all["tetris"]; got == nil || got.GamesCount != 2 || got.HighScore != 300 {
		t.Errorf("tetris stats = %+v", got)
	}
	if _, ok := all["life"]; ok {
		t.Error("unplayed game should not appear")
	}
}
