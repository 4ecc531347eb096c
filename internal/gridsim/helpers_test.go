package gridsim

import (
	"math/rand"
	"testing"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func mustNew(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	s, err := New(cfg, newRand(1))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func coordsEqual(a, b []Coord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func ptr(c Coord) *Coord { return &c }
