package service

import (
	"math/rand"
	"testing"
)

func TestShuffleIDsIsPermutation(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	out := shuffleIDs(rand.New(rand.NewSource(99)), ids)

	if len(out) != len(ids) {
		t.Fatalf("expected %d ids, got %d", len(ids), len(out))
	}
	seen := make(map[int64]bool, len(out))
	for _, id := range out {
		if seen[id] {
			t.Fatalf("duplicate id %d in shuffle", id)
		}
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("id %d lost in shuffle", id)
		}
	}
}

func TestShuffleIDsLeavesInputUntouched(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5}
	_ = shuffleIDs(rand.New(rand.NewSource(1)), ids)
	for i, want := range []int64{1, 2, 3, 4, 5} {
		if ids[i] != want {
			t.Fatalf("input mutated at index %d", i)
		}
	}
}

func TestShuffleIDsDeterministicPerSeed(t *testing.T) {
	ids := []int64{10, 20, 30, 40, 50, 60}
	a := shuffleIDs(rand.New(rand.NewSource(7)), ids)
	b := shuffleIDs(rand.New(rand.NewSource(7)), ids)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at index %d", i)
		}
	}
}

func TestUniqueIDs(t *testing.T) {
	got := uniqueIDs([]int64{3, 1, 3, 2, 1})
	want := []int64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
