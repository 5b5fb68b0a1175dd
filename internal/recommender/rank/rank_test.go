package rank

import (
	"errors"
	"sort"
	"testing"

	"github.com/1shammah/symptom-checker/internal/recommender/vectorize"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
)

func TestRankOrdersByScoreDescending(t *testing.T) {
	query := vectorize.Vector{0: 1.0}
	docs := map[string]vectorize.Vector{
		"Flu":       {0: 0.9},
		"Cold":      {0: 0.3},
		"Allergies": {1: 1.0},
	}

	got, err := Rank(query, docs, 3)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	want := []string{"Flu", "Cold", "Allergies"}
	for i, name := range want {
		if got[i].Disease != name {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Disease, name)
		}
	}
	if got[2].Score != 0 {
		t.Errorf("non-overlapping disease score = %v, want 0", got[2].Score)
	}
}

func TestRankBreaksTiesByName(t *testing.T) {
	query := vectorize.Vector{0: 1.0}
	docs := map[string]vectorize.Vector{
		"Zoster":  {0: 0.5},
		"Anemia":  {0: 0.5},
		"Malaria": {0: 0.5},
	}

	got, err := Rank(query, docs, 3)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Disease < got[j].Disease }) {
		t.Errorf("equal scores not ordered by name ascending: %v", got)
	}
}

func TestRankTruncatesToK(t *testing.T) {
	query := vectorize.Vector{0: 1.0}
	docs := map[string]vectorize.Vector{
		"A": {0: 0.9},
		"B": {0: 0.8},
		"C": {0: 0.7},
	}

	got, err := Rank(query, docs, 2)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Disease != "A" || got[1].Disease != "B" {
		t.Errorf("got %v, want A then B", got)
	}
}

func TestRankKLargerThanCorpus(t *testing.T) {
	query := vectorize.Vector{0: 1.0}
	docs := map[string]vectorize.Vector{"A": {0: 0.9}}

	got, err := Rank(query, docs, 10)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestRankZeroQueryVector(t *testing.T) {
	docs := map[string]vectorize.Vector{
		"Cold": {0: 1.0},
		"Flu":  {1: 1.0},
		"Ague": {2: 1.0},
	}

	got, err := Rank(vectorize.Vector{}, docs, 2)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	want := []string{"Ague", "Cold"}
	for i, name := range want {
		if got[i].Disease != name {
			t.Errorf("result[%d] = %q, want %q (zero query must rank by name)", i, got[i].Disease, name)
		}
		if got[i].Score != 0 {
			t.Errorf("result[%d] score = %v, want 0", i, got[i].Score)
		}
	}
}

func TestRankInvalidK(t *testing.T) {
	docs := map[string]vectorize.Vector{"A": {0: 1.0}}
	for _, k := range []int{0, -1} {
		_, err := Rank(vectorize.Vector{0: 1.0}, docs, k)
		if !errors.Is(err, apperrors.ErrInvalidK) {
			t.Errorf("Rank(k=%d) = %v, want ErrInvalidK", k, err)
		}
	}
}

func TestRankEmptyCorpus(t *testing.T) {
	_, err := Rank(vectorize.Vector{0: 1.0}, nil, 1)
	if !errors.Is(err, apperrors.ErrEmptyCorpus) {
		t.Errorf("Rank = %v, want ErrEmptyCorpus", err)
	}
}
