package vocab

import (
	"errors"
	"testing"

	"github.com/1shammah/symptom-checker/internal/recommender/term"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
)

func TestBuildAssignsContiguousSortedIndices(t *testing.T) {
	profiles := [][]term.Term{
		{"fever", "cough", "fatigue"},
		{"cough", "sneeze"},
	}
	v, err := Build(profiles)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if v.Size() != 4 {
		t.Fatalf("Size = %d, want 4", v.Size())
	}

	want := []term.Term{"cough", "fatigue", "fever", "sneeze"}
	for i, w := range want {
		idx, ok := v.IndexOf(w)
		if !ok {
			t.Fatalf("IndexOf(%q) not found", w)
		}
		if idx != i {
			t.Errorf("IndexOf(%q) = %d, want %d", w, idx, i)
		}
	}
	if terms := v.Terms(); len(terms) != 4 || terms[0] != "cough" || terms[3] != "sneeze" {
		t.Errorf("Terms() = %v, want %v", terms, want)
	}
}

func TestBuildDeterministicAcrossInputOrder(t *testing.T) {
	a, err := Build([][]term.Term{{"fever", "cough"}, {"sneeze"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := Build([][]term.Term{{"sneeze"}, {"cough", "fever"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, tm := range []term.Term{"cough", "fever", "sneeze"} {
		ia, _ := a.IndexOf(tm)
		ib, _ := b.IndexOf(tm)
		if ia != ib {
			t.Errorf("index for %q differs across input orderings: %d vs %d", tm, ia, ib)
		}
	}
}

func TestBuildOutOfVocabulary(t *testing.T) {
	v, err := Build([][]term.Term{{"fever"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := v.IndexOf("headache"); ok {
		t.Error("IndexOf returned ok for out-of-vocabulary term")
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	cases := []struct {
		name     string
		profiles [][]term.Term
	}{
		{"no profiles", nil},
		{"profiles with no terms", [][]term.Term{{}, {}}},
		{"only empty terms", [][]term.Term{{""}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.profiles)
			if !errors.Is(err, apperrors.ErrEmptyCorpus) {
				t.Errorf("Build = %v, want ErrEmptyCorpus", err)
			}
		})
	}
}
