package vectorize

import (
	"math"
	"testing"

	"github.com/1shammah/symptom-checker/internal/recommender/term"
	"github.com/1shammah/symptom-checker/internal/recommender/vocab"
)

const tolerance = 1e-9

func buildFixture(t *testing.T) (*vocab.Vocabulary, *DocFreq, [][]term.Term) {
	t.Helper()
	profiles := [][]term.Term{
		{"fever", "cough", "fatigue"},
		{"cough", "sneeze"},
	}
	v, err := vocab.Build(profiles)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return v, CountDocFreq(v, profiles), profiles
}

func TestCountDocFreq(t *testing.T) {
	v, df, _ := buildFixture(t)

	if df.TotalDocs() != 2 {
		t.Fatalf("TotalDocs = %d, want 2", df.TotalDocs())
	}

	wantIDF := map[term.Term]float64{
		"cough":   1.0,               // appears in both profiles: ln(2/2)+1
		"fever":   math.Log(2) + 1,   // appears in one profile
		"fatigue": math.Log(2) + 1,
		"sneeze":  math.Log(2) + 1,
	}
	for tm, want := range wantIDF {
		idx, ok := v.IndexOf(tm)
		if !ok {
			t.Fatalf("term %q missing from vocabulary", tm)
		}
		if got := df.IDF(idx); math.Abs(got-want) > tolerance {
			t.Errorf("IDF(%q) = %v, want %v", tm, got, want)
		}
	}
}

func TestCountDocFreqIgnoresDuplicatesWithinProfile(t *testing.T) {
	profiles := [][]term.Term{{"fever", "fever"}, {"cough"}}
	v, err := vocab.Build(profiles)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	df := CountDocFreq(v, profiles)
	idx, _ := v.IndexOf("fever")
	want := math.Log(2) + 1
	if got := df.IDF(idx); math.Abs(got-want) > tolerance {
		t.Errorf("IDF(fever) = %v, want %v (df must count profiles, not occurrences)", got, want)
	}
}

func TestNewProducesUnitNorm(t *testing.T) {
	v, df, profiles := buildFixture(t)
	for i, terms := range profiles {
		vec := New(terms, v, df)
		if norm := vec.Norm(); math.Abs(norm-1.0) > tolerance {
			t.Errorf("profile %d: norm = %v, want 1.0", i, norm)
		}
	}
}

func TestNewDropsOutOfVocabularyTerms(t *testing.T) {
	v, df, _ := buildFixture(t)
	vec := New([]term.Term{"fever", "headache"}, v, df)

	feverIdx, _ := v.IndexOf("fever")
	if _, ok := vec[feverIdx]; !ok {
		t.Error("in-vocabulary term missing from vector")
	}
	if len(vec) != 1 {
		t.Errorf("vector has %d entries, want 1 (out-of-vocabulary terms must be dropped)", len(vec))
	}
	if norm := vec.Norm(); math.Abs(norm-1.0) > tolerance {
		t.Errorf("norm = %v, want 1.0", norm)
	}
}

func TestNewZeroVectorForUnknownTerms(t *testing.T) {
	v, df, _ := buildFixture(t)
	vec := New([]term.Term{"headache", "nausea"}, v, df)
	if len(vec) != 0 {
		t.Errorf("vector has %d entries, want the zero vector", len(vec))
	}
	if norm := vec.Norm(); norm != 0 {
		t.Errorf("zero vector norm = %v, want 0", norm)
	}
}

func TestDot(t *testing.T) {
	a := Vector{0: 0.6, 2: 0.8}
	b := Vector{0: 0.5, 1: 0.5, 2: 0.5}
	want := 0.6*0.5 + 0.8*0.5

	if got := Dot(a, b); math.Abs(got-want) > tolerance {
		t.Errorf("Dot(a, b) = %v, want %v", got, want)
	}
	if got := Dot(b, a); math.Abs(got-want) > tolerance {
		t.Errorf("Dot(b, a) = %v, want %v (dot must be symmetric)", got, want)
	}
	if got := Dot(a, Vector{}); got != 0 {
		t.Errorf("Dot with zero vector = %v, want 0", got)
	}
}
