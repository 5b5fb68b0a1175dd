package benchmark

import (
	"fmt"
	"testing"

	"github.com/1shammah/symptom-checker/internal/recommender"
	"github.com/1shammah/symptom-checker/internal/recommender/term"
)

// syntheticProfiles builds a corpus of numDiseases profiles drawing from a
// shared pool of symptom terms, so profiles overlap the way real disease
// data does.
func syntheticProfiles(numDiseases, symptomsPerDisease, poolSize int) []recommender.Profile {
	pool := make([]string, poolSize)
	for i := range pool {
		pool[i] = fmt.Sprintf("symptom_%d", i)
	}
	profiles := make([]recommender.Profile, numDiseases)
	for i := range profiles {
		symptoms := make([]string, symptomsPerDisease)
		for j := range symptoms {
			symptoms[j] = pool[(i*7+j*3)%poolSize]
		}
		profiles[i] = recommender.Profile{
			Disease:  fmt.Sprintf("Disease %03d", i),
			Symptoms: symptoms,
		}
	}
	return profiles
}

// BenchmarkNormalize measures term normalization for inputs of varying
// messiness.
func BenchmarkNormalize(b *testing.B) {
	inputs := []struct {
		name string
		raw  string
	}{
		{"clean", "fever"},
		{"spaced", "  High   Fever  "},
		{"punctuated", "nausea, (severe!)"},
		{"underscored", "skin_rash"},
	}

	for _, in := range inputs {
		b.Run(in.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = term.Normalize(in.raw)
			}
		})
	}
}

// BenchmarkLoad measures snapshot construction for corpora of varying size.
func BenchmarkLoad(b *testing.B) {
	sizes := []int{10, 100, 1000}
	for _, n := range sizes {
		profiles := syntheticProfiles(n, 8, n*2)
		b.Run(fmt.Sprintf("diseases_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := recommender.Load(profiles); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkQuery measures ranking latency against corpora of varying size.
func BenchmarkQuery(b *testing.B) {
	sizes := []int{10, 100, 1000}
	for _, n := range sizes {
		profiles := syntheticProfiles(n, 8, n*2)
		snap, err := recommender.Load(profiles)
		if err != nil {
			b.Fatal(err)
		}
		symptoms := []string{"symptom_0", "symptom_3", "symptom_6", "symptom_9"}
		b.Run(fmt.Sprintf("diseases_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := snap.Query(symptoms, 5); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
