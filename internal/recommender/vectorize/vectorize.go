// Package vectorize converts symptom term sets into sparse TF-IDF weighted
// vectors over the corpus vocabulary. Term frequency is binary: a symptom
// profile lists each symptom at most once, so presence is all that matters.
package vectorize

import (
	"math"

	"github.com/1shammah/symptom-checker/internal/recommender/term"
	"github.com/1shammah/symptom-checker/internal/recommender/vocab"
)

// Vector is a sparse mapping from vocabulary index to a non-negative weight.
// A Vector with no entries is the zero vector.
type Vector map[int]float64

// DocFreq holds the number of disease profiles containing each vocabulary
// term. It is computed once over the corpus at load time and reused for
// every query.
type DocFreq struct {
	counts    []int
	totalDocs int
}

// CountDocFreq tallies, for every vocabulary term, how many profiles
// contain it.
func CountDocFreq(v *vocab.Vocabulary, profiles [][]term.Term) *DocFreq {
	counts := make([]int, v.Size())
	for _, terms := range profiles {
		seen := make(map[int]struct{}, len(terms))
		for _, t := range terms {
			idx, ok := v.IndexOf(t)
			if !ok {
				continue
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			counts[idx]++
		}
	}
	return &DocFreq{counts: counts, totalDocs: len(profiles)}
}

// TotalDocs returns the number of profiles the table was computed over.
func (d *DocFreq) TotalDocs() int {
	return d.totalDocs
}

// IDF returns the smoothed inverse document frequency for the term at idx:
// ln(N/df) + 1. The smoothing keeps the weight strictly positive even for a
// term present in every profile, and df is floored at 1 so the ratio is
// always defined.
func (d *DocFreq) IDF(idx int) float64 {
	df := d.counts[idx]
	if df < 1 {
		df = 1
	}
	return math.Log(float64(d.totalDocs)/float64(df)) + 1
}

// New builds the L2-normalized TF-IDF vector for a term set. Terms outside
// the vocabulary contribute nothing; they cannot match any profile by
// construction. A term set with no in-vocabulary terms yields the zero
// vector, which is left unnormalized.
func New(terms []term.Term, v *vocab.Vocabulary, df *DocFreq) Vector {
	vec := make(Vector, len(terms))
	for _, t := range terms {
		idx, ok := v.IndexOf(t)
		if !ok {
			continue
		}
		vec[idx] = df.IDF(idx)
	}

	norm := vec.Norm()
	if norm == 0 {
		return vec
	}
	for idx, w := range vec {
		vec[idx] = w / norm
	}
	return vec
}

// Norm returns the Euclidean norm of the vector.
func (vec Vector) Norm() float64 {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of two sparse vectors, iterating over the
// smaller one.
func Dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, w := range a {
		sum += w * b[idx]
	}
	return sum
}
