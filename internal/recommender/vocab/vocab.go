// Package vocab builds the fixed term vocabulary over the disease corpus.
// Indices are assigned in ascending lexicographic order so that a given
// corpus always produces the same vocabulary regardless of input ordering.
package vocab

import (
	"net/http"
	"sort"

	"github.com/1shammah/symptom-checker/internal/recommender/term"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
)

// Vocabulary maps each distinct corpus Term to a dense index in [0, Size).
// Immutable after Build; query-time terms outside the vocabulary are
// dropped, never added.
type Vocabulary struct {
	indexOf map[term.Term]int
	terms   []term.Term
}

// Build collects the distinct Terms across all profile term sets and assigns
// contiguous indices starting at 0, ordered lexicographically. It fails with
// ErrEmptyCorpus when no profiles are given or they yield zero distinct
// terms.
func Build(profiles [][]term.Term) (*Vocabulary, error) {
	if len(profiles) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCorpus, http.StatusServiceUnavailable, "no disease profiles")
	}

	distinct := make(map[term.Term]struct{})
	for _, terms := range profiles {
		for _, t := range terms {
			if t == "" {
				continue
			}
			distinct[t] = struct{}{}
		}
	}
	if len(distinct) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCorpus, http.StatusServiceUnavailable, "profiles contain no usable terms")
	}

	terms := make([]term.Term, 0, len(distinct))
	for t := range distinct {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })

	indexOf := make(map[term.Term]int, len(terms))
	for i, t := range terms {
		indexOf[t] = i
	}
	return &Vocabulary{indexOf: indexOf, terms: terms}, nil
}

// IndexOf returns the dense index for t, or false if t is out of vocabulary.
func (v *Vocabulary) IndexOf(t term.Term) (int, bool) {
	idx, ok := v.indexOf[t]
	return idx, ok
}

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int {
	return len(v.terms)
}

// Terms returns the vocabulary terms in index order. The caller must not
// modify the returned slice.
func (v *Vocabulary) Terms() []term.Term {
	return v.terms
}
