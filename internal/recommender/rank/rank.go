// Package rank scores disease profiles against a query vector by cosine
// similarity and returns the top-k candidates.
package rank

import (
	"math"
	"net/http"
	"sort"

	"github.com/1shammah/symptom-checker/internal/recommender/vectorize"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
)

// ScoredDisease pairs a disease name with its similarity score in [0, 1].
type ScoredDisease struct {
	Disease string  `json:"disease"`
	Score   float64 `json:"score"`
}

// Rank computes cosine similarity between the query vector and every
// document vector. Both sides are pre-normalized, so similarity reduces to a
// sparse dot product. Results are sorted descending by score with ties
// broken by disease name ascending, then truncated to k.
//
// A zero query vector (no recognizable symptoms) is a valid, documented
// degenerate input: every score is 0 and the result is simply the first k
// disease names in ascending order. Rank fails with ErrInvalidK for k < 1
// and ErrEmptyCorpus when there are no document vectors.
func Rank(query vectorize.Vector, docs map[string]vectorize.Vector, k int) ([]ScoredDisease, error) {
	if k < 1 {
		return nil, apperrors.Newf(apperrors.ErrInvalidK, http.StatusBadRequest, "got k=%d", k)
	}
	if len(docs) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCorpus, http.StatusServiceUnavailable, "no document vectors")
	}

	result := make([]ScoredDisease, 0, len(docs))
	for disease, vec := range docs {
		score := vectorize.Dot(query, vec)
		result = append(result, ScoredDisease{
			Disease: disease,
			Score:   math.Round(score*10000) / 10000,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Disease < result[j].Disease
	})
	if len(result) > k {
		result = result[:k]
	}
	return result, nil
}
