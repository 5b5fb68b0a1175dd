package recommender

import (
	"net/http"
	"sort"

	"github.com/1shammah/symptom-checker/internal/recommender/rank"
	"github.com/1shammah/symptom-checker/internal/recommender/term"
	"github.com/1shammah/symptom-checker/internal/recommender/vectorize"
	"github.com/1shammah/symptom-checker/internal/recommender/vocab"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
)

// Snapshot is the immutable matching state built from one corpus load:
// vocabulary, document-frequency table, and a TF-IDF vector per disease.
// A Snapshot is safe for concurrent use by any number of queries without
// coordination.
type Snapshot struct {
	vocabulary *vocab.Vocabulary
	docFreq    *vectorize.DocFreq
	vectors    map[string]vectorize.Vector
	diseases   []string
}

// Load normalizes every profile's symptom list, builds the vocabulary and
// document-frequency table, and vectorizes each profile. It fails with
// ErrEmptyCorpus on an empty profile sequence or one that yields zero
// distinct terms. Profiles sharing a disease name collapse into one, with
// their symptom sets merged.
func Load(profiles []Profile) (*Snapshot, error) {
	if len(profiles) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyCorpus, http.StatusServiceUnavailable, "no disease profiles")
	}

	merged := make(map[string][]string, len(profiles))
	diseases := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if _, seen := merged[p.Disease]; !seen {
			diseases = append(diseases, p.Disease)
		}
		merged[p.Disease] = append(merged[p.Disease], p.Symptoms...)
	}
	sort.Strings(diseases)

	termSets := make([][]term.Term, len(diseases))
	for i, disease := range diseases {
		termSets[i] = term.NormalizeAll(merged[disease])
	}

	vocabulary, err := vocab.Build(termSets)
	if err != nil {
		return nil, err
	}
	docFreq := vectorize.CountDocFreq(vocabulary, termSets)

	vectors := make(map[string]vectorize.Vector, len(diseases))
	for i, disease := range diseases {
		vectors[disease] = vectorize.New(termSets[i], vocabulary, docFreq)
	}

	return &Snapshot{
		vocabulary: vocabulary,
		docFreq:    docFreq,
		vectors:    vectors,
		diseases:   diseases,
	}, nil
}

// Query normalizes the raw symptom strings, vectorizes them against the
// snapshot's vocabulary, and returns the top-k diseases by cosine
// similarity. Unrecognized symptom text never fails: it degrades to the
// zero-vector ranking. ErrInvalidK is returned for k < 1.
func (s *Snapshot) Query(symptoms []string, k int) ([]rank.ScoredDisease, error) {
	terms := term.NormalizeAll(symptoms)
	query := vectorize.New(terms, s.vocabulary, s.docFreq)
	return rank.Rank(query, s.vectors, k)
}

// Diseases returns every disease name in ascending order. The caller must
// not modify the returned slice.
func (s *Snapshot) Diseases() []string {
	return s.diseases
}

// NumDiseases returns the corpus size.
func (s *Snapshot) NumDiseases() int {
	return len(s.diseases)
}

// VocabularySize returns the number of distinct terms in the corpus.
func (s *Snapshot) VocabularySize() int {
	return s.vocabulary.Size()
}
