// Package recommender implements the disease matching engine: TF-IDF
// weighted symptom vectors compared by cosine similarity against an
// immutable corpus snapshot.
package recommender

import (
	"log/slog"
	"sync/atomic"

	"github.com/1shammah/symptom-checker/internal/recommender/rank"
)

// Engine holds the current corpus Snapshot and swaps it atomically on
// reload. Reads never take a lock: in-flight queries see either the old
// snapshot in full or the new one in full, never a mix.
type Engine struct {
	snap   atomic.Pointer[Snapshot]
	logger *slog.Logger
}

// NewEngine creates an Engine serving the given snapshot.
func NewEngine(snap *Snapshot) *Engine {
	e := &Engine{
		logger: slog.Default().With("component", "recommender"),
	}
	e.snap.Store(snap)
	return e
}

// Snapshot returns the currently published snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Query ranks the given raw symptoms against the current snapshot.
func (e *Engine) Query(symptoms []string, k int) ([]rank.ScoredDisease, error) {
	return e.snap.Load().Query(symptoms, k)
}

// Reload builds a fresh snapshot from the profiles and publishes it as one
// atomic replacement. The previous snapshot stays valid for queries already
// holding it. On error the current snapshot is left untouched.
func (e *Engine) Reload(profiles []Profile) error {
	snap, err := Load(profiles)
	if err != nil {
		return err
	}
	e.snap.Store(snap)
	e.logger.Info("corpus snapshot published",
		"diseases", snap.NumDiseases(),
		"vocabulary_size", snap.VocabularySize(),
	)
	return nil
}
