package analytics

import "time"

// EventType labels the outcome of a symptom check.
type EventType string

const (
	EventCheck     EventType = "check"
	EventZeroMatch EventType = "zero_match"
	EventReload    EventType = "corpus_reload"
)

// CheckEvent is emitted for every symptom check.
type CheckEvent struct {
	Type       EventType `json:"type"`
	Symptoms   []string  `json:"symptoms"`
	TopDisease string    `json:"top_disease,omitempty"`
	TopScore   float64   `json:"top_score"`
	Returned   int       `json:"returned"`
	ZeroMatch  bool      `json:"zero_match"`
	CacheHit   bool      `json:"cache_hit"`
	LatencyMs  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
}

// ReloadEvent is emitted when the corpus snapshot is rebuilt.
type ReloadEvent struct {
	Type           EventType `json:"type"`
	Diseases       int       `json:"diseases"`
	VocabularySize int       `json:"vocabulary_size"`
	LatencyMs      int64     `json:"latency_ms"`
	Timestamp      time.Time `json:"timestamp"`
}
