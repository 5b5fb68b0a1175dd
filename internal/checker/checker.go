// Package checker defines the request and response types for the symptom
// check API. The handler subpackage orchestrates the engine, catalog, and
// cache; the cache subpackage stores computed responses in Redis.
package checker

// CheckRequest is the body of a symptom check call.
type CheckRequest struct {
	Symptoms []string `json:"symptoms"`
	TopK     int      `json:"top_k,omitempty"`
}

// RankedDisease is one scored match, enriched with catalog detail.
type RankedDisease struct {
	Disease     string   `json:"disease"`
	Score       float64  `json:"score"`
	Symptoms    []string `json:"symptoms,omitempty"`
	Precautions []string `json:"precautions,omitempty"`
}

// CheckResponse is the full result of a symptom check.
type CheckResponse struct {
	Results   []RankedDisease `json:"results"`
	Returned  int             `json:"returned"`
	ZeroMatch bool            `json:"zero_match"`
	TookMs    int64           `json:"took_ms"`
	Cached    bool            `json:"cached"`
}
