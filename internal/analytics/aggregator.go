package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1shammah/symptom-checker/pkg/kafka"
)

// AggregatedStats is the usage summary served by the analytics endpoint.
type AggregatedStats struct {
	TotalChecks     int64       `json:"total_checks"`
	ZeroMatchCount  int64       `json:"zero_match_count"`
	CacheHits       int64       `json:"cache_hits"`
	CacheMisses     int64       `json:"cache_misses"`
	CorpusReloads   int64       `json:"corpus_reloads"`
	AvgLatencyMs    float64     `json:"avg_latency_ms"`
	P50LatencyMs    int64       `json:"p50_latency_ms"`
	P95LatencyMs    int64       `json:"p95_latency_ms"`
	P99LatencyMs    int64       `json:"p99_latency_ms"`
	TopDiseases     []NameCount `json:"top_diseases"`
	TopSymptoms     []NameCount `json:"top_symptoms"`
	ChecksPerMinute float64     `json:"checks_per_minute"`
}

// NameCount pairs a disease or symptom name with its occurrence count.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Aggregator consumes check events from Kafka and keeps in-memory counters.
type Aggregator struct {
	mu            sync.RWMutex
	totalChecks   atomic.Int64
	zeroMatches   atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	corpusReloads atomic.Int64
	latencies     []int64
	diseaseCounts map[string]int64
	symptomCounts map[string]int64
	startTime     time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator reading from the given consumer. The
// consumer is wired to the aggregator via HandleEvent.
func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:     make([]int64, 0, 10000),
		diseaseCounts: make(map[string]int64),
		symptomCounts: make(map[string]int64),
		startTime:     time.Now(),
		logger:        slog.Default().With("component", "analytics-aggregator"),
	}
}

// SetConsumer attaches the Kafka consumer feeding this aggregator.
func (a *Aggregator) SetConsumer(consumer *kafka.Consumer) {
	a.consumer = consumer
}

// Start runs the consume loop until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns a kafka.MessageHandler that decodes check and reload
// events and records them in the aggregator.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[CheckEvent](value)
		if err == nil && (event.Type == EventCheck || event.Type == EventZeroMatch) {
			agg.RecordCheck(event)
			return nil
		}
		reload, rErr := kafka.DecodeJSON[ReloadEvent](value)
		if rErr == nil && reload.Type == EventReload {
			agg.RecordReload(reload)
			return nil
		}
		agg.logger.Error("failed to decode analytics event", "error", err)
		return nil
	}
}

// RecordCheck folds one check event into the counters.
func (a *Aggregator) RecordCheck(event CheckEvent) {
	a.totalChecks.Add(1)
	if event.ZeroMatch {
		a.zeroMatches.Add(1)
	}
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	if event.TopDisease != "" {
		a.diseaseCounts[event.TopDisease]++
	}
	for _, symptom := range event.Symptoms {
		a.symptomCounts[symptom]++
	}
	a.mu.Unlock()
}

// RecordReload counts one corpus reload.
func (a *Aggregator) RecordReload(event ReloadEvent) {
	a.corpusReloads.Add(1)
}

// Stats returns a snapshot of the aggregated counters.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalChecks:    a.totalChecks.Load(),
		ZeroMatchCount: a.zeroMatches.Load(),
		CacheHits:      a.cacheHits.Load(),
		CacheMisses:    a.cacheMisses.Load(),
		CorpusReloads:  a.corpusReloads.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopDiseases = topN(a.diseaseCounts, 10)
	stats.TopSymptoms = topN(a.symptomCounts, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.ChecksPerMinute = float64(stats.TotalChecks) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []NameCount {
	result := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, NameCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
