// Package handler implements the checker HTTP API: symptom checks, catalog
// browsing, check history, account endpoints, and admin operations.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/1shammah/symptom-checker/internal/analytics"
	"github.com/1shammah/symptom-checker/internal/auth/session"
	"github.com/1shammah/symptom-checker/internal/auth/user"
	"github.com/1shammah/symptom-checker/internal/catalog"
	"github.com/1shammah/symptom-checker/internal/checker"
	"github.com/1shammah/symptom-checker/internal/checker/cache"
	"github.com/1shammah/symptom-checker/internal/checker/middleware"
	"github.com/1shammah/symptom-checker/internal/recommender"
	"github.com/1shammah/symptom-checker/internal/recommender/rank"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
	"github.com/1shammah/symptom-checker/pkg/logger"
	"github.com/1shammah/symptom-checker/pkg/metrics"
	pkgmw "github.com/1shammah/symptom-checker/pkg/middleware"
)

const historyLimit = 50

// Catalog is the slice of the catalog store the handler needs.
type Catalog interface {
	Profiles(ctx context.Context) ([]recommender.Profile, error)
	Symptoms(ctx context.Context) ([]catalog.Symptom, error)
	Diseases(ctx context.Context) ([]string, error)
	SymptomsByDisease(ctx context.Context, disease string) ([]string, error)
	Precautions(ctx context.Context, disease string) ([]string, error)
	RecordCheck(ctx context.Context, userID int64, symptoms []string, predicted string, score float64) error
	ChecksByUser(ctx context.Context, userID int64, limit int) ([]catalog.CheckRecord, error)
}

// Handler serves the checker API.
type Handler struct {
	engine      *recommender.Engine
	catalog     Catalog
	cache       *cache.CheckCache
	collector   *analytics.Collector
	users       *user.Store
	sessions    *session.Manager
	metrics     *metrics.Metrics
	defaultTopK int
	maxTopK     int
	logger      *slog.Logger
}

// New creates a Handler. cache, collector, and metrics may be nil; the
// corresponding features are then skipped.
func New(
	engine *recommender.Engine,
	cat Catalog,
	checkCache *cache.CheckCache,
	collector *analytics.Collector,
	users *user.Store,
	sessions *session.Manager,
	m *metrics.Metrics,
	defaultTopK, maxTopK int,
) *Handler {
	return &Handler{
		engine:      engine,
		catalog:     cat,
		cache:       checkCache,
		collector:   collector,
		users:       users,
		sessions:    sessions,
		metrics:     m,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
		logger:      slog.Default().With("component", "check-handler"),
	}
}

// Check ranks the submitted symptoms against the disease corpus and returns
// the top matches enriched with catalog detail.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req checker.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Symptoms) == 0 {
		h.writeError(w, http.StatusBadRequest, "at least one symptom is required")
		return
	}

	topK := req.TopK
	if topK == 0 {
		topK = h.defaultTopK
	}
	if topK < 1 {
		h.writeError(w, http.StatusBadRequest, "top_k must be a positive integer")
		return
	}
	if topK > h.maxTopK {
		topK = h.maxTopK
	}

	var resp *checker.CheckResponse
	var err error
	cacheHit := false

	if h.cache != nil {
		resp, cacheHit, err = h.cache.GetOrCompute(ctx, req.Symptoms, topK, func() (*checker.CheckResponse, error) {
			return h.compute(ctx, req.Symptoms, topK)
		})
	} else {
		resp, err = h.compute(ctx, req.Symptoms, topK)
	}
	if err != nil {
		log.Error("symptom check failed", "error", err)
		h.writeAppError(w, err)
		h.countCheck("error")
		return
	}

	latencyMs := time.Since(start).Milliseconds()
	resp.TookMs = latencyMs
	resp.Cached = cacheHit

	if u := middleware.GetUser(ctx); u != nil && !resp.ZeroMatch {
		top := resp.Results[0]
		if err := h.catalog.RecordCheck(ctx, u.ID, req.Symptoms, top.Disease, top.Score); err != nil {
			log.Warn("failed to record check history", "user_id", u.ID, "error", err)
		}
	}

	h.observeCheck(resp, cacheHit, start)
	log.Info("symptom check completed",
		"symptoms", len(req.Symptoms),
		"returned", resp.Returned,
		"zero_match", resp.ZeroMatch,
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)

	if h.collector != nil {
		event := analytics.CheckEvent{
			Type:      analytics.EventCheck,
			Symptoms:  req.Symptoms,
			Returned:  resp.Returned,
			ZeroMatch: resp.ZeroMatch,
			CacheHit:  cacheHit,
			LatencyMs: latencyMs,
			Timestamp: time.Now().UTC(),
			RequestID: pkgmw.GetRequestID(ctx),
		}
		if resp.ZeroMatch {
			event.Type = analytics.EventZeroMatch
		} else {
			event.TopDisease = resp.Results[0].Disease
			event.TopScore = resp.Results[0].Score
		}
		h.collector.Track(event)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// compute runs the ranking and enriches each scored disease with its symptom
// list and precautions.
func (h *Handler) compute(ctx context.Context, symptoms []string, topK int) (*checker.CheckResponse, error) {
	ranked, err := h.engine.Query(symptoms, topK)
	if err != nil {
		return nil, err
	}

	zeroMatch := len(ranked) == 0 || ranked[0].Score == 0
	results := make([]checker.RankedDisease, 0, len(ranked))
	for _, sd := range ranked {
		results = append(results, h.enrich(ctx, sd))
	}
	return &checker.CheckResponse{
		Results:   results,
		Returned:  len(results),
		ZeroMatch: zeroMatch,
	}, nil
}

func (h *Handler) enrich(ctx context.Context, sd rank.ScoredDisease) checker.RankedDisease {
	out := checker.RankedDisease{Disease: sd.Disease, Score: sd.Score}

	syms, err := h.catalog.SymptomsByDisease(ctx, sd.Disease)
	if err != nil {
		h.logger.Warn("failed to load disease symptoms", "disease", sd.Disease, "error", err)
	} else {
		out.Symptoms = syms
	}

	precautions, err := h.catalog.Precautions(ctx, sd.Disease)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		h.logger.Warn("failed to load precautions", "disease", sd.Disease, "error", err)
	} else {
		out.Precautions = precautions
	}
	return out
}

// ListSymptoms returns the full symptom catalog with severity metadata.
func (h *Handler) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	symptoms, err := h.catalog.Symptoms(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list symptoms", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list symptoms")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"symptoms": symptoms,
		"count":    len(symptoms),
	})
}

// ListDiseases returns every disease name in the catalog.
func (h *Handler) ListDiseases(w http.ResponseWriter, r *http.Request) {
	diseases, err := h.catalog.Diseases(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list diseases", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list diseases")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"diseases": diseases,
		"count":    len(diseases),
	})
}

// DiseaseDetail returns the symptom list and precautions for one disease.
func (h *Handler) DiseaseDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		h.writeError(w, http.StatusBadRequest, "disease name is required")
		return
	}
	ctx := r.Context()

	symptoms, err := h.catalog.SymptomsByDisease(ctx, name)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load disease detail", "disease", name, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load disease detail")
		return
	}
	if len(symptoms) == 0 {
		h.writeError(w, http.StatusNotFound, "unknown disease")
		return
	}

	precautions, err := h.catalog.Precautions(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.FromContext(ctx).Error("failed to load precautions", "disease", name, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load disease detail")
		return
	}

	h.writeJSON(w, http.StatusOK, checker.RankedDisease{
		Disease:     name,
		Symptoms:    symptoms,
		Precautions: precautions,
	})
}

// History returns the authenticated user's most recent checks.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r.Context())
	if u == nil {
		h.writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}

	limit := historyLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	records, err := h.catalog.ChecksByUser(r.Context(), u.ID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to load check history", "user_id", u.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"checks": records,
		"count":  len(records),
	})
}

// Register creates a new account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Gender   string `json:"gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Gender)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, u)
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	token, err := h.sessions.Create(r.Context(), u)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to create session", "user_id", u.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u,
	})
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())
	if token == "" {
		h.writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}
	if err := h.sessions.Destroy(r.Context(), token); err != nil {
		logger.FromContext(r.Context()).Error("failed to destroy session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r.Context())
	if u == nil {
		h.writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// Reload rebuilds the corpus snapshot from the catalog and swaps it in
// atomically. Cached check responses are invalidated afterwards.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	profiles, err := h.catalog.Profiles(ctx)
	if err != nil {
		log.Error("failed to load profiles for reload", "error", err)
		h.countReload("error")
		h.writeError(w, http.StatusInternalServerError, "failed to load disease profiles")
		return
	}
	if err := h.engine.Reload(profiles); err != nil {
		log.Error("corpus reload failed", "error", err)
		h.countReload("error")
		h.writeAppError(w, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			log.Warn("cache invalidation after reload failed", "error", err)
		}
	}

	snap := h.engine.Snapshot()
	latencyMs := time.Since(start).Milliseconds()
	h.countReload("success")
	if h.metrics != nil {
		h.metrics.CorpusDiseases.Set(float64(snap.NumDiseases()))
		h.metrics.CorpusVocabularySize.Set(float64(snap.VocabularySize()))
	}
	if h.collector != nil {
		h.collector.Track(analytics.ReloadEvent{
			Type:           analytics.EventReload,
			Diseases:       snap.NumDiseases(),
			VocabularySize: snap.VocabularySize(),
			LatencyMs:      latencyMs,
			Timestamp:      time.Now().UTC(),
		})
	}

	log.Info("corpus reloaded",
		"diseases", snap.NumDiseases(),
		"vocabulary_size", snap.VocabularySize(),
		"latency_ms", latencyMs,
	)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":          "reloaded",
		"diseases":        snap.NumDiseases(),
		"vocabulary_size": snap.VocabularySize(),
		"took_ms":         latencyMs,
	})
}

// CacheStats reports cache hit/miss counters for this process.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate drops every cached check response.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) observeCheck(resp *checker.CheckResponse, cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	resultType := "match"
	if resp.ZeroMatch {
		resultType = "zero_match"
	}
	h.metrics.ChecksTotal.WithLabelValues(resultType).Inc()
	h.metrics.CheckResultsCount.Observe(float64(resp.Returned))
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.CheckLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
}

func (h *Handler) countCheck(resultType string) {
	if h.metrics != nil {
		h.metrics.ChecksTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) countReload(status string) {
	if h.metrics != nil {
		h.metrics.CorpusReloadsTotal.WithLabelValues(status).Inc()
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps domain errors to HTTP status codes.
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		message = "internal error"
	}
	h.writeError(w, status, message)
}
