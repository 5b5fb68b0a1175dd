package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/1shammah/symptom-checker/internal/catalog"
	"github.com/1shammah/symptom-checker/internal/checker"
	"github.com/1shammah/symptom-checker/internal/recommender"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
)

// stubCatalog serves fixed fixture data without a database.
type stubCatalog struct {
	profiles    []recommender.Profile
	precautions map[string][]string
	recorded    int
}

func (s *stubCatalog) Profiles(ctx context.Context) ([]recommender.Profile, error) {
	return s.profiles, nil
}

func (s *stubCatalog) Symptoms(ctx context.Context) ([]catalog.Symptom, error) {
	seen := make(map[string]bool)
	var out []catalog.Symptom
	for _, p := range s.profiles {
		for _, sym := range p.Symptoms {
			if !seen[sym] {
				seen[sym] = true
				out = append(out, catalog.Symptom{Name: sym})
			}
		}
	}
	return out, nil
}

func (s *stubCatalog) Diseases(ctx context.Context) ([]string, error) {
	var out []string
	for _, p := range s.profiles {
		out = append(out, p.Disease)
	}
	return out, nil
}

func (s *stubCatalog) SymptomsByDisease(ctx context.Context, disease string) ([]string, error) {
	for _, p := range s.profiles {
		if p.Disease == disease {
			return p.Symptoms, nil
		}
	}
	return nil, nil
}

func (s *stubCatalog) Precautions(ctx context.Context, disease string) ([]string, error) {
	if steps, ok := s.precautions[disease]; ok {
		return steps, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubCatalog) RecordCheck(ctx context.Context, userID int64, symptoms []string, predicted string, score float64) error {
	s.recorded++
	return nil
}

func (s *stubCatalog) ChecksByUser(ctx context.Context, userID int64, limit int) ([]catalog.CheckRecord, error) {
	return nil, nil
}

func fixtureCatalog() *stubCatalog {
	return &stubCatalog{
		profiles: []recommender.Profile{
			{Disease: "Cold", Symptoms: []string{"cough", "runny nose", "sneezing"}},
			{Disease: "Flu", Symptoms: []string{"fever", "cough", "fatigue", "body ache"}},
			{Disease: "Migraine", Symptoms: []string{"headache", "nausea", "light sensitivity"}},
		},
		precautions: map[string][]string{
			"Flu": {"rest", "drink fluids"},
		},
	}
}

func newTestHandler(t *testing.T) (*Handler, *stubCatalog) {
	t.Helper()
	cat := fixtureCatalog()
	snap, err := recommender.Load(cat.profiles)
	if err != nil {
		t.Fatalf("loading fixture corpus: %v", err)
	}
	engine := recommender.NewEngine(snap)
	return New(engine, cat, nil, nil, nil, nil, nil, 5, 10), cat
}

func doCheck(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Check(w, req)
	return w
}

func TestCheckRanksOverlappingDiseaseFirst(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doCheck(t, h, `{"symptoms":["fever","cough"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp checker.CheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ZeroMatch {
		t.Fatal("expected a match for fever+cough")
	}
	if resp.Results[0].Disease != "Flu" {
		t.Errorf("top match = %q, want Flu", resp.Results[0].Disease)
	}
	if len(resp.Results[0].Precautions) != 2 {
		t.Errorf("Flu precautions = %v, want 2 steps", resp.Results[0].Precautions)
	}
	if len(resp.Results[0].Symptoms) == 0 {
		t.Error("top match should be enriched with its symptom list")
	}
}

func TestCheckZeroMatch(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doCheck(t, h, `{"symptoms":["completely unknown thing"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp checker.CheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.ZeroMatch {
		t.Error("expected zero_match for unrecognized symptoms")
	}
	for _, r := range resp.Results {
		if r.Score != 0 {
			t.Errorf("zero-match result %q has score %v, want 0", r.Disease, r.Score)
		}
	}
}

func TestCheckRejectsBadInput(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty symptoms", `{"symptoms":[]}`},
		{"missing symptoms", `{}`},
		{"negative top_k", `{"symptoms":["fever"],"top_k":-1}`},
		{"malformed json", `{symptoms`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doCheck(t, h, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCheckClampsTopK(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doCheck(t, h, `{"symptoms":["cough"],"top_k":500}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp checker.CheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Returned > 10 {
		t.Errorf("returned %d results, want at most maxTopK=10", resp.Returned)
	}
}

func TestListEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/symptoms", nil)
	w := httptest.NewRecorder()
	h.ListSymptoms(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("ListSymptoms status = %d, want 200", w.Code)
	}
	var symptoms struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &symptoms); err != nil {
		t.Fatalf("decoding symptoms: %v", err)
	}
	if symptoms.Count != 9 {
		t.Errorf("symptom count = %d, want 9", symptoms.Count)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/diseases", nil)
	w = httptest.NewRecorder()
	h.ListDiseases(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("ListDiseases status = %d, want 200", w.Code)
	}
}

func TestDiseaseDetail(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/diseases/{name}", h.DiseaseDetail)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/diseases/Flu", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var detail checker.RankedDisease
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decoding detail: %v", err)
	}
	if detail.Disease != "Flu" || len(detail.Symptoms) != 4 {
		t.Errorf("detail = %+v, want Flu with 4 symptoms", detail)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/diseases/Nonexistent", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown disease status = %d, want 404", w.Code)
	}
}

func TestReloadSwapsSnapshot(t *testing.T) {
	h, cat := newTestHandler(t)

	cat.profiles = append(cat.profiles, recommender.Profile{
		Disease:  "Allergy",
		Symptoms: []string{"sneezing", "itchy eyes"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
	w := httptest.NewRecorder()
	h.Reload(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Diseases int `json:"diseases"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Diseases != 4 {
		t.Errorf("diseases after reload = %d, want 4", resp.Diseases)
	}
	if h.engine.Snapshot().NumDiseases() != 4 {
		t.Errorf("engine snapshot has %d diseases, want 4", h.engine.Snapshot().NumDiseases())
	}
}
