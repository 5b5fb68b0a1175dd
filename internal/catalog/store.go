// Package catalog is the PostgreSQL-backed store for the disease-symptom
// reference data: diseases, symptoms with descriptions and severity,
// precautions, and per-user check history. It supplies the profile sequence
// the recommender engine is loaded from.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/1shammah/symptom-checker/internal/recommender"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
	"github.com/1shammah/symptom-checker/pkg/postgres"
)

// Symptom is one catalog entry with its optional metadata.
type Symptom struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Severity    int    `json:"severity,omitempty"`
}

// CheckRecord is one saved symptom check.
type CheckRecord struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Symptoms         []string  `json:"symptoms"`
	PredictedDisease string    `json:"predicted_disease"`
	Score            float64   `json:"score"`
	CheckedAt        time.Time `json:"checked_at"`
}

// Store provides catalog queries over a shared connection pool.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a Store backed by the given PostgreSQL client.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "catalog"),
	}
}

// Profiles returns every disease with its full symptom list, ready to feed
// recommender.Load.
func (s *Store) Profiles(ctx context.Context) ([]recommender.Profile, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT d.disease_name, sy.symptom_name
		 FROM diseases d
		 JOIN symptom_disease sd ON d.id = sd.disease_id
		 JOIN symptoms sy ON sd.symptom_id = sy.id
		 ORDER BY d.disease_name, sy.symptom_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying disease profiles: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	var profiles []recommender.Profile
	for rows.Next() {
		var disease, symptom string
		if err := rows.Scan(&disease, &symptom); err != nil {
			return nil, fmt.Errorf("scanning profile row: %w", err)
		}
		i, ok := index[disease]
		if !ok {
			i = len(profiles)
			index[disease] = i
			profiles = append(profiles, recommender.Profile{Disease: disease})
		}
		profiles[i].Symptoms = append(profiles[i].Symptoms, symptom)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading profile rows: %w", err)
	}
	s.logger.Debug("profiles loaded", "diseases", len(profiles))
	return profiles, nil
}

// Symptoms returns every symptom with its description and severity.
func (s *Store) Symptoms(ctx context.Context) ([]Symptom, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT sy.symptom_name, COALESCE(sy.description, ''), COALESCE(sv.severity_level, 0)
		 FROM symptoms sy
		 LEFT JOIN symptom_severity sv ON sv.symptom_id = sy.id
		 ORDER BY sy.symptom_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying symptoms: %w", err)
	}
	defer rows.Close()

	var symptoms []Symptom
	for rows.Next() {
		var sym Symptom
		if err := rows.Scan(&sym.Name, &sym.Description, &sym.Severity); err != nil {
			return nil, fmt.Errorf("scanning symptom row: %w", err)
		}
		symptoms = append(symptoms, sym)
	}
	return symptoms, rows.Err()
}

// Diseases returns every disease name in ascending order.
func (s *Store) Diseases(ctx context.Context) ([]string, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT disease_name FROM diseases ORDER BY disease_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying diseases: %w", err)
	}
	defer rows.Close()

	var diseases []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning disease row: %w", err)
		}
		diseases = append(diseases, name)
	}
	return diseases, rows.Err()
}

// SymptomsByDisease returns the symptom list for one disease.
func (s *Store) SymptomsByDisease(ctx context.Context, disease string) ([]string, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT sy.symptom_name
		 FROM symptoms sy
		 JOIN symptom_disease sd ON sy.id = sd.symptom_id
		 JOIN diseases d ON sd.disease_id = d.id
		 WHERE d.disease_name = $1
		 ORDER BY sy.symptom_name`,
		disease,
	)
	if err != nil {
		return nil, fmt.Errorf("querying symptoms for %s: %w", disease, err)
	}
	defer rows.Close()

	var symptoms []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning symptom row: %w", err)
		}
		symptoms = append(symptoms, name)
	}
	return symptoms, rows.Err()
}

// Precautions returns the recommended precaution steps for a disease, or
// ErrNotFound when the disease has none recorded.
func (s *Store) Precautions(ctx context.Context, disease string) ([]string, error) {
	var steps pq.StringArray
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT sp.precaution_steps
		 FROM symptom_precautions sp
		 JOIN diseases d ON sp.disease_id = d.id
		 WHERE d.disease_name = $1`,
		disease,
	).Scan(&steps)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrNotFound, http.StatusNotFound, "no precautions for %s", disease)
	}
	if err != nil {
		return nil, fmt.Errorf("querying precautions for %s: %w", disease, err)
	}
	return []string(steps), nil
}

// SeverityBySymptom returns the severity level for a symptom name, or 0
// when none is recorded.
func (s *Store) SeverityBySymptom(ctx context.Context, symptom string) (int, error) {
	var severity int
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT sv.severity_level
		 FROM symptom_severity sv
		 JOIN symptoms sy ON sv.symptom_id = sy.id
		 WHERE sy.symptom_name = $1`,
		symptom,
	).Scan(&severity)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying severity for %s: %w", symptom, err)
	}
	return severity, nil
}

// RecordCheck saves one symptom check to the user's history.
func (s *Store) RecordCheck(ctx context.Context, userID int64, symptoms []string, predicted string, score float64) error {
	_, err := s.db.DB.ExecContext(ctx,
		`INSERT INTO symptom_checks (user_id, symptoms_selected, predicted_disease, score, checked_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		userID, pq.StringArray(symptoms), predicted, score,
	)
	if err != nil {
		return fmt.Errorf("recording check: %w", err)
	}
	return nil
}

// ChecksByUser returns the most recent checks for a user, newest first.
func (s *Store) ChecksByUser(ctx context.Context, userID int64, limit int) ([]CheckRecord, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT id, user_id, symptoms_selected, predicted_disease, score, checked_at
		 FROM symptom_checks
		 WHERE user_id = $1
		 ORDER BY checked_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying check history: %w", err)
	}
	defer rows.Close()

	var records []CheckRecord
	for rows.Next() {
		var rec CheckRecord
		var symptoms pq.StringArray
		if err := rows.Scan(&rec.ID, &rec.UserID, &symptoms, &rec.PredictedDisease, &rec.Score, &rec.CheckedAt); err != nil {
			return nil, fmt.Errorf("scanning check row: %w", err)
		}
		rec.Symptoms = []string(symptoms)
		records = append(records, rec)
	}
	return records, rows.Err()
}
