package catalog

import (
	"context"
	"fmt"
)

// schema holds the DDL for the catalog tables, applied in dependency order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		gender TEXT NOT NULL DEFAULT 'Other' CHECK (gender IN ('Male', 'Female', 'Other')),
		role TEXT NOT NULL DEFAULT 'User' CHECK (role IN ('User', 'Admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS diseases (
		id BIGSERIAL PRIMARY KEY,
		disease_name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS symptoms (
		id BIGSERIAL PRIMARY KEY,
		symptom_name TEXT NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS symptom_disease (
		id BIGSERIAL PRIMARY KEY,
		disease_id BIGINT NOT NULL REFERENCES diseases(id),
		symptom_id BIGINT NOT NULL REFERENCES symptoms(id),
		UNIQUE (disease_id, symptom_id)
	)`,
	`CREATE TABLE IF NOT EXISTS symptom_severity (
		id BIGSERIAL PRIMARY KEY,
		symptom_id BIGINT NOT NULL REFERENCES symptoms(id),
		severity_level INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS symptom_precautions (
		id BIGSERIAL PRIMARY KEY,
		disease_id BIGINT NOT NULL REFERENCES diseases(id),
		precaution_steps TEXT[] NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS symptom_checks (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		symptoms_selected TEXT[] NOT NULL,
		predicted_disease TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		checked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_symptom_checks_user ON symptom_checks (user_id, checked_at DESC)`,
}

// EnsureSchema creates the catalog tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	s.logger.Info("catalog schema ensured")
	return nil
}
