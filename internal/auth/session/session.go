// Package session issues and validates opaque bearer tokens stored in Redis
// with a sliding TTL. Tokens are random 32-byte hex strings; the stored
// value is the JSON-encoded account.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/1shammah/symptom-checker/internal/auth/user"
	apperrors "github.com/1shammah/symptom-checker/pkg/errors"
	pkgredis "github.com/1shammah/symptom-checker/pkg/redis"
)

const keyPrefix = "session:"

// Manager creates, resolves, and destroys sessions.
type Manager struct {
	client *pkgredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewManager creates a session manager with the given token lifetime.
func NewManager(client *pkgredis.Client, ttl time.Duration) *Manager {
	return &Manager{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "session"),
	}
}

// Create issues a new token for the account.
func (m *Manager) Create(ctx context.Context, u *user.User) (string, error) {
	token := newToken()
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}
	if err := m.client.Set(ctx, keyPrefix+token, data, m.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	m.logger.Debug("session created", "user_id", u.ID)
	return token, nil
}

// Resolve returns the account for a token and refreshes its TTL. Unknown or
// expired tokens yield ErrUnauthorized.
func (m *Manager) Resolve(ctx context.Context, token string) (*user.User, error) {
	data, err := m.client.Get(ctx, keyPrefix+token)
	if err != nil {
		if pkgredis.IsNilError(err) {
			return nil, apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "session expired or unknown")
		}
		return nil, fmt.Errorf("fetching session: %w", err)
	}

	var u user.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	if err := m.client.Expire(ctx, keyPrefix+token, m.ttl); err != nil {
		m.logger.Warn("failed to refresh session ttl", "error", err)
	}
	return &u, nil
}

// Destroy invalidates a token. Destroying an unknown token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.client.Del(ctx, keyPrefix+token)
}

func newToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
