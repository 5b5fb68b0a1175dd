package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := New(ErrNotFound, http.StatusNotFound, "disease Flu")
	if !errors.Is(err, ErrNotFound) {
		t.Error("AppError should unwrap to its sentinel")
	}
	wrapped := fmt.Errorf("loading detail: %w", err)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped AppError should still match the sentinel")
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error carries its code", New(ErrInvalidK, http.StatusBadRequest, "k=0"), http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"user exists", ErrUserExists, http.StatusConflict},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"invalid k", ErrInvalidK, http.StatusBadRequest},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"empty corpus", ErrEmptyCorpus, http.StatusServiceUnavailable},
		{"wrapped sentinel", fmt.Errorf("ctx: %w", ErrEmptyCorpus), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(ErrNotFound, http.StatusNotFound, "user %d", 42)
	if err.Message != "user 42" {
		t.Errorf("Message = %q, want %q", err.Message, "user 42")
	}
	if err.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", err.StatusCode)
	}
}
