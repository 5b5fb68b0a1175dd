// Package router wires up all checker routes and applies the middleware
// chain (RequestID → Metrics → CORS → Auth → RateLimit).
package router

import (
	"net/http"

	"github.com/1shammah/symptom-checker/internal/analytics"
	"github.com/1shammah/symptom-checker/internal/auth/ratelimit"
	"github.com/1shammah/symptom-checker/internal/auth/session"
	"github.com/1shammah/symptom-checker/internal/checker/handler"
	chkmw "github.com/1shammah/symptom-checker/internal/checker/middleware"
	"github.com/1shammah/symptom-checker/pkg/health"
	"github.com/1shammah/symptom-checker/pkg/metrics"
	pkgmw "github.com/1shammah/symptom-checker/pkg/middleware"
)

// New builds the full checker HTTP handler with all routes and middleware.
//
// Route table:
//
//	POST   /api/v1/auth/register       → create account    (public)
//	POST   /api/v1/auth/login          → issue session     (public)
//	POST   /api/v1/auth/logout         → destroy session
//	GET    /api/v1/auth/me             → current account
//	POST   /api/v1/check               → rank symptoms
//	GET    /api/v1/symptoms            → symptom catalog
//	GET    /api/v1/diseases            → disease list
//	GET    /api/v1/diseases/{name}     → disease detail
//	GET    /api/v1/history             → user's check history
//	GET    /api/v1/analytics           → usage statistics  (admin)
//	POST   /api/v1/admin/reload        → rebuild snapshot  (admin)
//	GET    /api/v1/cache/stats         → cache counters    (admin)
//	POST   /api/v1/cache/invalidate    → drop cached checks (admin)
//	GET    /health/live                → liveness          (public)
//	GET    /health/ready               → readiness         (public)
//
// Middleware chain (outermost first):
//
//	RequestID → Metrics → CORS → Auth → RateLimit → handler
func New(
	h *handler.Handler,
	stats *analytics.Handler,
	sessions *session.Manager,
	limiter *ratelimit.Limiter,
	checker *health.Checker,
	m *metrics.Metrics,
) http.Handler {
	mux := http.NewServeMux()

	// Health (unauthenticated)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	// Account API
	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/v1/auth/me", h.Me)

	// Check API
	mux.HandleFunc("POST /api/v1/check", h.Check)
	mux.HandleFunc("GET /api/v1/history", h.History)

	// Catalog API
	mux.HandleFunc("GET /api/v1/symptoms", h.ListSymptoms)
	mux.HandleFunc("GET /api/v1/diseases", h.ListDiseases)
	mux.HandleFunc("GET /api/v1/diseases/{name}", h.DiseaseDetail)

	// Admin API
	if stats != nil {
		mux.HandleFunc("GET /api/v1/analytics", chkmw.RequireAdmin(stats.Stats))
	}
	mux.HandleFunc("POST /api/v1/admin/reload", chkmw.RequireAdmin(h.Reload))
	mux.HandleFunc("GET /api/v1/cache/stats", chkmw.RequireAdmin(h.CacheStats))
	mux.HandleFunc("POST /api/v1/cache/invalidate", chkmw.RequireAdmin(h.CacheInvalidate))

	// Middleware chain — applied inside-out:
	// request → RequestID → Metrics → CORS → Auth → RateLimit → mux
	var chain http.Handler = mux
	chain = chkmw.RateLimit(limiter)(chain)
	chain = chkmw.Auth(sessions)(chain)
	chain = chkmw.CORS(chkmw.DefaultCORSConfig())(chain)
	if m != nil {
		chain = pkgmw.Metrics(m)(chain)
	}
	chain = pkgmw.RequestID(chain)

	return chain
}
