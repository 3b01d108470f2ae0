package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the roll routes at the root and again under /api.
// limiter may be nil, in which case roll creation is not throttled.
// trustProxy takes the client address from X-Forwarded-For and X-Real-IP;
// leave it off unless a proxy in front of the server sets those headers.
func NewRouter(h *Handler, limiter *RateLimiter, trustProxy bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	rolls := func(r chi.Router) {
		r.With(throttle(limiter)).Post("/", h.CreateRoll)
		r.Get("/{id}", h.GetRoll)
		r.Post("/{id}", h.RevealRoll)
	}

	r.Route("/rolls", rolls)
	r.Route("/api/rolls", rolls)

	return r
}

func throttle(limiter *RateLimiter) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return limiter.Middleware
}
