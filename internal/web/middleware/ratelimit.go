package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/znz-systems/linkboard/internal/ratelimit"
)

// RateLimit throttles user triggered actions per client IP and route. Each route
// pattern gets its own bucket, so a burst of syncs does not block connecting.
// Rejected htmx requests are told not to swap, leaving the page as it was.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			if !limiter.Allow(ip + "|" + r.Method + " " + route) {
				slog.Warn("action rate limited", "ip", ip, "route", route)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("HX-Reswap", "none")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				if err := json.NewEncoder(w).Encode(map[string]string{
					"error": "rate limit exceeded",
				}); err != nil {
					slog.Error("failed to write JSON response", "error", err)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
