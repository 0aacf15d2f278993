package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/onekit-js/onekit-site/pkg/audit"
)

// rateLimit limits requests per client IP over a sliding window. Websocket
// frames are not requests; only the upgrade counts.
func rateLimit(requests int, window time.Duration, auditor audit.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			ip, _ := httprate.KeyByIP(r)
			audit.RateLimited(auditor, r, ip)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`))
		}),
	)
}
