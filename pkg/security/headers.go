package security

import (
	"net/http"
	"strconv"
)

// DefaultCSP allows same-origin scripts, styles and websockets only.
// Pages carry no inline script or style.
const DefaultCSP = "default-src 'self'; " +
	"script-src 'self'; " +
	"style-src 'self'; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self' ws: wss:; " +
	"font-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

// HeadersConfig configures security headers.
type HeadersConfig struct {
	FrameOptions          string
	ReferrerPolicy        string
	PermissionsPolicy     string
	ContentSecurityPolicy string

	// HSTSMaxAge enables Strict-Transport-Security on HTTPS requests when
	// positive.
	HSTSMaxAge int
}

// DefaultHeadersConfig returns the headers served by the site.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		FrameOptions:          "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=(), clipboard-write=(self)",
		ContentSecurityPolicy: DefaultCSP,
		HSTSMaxAge:            31536000,
	}
}

// Headers returns middleware that sets security headers on every response.
func Headers(config HeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			if config.FrameOptions != "" {
				h.Set("X-Frame-Options", config.FrameOptions)
			}
			if config.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", config.ReferrerPolicy)
			}
			if config.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", config.PermissionsPolicy)
			}
			if config.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", config.ContentSecurityPolicy)
			}
			if config.HSTSMaxAge > 0 && (r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https") {
				h.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(config.HSTSMaxAge)+"; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
