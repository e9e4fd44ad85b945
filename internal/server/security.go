package server

import (
	"net/http"
	"strings"
)

// SecurityConfig controls the hardening applied to every HTTP response.
type SecurityConfig struct {
	// EnableCORS turns on cross-origin response headers.
	EnableCORS bool
	// AllowedOrigins lists origins allowed to read responses; "*" allows any.
	AllowedOrigins []string
	// AllowedMethods lists methods advertised to CORS clients.
	AllowedMethods []string
	// MaxRequestBytes caps the request body size accepted by the server.
	MaxRequestBytes int64
}

// DefaultSecurityConfig returns the configuration used by the reporter's
// read-only endpoints: permissive CORS, GET and OPTIONS only, small bodies.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:      true,
		AllowedOrigins:  []string{"*"},
		AllowedMethods:  []string{"GET", "OPTIONS"},
		MaxRequestBytes: 1 << 20,
	}
}

// SecurityMiddleware sets security headers on every response, applies the
// CORS policy, answers preflight requests, and bounds request body size
// before handing off to next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)

		if config.EnableCORS {
			applyCORSHeaders(w, r, config)
		}

		// Preflight requests end here.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if config.MaxRequestBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBytes)
		}

		next(w, r)
	}
}

// setSecurityHeaders applies the standard hardening headers.
func setSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
}

// applyCORSHeaders writes CORS response headers when the request origin is
// allowed. A wildcard entry matches any origin, including none.
func applyCORSHeaders(w http.ResponseWriter, r *http.Request, config SecurityConfig) {
	origin := r.Header.Get("Origin")

	allowed := ""
	for _, candidate := range config.AllowedOrigins {
		if candidate == "*" {
			allowed = "*"
			break
		}
		if candidate == origin && origin != "" {
			allowed = origin
			break
		}
	}
	if allowed == "" {
		return
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", allowed)
	h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
}
