package security

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HeadersConfig describes the security headers set on every response.
type HeadersConfig struct {
	// ScriptSources are origins allowed in script-src besides 'self'.
	ScriptSources []string

	// HSTSMaxAge is in seconds; zero disables Strict-Transport-Security.
	HSTSMaxAge int

	// TrustForwardedProto reports whether r came through a proxy whose
	// X-Forwarded-Proto header may be believed. Nil trusts no one.
	TrustForwardedProto func(r *http.Request) bool
}

// DefaultHeadersConfig allows scripts from the origins of scriptURLs, which
// may be absolute URLs or same-origin paths.
func DefaultHeadersConfig(scriptURLs ...string) HeadersConfig {
	cfg := HeadersConfig{HSTSMaxAge: 31536000}
	for _, u := range scriptURLs {
		if origin := OriginOf(u); origin != "" {
			cfg.ScriptSources = append(cfg.ScriptSources, origin)
		}
	}
	return cfg
}

// OriginOf returns scheme://host for an absolute URL and "" for anything
// served from the same origin or unparsable.
func OriginOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// ContentSecurityPolicy renders the policy for the HTMX UI: scripts from
// 'self' and ScriptSources, inline styles for hx-swap transitions, and
// requests and forms back to 'self' only.
func (c HeadersConfig) ContentSecurityPolicy() string {
	scripts := append([]string{"'self'"}, c.ScriptSources...)
	directives := []string{
		"default-src 'self'",
		"script-src " + strings.Join(scripts, " "),
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"connect-src 'self'",
		"object-src 'none'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}

var fixedHeaders = map[string]string{
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
	"Referrer-Policy":              "strict-origin-when-cross-origin",
	"Permissions-Policy":           "geolocation=(), microphone=(), camera=(), payment=()",
	"Cross-Origin-Opener-Policy":   "same-origin",
	"Cross-Origin-Resource-Policy": "same-origin",
}

// HeadersMiddleware applies security headers to responses
type HeadersMiddleware struct {
	config HeadersConfig
	csp    string
	hsts   string
}

func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	h := &HeadersMiddleware{config: config, csp: config.ContentSecurityPolicy()}
	if config.HSTSMaxAge > 0 {
		h.hsts = fmt.Sprintf("max-age=%d; includeSubDomains", config.HSTSMaxAge)
	}
	return h
}

func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		for name, value := range fixedHeaders {
			headers.Set(name, value)
		}
		headers.Set("Content-Security-Policy", h.csp)
		if h.hsts != "" && h.isHTTPS(r) {
			headers.Set("Strict-Transport-Security", h.hsts)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *HeadersMiddleware) isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if h.config.TrustForwardedProto == nil || !h.config.TrustForwardedProto(r) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}

// StaticAssetMiddleware adds caching headers for static assets
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}
