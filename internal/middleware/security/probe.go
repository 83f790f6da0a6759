package security

import (
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

var probePatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"<script", "union select", "etc/passwd", "cmd.exe",
}

var scannerAgents = []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb"}

const maxURLLength = 2048

// ProbeFilter answers 404 to requests that look like vulnerability scans
// before they reach the application.
type ProbeFilter struct {
	blocked int64
	onProbe func(*http.Request)
}

// NewProbeFilter creates a filter; onProbe, if non-nil, observes each rejection.
func NewProbeFilter(onProbe func(*http.Request)) *ProbeFilter {
	return &ProbeFilter{onProbe: onProbe}
}

// IsProbe reports whether r matches a known scanning pattern.
func IsProbe(r *http.Request) bool {
	if len(r.URL.String()) > maxURLLength {
		return true
	}
	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		return true
	}
	path := strings.ToLower(r.URL.Path)
	query := r.URL.RawQuery
	if q, err := url.QueryUnescape(query); err == nil {
		query = q
	}
	query = strings.ToLower(query)
	for _, p := range probePatterns {
		if strings.Contains(path, p) || strings.Contains(query, p) {
			return true
		}
	}
	ua := strings.ToLower(r.Header.Get("User-Agent"))
	for _, a := range scannerAgents {
		if strings.Contains(ua, a) {
			return true
		}
	}
	return false
}

func (f *ProbeFilter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsProbe(r) {
			atomic.AddInt64(&f.blocked, 1)
			if f.onProbe != nil {
				f.onProbe(r)
			}
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Blocked returns how many requests were rejected.
func (f *ProbeFilter) Blocked() int64 {
	return atomic.LoadInt64(&f.blocked)
}
