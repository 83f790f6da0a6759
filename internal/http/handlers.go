package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"paisa/internal/core"
	"paisa/internal/dashboard"
	"paisa/internal/log"
	"paisa/internal/storage"
)

// pageData feeds both index.html and the month_overview partial.
type pageData struct {
	View          dashboard.MonthView
	Taxonomy      core.Taxonomy
	ExpenseGroups []expenseGroup
	HTMXURL       string
	Prev          core.MonthKey
	Next          core.MonthKey
	Today         string
}

// expenseGroup is one optgroup of the expense category picker.
type expenseGroup struct {
	Type       core.ExpenseType
	Label      string
	Categories []string
}

func (s *Server) pageData(month core.MonthKey) pageData {
	now := s.ledger.Now()
	return pageData{
		View:     s.monthView(month),
		Taxonomy: s.taxonomy,
		ExpenseGroups: []expenseGroup{
			{Type: core.Needs, Label: "Needs", Categories: s.taxonomy.CategoriesFor(core.Needs)},
			{Type: core.Wants, Label: "Wants", Categories: s.taxonomy.CategoriesFor(core.Wants)},
		},
		HTMXURL: s.htmxURL,
		Prev:    month.Prev(),
		Next:    month.Next(),
		Today:   core.DateOf(now).String(),
	}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if pinger, ok := s.store.(storage.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			checks["store"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "not_configured"
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics provides application metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()
	snap := s.ledger.Snapshot()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_server_errors_total Responses with a 5xx status\n")
	fmt.Fprintf(w, "# TYPE http_server_errors_total counter\n")
	fmt.Fprintf(w, "http_server_errors_total %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP records_created_total Records created since start\n")
	fmt.Fprintf(w, "# TYPE records_created_total counter\n")
	fmt.Fprintf(w, "records_created_total %d\n\n", atomic.LoadInt64(&s.appMetrics.recordsCreated))

	fmt.Fprintf(w, "# HELP records_deleted_total Records deleted since start\n")
	fmt.Fprintf(w, "# TYPE records_deleted_total counter\n")
	fmt.Fprintf(w, "records_deleted_total %d\n\n", atomic.LoadInt64(&s.appMetrics.recordsDeleted))

	fmt.Fprintf(w, "# HELP records_rejected_total Submissions rejected by validation\n")
	fmt.Fprintf(w, "# TYPE records_rejected_total counter\n")
	fmt.Fprintf(w, "records_rejected_total %d\n\n", atomic.LoadInt64(&s.appMetrics.rejected))

	fmt.Fprintf(w, "# HELP records Stored records by kind\n")
	fmt.Fprintf(w, "# TYPE records gauge\n")
	fmt.Fprintf(w, "records{kind=\"expense\"} %d\n", len(snap.Expenses))
	fmt.Fprintf(w, "records{kind=\"income\"} %d\n", len(snap.Incomes))
	fmt.Fprintf(w, "records{kind=\"investment\"} %d\n\n", len(snap.Investments))

	fmt.Fprintf(w, "# HELP suspicious_requests_total Requests rejected as scanner probes\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", s.probes.Blocked())

	viewStats := s.viewCache.Stats()
	fmt.Fprintf(w, "# HELP view_cache_requests_total Month view cache lookups\n")
	fmt.Fprintf(w, "# TYPE view_cache_requests_total counter\n")
	fmt.Fprintf(w, "view_cache_requests_total{result=\"hit\"} %d\n", viewStats.Hits)
	fmt.Fprintf(w, "view_cache_requests_total{result=\"miss\"} %d\n\n", viewStats.Misses)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.appMetrics.uptime).Seconds())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Negotiate(r).Write(w)
		return
	}
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			"error_type", log.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	month := ParseMonthParam(r, s.ledger.Now())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", s.pageData(month)); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err,
			log.FieldOperation, log.OpRender,
			"template", "index.html")
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// handleMonthOverview renders the monthly overview partial
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	month := ParseMonthParam(r, s.ledger.Now())

	if s.templates == nil {
		v := s.monthView(month)
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">Expenses: ` +
			formatRupees(v.Summary.Expenses.Cents) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "month_overview", s.pageData(month)); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution error",
			log.FieldError, err,
			log.FieldMonth, month.String(),
			"template", "month_overview")
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">Error rendering overview</div></section>`))
	}
}
