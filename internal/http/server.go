package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"paisa/internal/cache"
	"paisa/internal/config"
	"paisa/internal/core"
	"paisa/internal/dashboard"
	"paisa/internal/log"
	"paisa/internal/middleware/ratelimit"
	"paisa/internal/middleware/security"
	"paisa/internal/middleware/trace"
	"paisa/internal/services"
	"paisa/internal/storage"
	appweb "paisa/web"
)

// Server serves the tracker UI and its JSON API.
type Server struct {
	http.Server
	templates *template.Template
	ledger    *services.Ledger
	taxonomy  core.Taxonomy
	htmxURL   string
	store     storage.KV
	logger    *log.Logger

	clientIP        *security.ClientIPResolver
	rateLimiter     *ratelimit.Limiter
	probes          *security.ProbeFilter
	traceMiddleware *trace.Middleware
	appMetrics      *appMetrics
	viewCache       *cache.LRU[dashboard.MonthView]
	stopViewCleanup func()

	shutdownOnce sync.Once
}

type appMetrics struct {
	recordsCreated int64
	recordsDeleted int64
	rejected       int64
	uptime         time.Time
}

// Options carries the collaborators NewServer wires into the handler chain.
type Options struct {
	Taxonomy core.Taxonomy
	// Store is probed by /readyz when it implements storage.Pinger.
	Store     storage.KV
	Logger    *log.Logger
	RateLimit ratelimit.Config
	// HTMXURL is where pages load htmx from; its origin is allowed by the CSP.
	HTMXURL string
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run server.
func NewServer(addr string, ledger *services.Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	if opts.HTMXURL == "" {
		opts.HTMXURL = config.DefaultHTMXURL
	}
	if opts.Taxonomy.Needs == nil && opts.Taxonomy.Wants == nil {
		opts.Taxonomy = core.DefaultTaxonomy()
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		ledger:      ledger,
		taxonomy:    opts.Taxonomy,
		htmxURL:     opts.HTMXURL,
		store:       opts.Store,
		logger:      logger.WithComponent(log.ComponentHTTP),
		clientIP:    security.NewClientIPResolver(),
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		appMetrics:  &appMetrics{uptime: time.Now()},
		viewCache:   cache.New[dashboard.MonthView](64, 10*time.Minute),
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.clientIP.ExtractClientIP)
	s.probes = security.NewProbeFilter(s.onProbe)
	s.stopViewCleanup = s.viewCache.StartCleanup(time.Minute)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Error("Failed parsing templates",
			log.FieldError, err,
			log.FieldOperation, log.OpParse)
	} else {
		s.templates = t
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	// UI partials
	mux.HandleFunc("/ui/month-overview", s.handleMonthOverview)

	// Record mutations
	mux.HandleFunc("/expenses", s.handleCreateExpense)
	mux.HandleFunc("/income", s.handleCreateIncome)
	mux.HandleFunc("/investments", s.handleCreateInvestment)
	mux.HandleFunc("/expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("/income/delete", s.handleDeleteIncome)
	mux.HandleFunc("/investments/delete", s.handleDeleteInvestment)

	// JSON API
	mux.HandleFunc("/api/month", s.handleAPIMonth)
	mux.HandleFunc("/api/series", s.handleAPISeries)
	mux.HandleFunc("/api/projection", s.handleAPIProjection)
	mux.HandleFunc("/api/taxonomy", s.handleAPITaxonomy)

	limited := s.rateLimiter.Middleware(s.clientIP.ExtractClientIP, ratelimit.MutatingOnly, s.onRateLimited)
	headerCfg := security.DefaultHeadersConfig(opts.HTMXURL)
	headerCfg.TrustForwardedProto = s.clientIP.IsTrustedPeer
	headers := security.NewHeadersMiddleware(headerCfg)
	s.Handler = s.traceMiddleware.Middleware(headers.Middleware(s.probes.Middleware(limited(mux))))

	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").
		TriggerErrorNotification("Too many requests, slow down").
		Negotiate(r).
		Write(w)
}

func (s *Server) onProbe(r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rejected suspicious request",
		log.FieldComponent, log.ComponentSecurity,
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
}

// Shutdown stops the background cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.stopViewCleanup()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// monthView returns the view of month, reusing one composed at the same
// ledger version on the same day.
func (s *Server) monthView(month core.MonthKey) dashboard.MonthView {
	key := fmt.Sprintf("%s@%d@%s", month, s.ledger.Version(), core.DateOf(s.ledger.Now()))
	return s.viewCache.GetOrCompute(key, func() dashboard.MonthView {
		return s.ledger.View(month)
	})
}

func (s *Server) countCreated()  { atomic.AddInt64(&s.appMetrics.recordsCreated, 1) }
func (s *Server) countDeleted()  { atomic.AddInt64(&s.appMetrics.recordsDeleted, 1) }
func (s *Server) countRejected() { atomic.AddInt64(&s.appMetrics.rejected, 1) }
