// Package http implements the presentation layer: an HTML dashboard,
// a JSON API and export downloads over a catalog.ReleaseReader. The
// core stays pure; every handler re-reads the source and derives its
// view from the returned snapshot.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"modelpulse/internal/cache"
	"modelpulse/internal/catalog"
	"modelpulse/internal/core"
	appweb "modelpulse/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	releases    catalog.ReleaseReader
	rateLimiter *rateLimiter

	// Derived views are memoized per dataset fingerprint so repeated
	// renders of an unchanged dataset skip re-aggregation. Purely an
	// optimization: a changed fingerprint always recomputes.
	monthlyCache *cache.LRU[[]core.MonthlyBucket]
	orgCache     *cache.LRU[[]core.OrganizationGroup]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Options tunes the view caches.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, releases catalog.ReleaseReader, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		releases:         releases,
		rateLimiter:      newRateLimiter(),
		monthlyCache:     cache.NewLRU[[]core.MonthlyBucket](opts.CacheSize, opts.CacheTTL),
		orgCache:         cache.NewLRU[[]core.OrganizationGroup](opts.CacheSize, opts.CacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withCommonHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// UI partials
	mux.HandleFunc("/ui/monthly", s.withCommonHeaders(s.handleMonthlyChart))
	mux.HandleFunc("/ui/organization", s.withCommonHeaders(s.handleOrganization))
	mux.HandleFunc("/ui/month", s.withCommonHeaders(s.handleMonth))
	mux.HandleFunc("/ui/raw", s.withCommonHeaders(s.handleRawData))

	// JSON API
	mux.HandleFunc("/api/releases", s.withCommonHeaders(s.handleAPIReleases))
	mux.HandleFunc("/api/monthly", s.withCommonHeaders(s.handleAPIMonthly))
	mux.HandleFunc("/api/organizations", s.withCommonHeaders(s.handleAPIOrganizations))

	// Downloads
	mux.HandleFunc("/export/releases.csv", s.withCommonHeaders(s.handleExportCSV))
	mux.HandleFunc("/export/releases.xlsx", s.withCommonHeaders(s.handleExportXLSX))

	return s
}

// startCacheCleanup runs periodic cleanup for both view caches.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			monthlyCleaned := s.monthlyCache.CleanExpired()
			orgCleaned := s.orgCache.CleanExpired()
			if monthlyCleaned > 0 || orgCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"monthly_entries_removed", monthlyCleaned,
					"organization_entries_removed", orgCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withCommonHeaders adds security headers, rate limiting for downloads,
// and request logging.
func (s *Server) withCommonHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Exports rebuild a whole document per hit; rate limit them.
		if isExportPath(r.URL.Path) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getSnapshot re-reads the dataset with a bounded timeout.
func (s *Server) getSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	snap, err := s.releases.ListReleases(cctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("list releases: %w", err)
	}
	return snap, nil
}

// monthlyBuckets returns the monthly view for a snapshot, memoized by
// dataset fingerprint.
func (s *Server) monthlyBuckets(ctx context.Context, snap catalog.Snapshot) []core.MonthlyBucket {
	key := snapshotFingerprint(snap)
	if buckets, found := s.monthlyCache.Get(key); found {
		slog.DebugContext(ctx, "Monthly view cache hit", "fingerprint", key)
		return buckets
	}
	buckets := core.GroupByMonth(snap.Records)
	s.monthlyCache.Set(key, buckets)
	return buckets
}

// organizationGroups returns the per-organization view for a snapshot,
// memoized by dataset fingerprint.
func (s *Server) organizationGroups(ctx context.Context, snap catalog.Snapshot) []core.OrganizationGroup {
	key := snapshotFingerprint(snap)
	if groups, found := s.orgCache.Get(key); found {
		slog.DebugContext(ctx, "Organization view cache hit", "fingerprint", key)
		return groups
	}
	groups := core.GroupByOrganization(snap.Records)
	s.orgCache.Set(key, groups)
	return groups
}
