package http

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecsitomi/donki-dashboard/internal/dashboard"
	"github.com/ecsitomi/donki-dashboard/internal/domain"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// upstreamReporter is optionally implemented by a ReadinessChecker to add the
// DONKI API status to /readyz without affecting the status code.
type upstreamReporter interface {
	UpstreamError() error
}

// PageBuilder produces the dashboard page for a selection.
type PageBuilder interface {
	Build(ctx context.Context, sel dashboard.Selection) dashboard.Page
}

// Server exposes the dashboard UI, its JSON summary, and health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer  *http.Server
	builder     PageBuilder
	defaultDays int
	tmpl        *template.Template
	logger      *slog.Logger
}

// NewServer creates an HTTP server with /, /api/series, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, builder PageBuilder, ready ReadinessChecker, defaultDays int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      requestLogger(mux, logger),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		builder:     builder,
		defaultDays: defaultDays,
		tmpl:        template.Must(template.New("page").Funcs(funcMap).Parse(tmplDashboard)),
		logger:      logger,
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel := dashboard.ParseSelection(r.URL.Query(), s.defaultDays)
	page := s.builder.Build(r.Context(), sel)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "base", newPageView(page)); err != nil {
		s.logger.Error("template error", "error", err, "request_id", requestID(r.Context()))
	}
}

// seriesResponse is the JSON form of a dashboard page without the event details.
type seriesResponse struct {
	Type         domain.EventType    `json:"type"`
	Days         int                 `json:"days"`
	Start        string              `json:"start"`
	End          string              `json:"end"`
	EventCount   int                 `json:"event_count"`
	Series       []domain.DailyCount `json:"series"`
	EarthImpacts []domain.Impact     `json:"earth_impacts"`
	OtherImpacts []domain.Impact     `json:"other_impacts"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	sel := dashboard.ParseSelection(r.URL.Query(), s.defaultDays)
	page := s.builder.Build(r.Context(), sel)

	writeJSON(w, http.StatusOK, seriesResponse{
		Type:         sel.Type,
		Days:         sel.Days,
		Start:        page.Range.StartDate(),
		End:          page.Range.EndDate(),
		EventCount:   len(page.Events),
		Series:       nonNil(page.Series),
		EarthImpacts: nonNil(page.Impacts.Earth),
		OtherImpacts: nonNil(page.Impacts.Other),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		body := map[string]string{"status": "ready"}
		if up, ok := checker.(upstreamReporter); ok {
			body["upstream"] = "ok"
			if err := up.UpstreamError(); err != nil {
				body["upstream"] = err.Error()
			}
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type ctxKey struct{}

// requestLogger tags each request with an ID and logs it on completion.
func requestLogger(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

		logger.Debug("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
