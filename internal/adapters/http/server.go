package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/internal/sanitize"
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/observability"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/video"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies; ink data URLs are the largest payloads.
const maxBodyBytes = 8 << 20

// Server serves one journal over HTTP. The cursor travels in the step query
// parameter and request bodies, so the server keeps no per-client state.
type Server struct {
	mu      sync.RWMutex
	journal ports.Journal

	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	filename string
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics exposes /metrics from gatherer and times every request into m.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithFilename sets the attachment name of GET /artifact/download.
func WithFilename(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.filename = name
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server for a journal.
func NewServer(j ports.Journal, opts ...Option) *Server {
	s := &Server{
		journal:  j,
		filename: artifact.DefaultFilename,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the journal.
func NewHandler(j ports.Journal, opts ...Option) http.Handler {
	return NewServer(j, opts...).Handler()
}

// Swap replaces the served journal, e.g. after the catalog was reloaded.
func (s *Server) Swap(j ports.Journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = j
}

func (s *Server) current() ports.Journal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.journal
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	if s.metrics != nil {
		r.Use(s.instrument)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/steps", s.ListSteps)
	r.Get("/steps/{id}", s.GetStep)
	r.Get("/current", s.GetCurrent)
	r.Put("/entries/{id}", s.PutEntry)
	r.Delete("/entries/{id}/ink", s.DeleteInk)
	r.Post("/next", s.PostNext)
	r.Post("/restart", s.PostRestart)
	r.Get("/artifact", s.GetArtifact)
	r.Get("/artifact/download", s.DownloadArtifact)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RequestLatency.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// ViewResponse is the body of GET /current.
type ViewResponse struct {
	domain.StepView
	Cursor   string `json:"cursor"`
	EmbedURL string `json:"embed_url,omitempty"`
}

// EntryRequest is the body of PUT /entries/{id}. Absent fields are left unchanged.
type EntryRequest struct {
	Text *string `json:"text,omitempty"`
	Mode *string `json:"mode,omitempty"`
	Ink  *string `json:"ink,omitempty"`
}

// NextRequest is the body of POST /next.
type NextRequest struct {
	Step string  `json:"step"`
	Text *string `json:"text,omitempty"`
}

// CursorResponse carries the cursor after a transition.
type CursorResponse struct {
	Cursor string `json:"cursor"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "journey-http",
		"version": strings.TrimSpace(journey.Version),
	})
}

// ListSteps handles GET /steps.
func (s *Server) ListSteps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current().Catalog())
}

// GetStep handles GET /steps/{id}.
func (s *Server) GetStep(w http.ResponseWriter, r *http.Request) {
	step, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, step)
}

// GetCurrent handles GET /current. Without ?step it uses the server-side cursor.
func (s *Server) GetCurrent(w http.ResponseWriter, r *http.Request) {
	j := s.current()
	step := r.URL.Query().Get("step")

	var view domain.StepView
	var err error
	switch step {
	case "":
		view, err = j.Current(r.Context())
	case domain.CompleteSentinel:
		total := len(j.Catalog())
		view = domain.StepView{Complete: true, Total: total, Position: total}
	default:
		view, err = j.Visit(r.Context(), step)
	}
	if err != nil {
		s.fail(w, "visit", err)
		return
	}

	resp := ViewResponse{StepView: view, Cursor: domain.CompleteSentinel}
	if !view.Complete {
		resp.Cursor = view.Step.ID
		if view.Step.VideoURL != "" {
			resp.EmbedURL = video.EmbedURL(view.Step.VideoURL)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// PutEntry handles PUT /entries/{id}: mode, then ink, then text.
func (s *Server) PutEntry(w http.ResponseWriter, r *http.Request) {
	step, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body EntryRequest
	if !decode(w, r, &body) {
		return
	}
	if !cleanText(w, body.Text) {
		return
	}

	j := s.current()
	ctx := r.Context()
	var entry domain.Entry
	var err error
	if body.Mode != nil {
		if entry, err = j.SetMode(ctx, step.ID, domain.Mode(*body.Mode)); err != nil {
			s.fail(w, "set mode", err)
			return
		}
	}
	if body.Ink != nil {
		if entry, err = j.SetInk(ctx, step.ID, *body.Ink); err != nil {
			s.fail(w, "set ink", err)
			return
		}
	}
	if body.Text != nil || (body.Mode == nil && body.Ink == nil) {
		text := ""
		if body.Text != nil {
			text = *body.Text
		}
		if entry, err = j.SaveText(ctx, step.ID, text, domain.SaveExplicit); err != nil {
			s.fail(w, "save", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteInk handles DELETE /entries/{id}/ink.
func (s *Server) DeleteInk(w http.ResponseWriter, r *http.Request) {
	step, ok := s.lookup(w, r)
	if !ok {
		return
	}
	entry, err := s.current().SetInk(r.Context(), step.ID, "")
	if err != nil {
		s.fail(w, "clear ink", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// PostNext handles POST /next.
func (s *Server) PostNext(w http.ResponseWriter, r *http.Request) {
	var body NextRequest
	if !decode(w, r, &body) {
		return
	}
	if body.Step == "" {
		http.Error(w, "step is required", http.StatusBadRequest)
		return
	}
	if !cleanText(w, body.Text) {
		return
	}
	j := s.current()
	if _, ok := lookupStep(w, j, body.Step); !ok {
		return
	}
	cursor, err := j.Next(r.Context(), body.Step, body.Text)
	if err != nil {
		s.fail(w, "next", err)
		return
	}
	writeJSON(w, http.StatusOK, CursorResponse{Cursor: cursor})
}

// PostRestart handles POST /restart.
func (s *Server) PostRestart(w http.ResponseWriter, r *http.Request) {
	cursor, err := s.current().Restart(r.Context())
	if err != nil {
		s.fail(w, "restart", err)
		return
	}
	writeJSON(w, http.StatusOK, CursorResponse{Cursor: cursor})
}

// GetArtifact handles GET /artifact.
func (s *Server) GetArtifact(w http.ResponseWriter, r *http.Request) {
	s.writeArtifact(w, r, false)
}

// DownloadArtifact handles GET /artifact/download.
func (s *Server) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	s.writeArtifact(w, r, true)
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, attachment bool) {
	text, err := s.current().Compile(r.Context())
	if err != nil {
		s.fail(w, "compile", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.filename))
	}
	_, _ = io.WriteString(w, text)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (domain.Step, bool) {
	return lookupStep(w, s.current(), chi.URLParam(r, "id"))
}

func lookupStep(w http.ResponseWriter, j ports.Journal, id string) (domain.Step, bool) {
	step, ok := j.Catalog().Lookup(id)
	if !ok {
		http.Error(w, fmt.Sprintf("%v: %q", domain.ErrUnknownStep, id), http.StatusNotFound)
		return domain.Step{}, false
	}
	return step, true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidMode) {
		status = http.StatusBadRequest
	} else if errors.Is(err, domain.ErrUnknownStep) {
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "op", op, "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

// cleanText sanitizes an optional answer in place. It writes 400 and returns false on rejection.
func cleanText(w http.ResponseWriter, text *string) bool {
	if text == nil {
		return true
	}
	clean, err := sanitize.Answer(*text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	*text = clean
	return true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("encode error: %v\n", err)
	}
}
