// Package chi exposes the paper pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/domain"
	domusage "github.com/kailas-cloud/paperlens/internal/domain/usage"
	"github.com/kailas-cloud/paperlens/internal/embedding"
	"github.com/kailas-cloud/paperlens/internal/metrics"
	healthuc "github.com/kailas-cloud/paperlens/internal/usecase/health"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
)

const (
	headerCompletionTokens = "X-Completion-Tokens"
	defaultMaxBodyBytes    = 8 << 20
)

// Server holds the HTTP handlers.
type Server struct {
	papers       PaperService
	usage        UsageService
	health       HealthService
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewServer creates an HTTP API server.
func NewServer(papers PaperService, usage UsageService, health HealthService, logger *zap.Logger) *Server {
	return &Server{
		papers:       papers,
		usage:        usage,
		health:       health,
		logger:       logger,
		maxBodyBytes: defaultMaxBodyBytes,
	}
}

// WithMaxBodyBytes caps request body size.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Route("/collections/{collection}/papers", func(r chi.Router) {
		r.Post("/", s.CreatePaper)
		r.Get("/", s.ListPapers)
		r.Post("/batch", s.BatchIngest)
		// "batch" is never a paper id; answer the single-paper verbs as a validation error, not 405
		r.Put("/batch", s.reservedPaperID)
		r.Get("/batch", s.reservedPaperID)
		r.Delete("/batch", s.reservedPaperID)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.UpsertPaper)
			r.Get("/", s.GetPaper)
			r.Delete("/", s.DeletePaper)
			r.Post("/summary", s.RegenerateSummary)
			r.Get("/similar", s.SimilarPapers)
		})
	})
	r.Post("/analyze", s.Analyze)
	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// CreatePaper handles POST /collections/{collection}/papers.
func (s *Server) CreatePaper(w http.ResponseWriter, r *http.Request) {
	s.ingest(w, r, "")
}

// UpsertPaper handles PUT /collections/{collection}/papers/{id}.
func (s *Server) UpsertPaper(w http.ResponseWriter, r *http.Request) {
	s.ingest(w, r, chi.URLParam(r, "id"))
}

func (s *Server) ingest(w http.ResponseWriter, r *http.Request, id string) {
	var req PaperRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	collection := chi.URLParam(r, "collection")
	p, created, err := s.papers.Ingest(ctx, collection, paperuc.NewPaper{
		ID:          id,
		Title:       req.Title,
		Text:        req.Text,
		ContentType: req.ContentType,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setCompletionHeaders(w, usage)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, paperToResponse(collection, &p, false))
}

// BatchIngest handles POST /collections/{collection}/papers/batch.
func (s *Server) BatchIngest(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "items must not be empty")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results := s.papers.IngestBatch(ctx, chi.URLParam(r, "collection"), batchItemsToInput(req.Items))

	setCompletionHeaders(w, usage)
	writeJSON(w, http.StatusOK, batchResultsToResponse(results))
}

// ListPapers handles GET /collections/{collection}/papers.
func (s *Server) ListPapers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.papers.List(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, PaperListResponse{Items: ids, Count: len(ids)})
}

// GetPaper handles GET /collections/{collection}/papers/{id}.
func (s *Server) GetPaper(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	p, err := s.papers.Get(r.Context(), collection, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	includeVector, _ := strconv.ParseBool(r.URL.Query().Get("include_vector"))
	writeJSON(w, http.StatusOK, paperToResponse(collection, &p, includeVector))
}

// DeletePaper handles DELETE /collections/{collection}/papers/{id}.
func (s *Server) DeletePaper(w http.ResponseWriter, r *http.Request) {
	if err := s.papers.Delete(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegenerateSummary handles POST /collections/{collection}/papers/{id}/summary.
func (s *Server) RegenerateSummary(w http.ResponseWriter, r *http.Request) {
	ctx, usage := domain.NewContextWithUsage(r.Context())
	collection := chi.URLParam(r, "collection")
	p, err := s.papers.Regenerate(ctx, collection, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	setCompletionHeaders(w, usage)
	writeJSON(w, http.StatusOK, paperToResponse(collection, &p, false))
}

// SimilarPapers handles GET /collections/{collection}/papers/{id}/similar.
func (s *Server) SimilarPapers(w http.ResponseWriter, r *http.Request) {
	opts, err := rankOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	matches, err := s.papers.Similar(r.Context(), chi.URLParam(r, "collection"), id, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if matches == nil {
		matches = []embedding.Match{}
	}
	writeJSON(w, http.StatusOK, SimilarResponse{ID: id, Items: matches})
}

// Analyze handles POST /analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	a, err := s.papers.Analyze(ctx, req.Text, req.ContentType)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	setCompletionHeaders(w, usage)
	writeJSON(w, http.StatusOK, AnalyzeResponse{Summary: summaryToResponse(&a.Summary), Vector: a.Vector})
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, ok := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "period must be day, month or total")
		return
	}
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToResponse(&report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) reservedPaperID(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, `paper ID "batch" is reserved`)
}

// decode reads a size-capped JSON body. On failure it writes the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func rankOptionsFromQuery(r *http.Request) (embedding.RankOptions, error) {
	var opts embedding.RankOptions
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			return opts, errors.New("limit must be an integer between 1 and 100")
		}
		opts.TopK = n
	}
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < -1 || f > 1 {
			return opts, errors.New("min_score must be a number between -1 and 1")
		}
		opts.MinScore = embedding.Threshold(f)
	}
	return opts, nil
}

func setCompletionHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if tokens, used := usage.Snapshot(); used {
		w.Header().Set(headerCompletionTokens, strconv.Itoa(tokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
