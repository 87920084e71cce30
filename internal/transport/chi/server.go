package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/domain"
	healthuc "github.com/kailas-cloud/layersearch/internal/usecase/health"
)

// DefaultMaxPageSize bounds the size query parameter.
const DefaultMaxPageSize = 500

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search session API over a chi router.
type Server struct {
	sessions      Sessions
	catalog       Catalog
	sampler       Sampler
	exporter      Exporter
	health        HealthChecker
	logger        *zap.Logger
	maxPageSize   int
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions Sessions,
	catalog Catalog,
	sampler Sampler,
	exporter Exporter,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		sessions:    sessions,
		catalog:     catalog,
		sampler:     sampler,
		exporter:    exporter,
		health:      health,
		logger:      logger,
		maxPageSize: DefaultMaxPageSize,
		now:         time.Now,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidScope, http.StatusBadRequest, ErrorCodeInvalidScope),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrEmptyExport, http.StatusConflict, ErrorCodeEmptyExport),
		sentinelHandler(domain.ErrSuperseded, http.StatusConflict, ErrorCodeSuperseded),
	}
	return s
}

// WithMaxPageSize caps the page size a client may request.
func (s *Server) WithMaxPageSize(n int) *Server {
	if n > 0 {
		s.maxPageSize = n
	}
	return s
}

// WithClock replaces the clock used for export dates.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Post("/sessions", s.CreateSession)
	r.Route("/sessions/{session}", func(r gochi.Router) {
		r.Delete("/", s.DeleteSession)

		r.Get("/criteria", s.ListCriteria)
		r.Post("/criteria", s.AddCriterion)
		r.Delete("/criteria", s.ClearCriteria)
		r.Patch("/criteria/{criterion}", s.UpdateCriterion)
		r.Delete("/criteria/{criterion}", s.RemoveCriterion)

		r.Post("/search", s.RunSearch)
		r.Get("/results", s.GetResults)
		r.Post("/results/next", s.NextPage)
		r.Post("/results/prev", s.PreviousPage)
		r.Get("/export", s.Export)
	})
	r.Get("/values", s.GetValues)
	r.Get("/layers", s.ListLayers)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrInvalidScope,
		domain.ErrNotFound,
		domain.ErrEmptyExport,
		domain.ErrSuperseded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports which criterion blocked the search.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, ve.Error())
		return true
	}
	if errors.Is(err, domain.ErrValidation) {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, msg)
		return true
	}
	return false
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
