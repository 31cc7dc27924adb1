package chi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/logger"
	cataloguc "github.com/abhichtrvd/1goli-sub001/internal/usecase/catalog"
	healthuc "github.com/abhichtrvd/1goli-sub001/internal/usecase/health"
)

// statusClientClosedRequest is the de facto status for a request the client abandoned.
const statusClientClosedRequest = 499

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options tunes request defaults.
type Options struct {
	DefaultPageSize int     // used when page_size is absent
	PriceCeiling    float64 // max_price at or above it means no limit
}

// Server serves the catalog HTTP API.
type Server struct {
	catalog       *cataloguc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(catalog *cataloguc.Service, health *healthuc.Service, opts Options, logger *zap.Logger) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	s := &Server{
		catalog: catalog,
		health:  health,
		opts:    opts,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidCursor, http.StatusBadRequest, codeInvalidCursor),
		fieldErrorHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrTextSearchNotSupported, http.StatusNotImplemented, codeTextSearchNotReady),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, codeTimeout),
		sentinelHandler(context.Canceled, statusClientClosedRequest, codeTimeout),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/items", s.ListItems)
		r.Get("/search", s.SearchItems)
		r.Get("/count", s.CountItems)
	})
}

// ListItems handles GET /catalog/items.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	p, err := bindListParams(r)
	if err == nil {
		if err = validate.Struct(p); err != nil {
			err = validationError(err)
		}
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	req := cataloguc.PageRequest{
		PageSize: s.opts.DefaultPageSize,
		Query:    deref(p.Q),
	}
	if p.PageSize != nil {
		req.PageSize = *p.PageSize
	}
	if req.Filters, err = p.toFilter(s.opts.PriceCeiling); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if req.Sort, err = parseSort(p.Sort); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if req.Cursor, err = parseCursor(p.Cursor); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.catalog.Paginate(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Items:      itemsToResponse(page.Items),
		IsDone:     page.Done,
		NextCursor: page.NextCursor,
	})
}

// SearchItems handles GET /catalog/search.
func (s *Server) SearchItems(w http.ResponseWriter, r *http.Request) {
	p, err := bindSearchParams(r)
	if err == nil {
		if err = validate.Struct(p); err != nil {
			err = validationError(err)
		}
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	f, err := p.toFilter(s.opts.PriceCeiling)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	sort, err := parseSort(p.Sort)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items, err := s.catalog.Search(r.Context(), deref(p.Q), f, sort)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Items: itemsToResponse(items),
		Total: len(items),
	})
}

// CountItems handles GET /catalog/count.
func (s *Server) CountItems(w http.ResponseWriter, r *http.Request) {
	var p filterParams
	err := bindFilterParams(r, &p)
	if err == nil {
		if err = validate.Struct(p); err != nil {
			err = validationError(err)
		}
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	f, err := p.toFilter(s.opts.PriceCeiling)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	n, err := s.catalog.Count(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// HealthCheck handles GET /health. Only an unreachable record store yields 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	res := healthResponse{
		Status:    string(report.Status),
		Version:   report.Version,
		Checks:    make(map[string]string, len(report.Checks)),
		LatencyMS: make(map[string]float64, len(report.Checks)),
	}
	for name, c := range report.Checks {
		res.Checks[name] = string(c.Result)
		res.LatencyMS[name] = float64(c.Latency.Microseconds()) / 1000
		if c.Err != nil {
			logger.FromContextOr(r.Context(), s.logger).Warn("health check failed", zap.String("component", name), zap.Error(c.Err))
		}
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, res)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// safeDomainMessage returns a client-safe message without exposing internals.
func safeDomainMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	sentinels := []error{
		domain.ErrInvalidCursor,
		domain.ErrInvalidInput,
		domain.ErrTextSearchNotSupported,
		domain.ErrStoreUnavailable,
		context.DeadlineExceeded,
		context.Canceled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// fieldErrorHandler reports the offending field of an invalid request.
func fieldErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":    codeValidationFailed,
		"message": msg,
		"field":   fe.Field,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
