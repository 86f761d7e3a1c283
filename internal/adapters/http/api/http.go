// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/climatekit/internal/app"
	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/okian/climatekit/internal/domain/table"
	"github.com/okian/climatekit/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ActorParts(ctx context.Context, actorID, partType string) (service.Result[*table.Table], error)
	GetTarget(ctx context.Context, actorID string, year int, opts ...service.TargetOption) (service.Result[*table.Table], error)
	GetEmissions(ctx context.Context, actorID, datasourceID string) (service.Result[*table.Table], error)
	Pathway(ctx context.Context, actorID, datasourceID string, opts ...pathway.Option) (service.Result[pathway.Range], error)

	Linear(baselineYear int, baselineEmissions, targetPercent float64, targetYear int) (pathway.Line, error)
	Scaled(baselineYear int, baselineEmissions, targetPercent float64, targetYear int, scaleYear float64) (float64, error)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	actorsHandler  *ActorsHandler
	pathwayHandler *PathwayHandler
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.actorsHandler = NewActorsHandler(deps, s.logger)
	s.pathwayHandler = NewPathwayHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	s.handle(mux, "GET /healthz", "healthz", s.healthHandler.HandleHealth)
	s.handle(mux, "GET /actors/{id}/parts", "actor_parts", s.actorsHandler.HandleParts)
	s.handle(mux, "GET /actors/{id}/target", "target", s.actorsHandler.HandleTarget)
	s.handle(mux, "GET /actors/{id}/emissions", "emissions", s.actorsHandler.HandleEmissions)
	s.handle(mux, "GET /actors/{id}/pathway", "pathway", s.actorsHandler.HandlePathway)
	s.handle(mux, "GET /pathway/linear", "linear", s.pathwayHandler.HandleLinear)
}

func (s *Server) handle(mux *http.ServeMux, pattern, endpoint string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeResult writes a found value as 200 and a not-found result as 404.
// Lookup errors go through writeFailure.
func writeResult[T any](w http.ResponseWriter, r *http.Request, l logger.Logger, res service.Result[T], err error) {
	if err != nil {
		writeFailure(w, r, l, err)
		return
	}
	if !res.Found() {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: res.Reason})
		return
	}
	writeJSON(w, http.StatusOK, res.Value)
}

// writeFailure maps calculation errors to 422 and everything else, which can
// only come from the data service, to 502.
func writeFailure(w http.ResponseWriter, r *http.Request, l logger.Logger, err error) {
	if errors.Is(err, pathway.ErrInvalidInput) || errors.Is(err, pathway.ErrAmbiguousBaseline) {
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", err)
		return
	}
	l.Error(r.Context(), "request failed",
		logger.String("path", r.URL.Path),
		logger.String("request_id", RequestIDFromContext(r.Context())),
		logger.Error(err),
	)
	writeError(w, http.StatusBadGateway, "upstream_error", err)
}
