package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/climatekit/internal/app"
	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/okian/climatekit/pkg/logger"
)

// ActorsHandler serves the per-actor lookups.
type ActorsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewActorsHandler creates a new actors handler.
func NewActorsHandler(deps Dependencies, l logger.Logger) *ActorsHandler {
	return &ActorsHandler{deps: deps, logger: l}
}

// HandleParts handles GET /actors/{id}/parts?type=adm1.
func (h *ActorsHandler) HandleParts(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.ActorParts(r.Context(), r.PathValue("id"), r.URL.Query().Get("type"))
	writeResult(w, r, h.logger, res, err)
}

// HandleTarget handles GET /actors/{id}/target?year=2030&datasource=.
func (h *ActorsHandler) HandleTarget(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := intParam(q.Get("year"), "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.deps.GetTarget(r.Context(), r.PathValue("id"), year, service.WithDatasource(q.Get("datasource")))
	writeResult(w, r, h.logger, res, err)
}

// HandleEmissions handles GET /actors/{id}/emissions?datasource=.
func (h *ActorsHandler) HandleEmissions(w http.ResponseWriter, r *http.Request) {
	ds, err := requiredParam(r, "datasource")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.deps.GetEmissions(r.Context(), r.PathValue("id"), ds)
	writeResult(w, r, h.logger, res, err)
}

// HandlePathway handles GET /actors/{id}/pathway?datasource=&baseline_year=&target_15=&target_20=.
// Omitted or empty parameters fall back to the service defaults, each on its own.
func (h *ActorsHandler) HandlePathway(w http.ResponseWriter, r *http.Request) {
	ds, err := requiredParam(r, "datasource")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	opts, err := pathwayOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.deps.Pathway(r.Context(), r.PathValue("id"), ds, opts...)
	writeResult(w, r, h.logger, res, err)
}

func pathwayOptions(r *http.Request) ([]pathway.Option, error) {
	q := r.URL.Query()
	var opts []pathway.Option

	if v := q.Get("baseline_year"); v != "" {
		year, err := intParam(v, "baseline_year")
		if err != nil {
			return nil, err
		}
		opts = append(opts, pathway.WithBaselineYear(year))
	}
	if v := q.Get("target_15"); v != "" {
		t15, err := floatParam(v, "target_15", 0)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pathway.WithTargetValue15(t15))
	}
	if v := q.Get("target_20"); v != "" {
		t20, err := floatParam(v, "target_20", 0)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pathway.WithTargetValue20(t20))
	}
	return opts, nil
}

func requiredParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	return v, nil
}

// intParam parses an optional integer; empty yields zero.
func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return n, nil
}

// floatParam parses an optional number; empty yields def.
func floatParam(v, name string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadRequest, name)
	}
	return f, nil
}
