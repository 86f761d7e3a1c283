package api

import (
	"net/http"

	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/okian/climatekit/pkg/logger"
)

// PathwayHandler serves the pure pathway calculations.
type PathwayHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewPathwayHandler creates a new pathway handler.
func NewPathwayHandler(deps Dependencies, l logger.Logger) *PathwayHandler {
	return &PathwayHandler{deps: deps, logger: l}
}

type linearResponse struct {
	pathway.Line
	ScaleYear       *float64 `json:"scale_year,omitempty"`
	ScaledEmissions *float64 `json:"scaled_emissions,omitempty"`
}

type linearRequest struct {
	baselineYear      int
	baselineEmissions float64
	targetPercent     float64
	targetYear        int
}

// HandleLinear handles
// GET /pathway/linear?baseline_year=&baseline_emissions=&target_percent=&target_year=[&scale_year=].
func (h *PathwayHandler) HandleLinear(w http.ResponseWriter, r *http.Request) {
	req, err := parseLinearRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	line, err := h.deps.Linear(req.baselineYear, req.baselineEmissions, req.targetPercent, req.targetYear)
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}

	resp := linearResponse{Line: line}
	if v := r.URL.Query().Get("scale_year"); v != "" {
		year, err := floatParam(v, "scale_year", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		scaled, err := h.deps.Scaled(req.baselineYear, req.baselineEmissions, req.targetPercent, req.targetYear, year)
		if err != nil {
			writeFailure(w, r, h.logger, err)
			return
		}
		resp.ScaleYear, resp.ScaledEmissions = &year, &scaled
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseLinearRequest(r *http.Request) (linearRequest, error) {
	var req linearRequest
	for _, name := range []string{"baseline_year", "baseline_emissions", "target_percent", "target_year"} {
		if _, err := requiredParam(r, name); err != nil {
			return req, err
		}
	}

	q := r.URL.Query()
	var err error
	if req.baselineYear, err = intParam(q.Get("baseline_year"), "baseline_year"); err != nil {
		return req, err
	}
	if req.baselineEmissions, err = floatParam(q.Get("baseline_emissions"), "baseline_emissions", 0); err != nil {
		return req, err
	}
	if req.targetPercent, err = floatParam(q.Get("target_percent"), "target_percent", 0); err != nil {
		return req, err
	}
	if req.targetYear, err = intParam(q.Get("target_year"), "target_year"); err != nil {
		return req, err
	}
	return req, nil
}
