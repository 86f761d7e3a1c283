// Package pathway computes emissions-reduction targets: the IPCC AR6 range
// around a baseline year and the straight line between a baseline and a target.
//
// Every function here is pure and deterministic.
package pathway

import (
	"fmt"

	"github.com/okian/climatekit/internal/domain/table"
)

// Emissions table columns read by IPCCRange.
const (
	ColumnActorID        = "actor_id"
	ColumnYear           = "year"
	ColumnTotalEmissions = "total_emissions"
)

// Range holds the emissions required to be in line with the AR6 pathways,
// in the same units as the input table.
type Range struct {
	BaselineYear      int     `json:"baseline_year"`
	BaselineEmissions float64 `json:"baseline_emissions"`
	TargetValue15     float64 `json:"target_value_1.5C"`
	TargetEmissions15 float64 `json:"target_emissions_1.5C"`
	TargetValue20     float64 `json:"target_value_2.0C"`
	TargetEmissions20 float64 `json:"target_emissions_2.0C"`
}

// IPCCRange reads the baseline-year total_emissions from emissions and applies
// the 1.5C and 2.0C percent reductions to it. Exactly one row must match the
// baseline filter; otherwise ErrAmbiguousBaseline is returned.
func IPCCRange(emissions *table.Table, opts ...Option) (Range, error) {
	cfg := defaultRangeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	baseline, err := baselineEmissions(emissions, cfg)
	if err != nil {
		return Range{}, err
	}

	return Range{
		BaselineYear:      cfg.baselineYear,
		BaselineEmissions: baseline,
		TargetValue15:     cfg.targetValue15,
		TargetEmissions15: Reduce(baseline, cfg.targetValue15),
		TargetValue20:     cfg.targetValue20,
		TargetEmissions20: Reduce(baseline, cfg.targetValue20),
	}, nil
}

func baselineEmissions(emissions *table.Table, cfg rangeConfig) (float64, error) {
	if emissions == nil {
		return 0, fmt.Errorf("%w: no emissions table", ErrAmbiguousBaseline)
	}
	t := emissions
	if cfg.actorID != "" {
		var err error
		if t, err = t.Where(ColumnActorID, cfg.actorID); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrAmbiguousBaseline, err)
		}
	}
	t, err := t.Where(ColumnYear, cfg.baselineYear)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAmbiguousBaseline, err)
	}
	v, err := t.Float(ColumnTotalEmissions)
	if err != nil {
		return 0, fmt.Errorf("%w: year %d: %w", ErrAmbiguousBaseline, cfg.baselineYear, err)
	}
	return v, nil
}

// Reduce applies a percent reduction: emissions * (1 - percent/100).
func Reduce(emissions, percent float64) float64 {
	return emissions * (1 - percent/100)
}

// Line is the straight line through (baseline year, baseline emissions) and
// (target year, target emissions). Emissions at a year are
// Slope*year + Intercept; see Evaluate.
type Line struct {
	Slope           float64 `json:"slope"`
	Intercept       float64 `json:"intercept"`
	TargetEmissions float64 `json:"target_emissions"`
}

// Evaluate returns the emissions on the line at year.
func (l Line) Evaluate(year float64) float64 {
	return l.Slope*year + l.Intercept
}

// LinearEquation builds the line from a baseline point and a percent
// reduction reached at targetYear. targetYear == baselineYear is rejected
// with ErrInvalidInput.
func LinearEquation(baselineYear int, baselineEmissions, targetPercent float64, targetYear int) (Line, error) {
	if targetYear == baselineYear {
		return Line{}, fmt.Errorf("%w: target year %d equals baseline year", ErrInvalidInput, targetYear)
	}
	target := Reduce(baselineEmissions, targetPercent)
	slope := (target - baselineEmissions) / float64(targetYear-baselineYear)
	return Line{
		Slope:           slope,
		Intercept:       baselineEmissions - slope*float64(baselineYear),
		TargetEmissions: target,
	}, nil
}

// ScaledEmissions evaluates the LinearEquation line at scaleYear.
func ScaledEmissions(baselineYear int, baselineEmissions, targetPercent float64, targetYear int, scaleYear float64) (float64, error) {
	line, err := LinearEquation(baselineYear, baselineEmissions, targetPercent, targetYear)
	if err != nil {
		return 0, err
	}
	return line.Evaluate(scaleYear), nil
}
