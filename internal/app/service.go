// Package service provides the OpenClimate lookups and pathway calculations
// consumed by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/climatekit/internal/adapters/openclimate"
	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/okian/climatekit/internal/domain/table"
	"github.com/okian/climatekit/pkg/logger"
	"github.com/okian/climatekit/pkg/metrics"
)

// Defaults for lookups when the caller does not pass one.
const (
	DefaultPartType   = "adm1"
	DefaultTargetYear = 2030
)

// AbsoluteReduction is the only target type GetTarget reports.
const AbsoluteReduction = "Absolute emission reduction"

// Lookup names used in metrics.
const (
	lookupActorParts = "actor_parts"
	lookupTarget     = "get_target"
	lookupEmissions  = "get_emissions"
	lookupPathway    = "pathway"
)

// DataClient is the subset of the OpenClimate client the service reads from.
type DataClient interface {
	Search(ctx context.Context, query string) (*table.Table, error)
	Parts(ctx context.Context, actorID, partType string) (*table.Table, error)
	Targets(ctx context.Context, actorID string, ignoreWarnings bool) (*table.Table, error)
	Emissions(ctx context.Context, actorID, datasourceID string) (*table.Table, error)
}

// Service answers actor, target and emissions questions. It holds only
// immutable configuration and is safe for concurrent use.
type Service struct {
	client  DataClient
	logger  logger.Logger
	metrics *metrics.Manager

	partType      string
	targetYear    int
	baselineYear  int
	targetValue15 float64
	targetValue20 float64
}

// New creates a service. Without WithClient it talks to the public OpenClimate API.
func New(opts ...Option) *Service {
	s := &Service{
		logger:        logger.Nop(),
		metrics:       metrics.Default(),
		partType:      DefaultPartType,
		targetYear:    DefaultTargetYear,
		baselineYear:  pathway.DefaultBaselineYear,
		targetValue15: pathway.DefaultTargetValue15,
		targetValue20: pathway.DefaultTargetValue20,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = openclimate.New(
			openclimate.WithLogger(s.logger),
			openclimate.WithMetrics(s.metrics),
		)
	}
	return s
}

// TargetYear returns the default year of GetTarget.
func (s *Service) TargetYear() int { return s.targetYear }

// ActorParts returns the actor's own name and id followed by its immediate
// children of partType. An empty partType uses the configured default.
func (s *Service) ActorParts(ctx context.Context, actorID, partType string) (Result[*table.Table], error) {
	start := time.Now()
	if partType == "" {
		partType = s.partType
	}

	res, err := s.actorParts(ctx, actorID, partType)
	record(ctx, s, lookupActorParts, start, res, err)
	return res, err
}

func (s *Service) actorParts(ctx context.Context, actorID, partType string) (Result[*table.Table], error) {
	notFound := NotFound[*table.Table](fmt.Sprintf("%s does not have any %s types", actorID, partType))

	parts, err := s.client.Parts(ctx, actorID, partType)
	switch {
	case errors.Is(err, openclimate.ErrActorNotFound):
		return NotFound[*table.Table](actorID + " not found"), nil
	case errors.Is(err, openclimate.ErrPartTypeNotFound):
		return notFound, nil
	case err != nil:
		return Result[*table.Table]{}, err
	}
	parts, err = parts.Select(openclimate.ColumnName, openclimate.ColumnActorID)
	if errors.Is(err, table.ErrColumnNotFound) {
		return notFound, nil
	}
	if err != nil {
		return Result[*table.Table]{}, err
	}

	own, err := s.client.Search(ctx, actorID)
	if err != nil {
		return Result[*table.Table]{}, err
	}
	if own, err = own.Where(openclimate.ColumnActorID, actorID); err != nil {
		return notFound, nil
	}
	if own, err = own.Select(openclimate.ColumnName, openclimate.ColumnActorID); err != nil {
		return notFound, nil
	}

	return Found(own.Concat(parts)), nil
}

// GetTarget returns the actor's absolute emission reduction targets for year,
// de-duplicated. A zero year uses the configured default.
func (s *Service) GetTarget(ctx context.Context, actorID string, year int, opts ...TargetOption) (Result[*table.Table], error) {
	start := time.Now()
	if year == 0 {
		year = s.targetYear
	}
	q := targetQuery{}
	for _, opt := range opts {
		opt(&q)
	}

	res, err := s.getTarget(ctx, actorID, year, q)
	record(ctx, s, lookupTarget, start, res, err)
	return res, err
}

func (s *Service) getTarget(ctx context.Context, actorID string, year int, q targetQuery) (Result[*table.Table], error) {
	notFound := NotFound[*table.Table](fmt.Sprintf("no matching target data for %s in %d", actorID, year))

	targets, err := s.client.Targets(ctx, actorID, true)
	if errors.Is(err, openclimate.ErrActorNotFound) {
		return notFound, nil
	}
	if err != nil {
		return Result[*table.Table]{}, err
	}

	t, err := selectTargets(targets, q)
	if errors.Is(err, table.ErrColumnNotFound) {
		return notFound, nil
	}
	if err != nil {
		return Result[*table.Table]{}, err
	}

	closest, ok := closestTargetYear(t, year)
	if !ok {
		return notFound, nil
	}
	if t, err = t.Where(openclimate.ColumnTargetYear, closest); err != nil {
		return Result[*table.Table]{}, err
	}
	t, err = t.Select(
		openclimate.ColumnActorID,
		openclimate.ColumnBaselineYear,
		openclimate.ColumnTargetYear,
		openclimate.ColumnTargetValue,
		openclimate.ColumnTargetUnit,
	)
	if err != nil {
		return Result[*table.Table]{}, err
	}
	return Found(t.DropDuplicates()), nil
}

func selectTargets(targets *table.Table, q targetQuery) (*table.Table, error) {
	t, err := targets.Where(openclimate.ColumnTargetType, AbsoluteReduction)
	if err != nil {
		return nil, err
	}
	t, err = t.Select(
		openclimate.ColumnActorID,
		openclimate.ColumnBaselineYear,
		openclimate.ColumnTargetYear,
		openclimate.ColumnTargetValue,
		openclimate.ColumnTargetUnit,
		openclimate.ColumnDatasourceID,
	)
	if err != nil {
		return nil, err
	}
	if q.datasourceID != "" {
		return t.Where(openclimate.ColumnDatasourceID, q.datasourceID)
	}
	return t, nil
}

// closestTargetYear returns the smallest target_year equal to year. Only
// exact matches count; a 2035 target is not reported for 2030.
func closestTargetYear(t *table.Table, year int) (int, bool) {
	closest, found := 0, false
	for _, r := range t.Rows() {
		ty, ok := r.Int(openclimate.ColumnTargetYear)
		if !ok || ty != year {
			continue
		}
		if !found || ty < closest {
			closest, found = ty, true
		}
	}
	return closest, found
}

// GetEmissions returns the actor's yearly total emissions from datasourceID.
// An unknown actor or datasource is reported as not found.
func (s *Service) GetEmissions(ctx context.Context, actorID, datasourceID string) (Result[*table.Table], error) {
	start := time.Now()
	res, err := s.getEmissions(ctx, actorID, datasourceID)
	record(ctx, s, lookupEmissions, start, res, err)
	return res, err
}

func (s *Service) getEmissions(ctx context.Context, actorID, datasourceID string) (Result[*table.Table], error) {
	t, err := s.client.Emissions(ctx, actorID, datasourceID)
	if errors.Is(err, openclimate.ErrInvalidArgument) {
		return NotFound[*table.Table](err.Error()), nil
	}
	if err != nil {
		return Result[*table.Table]{}, err
	}
	return Found(t), nil
}

// Pathway fetches the actor's emissions and computes the IPCC range from them.
// Service defaults for baseline year and target values apply unless opts
// override them.
func (s *Service) Pathway(ctx context.Context, actorID, datasourceID string, opts ...pathway.Option) (Result[pathway.Range], error) {
	start := time.Now()

	emissions, err := s.getEmissions(ctx, actorID, datasourceID)
	if err != nil {
		record(ctx, s, lookupPathway, start, Result[pathway.Range]{}, err)
		return Result[pathway.Range]{}, err
	}
	if !emissions.Found() {
		res := NotFound[pathway.Range](emissions.Reason)
		record(ctx, s, lookupPathway, start, res, nil)
		return res, nil
	}

	opts = append([]pathway.Option{
		pathway.WithActor(actorID),
		pathway.WithBaselineYear(s.baselineYear),
		pathway.WithTargetValues(s.targetValue15, s.targetValue20),
	}, opts...)
	r, err := pathway.IPCCRange(emissions.Value, opts...)
	s.metrics.RecordCalculation("ipcc_range", err)
	if err != nil {
		record(ctx, s, lookupPathway, start, Result[pathway.Range]{}, err)
		return Result[pathway.Range]{}, err
	}
	res := Found(r)
	record(ctx, s, lookupPathway, start, res, nil)
	return res, nil
}

// Linear returns the straight line from the baseline to the target year.
func (s *Service) Linear(baselineYear int, baselineEmissions, targetPercent float64, targetYear int) (pathway.Line, error) {
	line, err := pathway.LinearEquation(baselineYear, baselineEmissions, targetPercent, targetYear)
	s.metrics.RecordCalculation("linear_equation", err)
	return line, err
}

// Scaled evaluates the straight-line pathway at scaleYear.
func (s *Service) Scaled(baselineYear int, baselineEmissions, targetPercent float64, targetYear int, scaleYear float64) (float64, error) {
	v, err := pathway.ScaledEmissions(baselineYear, baselineEmissions, targetPercent, targetYear, scaleYear)
	s.metrics.RecordCalculation("scaled_emissions", err)
	return v, err
}

// rowCounter is satisfied by lookup values that report a size.
type rowCounter interface{ Len() int }

func record[T any](ctx context.Context, s *Service, lookup string, start time.Time, res Result[T], err error) {
	latency := time.Since(start)
	switch {
	case err != nil:
		s.metrics.RecordLookup(lookup, metrics.OutcomeError, latency, 0)
		s.logger.Error(ctx, "lookup failed", logger.String("lookup", lookup), logger.Error(err))
	case !res.Found():
		s.metrics.RecordLookup(lookup, metrics.OutcomeNotFound, latency, 0)
		s.logger.Debug(ctx, "lookup not found", logger.String("lookup", lookup), logger.String("reason", res.Reason))
	default:
		rows := 0
		if rc, ok := any(res.Value).(rowCounter); ok {
			rows = rc.Len()
		}
		s.metrics.RecordLookup(lookup, metrics.OutcomeFound, latency, rows)
	}
}
