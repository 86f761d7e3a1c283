package service

import (
	"github.com/okian/climatekit/pkg/logger"
	"github.com/okian/climatekit/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithClient sets the data client. Defaults to an OpenClimate client.
func WithClient(c DataClient) Option {
	return func(s *Service) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithPartType sets the default part type of ActorParts.
func WithPartType(partType string) Option {
	return func(s *Service) {
		if partType != "" {
			s.partType = partType
		}
	}
}

// WithTargetYear sets the default year of GetTarget.
func WithTargetYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.targetYear = year
		}
	}
}

// WithBaselineYear sets the default baseline year of Pathway.
func WithBaselineYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.baselineYear = year
		}
	}
}

// WithTargetValues sets the default 1.5C and 2.0C percent reductions of Pathway.
func WithTargetValues(targetValue15, targetValue20 float64) Option {
	return func(s *Service) {
		s.targetValue15 = targetValue15
		s.targetValue20 = targetValue20
	}
}

// TargetOption narrows a GetTarget lookup.
type TargetOption func(*targetQuery)

type targetQuery struct {
	datasourceID string
}

// WithDatasource keeps only targets reported by datasourceID. Empty means any.
func WithDatasource(datasourceID string) TargetOption {
	return func(q *targetQuery) {
		q.datasourceID = datasourceID
	}
}
