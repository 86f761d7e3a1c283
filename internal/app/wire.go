package service

import (
	"github.com/okian/climatekit/internal/adapters/openclimate"
	"github.com/okian/climatekit/internal/config"
	"github.com/okian/climatekit/pkg/logger"
	"github.com/okian/climatekit/pkg/metrics"
)

// FromConfig builds a service reading from cfg.BaseURL with cfg's lookup and
// pathway defaults. opts are applied last.
func FromConfig(cfg *config.Config, l logger.Logger, opts ...Option) *Service {
	client := openclimate.New(
		openclimate.WithBaseURL(cfg.BaseURL),
		openclimate.WithTimeout(cfg.RequestTimeout()),
		openclimate.WithLogger(l.Named("openclimate")),
		openclimate.WithMetrics(metrics.Default()),
	)
	return New(append([]Option{
		WithClient(client),
		WithLogger(l.Named("service")),
		WithPartType(cfg.PartType),
		WithTargetYear(cfg.TargetYear),
		WithBaselineYear(cfg.BaselineYear),
		WithTargetValues(cfg.TargetValue15, cfg.TargetValue20),
	}, opts...)...)
}
