package commands

import (
	"context"

	app "github.com/okian/climatekit/internal/app"
	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/okian/climatekit/internal/domain/table"
)

// Service is what the commands need from the climatekit service.
type Service interface {
	ActorParts(ctx context.Context, actorID, partType string) (app.Result[*table.Table], error)
	GetTarget(ctx context.Context, actorID string, year int, opts ...app.TargetOption) (app.Result[*table.Table], error)
	GetEmissions(ctx context.Context, actorID, datasourceID string) (app.Result[*table.Table], error)
	Pathway(ctx context.Context, actorID, datasourceID string, opts ...pathway.Option) (app.Result[pathway.Range], error)
	Linear(baselineYear int, baselineEmissions, targetPercent float64, targetYear int) (pathway.Line, error)
	Scaled(baselineYear int, baselineEmissions, targetPercent float64, targetYear int, scaleYear float64) (float64, error)
}
