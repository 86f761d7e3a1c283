package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/climatekit/internal/adapters/openclimate"
	service "github.com/okian/climatekit/internal/app"
	"github.com/okian/climatekit/internal/domain/pathway"
	"github.com/okian/climatekit/internal/domain/table"
	"github.com/okian/climatekit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

var errBoom = errors.New("boom")

// fakeClient serves canned tables keyed by actor id.
type fakeClient struct {
	search    map[string]*table.Table
	parts     map[string]*table.Table
	targets   map[string]*table.Table
	emissions map[string]*table.Table
	err       error
}

func (f *fakeClient) Search(_ context.Context, query string) (*table.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.search[query]; ok {
		return t, nil
	}
	return table.New(openclimate.SearchColumns...), nil
}

func (f *fakeClient) Parts(_ context.Context, actorID, partType string) (*table.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.parts[actorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", openclimate.ErrActorNotFound, actorID)
	}
	t, _ = t.Where(openclimate.ColumnType, partType)
	if t.Empty() {
		return nil, fmt.Errorf("%w: %s", openclimate.ErrPartTypeNotFound, partType)
	}
	return t, nil
}

func (f *fakeClient) Targets(_ context.Context, actorID string, _ bool) (*table.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.targets[actorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", openclimate.ErrActorNotFound, actorID)
	}
	return t, nil
}

func (f *fakeClient) Emissions(_ context.Context, actorID, datasourceID string) (*table.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.emissions[actorID+"/"+datasourceID]
	if !ok {
		return nil, fmt.Errorf("%w: no emissions for %s from %s", openclimate.ErrInvalidArgument, actorID, datasourceID)
	}
	return t, nil
}

func newFake() *fakeClient {
	return &fakeClient{
		search: map[string]*table.Table{
			"CA": table.FromRecords(openclimate.SearchColumns, []map[string]any{
				{"actor_id": "CA", "name": "Canada", "type": "country", "is_part_of": "EARTH"},
				{"actor_id": "CA-ON", "name": "Ontario", "type": "adm1", "is_part_of": "CA"},
			}),
		},
		parts: map[string]*table.Table{
			"CA": table.FromRecords(openclimate.PartsColumns, []map[string]any{
				{"actor_id": "CA-ON", "name": "Ontario", "type": "adm1"},
				{"actor_id": "CA-QC", "name": "Quebec", "type": "adm1"},
				{"actor_id": "CA TOR", "name": "Toronto", "type": "city"},
			}),
		},
		targets: map[string]*table.Table{
			"CA": table.FromRecords(openclimate.TargetColumns, []map[string]any{
				{"actor_id": "CA", "target_type": service.AbsoluteReduction, "baseline_year": 2005, "target_year": 2030, "target_value": 40, "target_unit": "percent", "datasource_id": "UNFCCC"},
				{"actor_id": "CA", "target_type": service.AbsoluteReduction, "baseline_year": 2005, "target_year": 2030, "target_value": 40, "target_unit": "percent", "datasource_id": "NDC"},
				{"actor_id": "CA", "target_type": service.AbsoluteReduction, "baseline_year": 2005, "target_year": 2035, "target_value": 50, "target_unit": "percent", "datasource_id": "UNFCCC"},
				{"actor_id": "CA", "target_type": "Net zero", "baseline_year": 2005, "target_year": 2030, "target_value": 100, "target_unit": "percent", "datasource_id": "UNFCCC"},
			}),
			"XX": table.New(openclimate.TargetColumns...),
			"BAD": table.FromRecords([]string{"actor_id"}, []map[string]any{
				{"actor_id": "BAD"},
			}),
		},
		emissions: map[string]*table.Table{
			"CA/UNFCCC": table.FromRecords(openclimate.EmissionsColumns, []map[string]any{
				{"actor_id": "CA", "year": 2018, "total_emissions": 110, "datasource_id": "UNFCCC"},
				{"actor_id": "CA", "year": 2019, "total_emissions": 100, "datasource_id": "UNFCCC"},
			}),
			"CA/DUP": table.FromRecords(openclimate.EmissionsColumns, []map[string]any{
				{"actor_id": "CA", "year": 2019, "total_emissions": 100, "datasource_id": "DUP"},
				{"actor_id": "CA", "year": 2019, "total_emissions": 101, "datasource_id": "DUP"},
			}),
		},
	}
}

func newService(c service.DataClient) *service.Service {
	return service.New(
		service.WithClient(c),
		service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
	)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.TargetYear(), ShouldEqual, service.DefaultTargetYear)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithClient(newFake()),
			service.WithPartType("city"),
			service.WithTargetYear(2035),
			service.WithBaselineYear(2018),
			service.WithTargetValues(50, 30),
		)

		Convey("Then the options should apply", func() {
			So(svc.TargetYear(), ShouldEqual, 2035)
		})
	})
}

func TestService_ActorParts(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over a known actor", t, func() {
		svc := newService(newFake())

		Convey("When listing adm1 parts", func() {
			res, err := svc.ActorParts(ctx, "CA", "adm1")

			Convey("Then the actor comes first followed by its parts", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeTrue)
				So(res.Value.Columns(), ShouldResemble, []string{"name", "actor_id"})
				So(res.Value.Len(), ShouldEqual, 3)
				So(res.Value.Row(0).String("actor_id"), ShouldEqual, "CA")
				So(res.Value.Row(1).String("name"), ShouldEqual, "Ontario")
				So(res.Value.Row(2).String("name"), ShouldEqual, "Quebec")
			})
		})

		Convey("When the part type is empty", func() {
			res, err := svc.ActorParts(ctx, "CA", "")

			Convey("Then the default part type is used", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeTrue)
				So(res.Value.Len(), ShouldEqual, 3)
			})
		})

		Convey("When the actor has no parts of that type", func() {
			res, err := svc.ActorParts(ctx, "CA", "adm2")

			Convey("Then a not-found result names the part type", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
				So(res.Reason, ShouldEqual, "CA does not have any adm2 types")
			})
		})

		Convey("When the actor is unknown", func() {
			res, err := svc.ActorParts(ctx, "NOPE", "adm1")

			Convey("Then a not-found result names the actor", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
				So(res.Reason, ShouldEqual, "NOPE not found")
			})
		})
	})

	Convey("Given a failing client", t, func() {
		fake := newFake()
		fake.err = errBoom
		svc := newService(fake)

		Convey("Then the error propagates", func() {
			_, err := svc.ActorParts(ctx, "CA", "adm1")
			So(errors.Is(err, errBoom), ShouldBeTrue)
		})
	})
}

func TestService_GetTarget(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over an actor with targets", t, func() {
		svc := newService(newFake())

		Convey("When asking for the default year", func() {
			res, err := svc.GetTarget(ctx, "CA", 0)

			Convey("Then duplicate absolute targets collapse to one row", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeTrue)
				So(res.Value.Columns(), ShouldResemble, []string{"actor_id", "baseline_year", "target_year", "target_value", "target_unit"})
				So(res.Value.Len(), ShouldEqual, 1)
				So(res.Value.Row(0).String("target_unit"), ShouldEqual, "percent")
				v, _ := res.Value.Float("target_value")
				So(v, ShouldEqual, 40)
			})
		})

		Convey("When asking for another year with a target", func() {
			res, err := svc.GetTarget(ctx, "CA", 2035)

			Convey("Then that year's target is returned", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeTrue)
				v, _ := res.Value.Float("target_value")
				So(v, ShouldEqual, 50)
			})
		})

		Convey("When asking for a year without an exact match", func() {
			res, err := svc.GetTarget(ctx, "CA", 2032)

			Convey("Then nothing is found", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
				So(res.Reason, ShouldContainSubstring, "no matching target data")
			})
		})

		Convey("When filtering by datasource", func() {
			res, err := svc.GetTarget(ctx, "CA", 2035, service.WithDatasource("NDC"))

			Convey("Then targets from other datasources are ignored", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
			})
		})

		Convey("When the actor is unknown", func() {
			res, err := svc.GetTarget(ctx, "NOPE", 2030)

			Convey("Then a not-found result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
			})
		})

		Convey("When the actor has no targets", func() {
			res, err := svc.GetTarget(ctx, "XX", 2030)

			Convey("Then a not-found result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
			})
		})

		Convey("When the target records lack columns", func() {
			res, err := svc.GetTarget(ctx, "BAD", 2030)

			Convey("Then a not-found result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a failing client", t, func() {
		fake := newFake()
		fake.err = errBoom
		svc := newService(fake)

		Convey("Then the error propagates", func() {
			_, err := svc.GetTarget(ctx, "CA", 2030)
			So(errors.Is(err, errBoom), ShouldBeTrue)
		})
	})
}

func TestService_GetEmissions(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over an actor with emissions", t, func() {
		svc := newService(newFake())

		Convey("When the datasource is known", func() {
			res, err := svc.GetEmissions(ctx, "CA", "UNFCCC")

			Convey("Then the yearly emissions are returned", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeTrue)
				So(res.Value.Len(), ShouldEqual, 2)
			})
		})

		Convey("When the datasource is unknown", func() {
			res, err := svc.GetEmissions(ctx, "CA", "NOPE")

			Convey("Then a not-found result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
				So(res.Reason, ShouldContainSubstring, "NOPE")
			})
		})

		Convey("When the actor is unknown", func() {
			res, err := svc.GetEmissions(ctx, "NOPE", "UNFCCC")

			Convey("Then a not-found result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a failing client", t, func() {
		fake := newFake()
		fake.err = errBoom
		svc := newService(fake)

		Convey("Then the error propagates", func() {
			_, err := svc.GetEmissions(ctx, "CA", "UNFCCC")
			So(errors.Is(err, errBoom), ShouldBeTrue)
		})
	})
}

func TestService_Pathway(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over an actor with emissions", t, func() {
		svc := newService(newFake())

		Convey("When computing the default pathway", func() {
			res, err := svc.Pathway(ctx, "CA", "UNFCCC")

			Convey("Then the IPCC range is computed from 2019", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeTrue)
				So(res.Value.BaselineYear, ShouldEqual, 2019)
				So(res.Value.BaselineEmissions, ShouldEqual, 100)
				So(res.Value.TargetEmissions15, ShouldAlmostEqual, 57, 1e-9)
				So(res.Value.TargetEmissions20, ShouldAlmostEqual, 73, 1e-9)
			})
		})

		Convey("When overriding the baseline year", func() {
			res, err := svc.Pathway(ctx, "CA", "UNFCCC", pathway.WithBaselineYear(2018))

			Convey("Then the override wins", func() {
				So(err, ShouldBeNil)
				So(res.Value.BaselineEmissions, ShouldEqual, 110)
			})
		})

		Convey("When the baseline year is missing", func() {
			_, err := svc.Pathway(ctx, "CA", "UNFCCC", pathway.WithBaselineYear(2000))

			Convey("Then the range fails", func() {
				So(errors.Is(err, pathway.ErrAmbiguousBaseline), ShouldBeTrue)
			})
		})

		Convey("When the baseline year is duplicated", func() {
			_, err := svc.Pathway(ctx, "CA", "DUP")

			Convey("Then the range fails", func() {
				So(errors.Is(err, pathway.ErrAmbiguousBaseline), ShouldBeTrue)
			})
		})

		Convey("When emissions are not found", func() {
			res, err := svc.Pathway(ctx, "NOPE", "UNFCCC")

			Convey("Then the pathway is not found either", func() {
				So(err, ShouldBeNil)
				So(res.Found(), ShouldBeFalse)
				So(res.Reason, ShouldNotBeEmpty)
			})
		})
	})
}

func TestService_Linear(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService(newFake())

		Convey("When computing a straight-line pathway", func() {
			line, err := svc.Linear(2020, 100, 50, 2030)

			Convey("Then it passes through the baseline and the target", func() {
				So(err, ShouldBeNil)
				So(line.Slope, ShouldAlmostEqual, -5, 1e-9)
				So(line.Evaluate(2020), ShouldAlmostEqual, 100, 1e-9)
				So(line.Evaluate(2030), ShouldAlmostEqual, 50, 1e-9)
			})
		})

		Convey("When scaling to an intermediate year", func() {
			v, err := svc.Scaled(2020, 100, 50, 2030, 2025)

			Convey("Then the midpoint is returned", func() {
				So(err, ShouldBeNil)
				So(v, ShouldAlmostEqual, 75, 1e-9)
			})
		})

		Convey("When the target year equals the baseline year", func() {
			_, err := svc.Linear(2020, 100, 50, 2020)

			Convey("Then the input is rejected", func() {
				So(errors.Is(err, pathway.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}
