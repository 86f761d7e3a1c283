package openclimate

import "encoding/json"

// Column names of the tables returned by the client.
const (
	ColumnActorID        = "actor_id"
	ColumnName           = "name"
	ColumnType           = "type"
	ColumnIsPartOf       = "is_part_of"
	ColumnTargetType     = "target_type"
	ColumnBaselineYear   = "baseline_year"
	ColumnTargetYear     = "target_year"
	ColumnTargetValue    = "target_value"
	ColumnTargetUnit     = "target_unit"
	ColumnDatasourceID   = "datasource_id"
	ColumnYear           = "year"
	ColumnTotalEmissions = "total_emissions"
)

// Table layouts, so an empty result still carries its schema.
var (
	SearchColumns    = []string{ColumnActorID, ColumnName, ColumnType, ColumnIsPartOf}
	PartsColumns     = []string{ColumnActorID, ColumnName, ColumnType}
	TargetColumns    = []string{ColumnActorID, ColumnTargetType, ColumnBaselineYear, ColumnTargetYear, ColumnTargetValue, ColumnTargetUnit, ColumnDatasourceID}
	EmissionsColumns = []string{ColumnActorID, ColumnYear, ColumnTotalEmissions, ColumnDatasourceID}
)

// envelope is the API's response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ActorSummary is an entry of a search or parts listing.
type ActorSummary struct {
	ActorID  string `json:"actor_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPartOf string `json:"is_part_of"`
}

// Actor is the full actor record.
type Actor struct {
	ActorID   string                     `json:"actor_id"`
	Name      string                     `json:"name"`
	Type      string                     `json:"type"`
	IsPartOf  string                     `json:"is_part_of"`
	Emissions map[string]EmissionsSeries `json:"emissions"`
	Targets   []Target                   `json:"targets"`
}

// EmissionsSeries is one datasource's emissions history for an actor.
type EmissionsSeries struct {
	DatasourceID string          `json:"datasource_id"`
	Data         []EmissionsYear `json:"data"`
}

// EmissionsYear is one year of total emissions in tonnes CO2-equivalent.
type EmissionsYear struct {
	Year           json.Number  `json:"year"`
	TotalEmissions *json.Number `json:"total_emissions"`
}

// Target is a stated emissions-reduction commitment.
type Target struct {
	TargetID     string       `json:"target_id"`
	TargetType   string       `json:"target_type"`
	BaselineYear *json.Number `json:"baseline_year"`
	TargetYear   *json.Number `json:"target_year"`
	TargetValue  *json.Number `json:"target_value"`
	TargetUnit   string       `json:"target_unit"`
	DatasourceID string       `json:"datasource_id"`
}

// complete reports whether the fields the lookups need are present.
func (t Target) complete() bool {
	return t.TargetType != "" && t.BaselineYear != nil && t.TargetYear != nil && t.TargetValue != nil
}

// number converts an optional JSON number to a table cell.
func number(n *json.Number) any {
	if n == nil {
		return nil
	}
	return *n
}
