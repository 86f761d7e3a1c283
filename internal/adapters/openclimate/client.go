// Package openclimate is a client for the OpenClimate API. Every call returns
// its result as a table.Table so callers can reshape it, and maps the API's
// failure modes onto ErrActorNotFound, ErrPartTypeNotFound and ErrInvalidArgument.
package openclimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/okian/climatekit/internal/domain/table"
	"github.com/okian/climatekit/pkg/logger"
	"github.com/okian/climatekit/pkg/metrics"
)

// Endpoint labels used in logs and metrics.
const (
	endpointSearch = "search"
	endpointParts  = "parts"
	endpointActor  = "actor"
)

// maxErrorBody caps how much of an error response is kept for the error message.
const maxErrorBody = 512

// errNoResource is returned by get on HTTP 404; callers translate it.
var errNoResource = errors.New("resource not found")

// Client queries the OpenClimate API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logger.Logger
	metrics *metrics.Manager
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	if c.metrics == nil {
		c.metrics = metrics.Default()
	}
	return c
}

// Search returns the actors matching query as [actor_id, name, type, is_part_of].
func (c *Client) Search(ctx context.Context, query string) (*table.Table, error) {
	var env envelope[[]ActorSummary]
	q := url.Values{"q": []string{query}}
	if err := c.get(ctx, endpointSearch, "/search/actor", q, &env); err != nil {
		if errors.Is(err, errNoResource) {
			return table.New(SearchColumns...), nil
		}
		return nil, err
	}
	return summaries(SearchColumns, env.Data), nil
}

// Parts returns the immediate children of actorID with the given part type
// as [actor_id, name, type].
func (c *Client) Parts(ctx context.Context, actorID, partType string) (*table.Table, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("%w: empty actor id", ErrActorNotFound)
	}
	var env envelope[[]ActorSummary]
	q := url.Values{}
	if partType != "" {
		q.Set("type", partType)
	}
	if err := c.get(ctx, endpointParts, "/actor/"+url.PathEscape(actorID)+"/parts", q, &env); err != nil {
		if errors.Is(err, errNoResource) {
			return nil, fmt.Errorf("%w: %s", ErrActorNotFound, actorID)
		}
		return nil, err
	}
	// The API may ignore the type filter; apply it here as well.
	parts := slices.DeleteFunc(env.Data, func(a ActorSummary) bool {
		return partType != "" && a.Type != "" && a.Type != partType
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s has no %q parts", ErrPartTypeNotFound, actorID, partType)
	}
	return summaries(PartsColumns, parts), nil
}

// Actor returns the full record of actorID.
func (c *Client) Actor(ctx context.Context, actorID string) (*Actor, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("%w: empty actor id", ErrActorNotFound)
	}
	var env envelope[Actor]
	if err := c.get(ctx, endpointActor, "/actor/"+url.PathEscape(actorID), nil, &env); err != nil {
		if errors.Is(err, errNoResource) {
			return nil, fmt.Errorf("%w: %s", ErrActorNotFound, actorID)
		}
		return nil, err
	}
	if env.Data.ActorID == "" {
		env.Data.ActorID = actorID
	}
	return &env.Data, nil
}

// Targets returns every target of actorID as [actor_id, target_type,
// baseline_year, target_year, target_value, target_unit, datasource_id].
// Unless ignoreWarnings is set, incomplete target records are logged.
func (c *Client) Targets(ctx context.Context, actorID string, ignoreWarnings bool) (*table.Table, error) {
	actor, err := c.Actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	records := make([]map[string]any, 0, len(actor.Targets))
	for _, t := range actor.Targets {
		if !ignoreWarnings && !t.complete() {
			c.logger.Warn(ctx, "incomplete target record",
				logger.String("actor_id", actor.ActorID),
				logger.String("target_id", t.TargetID),
				logger.String("datasource_id", t.DatasourceID))
		}
		records = append(records, map[string]any{
			ColumnActorID:      actor.ActorID,
			ColumnTargetType:   t.TargetType,
			ColumnBaselineYear: number(t.BaselineYear),
			ColumnTargetYear:   number(t.TargetYear),
			ColumnTargetValue:  number(t.TargetValue),
			ColumnTargetUnit:   t.TargetUnit,
			ColumnDatasourceID: t.DatasourceID,
		})
	}
	if !ignoreWarnings && len(records) == 0 {
		c.logger.Warn(ctx, "actor has no targets", logger.String("actor_id", actor.ActorID))
	}
	return table.FromRecords(TargetColumns, records), nil
}

// Emissions returns the emissions history of actorID reported by
// datasourceID as [actor_id, year, total_emissions, datasource_id].
// An unknown actor or datasource yields ErrInvalidArgument.
func (c *Client) Emissions(ctx context.Context, actorID, datasourceID string) (*table.Table, error) {
	actor, err := c.Actor(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrActorNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return nil, err
	}

	series, ok := actor.Emissions[datasourceID]
	if !ok {
		available := make([]string, 0, len(actor.Emissions))
		for id := range actor.Emissions {
			available = append(available, id)
		}
		slices.Sort(available)
		return nil, fmt.Errorf("%w: datasource %q not available for %s (have %s)",
			ErrInvalidArgument, datasourceID, actor.ActorID, strings.Join(available, ", "))
	}

	records := make([]map[string]any, 0, len(series.Data))
	for _, y := range series.Data {
		records = append(records, map[string]any{
			ColumnActorID:        actor.ActorID,
			ColumnYear:           y.Year,
			ColumnTotalEmissions: number(y.TotalEmissions),
			ColumnDatasourceID:   datasourceID,
		})
	}
	return table.FromRecords(EmissionsColumns, records), nil
}

// get issues a GET request and decodes the JSON body into out.
// HTTP 404 is reported as errNoResource.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	c.logger.Debug(ctx, "openclimate request", logger.String("endpoint", endpoint), logger.String("url", u))

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamRequest(endpoint, metrics.OutcomeError, time.Since(start))
		c.logger.Error(ctx, "openclimate http error", logger.String("endpoint", endpoint), logger.Error(err))
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	elapsed := time.Since(start)
	c.logger.Debug(ctx, "openclimate response",
		logger.String("endpoint", endpoint),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", elapsed))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.RecordUpstreamRequest(endpoint, metrics.OutcomeNotFound, elapsed)
		_, _ = io.Copy(io.Discard, resp.Body)
		return errNoResource
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.metrics.RecordUpstreamRequest(endpoint, metrics.OutcomeError, elapsed)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s returned %d: %s", ErrUnexpectedStatus, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.RecordUpstreamRequest(endpoint, metrics.OutcomeError, elapsed)
		c.logger.Error(ctx, "openclimate decode error", logger.String("endpoint", endpoint), logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrDecode, endpoint, err)
	}
	c.metrics.RecordUpstreamRequest(endpoint, metrics.OutcomeFound, elapsed)
	return nil
}

func summaries(columns []string, actors []ActorSummary) *table.Table {
	records := make([]map[string]any, 0, len(actors))
	for _, a := range actors {
		records = append(records, map[string]any{
			ColumnActorID:  a.ActorID,
			ColumnName:     a.Name,
			ColumnType:     a.Type,
			ColumnIsPartOf: a.IsPartOf,
		})
	}
	return table.FromRecords(columns, records)
}
