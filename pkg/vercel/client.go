// Package vercel is a small client for the deployment endpoints of the Vercel REST API
package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/audiojones/opscheck/pkg/diagnose"
	"github.com/audiojones/opscheck/pkg/httpclient"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultAPIURL is the public Vercel API
	DefaultAPIURL = "https://api.vercel.com"

	// DefaultListLimit mirrors what the dashboard shows on one page
	DefaultListLimit = 20

	deploymentsPath = "/v6/deployments"
	eventsPathFmt   = "/v13/deployments/%s/events"
)

// Client talks to the Vercel API with a bearer token
type Client struct {
	*httpclient.BaseClient
	logger hclog.Logger
}

// NewClient creates a Vercel client
func NewClient(baseURL, token string, logger hclog.Logger, opts ...httpclient.Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("vercel token cannot be empty")
	}
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	base := []httpclient.Option{
		httpclient.WithTimeout(30 * time.Second),
		httpclient.WithBearerToken(token),
		httpclient.WithLogger(logger),
	}

	return &Client{
		BaseClient: httpclient.NewBaseClient(baseURL, append(base, opts...)...),
		logger:     logger,
	}, nil
}

// ListDeployments retrieves recent deployments of a project.
// The API does not guarantee ordering; callers sort as needed.
func (c *Client) ListDeployments(ctx context.Context, opts ListOptions) ([]Deployment, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("project ID cannot be empty")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := url.Values{}
	query.Set("projectId", opts.ProjectID)
	query.Set("limit", strconv.Itoa(limit))
	if opts.TeamID != "" {
		query.Set("teamId", opts.TeamID)
	}

	var resp DeploymentsResponse
	if err := c.GetJSON(ctx, deploymentsPath, query, &resp); err != nil {
		return nil, fmt.Errorf("list deployments failed: %w", err)
	}

	c.logger.Debug("listed deployments", "project", opts.ProjectID, "count", len(resp.Deployments))
	return resp.Deployments, nil
}

// Events retrieves the build/runtime events of a deployment.
// Both a bare JSON array and an {"events": [...]} envelope are accepted;
// entries that are not JSON objects are dropped.
func (c *Client) Events(ctx context.Context, deploymentID, teamID string) ([]diagnose.Event, error) {
	if deploymentID == "" {
		return nil, fmt.Errorf("deployment ID cannot be empty")
	}

	query := url.Values{}
	if teamID != "" {
		query.Set("teamId", teamID)
	}

	var raw json.RawMessage
	path := fmt.Sprintf(eventsPathFmt, url.PathEscape(deploymentID))
	if err := c.GetJSON(ctx, path, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch deployment events failed: %w", err)
	}

	events, err := decodeEvents(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch deployment events failed: %w", err)
	}

	c.logger.Debug("fetched events", "deployment", deploymentID, "count", len(events))
	return events, nil
}

// LatestDiagnosis lists deployments, selects the newest one, fetches its
// events and renders the diagnostic report. Returns an error wrapping
// diagnose.ErrNoDeploymentsFound when the project has no deployments.
func (c *Client) LatestDiagnosis(ctx context.Context, opts ListOptions, renderer diagnose.Renderer) (*Diagnosis, error) {
	deployments, err := c.ListDeployments(ctx, opts)
	if err != nil {
		return nil, err
	}

	candidates := make([]diagnose.Deployment, 0, len(deployments))
	for _, d := range deployments {
		candidates = append(candidates, d.Diagnostic())
	}

	latest, err := diagnose.SelectLatest(candidates)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", opts.ProjectID, err)
	}
	c.logger.Info("latest deployment", "id", latest.ID, "state", latest.State)

	return c.Diagnose(ctx, latest, opts.TeamID, renderer)
}

// Diagnose fetches the events of one deployment and derives its report
func (c *Client) Diagnose(ctx context.Context, deployment diagnose.Deployment, teamID string, renderer diagnose.Renderer) (*Diagnosis, error) {
	events, err := c.Events(ctx, deployment.ID, teamID)
	if err != nil {
		return nil, err
	}

	insights := diagnose.Derive(deployment, events)
	return &Diagnosis{
		Deployment: deployment,
		Events:     events,
		Insights:   insights,
		Report:     renderer.Render(insights, deployment),
	}, nil
}

func decodeEvents(raw json.RawMessage) ([]diagnose.Event, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var envelope struct {
			Events []json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("unexpected events payload: %w", err)
		}
		items = envelope.Events
	}

	events := make([]diagnose.Event, 0, len(items))
	for _, item := range items {
		if !isObject(item) {
			continue
		}
		var event diagnose.Event
		if err := json.Unmarshal(item, &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
