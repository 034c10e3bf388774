package vercel

import (
	"encoding/json"

	"github.com/audiojones/opscheck/pkg/diagnose"
)

// Deployment is a deployment record as returned by GET /v6/deployments
type Deployment struct {
	UID     string          `json:"uid"`
	Name    string          `json:"name,omitempty"`
	URL     string          `json:"url,omitempty"`
	State   string          `json:"state,omitempty"`
	Target  string          `json:"target,omitempty"`
	Created int64           `json:"created"` // Unix milliseconds
	Meta    *DeploymentMeta `json:"meta,omitempty"`
}

// DeploymentMeta holds the subset of deployment metadata the CLI uses
type DeploymentMeta struct {
	Framework string `json:"framework,omitempty"`
}

// UnmarshalJSON tolerates metadata that is not an object or a framework that
// is not a string; both decode as an empty framework instead of failing the listing.
func (m *DeploymentMeta) UnmarshalJSON(data []byte) error {
	*m = DeploymentMeta{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if v, ok := raw["framework"]; ok {
		var framework string
		if json.Unmarshal(v, &framework) == nil {
			m.Framework = framework
		}
	}
	return nil
}

// Framework returns the framework declared in the deployment metadata, if any
func (d Deployment) Framework() string {
	if d.Meta == nil {
		return ""
	}
	return d.Meta.Framework
}

// Diagnostic converts the API record into the summarizer's deployment model
func (d Deployment) Diagnostic() diagnose.Deployment {
	state := d.State
	if state == "" {
		state = "unknown"
	}
	created := float64(d.Created) / 1000.0
	if created < 0 {
		created = 0
	}
	return diagnose.Deployment{
		ID:        d.UID,
		State:     state,
		CreatedAt: created,
		Framework: d.Framework(),
	}
}

// DeploymentsResponse is the body of GET /v6/deployments
type DeploymentsResponse struct {
	Deployments []Deployment `json:"deployments"`
}

// ListOptions selects which deployments to list
type ListOptions struct {
	ProjectID string
	TeamID    string
	Limit     int
}

// Diagnosis bundles everything produced for the latest deployment
type Diagnosis struct {
	Deployment diagnose.Deployment `json:"deployment" yaml:"deployment"`
	Events     []diagnose.Event    `json:"events" yaml:"-"`
	Insights   diagnose.Insights   `json:"insights" yaml:"insights"`
	Report     string              `json:"report" yaml:"report"`
}
