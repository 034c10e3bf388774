package nats

import (
	"time"

	"github.com/audiojones/opscheck/pkg/diagnose"
	"github.com/google/uuid"
)

// ReportPayload is the message published for every rendered diagnostic report
type ReportPayload struct {
	ReportID            string   `json:"reportId"`
	ProjectID           string   `json:"projectId"`
	DeploymentID        string   `json:"deploymentId"`
	State               string   `json:"state"`
	Framework           string   `json:"framework"`
	RootCause           string   `json:"rootCause"`
	MissingEnvs         []string `json:"missingEnvs"`
	MissingDependencies []string `json:"missingDependencies"`
	Recommendations     []string `json:"recommendations"`
	Report              string   `json:"report"`
	Analysis            string   `json:"analysis,omitempty"` // AI answer, when one was requested
	GeneratedAt         int64    `json:"generatedAt"`        // Unix milliseconds
}

// NewReportPayload builds a payload with a fresh report ID
func NewReportPayload(projectID string, d diagnose.Deployment, ins diagnose.Insights, report string, now time.Time) ReportPayload {
	return ReportPayload{
		ReportID:            uuid.NewString(),
		ProjectID:           projectID,
		DeploymentID:        d.ID,
		State:               ins.BuildStatus,
		Framework:           ins.Framework,
		RootCause:           ins.RootCause,
		MissingEnvs:         ins.MissingEnvs,
		MissingDependencies: ins.MissingDependencies,
		Recommendations:     ins.Recommendations,
		Report:              report,
		GeneratedAt:         now.UnixMilli(),
	}
}
