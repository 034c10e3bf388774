package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/audiojones/opscheck/internal/tui"
	"github.com/audiojones/opscheck/pkg/diagnose"
	"github.com/audiojones/opscheck/pkg/gemini"
	"github.com/audiojones/opscheck/pkg/nats"
	"github.com/audiojones/opscheck/pkg/vercel"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// diagnoseOutput is the machine-readable form of a diagnose run
type diagnoseOutput struct {
	Project          string              `json:"project" yaml:"project"`
	Deployment       diagnose.Deployment `json:"deployment" yaml:"deployment"`
	Insights         diagnose.Insights   `json:"insights" yaml:"insights"`
	Report           string              `json:"report" yaml:"report"`
	Analysis         string              `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	ReportID         string              `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	PublishedSubject string              `json:"published_subject,omitempty" yaml:"published_subject,omitempty"`
}

// vercelFlags are shared by every command that reads deployments
func vercelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "project",
			Usage: "Vercel project ID or slug (overrides config and VERCEL_PROJECT_ID)",
		},
		&cli.StringFlag{
			Name:  "team",
			Usage: "Vercel team ID (overrides config and VERCEL_TEAM_ID)",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "Vercel access token (overrides config and VERCEL_TOKEN)",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Number of recent deployments to inspect",
		},
	}
}

// applyVercelFlags lets command-line flags override the loaded configuration
func applyVercelFlags(state *appState, c *cli.Context) {
	v := state.cfg.Vercel
	if c.IsSet("project") {
		v.ProjectID = c.String("project")
	}
	if c.IsSet("team") {
		v.TeamID = c.String("team")
	}
	if c.IsSet("token") {
		v.Token = c.String("token")
	}
	if c.IsSet("limit") {
		v.Limit = c.Int("limit")
	}
}

// newVercelClient creates a client from the resolved configuration
func newVercelClient(state *appState) (*vercel.Client, error) {
	v := state.cfg.Vercel
	return vercel.NewClient(v.APIURL, v.Token, state.logger.Named("vercel"))
}

// listOptions returns the deployment listing for the configured project
func listOptions(state *appState) vercel.ListOptions {
	v := state.cfg.Vercel
	return vercel.ListOptions{ProjectID: v.ProjectID, TeamID: v.TeamID, Limit: v.Limit}
}

// withSpinner runs task behind a spinner when stderr is a terminal
func withSpinner(c *cli.Context, message string, task func(ctx context.Context) error) error {
	if c.Bool("no-spinner") || !isTerminal(c.App.ErrWriter) {
		return task(c.Context)
	}
	return tui.RunSpinnerWithTask(c.Context, message, task, tea.WithOutput(c.App.ErrWriter))
}

// diagnoseCommand summarizes the latest deployment of the project
func diagnoseCommand(state *appState) *cli.Command {
	flags := append(vercelFlags(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   outputText,
			Usage:   "Output format (text, json, yaml)",
		},
		&cli.BoolFlag{
			Name:  "pick",
			Usage: "Choose the deployment interactively instead of the latest one",
		},
		&cli.BoolFlag{
			Name:  "analyze",
			Usage: "Ask Gemini for remediation advice based on the report",
		},
		&cli.BoolFlag{
			Name:  "publish",
			Usage: "Publish the report to NATS",
		},
		&cli.BoolFlag{
			Name:  "no-spinner",
			Usage: "Disable the progress spinner",
		},
	)

	return &cli.Command{
		Name:  "diagnose",
		Usage: "Summarize the latest deployment: root cause, missing env vars and dependencies, fixes",
		Flags: flags,
		Action: func(c *cli.Context) error {
			format := c.String("output")
			switch format {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unsupported output format %q (use text, json or yaml)", format)
			}

			applyVercelFlags(state, c)
			if err := state.cfg.ValidateVercel(); err != nil {
				return err
			}
			if c.Bool("analyze") {
				if err := state.cfg.ValidateGemini(); err != nil {
					return err
				}
			}
			if c.Bool("publish") {
				if err := state.cfg.ValidateNATS(); err != nil {
					return err
				}
			}

			client, err := newVercelClient(state)
			if err != nil {
				return err
			}

			opts := listOptions(state)
			renderer := diagnose.Renderer{}

			var diag *vercel.Diagnosis
			if c.Bool("pick") {
				diag, err = pickAndDiagnose(c, client, opts, renderer)
			} else {
				err = withSpinner(c, "Fetching latest deployment", func(ctx context.Context) error {
					var taskErr error
					diag, taskErr = client.LatestDiagnosis(ctx, opts, renderer)
					return taskErr
				})
			}
			if err != nil {
				return err
			}
			if diag == nil {
				return nil
			}

			out := diagnoseOutput{
				Project:    opts.ProjectID,
				Deployment: diag.Deployment,
				Insights:   diag.Insights,
				Report:     diag.Report,
			}

			if c.Bool("analyze") {
				answer, err := analyzeReport(c, state, diag.Report)
				if err != nil {
					return err
				}
				out.Analysis = answer
			}

			if c.Bool("publish") {
				if err := publishReport(state, &out, time.Now()); err != nil {
					return err
				}
			}

			return writeDiagnosis(c.App.Writer, format, out)
		},
	}
}

// pickAndDiagnose lists deployments newest first and lets the user choose one
func pickAndDiagnose(c *cli.Context, client *vercel.Client, opts vercel.ListOptions, renderer diagnose.Renderer) (*vercel.Diagnosis, error) {
	if !isTerminal(os.Stdin) {
		return nil, fmt.Errorf("--pick requires an interactive terminal")
	}

	var deployments []vercel.Deployment
	err := withSpinner(c, "Fetching deployments", func(ctx context.Context) error {
		var taskErr error
		deployments, taskErr = client.ListDeployments(ctx, opts)
		return taskErr
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]diagnose.Deployment, 0, len(deployments))
	for _, d := range deployments {
		candidates = append(candidates, d.Diagnostic())
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("project %s: %w", opts.ProjectID, diagnose.ErrNoDeploymentsFound)
	}

	sorted := diagnose.SortByCreated(candidates)
	choices := make([]string, len(sorted))
	for i, d := range sorted {
		choices[i] = fmt.Sprintf("%-32s %-16s %s", d.ID, tui.StateIndicator(d.State), diagnose.Renderer{}.FormatCreated(d.CreatedAt))
	}

	idx, err := tui.RunSelect("Select a deployment to diagnose", choices, tea.WithOutput(c.App.ErrWriter))
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		fmt.Fprintln(c.App.ErrWriter, tui.RenderMuted("Cancelled"))
		return nil, nil
	}

	var diag *vercel.Diagnosis
	err = withSpinner(c, "Fetching deployment events", func(ctx context.Context) error {
		var taskErr error
		diag, taskErr = client.Diagnose(ctx, sorted[idx], opts.TeamID, renderer)
		return taskErr
	})
	return diag, err
}

// analyzeReport forwards the rendered report to Gemini
func analyzeReport(c *cli.Context, state *appState, report string) (string, error) {
	g := state.cfg.Gemini
	client, err := gemini.NewClient(g.APIURL, g.APIKey, g.Model, state.logger.Named("gemini"))
	if err != nil {
		return "", err
	}

	var answer string
	err = withSpinner(c, "Asking "+client.Model()+" for advice", func(ctx context.Context) error {
		var taskErr error
		answer, taskErr = client.GenerateContent(ctx, gemini.AnalysisPrompt(report))
		return taskErr
	})
	return answer, err
}

// publishReport sends the report to NATS and records where it went
func publishReport(state *appState, out *diagnoseOutput, now time.Time) error {
	n := state.cfg.NATS

	var opts []nats.Option
	if n.JetStream {
		opts = append(opts, nats.WithJetStream())
	}

	client, err := nats.NewClientWithPrefix(n.Servers, n.NKeySeed, n.Prefix, state.logger.Named("nats"), opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	payload := nats.NewReportPayload(out.Project, out.Deployment, out.Insights, out.Report, now)
	payload.Analysis = out.Analysis

	subject, err := client.PublishReport(payload)
	if err != nil {
		return err
	}

	state.logger.Info("published report", "subject", subject, "report_id", payload.ReportID)
	out.ReportID = payload.ReportID
	out.PublishedSubject = subject
	return nil
}

// writeDiagnosis prints the result in the requested format
func writeDiagnosis(w io.Writer, format string, out diagnoseOutput) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case outputYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
	default:
		report := out.Report
		if isTerminal(w) {
			report = tui.RenderReport(report, out.Insights)
		}
		fmt.Fprintln(w, report)

		if out.Analysis != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, tui.HeaderStyle.Render("AI ANALYSIS |"))
			fmt.Fprintln(w, out.Analysis)
		}
		if out.PublishedSubject != "" {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Published report %s to %s\n", out.ReportID, out.PublishedSubject)
		}
	}
	return nil
}
