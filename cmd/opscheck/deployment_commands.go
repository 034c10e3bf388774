package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/audiojones/opscheck/internal/config"
	"github.com/audiojones/opscheck/internal/tui"
	"github.com/audiojones/opscheck/pkg/diagnose"
	"github.com/audiojones/opscheck/pkg/vercel"
	"github.com/urfave/cli/v2"
)

// defaultEventLimit is how many events "deployment events" prints
const defaultEventLimit = 20

// deploymentCommand returns the main deployment command with subcommands
func deploymentCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "deployment",
		Usage: "Inspect Vercel deployments",
		Subcommands: []*cli.Command{
			deploymentListCommand(state),
			deploymentEventsCommand(state),
		},
	}
}

// deploymentListCommand lists recent deployments newest first
func deploymentListCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List recent deployments of the project",
		Flags: append(vercelFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		),
		Action: func(c *cli.Context) error {
			applyVercelFlags(state, c)
			if err := state.cfg.ValidateVercel(); err != nil {
				return err
			}

			client, err := newVercelClient(state)
			if err != nil {
				return err
			}

			opts := listOptions(state)
			deployments, err := client.ListDeployments(c.Context, opts)
			if err != nil {
				return err
			}
			deployments = sortDeployments(deployments)

			w := c.App.Writer
			if c.Bool("json") {
				data, err := json.MarshalIndent(deployments, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			// Human-readable output
			if len(deployments) == 0 {
				fmt.Fprintln(w, noDeploymentsMessage)
				return nil
			}

			fmt.Fprintf(w, "Deployments for project %s (%d total)\n", opts.ProjectID, len(deployments))
			fmt.Fprintln(w, strings.Repeat("-", 110))
			fmt.Fprintf(w, "%-32s %-16s %-12s %-20s %s\n", "ID", "STATE", "FRAMEWORK", "CREATED", "URL")
			fmt.Fprintln(w, strings.Repeat("-", 110))

			for _, dep := range deployments {
				d := dep.Diagnostic()

				framework := d.Framework
				if framework == "" {
					framework = "-"
				}
				url := dep.URL
				if url == "" {
					url = "-"
				}

				fmt.Fprintf(w, "%-32s %-16s %-12s %-20s %s\n",
					d.ID, tui.StateIndicator(d.State), framework, diagnose.Renderer{}.FormatCreated(d.CreatedAt), url)
			}

			return nil
		},
	}
}

// sortDeployments orders API records newest first, keeping the API order for ties
func sortDeployments(deployments []vercel.Deployment) []vercel.Deployment {
	byID := make(map[string][]vercel.Deployment, len(deployments))
	candidates := make([]diagnose.Deployment, 0, len(deployments))
	for _, d := range deployments {
		byID[d.UID] = append(byID[d.UID], d)
		candidates = append(candidates, d.Diagnostic())
	}

	sorted := make([]vercel.Deployment, 0, len(deployments))
	for _, d := range diagnose.SortByCreated(candidates) {
		queue := byID[d.ID]
		sorted = append(sorted, queue[0])
		byID[d.ID] = queue[1:]
	}
	return sorted
}

// deploymentEventsCommand prints the build events of one deployment
func deploymentEventsCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:      "events",
		Usage:     "Print the build events of a deployment",
		ArgsUsage: "<deployment-id>",
		Flags: []cli.Flag{
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
				Value: defaultEventLimit,
				Usage: "Maximum number of events to print (0 for all)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("deployment ID required\n\nUsage: opscheck deployment events <deployment-id>")
			}
			deploymentID := c.Args().First()

			v := state.cfg.Vercel
			if c.IsSet("team") {
				v.TeamID = c.String("team")
			}
			if c.IsSet("token") {
				v.Token = c.String("token")
			}
			if v.Token == "" {
				return config.ErrMissingVercelToken
			}

			client, err := newVercelClient(state)
			if err != nil {
				return err
			}

			events, err := client.Events(c.Context, deploymentID, v.TeamID)
			if err != nil {
				return err
			}

			if limit := c.Int("limit"); limit > 0 && len(events) > limit {
				events = events[:limit]
			}

			w := c.App.Writer
			if c.Bool("json") {
				data, err := json.MarshalIndent(events, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			for _, e := range events {
				fmt.Fprintf(w, "- [%s] %s\n", e.Type, diagnose.EventText(e))
			}
			return nil
		},
	}
}
