package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/audiojones/opscheck/internal/config"
	"github.com/audiojones/opscheck/internal/tui"
	"github.com/urfave/cli/v2"
)

// envStatus reports one known variable
type envStatus struct {
	Name        string `json:"name"`
	Set         bool   `json:"set"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description"`
}

// envCommand groups environment helpers
func envCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "Inspect the environment opscheck runs with",
		Subcommands: []*cli.Command{
			envCheckCommand(state),
		},
	}
}

// envCheckCommand shows which integration variables are set
func envCheckCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Show which integration variables are set (secrets are masked)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			statuses := checkEnv(config.KnownVariables)
			state.logger.Debug("checked environment", "variables", len(statuses))

			w := c.App.Writer
			if c.Bool("json") {
				data, err := json.MarshalIndent(statuses, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			for _, s := range statuses {
				if s.Set {
					fmt.Fprintf(w, "%s %-20s %s\n", tui.RenderSuccess("set    "), s.Name, s.Value)
				} else {
					fmt.Fprintf(w, "%s %-20s %s\n", tui.RenderWarning("missing"), s.Name, tui.RenderMuted(s.Description))
				}
			}
			return nil
		},
	}
}

// checkEnv looks up every known variable in the process environment
func checkEnv(vars []config.KnownVariable) []envStatus {
	statuses := make([]envStatus, 0, len(vars))
	for _, v := range vars {
		value, ok := os.LookupEnv(v.Name)
		ok = ok && value != ""

		s := envStatus{Name: v.Name, Set: ok, Description: v.Description}
		if ok {
			if v.Secret {
				s.Value = maskValue(value)
			} else {
				s.Value = value
			}
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// maskValue keeps a short prefix of a secret so operators can tell tokens apart
func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", 8)
}
