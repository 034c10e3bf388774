package main

import (
	"fmt"

	"github.com/audiojones/opscheck/pkg/gemini"
	"github.com/urfave/cli/v2"
)

const (
	defaultPingPrompt = "Reply with one short sentence confirming you received this message."
	maxPingAnswer     = 200
)

// aiCommand groups AI endpoint helpers
func aiCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "ai",
		Usage: "Check the Gemini integration",
		Subcommands: []*cli.Command{
			aiPingCommand(state),
		},
	}
}

// aiPingCommand sends one prompt and prints a truncated answer
func aiPingCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Send a test prompt to Gemini",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prompt",
				Value: defaultPingPrompt,
				Usage: "Prompt to send",
			},
		},
		Action: func(c *cli.Context) error {
			if err := state.cfg.ValidateGemini(); err != nil {
				return err
			}

			g := state.cfg.Gemini
			client, err := gemini.NewClient(g.APIURL, g.APIKey, g.Model, state.logger.Named("gemini"))
			if err != nil {
				return err
			}

			answer, err := client.GenerateContent(c.Context, c.String("prompt"))
			if err != nil {
				return err
			}

			if len(answer) > maxPingAnswer {
				answer = answer[:maxPingAnswer] + "..."
			}

			fmt.Fprintf(c.App.Writer, "Model:  %s\n", client.Model())
			fmt.Fprintf(c.App.Writer, "Answer: %s\n", answer)
			return nil
		},
	}
}
