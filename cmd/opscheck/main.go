package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/audiojones/opscheck/internal/config"
	"github.com/audiojones/opscheck/pkg/diagnose"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	// Build-time variables set via ldflags
	// Example: go build -ldflags "-X main.Version=1.0.0"
	Version = "v0.3.0"
)

// noDeploymentsMessage is printed instead of a report when the project has no deployments
const noDeploymentsMessage = "No deployments found for the specified project."

// appState is filled by the Before hook and shared by every command
type appState struct {
	cfg    *config.Config
	logger hclog.Logger
}

// reorderArgs moves flags after positional arguments to before them within subcommands
// This allows: opscheck deployment events dpl_123 --json
// To work like: opscheck deployment events --json dpl_123
func reorderArgs(args []string) []string {
	if len(args) <= 1 {
		return args
	}

	// Known top-level commands (to preserve command path)
	commands := map[string]bool{
		"diagnose": true, "deployment": true, "env": true, "ai": true,
		"help": true, "h": true,
	}

	// Known subcommands
	subcommands := map[string]bool{
		"list": true, "events": true, "check": true, "ping": true,
	}

	result := make([]string, 0, len(args))
	result = append(result, args[0]) // Keep program name

	// Global flags come before the command path and stay there
	i := 1
	for ; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			break
		}
		result = append(result, arg)
		if globalValuedFlags[arg] && i+1 < len(args) {
			i++
			result = append(result, args[i])
		}
	}

	// Find where command path ends
	cmdPathEnd := i
	for ; i < len(args); i++ {
		arg := args[i]
		if commands[arg] || subcommands[arg] {
			result = append(result, arg)
			cmdPathEnd = i + 1
		} else {
			break
		}
	}

	// Now reorder the rest: flags before positional args
	var flags []string
	var positional []string
	skipNext := false

	for i := cmdPathEnd; i < len(args); i++ {
		arg := args[i]

		if skipNext {
			flags = append(flags, arg)
			skipNext = false
			continue
		}

		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
			// Check if this flag takes a value
			if valuedFlags[arg] {
				if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
					skipNext = true
				}
			}
		} else {
			positional = append(positional, arg)
		}
	}

	// Reconstruct: command path + flags + positional
	result = append(result, flags...)
	result = append(result, positional...)

	return result
}

// Known global flags that take a value
var globalValuedFlags = map[string]bool{
	"--config": true, "-c": true,
	"--log-level": true, "--env-file": true,
}

// Known command flags that take a value
var valuedFlags = map[string]bool{
	"--project": true, "--team": true, "--token": true,
	"--limit": true, "--output": true, "-o": true,
	"--prompt": true,
}

// newApp builds the CLI. Reports go to stdout; logs and errors go to stderr.
func newApp(stdout, stderr io.Writer) *cli.App {
	state := &appState{logger: hclog.NewNullLogger()}

	return &cli.App{
		Name:                   "opscheck",
		Usage:                  "Summarize why the latest Vercel deployment failed",
		Version:                Version,
		UseShortOptionHandling: true,
		EnableBashCompletion:   true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultConfigFile,
				Usage:   "Path to configuration file",
				EnvVars: []string{"OPSCHECK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"OPSCHECK_LOG_LEVEL"},
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Dotenv file to load before reading the environment (repeatable)",
			},
		},
		Commands: []*cli.Command{
			diagnoseCommand(state),
			deploymentCommand(state),
			envCommand(state),
			aiCommand(state),
		},
		Before: func(c *cli.Context) error {
			// Setup logger
			level := hclog.LevelFromString(c.String("log-level"))
			if level == hclog.NoLevel {
				level = hclog.Warn
			}
			state.logger = hclog.New(&hclog.LoggerOptions{
				Name:   "opscheck",
				Level:  level,
				Output: stderr,
				Color:  hclog.AutoColor,
			})
			hclog.SetDefault(state.logger)

			cfg, err := config.Load(config.LoadOptions{
				ConfigPath: c.String("config"),
				Explicit:   c.IsSet("config"),
				EnvFiles:   c.StringSlice("env-file"),
			})
			if err != nil {
				return err
			}
			state.cfg = cfg
			return nil
		},
	}
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)

	// Reorder args to allow flags after positional arguments
	if err := app.Run(reorderArgs(args)); err != nil {
		if errors.Is(err, diagnose.ErrNoDeploymentsFound) {
			fmt.Fprintln(stdout, noDeploymentsMessage)
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
