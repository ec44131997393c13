// Package main is the entry point for the termsuggest CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tscli "github.com/NikitaCOEUR/termsuggest/internal/cli"
	"github.com/NikitaCOEUR/termsuggest/internal/trace"
	"github.com/NikitaCOEUR/termsuggest/pkg/version"
	"github.com/urfave/cli/v3"
)

func main() {
	stopTrace := trace.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()
	stopTrace()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func shellFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "shell",
		Value:   "auto",
		Usage:   "Shell type: bash, zsh, fish, pwsh or auto",
		Sources: cli.EnvVars("TERMSUGGEST_SHELL"),
	}
}

// executable is the path the shell hook calls back into
func executable() string {
	path, err := os.Executable()
	if err != nil {
		return "termsuggest"
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "termsuggest",
		Usage:                 "Aggregate terminal completions from pluggable providers",
		Version:               version.String(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error); overrides the config file",
				Sources: cli.EnvVars("TERMSUGGEST_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (defaults to the first config.{yml,yaml,toml,json} in the user config directory)",
				Sources: cli.EnvVars("TERMSUGGEST_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "complete",
				Usage:     "Print completions for a command line",
				ArgsUsage: "<line>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "cursor",
						Value: -1,
						Usage: "Cursor byte offset in the line (defaults to the end)",
					},
					shellFlag(),
					&cli.BoolFlag{
						Name:  "trigger",
						Usage: "The request was caused by typing a trigger character",
					},
					&cli.StringFlag{
						Name:  "cwd",
						Usage: "Working directory for path completions (defaults to the current one)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   tscli.FormatText,
						Usage:   "Output format: " + strings.Join(tscli.Formats, ", "),
					},
					&cli.BoolFlag{
						Name:  "timing",
						Usage: "Print phase timings to stderr",
					},
					&cli.StringFlag{
						Name:    "metrics-file",
						Usage:   "Write provider metrics in Prometheus text format to this file",
						Sources: cli.EnvVars("TERMSUGGEST_METRICS_FILE"),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return tscli.Complete(ctx, tscli.CompleteParams{
						Value:       strings.Join(cmd.Args().Slice(), " "),
						Cursor:      cmd.Int("cursor"),
						Shell:       cmd.String("shell"),
						Trigger:     cmd.Bool("trigger"),
						CWD:         cmd.String("cwd"),
						Format:      cmd.String("format"),
						ConfigPath:  cmd.String("config"),
						LogLevel:    cmd.String("log-level"),
						Timing:      cmd.Bool("timing"),
						MetricsFile: cmd.String("metrics-file"),
					})
				},
			},
			{
				Name:  "providers",
				Usage: "List the providers the configuration registers",
				Flags: []cli.Flag{
					shellFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print as JSON",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Providers(tscli.ProvidersParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Shell:      cmd.String("shell"),
						JSON:       cmd.Bool("json"),
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show the active configuration and providers",
				Flags: []cli.Flag{shellFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Status(tscli.StatusParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Shell:      cmd.String("shell"),
					})
				},
			},
			{
				Name:      "init",
				Usage:     "Create a sample config file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := cmd.String("config")
					if cmd.Args().Len() > 0 {
						path = cmd.Args().Get(0)
					}
					return tscli.Init(path, nil)
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a termsuggest configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := cmd.String("config")
					if cmd.Args().Len() > 0 {
						path = cmd.Args().Get(0)
					}
					return tscli.Validate(path, nil)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for termsuggest configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().Get(0)
					}
					return tscli.Schema(outputPath, nil)
				},
			},
			{
				Name:      "hook",
				Usage:     "Print shell integration code",
				ArgsUsage: "[bash|zsh]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					name := shellNameArg(cmd)
					return tscli.Hook(name, executable(), nil)
				},
			},
			{
				Name:  "setup",
				Usage: "Automatically install or uninstall the shell hook",
				Flags: []cli.Flag{
					shellFlag(),
					&cli.BoolFlag{
						Name:    "uninstall",
						Aliases: []string{"u"},
						Usage:   "Uninstall the shell hook instead of installing it",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Setup(tscli.SetupParams{
						Shell:     cmd.String("shell"),
						Binary:    executable(),
						Uninstall: cmd.Bool("uninstall"),
					})
				},
			},
		},
	}
}

func shellNameArg(cmd *cli.Command) string {
	if cmd.Args().Len() > 0 {
		return cmd.Args().Get(0)
	}
	return "auto"
}
