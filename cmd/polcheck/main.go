// Package main provides the polcheck binary entry point.
// Polcheck verifies that a repository carries the enterprise coding
// principles guide with all required principle anchors and a compliance
// manifest asserting every principle.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/polcheck/config"
	"github.com/c360studio/polcheck/policy"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "polcheck"
)

func main() {
	// Any panic still terminates through a controlled exit path.
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(policy.ExitError)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Stdout carries
// structured payloads; human-readable failures and logs go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	exitCode := policy.ExitOK

	// A nil slice would make cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	cmd := rootCmd(&exitCode, stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return policy.ExitError
	}
	return exitCode
}

func rootCmd(exitCode *int, stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		logLevel   string
		guidePath  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Org policy compliance checker",
		Long: `Polcheck verifies, in the target repository:

- Presence of the enterprise coding principles guide at one of its
  canonical locations (or a custom path via --guide)
- That the guide contains the anchors "Principle 1:" .. "Principle 18:"
- Presence of the compliance manifest at policy/compliance.json with
  project, run_id, and all principles P1..P18 set to true

Exit codes: 0 all checks passed, 2 policy violation, 1 unexpected error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, logLevel, stderr)
			if err != nil {
				return err
			}

			checker := newChecker(cfg)
			report := checker.Run(guidePath)

			jsonMode := jsonOutput || cfg.Output.Format == config.FormatJSON
			if err := report.Emit(stdout, stderr, jsonMode); err != nil {
				return err
			}

			*exitCode = report.ExitCode()
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&guidePath, "guide", "", "Explicit path to the principles guide")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit a machine-readable JSON result on success or failure")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	cmd.AddCommand(initCmd(&configPath, &logLevel, stderr))
	cmd.AddCommand(watchCmd(&configPath, &logLevel, stderr))

	return cmd
}

// loadConfig configures logging and loads the layered configuration. An
// explicit config file replaces the user/project layers but keeps defaults.
func loadConfig(configPath, logLevel string, stderr io.Writer) (*config.Config, error) {
	configureLogging(logLevel, stderr)

	if configPath == "" {
		return config.NewLoader(slog.Default()).Load()
	}

	cfg := config.DefaultConfig()
	fileCfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Merge(fileCfg)

	if cfg.Repo.Path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.Repo.Path = cwd
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configureLogging(logLevel string, stderr io.Writer) {
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func newChecker(cfg *config.Config) *policy.Checker {
	return policy.NewChecker(cfg.Repo.Path,
		policy.WithGuidePaths(cfg.Guide.Paths),
		policy.WithGuidePatterns(cfg.Guide.Search),
		policy.WithManifestPath(cfg.Manifest.Path),
		policy.WithLogger(slog.Default()),
	)
}
