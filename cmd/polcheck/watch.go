package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/polcheck/config"
	"github.com/c360studio/polcheck/policy"
)

// watchDebounce coalesces bursts of filesystem events into one re-check.
const watchDebounce = 300 * time.Millisecond

// watchCmd re-runs the check whenever the guide or manifest locations
// change. Each pass is the same stateless single-pass check; outcomes are
// logged rather than mapped to the exit code, since the process only exits
// on a signal.
func watchCmd(configPath, logLevel *string, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run the check when the guide or manifest change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *logLevel, stderr)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runWatch(ctx, cfg, slog.Default())
		},
	}
}

func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(cfg) {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logger.Warn("Failed to watch directory", "dir", dir, "error", err)
			continue
		}
		logger.Debug("Watching directory", "dir", dir)
	}

	checker := newChecker(cfg)
	runPass(checker, logger)

	// The timer starts drained; it is armed by the first event.
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("Filesystem event", "op", event.Op.String(), "name", event.Name)
			debounce.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)
		case <-debounce.C:
			runPass(checker, logger)
		}
	}
}

// watchDirs returns the directories that may hold the guide or manifest,
// deduplicated.
func watchDirs(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	add(cfg.Repo.Path)
	for _, rel := range cfg.Guide.Paths {
		add(filepath.Join(cfg.Repo.Path, filepath.Dir(rel)))
	}
	add(filepath.Join(cfg.Repo.Path, filepath.Dir(cfg.Manifest.Path)))

	return dirs
}

func runPass(checker *policy.Checker, logger *slog.Logger) {
	report := checker.Run("")
	switch report.Class {
	case policy.ClassOK:
		logger.Info("Check passed", "guide", report.Guide, "manifest", report.Manifest)
	case policy.ClassViolation:
		logger.Warn("Policy violation", "error", report.Error)
	default:
		logger.Error("Unexpected error", "error", report.Error)
	}
}
