package policy

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Checker runs the org policy check against a repository root. A Checker
// holds no state between runs; Run may be called any number of times and
// always re-reads the artifacts.
type Checker struct {
	root         string
	manifestPath string
	guidePaths   []string
	patterns     []string
	logger       *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithManifestPath overrides the repo-relative manifest location.
func WithManifestPath(path string) Option {
	return func(c *Checker) {
		if path != "" {
			c.manifestPath = path
		}
	}
}

// WithGuidePaths overrides the repo-relative guide locations tried in order.
func WithGuidePaths(paths []string) Option {
	return func(c *Checker) {
		if len(paths) > 0 {
			c.guidePaths = paths
		}
	}
}

// WithGuidePatterns adds glob patterns tried after the guide paths.
func WithGuidePatterns(patterns []string) Option {
	return func(c *Checker) { c.patterns = patterns }
}

// WithLogger sets the logger used for debug output during a run.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a checker for the given repository root.
func NewChecker(root string, opts ...Option) *Checker {
	c := &Checker{
		root:         root,
		manifestPath: DefaultManifestPath,
		guidePaths:   CanonicalGuidePaths,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run performs the full check: locate guide, scan anchors, load manifest,
// validate schema. Execution is linear and short-circuits to a terminal
// report on the first failure. The returned report is never nil.
func (c *Checker) Run(guideOverride string) *Report {
	guidePath, checked := LocateGuide(c.root, guideOverride, c.guidePaths, c.patterns)
	if guidePath == "" {
		return c.violation("", fmt.Sprintf(
			"Guide not found. Checked: %s; files must exist and be non-empty.",
			strings.Join(checked, ", ")))
	}
	c.logger.Debug("Resolved guide", "path", guidePath)

	text, err := os.ReadFile(guidePath)
	if err != nil {
		return c.unexpected(guidePath, fmt.Sprintf("Failed to read guide '%s': %v", guidePath, err))
	}
	if !utf8.Valid(text) {
		return c.unexpected(guidePath, fmt.Sprintf("Failed to read guide '%s': invalid UTF-8", guidePath))
	}

	if missing := MissingAnchors(string(text), Anchors()); len(missing) > 0 {
		return c.violation(guidePath, fmt.Sprintf(
			"Guide missing required anchors: %s", strings.Join(missing, ", ")))
	}
	c.logger.Debug("All anchors present", "count", PrincipleCount)

	manifestPath := filepath.Join(c.root, c.manifestPath)
	obj, err := LoadManifest(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return c.violation(guidePath, fmt.Sprintf("Missing compliance manifest: %s", c.manifestPath))
		}
		report := c.unexpected(guidePath, fmt.Sprintf("Malformed compliance manifest '%s': %v", c.manifestPath, err))
		report.Manifest = c.manifestPath
		return report
	}

	if msg := ValidateManifest(obj); msg != "" {
		report := c.violation(guidePath, msg)
		report.Manifest = c.manifestPath
		return report
	}
	c.logger.Debug("Manifest valid", "path", c.manifestPath)

	return &Report{
		OK:         true,
		Class:      ClassOK,
		Guide:      guidePath,
		Manifest:   c.manifestPath,
		Principles: fmt.Sprintf("P1..P%d", PrincipleCount),
	}
}

func (c *Checker) violation(guidePath, msg string) *Report {
	return &Report{
		Class: ClassViolation,
		Error: msg,
		Code:  ExitViolation,
		Guide: guidePath,
	}
}

func (c *Checker) unexpected(guidePath, msg string) *Report {
	return &Report{
		Class: ClassError,
		Error: msg,
		Code:  ExitError,
		Guide: guidePath,
	}
}
