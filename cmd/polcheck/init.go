package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/polcheck/policy"
)

// initCmd scaffolds the principles guide and a compliant manifest into the
// target repository. Existing files are never overwritten.
func initCmd(configPath, logLevel *string, stderr io.Writer) *cobra.Command {
	var projectName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold the principles guide and a compliant manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *logLevel, stderr)
			if err != nil {
				return err
			}

			if projectName == "" {
				abs, err := filepath.Abs(cfg.Repo.Path)
				if err != nil {
					return fmt.Errorf("resolve repo path: %w", err)
				}
				projectName = filepath.Base(abs)
			}

			out := cmd.OutOrStdout()

			guidePath := filepath.Join(cfg.Repo.Path, cfg.Guide.Paths[0])
			created, err := writeIfAbsent(guidePath, []byte(policy.GuideTemplate(projectName)))
			if err != nil {
				return fmt.Errorf("write guide: %w", err)
			}
			reportScaffold(out, guidePath, created)

			manifest := policy.ManifestTemplate(projectName)
			data, err := json.MarshalIndent(manifest, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal manifest: %w", err)
			}
			manifestPath := filepath.Join(cfg.Repo.Path, cfg.Manifest.Path)
			created, err = writeIfAbsent(manifestPath, append(data, '\n'))
			if err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}
			reportScaffold(out, manifestPath, created)

			return nil
		},
	}

	cmd.Flags().StringVar(&projectName, "project", "", "Project identifier for the manifest (default: repo directory name)")
	return cmd
}

// writeIfAbsent writes data to path unless the file already exists,
// creating parent directories as needed.
func writeIfAbsent(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write file: %w", err)
	}
	return true, nil
}

func reportScaffold(out io.Writer, path string, created bool) {
	if created {
		fmt.Fprintf(out, "Created %s\n", path)
	} else {
		fmt.Fprintf(out, "Skipped %s (already exists)\n", path)
	}
}
