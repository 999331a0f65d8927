package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultManifestPath is the repo-relative location of the compliance
// manifest.
var DefaultManifestPath = filepath.Join("policy", "compliance.json")

// Manifest is the compliance manifest schema. It is used when scaffolding a
// new manifest; validation of an existing manifest works on the raw parsed
// JSON instead, so that wrong types are reported rather than silently
// coerced by the decoder.
type Manifest struct {
	Project    string          `json:"project"`
	RunID      string          `json:"run_id"`
	Principles map[string]bool `json:"principles"`
}

// LoadManifest reads and parses the manifest at path. A missing file is
// reported via os.IsNotExist so the caller can classify it as a policy
// violation; any other read failure or a JSON parse failure is an
// unexpected error.
func LoadManifest(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return obj, nil
}

// ValidateManifest checks the parsed manifest against the compliance schema.
// It returns "" when the manifest is valid, otherwise a human-readable
// violation message. Principle values must be boolean true; false, numbers,
// strings, null, and missing keys all fail.
func ValidateManifest(obj any) string {
	root, ok := obj.(map[string]any)
	if !ok {
		return "compliance manifest root must be an object"
	}

	if msg := validateIdentifier(root, "project"); msg != "" {
		return msg
	}
	if msg := validateIdentifier(root, "run_id"); msg != "" {
		return msg
	}

	principles, ok := root["principles"].(map[string]any)
	if !ok {
		return "compliance manifest field 'principles' must be an object"
	}

	var missing []string
	for _, key := range PrincipleKeys() {
		if _, present := principles[key]; !present {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Sprintf("compliance principles missing keys: %s", strings.Join(missing, ", "))
	}

	var notTrue []string
	for _, key := range PrincipleKeys() {
		if b, isBool := principles[key].(bool); !isBool || !b {
			notTrue = append(notTrue, key)
		}
	}
	if len(notTrue) > 0 {
		return fmt.Sprintf("non-compliant principles (must be true): %s", strings.Join(notTrue, ", "))
	}

	return ""
}

// validateIdentifier checks that root[field] is a string that is non-empty
// after trimming whitespace.
func validateIdentifier(root map[string]any, field string) string {
	s, ok := root[field].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fmt.Sprintf("compliance manifest field '%s' must be a non-empty string", field)
	}
	return ""
}
