package policy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compliantManifest(t *testing.T, mutate func(map[string]any)) any {
	t.Helper()

	data, err := json.Marshal(ManifestTemplate("demo"))
	require.NoError(t, err)

	var obj any
	require.NoError(t, json.Unmarshal(data, &obj))

	if mutate != nil {
		mutate(obj.(map[string]any))
	}
	return obj
}

func TestValidateManifest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]any)
		raw     any
		wantMsg string
	}{
		{
			name: "valid manifest",
		},
		{
			name:    "root is array",
			raw:     []any{"P1"},
			wantMsg: "root must be an object",
		},
		{
			name:    "project missing",
			mutate:  func(m map[string]any) { delete(m, "project") },
			wantMsg: "'project' must be a non-empty string",
		},
		{
			name:    "project whitespace only",
			mutate:  func(m map[string]any) { m["project"] = "   " },
			wantMsg: "'project' must be a non-empty string",
		},
		{
			name:    "project wrong type",
			mutate:  func(m map[string]any) { m["project"] = 42 },
			wantMsg: "'project' must be a non-empty string",
		},
		{
			name:    "run_id empty",
			mutate:  func(m map[string]any) { m["run_id"] = "" },
			wantMsg: "'run_id' must be a non-empty string",
		},
		{
			name:    "principles not an object",
			mutate:  func(m map[string]any) { m["principles"] = []any{true} },
			wantMsg: "'principles' must be an object",
		},
		{
			name: "principle key missing",
			mutate: func(m map[string]any) {
				delete(m["principles"].(map[string]any), "P12")
			},
			wantMsg: "missing keys: P12",
		},
		{
			name: "principle false",
			mutate: func(m map[string]any) {
				m["principles"].(map[string]any)["P5"] = false
			},
			wantMsg: "non-compliant principles (must be true): P5",
		},
		{
			name: "principle is string true",
			mutate: func(m map[string]any) {
				m["principles"].(map[string]any)["P3"] = "true"
			},
			wantMsg: "non-compliant principles (must be true): P3",
		},
		{
			name: "principle is number",
			mutate: func(m map[string]any) {
				m["principles"].(map[string]any)["P9"] = 1
			},
			wantMsg: "non-compliant principles (must be true): P9",
		},
		{
			name: "multiple false principles listed in order",
			mutate: func(m map[string]any) {
				p := m["principles"].(map[string]any)
				p["P2"] = false
				p["P11"] = nil
			},
			wantMsg: "non-compliant principles (must be true): P2, P11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := tt.raw
			if obj == nil {
				obj = compliantManifest(t, tt.mutate)
			}

			msg := ValidateManifest(obj)
			if tt.wantMsg == "" {
				assert.Empty(t, msg)
			} else {
				assert.Contains(t, msg, tt.wantMsg)
			}
		})
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "compliance.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err), "missing file must be reported via os.IsNotExist")
}

func TestLoadManifestInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compliance.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err), "parse failure must not look like a missing file")
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestLoadManifestValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compliance.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project":"p","run_id":"r","principles":{}}`), 0644))

	obj, err := LoadManifest(path)
	require.NoError(t, err)
	root, ok := obj.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p", root["project"])
}
