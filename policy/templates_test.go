package policy

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGuideTemplateContainsAllAnchors(t *testing.T) {
	text := GuideTemplate("demo")

	for _, anchor := range Anchors() {
		if !strings.Contains(text, anchor) {
			t.Errorf("template missing anchor %q", anchor)
		}
	}
	if !strings.Contains(text, "Project: demo") {
		t.Errorf("template should carry the project name")
	}
}

func TestManifestTemplateIsCompliant(t *testing.T) {
	manifest := ManifestTemplate("demo")

	if manifest.Project != "demo" {
		t.Errorf("unexpected project: %q", manifest.Project)
	}
	if _, err := uuid.Parse(manifest.RunID); err != nil {
		t.Errorf("run_id must be a valid UUID: %v", err)
	}

	// The scaffold must pass its own validator.
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatal(err)
	}
	if msg := ValidateManifest(obj); msg != "" {
		t.Errorf("scaffolded manifest is non-compliant: %s", msg)
	}
}
