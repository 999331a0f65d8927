package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// principleTitles are the default section titles used when scaffolding a
// guide. Repos are expected to replace the placeholder bodies; the anchors
// themselves must stay intact.
var principleTitles = []string{
	"Test-First Development",
	"Explicit Error Handling",
	"No Direct Database Access",
	"Documentation Required",
	"Single Responsibility",
	"Dependency Injection",
	"Structured Logging",
	"Configuration Over Hardcoding",
	"Backward Compatibility",
	"Security By Default",
	"Observability",
	"Idempotent Operations",
	"Least Privilege",
	"Code Review Required",
	"Reproducible Builds",
	"Versioned Interfaces",
	"Graceful Degradation",
	"Continuous Compliance",
}

// GuideTemplate generates a principles guide containing all required
// anchors, one section per principle.
func GuideTemplate(projectName string) string {
	var sb strings.Builder

	sb.WriteString("# Enterprise Coding Principles Guide\n\n")
	sb.WriteString(fmt.Sprintf("Project: %s\n", projectName))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02")))
	sb.WriteString("## Principles\n\n")

	for i := 1; i <= PrincipleCount; i++ {
		sb.WriteString(fmt.Sprintf("### Principle %d: %s\n\n", i, principleTitles[i-1]))
		sb.WriteString("Describe how this project satisfies the principle.\n\n")
	}

	return sb.String()
}

// ManifestTemplate generates a fully-compliant manifest for projectName with
// a fresh run identifier.
func ManifestTemplate(projectName string) *Manifest {
	principles := make(map[string]bool, PrincipleCount)
	for _, key := range PrincipleKeys() {
		principles[key] = true
	}

	return &Manifest{
		Project:    projectName,
		RunID:      uuid.New().String(),
		Principles: principles,
	}
}
