package policy

import (
	"encoding/json"
	"fmt"
	"io"
)

// Exit codes for the three outcome classes.
const (
	ExitOK        = 0
	ExitViolation = 2
	ExitError     = 1
)

// Class tags a check outcome. Violations are anticipated non-compliance;
// errors are unexpected failures such as unreadable files or malformed JSON.
type Class int

const (
	// ClassOK means every check passed.
	ClassOK Class = iota
	// ClassViolation means an anticipated policy violation was found.
	ClassViolation
	// ClassError means an unexpected error occurred.
	ClassError
)

// Report is the result of one check run. The JSON shape matches the payload
// emitted on stdout: on success ok/guide/manifest/principles, on failure
// ok/error/code plus whichever paths had been resolved by then. Code is set
// only by the failure constructors; success payloads must not carry it, and
// must not come to rely on omitempty hiding an ExitOK of zero.
type Report struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	Code       int    `json:"code,omitempty"`
	Guide      string `json:"guide,omitempty"`
	Manifest   string `json:"manifest,omitempty"`
	Principles string `json:"principles,omitempty"`

	Class Class `json:"-"`
}

// ExitCode maps the report class to the process exit code.
func (r *Report) ExitCode() int {
	switch r.Class {
	case ClassOK:
		return ExitOK
	case ClassViolation:
		return ExitViolation
	default:
		return ExitError
	}
}

// Emit writes the report. Success always prints the structured payload to
// stdout. Failures print a structured payload to stdout when jsonOutput is
// set; otherwise violations go to stderr with a FAIL: prefix and unexpected
// errors go to stderr bare.
func (r *Report) Emit(stdout, stderr io.Writer, jsonOutput bool) error {
	if r.Class == ClassOK || jsonOutput {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if _, err := fmt.Fprintln(stdout, string(data)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	if r.Class == ClassViolation {
		_, err := fmt.Fprintf(stderr, "FAIL: %s\n", r.Error)
		return err
	}
	_, err := fmt.Fprintln(stderr, r.Error)
	return err
}
