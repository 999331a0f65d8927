// Package policy implements the org-wide policy compliance check: locating
// the enterprise coding principles guide, scanning it for required principle
// anchors, and validating the machine-readable compliance manifest.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GuideFile is the canonical filename of the principles guide.
const GuideFile = "MULTI_DOCUMENT_ENTERPRISE_CODING_PRINCIPLES_GUIDE.md"

// CanonicalGuidePaths are the repo-relative locations checked for the guide,
// in order, when no explicit override is given.
var CanonicalGuidePaths = []string{
	filepath.Join("docs", GuideFile),
	filepath.Join(".github", "policy", GuideFile),
}

// PrincipleCount is the number of principles tracked by the org policy.
const PrincipleCount = 18

// Anchors returns the literal substrings the guide must contain, one per
// principle, in principle order.
func Anchors() []string {
	anchors := make([]string, 0, PrincipleCount)
	for i := 1; i <= PrincipleCount; i++ {
		anchors = append(anchors, fmt.Sprintf("Principle %d:", i))
	}
	return anchors
}

// PrincipleKeys returns the manifest keys P1..P18 in principle order.
func PrincipleKeys() []string {
	keys := make([]string, 0, PrincipleCount)
	for i := 1; i <= PrincipleCount; i++ {
		keys = append(keys, fmt.Sprintf("P%d", i))
	}
	return keys
}

// LocateGuide resolves the guide within root. An explicit override is
// authoritative: when given, no other location is consulted. Otherwise the
// given repo-relative paths are tried in order, then any glob patterns with
// matches sorted for determinism. The second return value lists every path
// or pattern that was checked, for use in the not-found message.
func LocateGuide(root, override string, paths, patterns []string) (string, []string) {
	if override != "" {
		path := override
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if usableGuide(path) {
			return path, []string{override}
		}
		return "", []string{override}
	}

	checked := make([]string, 0, len(paths)+len(patterns))
	for _, rel := range paths {
		checked = append(checked, rel)
		path := filepath.Join(root, rel)
		if usableGuide(path) {
			return path, checked
		}
	}

	for _, pattern := range patterns {
		checked = append(checked, pattern)
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, rel := range matches {
			path := filepath.Join(root, rel)
			if usableGuide(path) {
				return path, checked
			}
		}
	}

	return "", checked
}

// usableGuide reports whether path is an existing, non-empty regular file.
func usableGuide(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// MissingAnchors returns the anchors absent from text, in principle order.
// Containment is a plain substring check; anchor position is irrelevant.
func MissingAnchors(text string, anchors []string) []string {
	var missing []string
	for _, anchor := range anchors {
		if !strings.Contains(text, anchor) {
			missing = append(missing, anchor)
		}
	}
	return missing
}
