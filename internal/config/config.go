// Package config locates and loads the per-project suppression file.
//
// Discovery walks upward from a starting directory ($CLAUDE_PROJECT_DIR,
// falling back to the working directory) to the project-root boundary; the
// nearest .guardrail.yaml wins and the walk never reads above the boundary.
// A missing, unreadable, or malformed file is identical to "no
// suppressions": configuration problems must never change the gate's
// verdict except by providing zero suppressions.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/boshu2/guardrail/internal/detect"
)

// FileName is the per-project suppression file searched for during
// discovery.
const FileName = ".guardrail.yaml"

// file is the on-disk shape. Suppress entries may mix gate classifications
// with advisory rule ids consumed by the documentation skills; only the
// former are meaningful here.
type file struct {
	Suppress []string `yaml:"suppress"`
}

// StartDir returns the discovery starting directory: $CLAUDE_PROJECT_DIR,
// falling back to the working directory. Empty means "no configuration".
func StartDir() string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// ProjectRoot returns the boundary for upward discovery: the nearest
// ancestor of start (inclusive) containing a .git entry, or start itself
// when no repository root is found.
func ProjectRoot(start string) string {
	if start == "" {
		return ""
	}
	dir := filepath.Clean(start)
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(start)
		}
		dir = parent
	}
}

// Ancestors returns start and every ancestor up to and including root, in
// walk order. The list is computed once and iterated by index, so the
// "never escape the boundary" property holds by construction: when start
// is not under root, only start itself is returned.
func Ancestors(start, root string) []string {
	start = filepath.Clean(start)
	root = filepath.Clean(root)

	dirs := []string{start}
	if start == root {
		return dirs
	}

	rel, err := filepath.Rel(root, start)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dirs
	}

	dir := start
	for dir != root {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
		dirs = append(dirs, dir)
	}
	return dirs
}

// Suppressions loads the suppression set for one invocation. The nearest
// existing file wins; when that file is unreadable or malformed the result
// is the empty set, so a broken config suppresses nothing.
func Suppressions(start, root string) map[detect.Classification]bool {
	set := make(map[detect.Classification]bool)
	if start == "" {
		return set
	}
	for _, dir := range Ancestors(start, root) {
		data, err := os.ReadFile(filepath.Join(dir, FileName))
		if err != nil {
			continue
		}
		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return set
		}
		for _, id := range f.Suppress {
			if detect.IsClassification(id) {
				set[detect.Classification(id)] = true
			}
		}
		return set
	}
	return set
}
