package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boshu2/guardrail/internal/detect"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func mkGit(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestStartDirPrefersProjectDirEnv(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("CLAUDE_PROJECT_DIR", tmp)
	if got := StartDir(); got != tmp {
		t.Errorf("StartDir() = %q, want %q", got, tmp)
	}

	t.Setenv("CLAUDE_PROJECT_DIR", "")
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got := StartDir(); got != cwd {
		t.Errorf("StartDir() = %q, want cwd %q", got, cwd)
	}
}

func TestProjectRoot(t *testing.T) {
	root := t.TempDir()
	mkGit(t, root)
	nested := filepath.Join(root, "services", "api")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if got := ProjectRoot(nested); got != root {
		t.Errorf("ProjectRoot(%q) = %q, want %q", nested, got, root)
	}
	if got := ProjectRoot(root); got != root {
		t.Errorf("ProjectRoot(root) = %q, want %q", got, root)
	}
}

// TestProjectRootWithoutRepo checks that discovery degenerates to the
// start directory itself when no .git is found anywhere above it.
func TestProjectRootWithoutRepo(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "plain")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// The temp dir has no .git; the walk may still find one in an outer
	// ancestor on some machines, so only assert the degenerate case when
	// it does not.
	got := ProjectRoot(sub)
	if got != sub {
		if _, err := os.Stat(filepath.Join(got, ".git")); err != nil {
			t.Errorf("ProjectRoot(%q) = %q, which has no .git", sub, got)
		}
	}
}

func TestAncestors(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(a, "b")

	tests := []struct {
		name  string
		start string
		root  string
		want  []string
	}{
		{"start equals root", root, root, []string{root}},
		{"one level", a, root, []string{a, root}},
		{"two levels", b, root, []string{b, a, root}},
		{"start outside root", root, b, []string{root}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ancestors(tt.start, tt.root)
			if len(got) != len(tt.want) {
				t.Fatalf("Ancestors(%q, %q) = %v, want %v", tt.start, tt.root, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Ancestors()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSuppressionsInStartDir(t *testing.T) {
	root := t.TempDir()
	mkGit(t, root)
	writeConfig(t, root, "suppress:\n  - hardcoded-secret\n  - pickle-deserialization\n")

	set := Suppressions(root, root)
	if !set[detect.HardcodedSecret] || !set[detect.PickleDeserialization] {
		t.Errorf("Suppressions() = %v, want both listed classifications", set)
	}
	if len(set) != 2 {
		t.Errorf("Suppressions() has %d entries, want 2", len(set))
	}
}

func TestSuppressionsFoundInAncestor(t *testing.T) {
	root := t.TempDir()
	mkGit(t, root)
	writeConfig(t, root, "suppress: [shell-eval]\n")
	nested := filepath.Join(root, "pkg", "internal")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	set := Suppressions(nested, root)
	if !set[detect.ShellEval] {
		t.Errorf("Suppressions() = %v, want shell-eval from project root", set)
	}
}

// TestSuppressionsNearestWins checks that a config in the start directory
// shadows one at the project root entirely.
func TestSuppressionsNearestWins(t *testing.T) {
	root := t.TempDir()
	mkGit(t, root)
	writeConfig(t, root, "suppress: [shell-eval]\n")
	nested := filepath.Join(root, "svc")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, nested, "suppress: [jwt-token]\n")

	set := Suppressions(nested, root)
	if !set[detect.JWTToken] {
		t.Errorf("Suppressions() = %v, want jwt-token from nearest file", set)
	}
	if set[detect.ShellEval] {
		t.Error("Suppressions() merged the root config; nearest file should shadow it")
	}
}

// TestSuppressionsNeverEscapeBoundary places a config above the project
// root and checks it is never read.
func TestSuppressionsNeverEscapeBoundary(t *testing.T) {
	outer := t.TempDir()
	writeConfig(t, outer, "suppress: [hardcoded-secret]\n")
	root := filepath.Join(outer, "repo")
	mkGit(t, root)

	set := Suppressions(root, root)
	if len(set) != 0 {
		t.Errorf("Suppressions() = %v, want empty; config above the boundary was read", set)
	}
}

func TestSuppressionsMalformedFile(t *testing.T) {
	root := t.TempDir()
	mkGit(t, root)
	writeConfig(t, root, "suppress: [unclosed\n  - nope: {{{\n")

	set := Suppressions(root, root)
	if len(set) != 0 {
		t.Errorf("Suppressions() = %v, want empty set for malformed yaml", set)
	}
}

// TestSuppressionsIgnoresAdvisoryIDs checks that suppress entries outside
// the gate's classification vocabulary are dropped, not errors.
func TestSuppressionsIgnoresAdvisoryIDs(t *testing.T) {
	root := t.TempDir()
	mkGit(t, root)
	writeConfig(t, root, "suppress:\n  - doc-heading-style\n  - hardcoded-secret\n  - not-a-real-id\n")

	set := Suppressions(root, root)
	if len(set) != 1 || !set[detect.HardcodedSecret] {
		t.Errorf("Suppressions() = %v, want only hardcoded-secret", set)
	}
}

func TestSuppressionsNoConfig(t *testing.T) {
	root := t.TempDir()
	mkGit(t, root)
	if set := Suppressions(root, root); len(set) != 0 {
		t.Errorf("Suppressions() = %v, want empty", set)
	}
	if set := Suppressions("", ""); len(set) != 0 {
		t.Errorf("Suppressions with empty start = %v, want empty", set)
	}
}
