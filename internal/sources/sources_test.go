package sources

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"app.js", []string{"**/*.js"}, true},
		{"src/lib/app.js", []string{"**/*.js"}, true},
		{"src/app.ts", []string{"**/*.js"}, false},
		{"node_modules/x/index.js", []string{"**/node_modules/**"}, true},
		{"web/node_modules/x/index.js", []string{"**/node_modules/**"}, true},
		{"dist/app.min.js", []string{"**/*.min.js"}, true},
		{"src/app.js", []string{"*.js"}, false},
		{"./app.js", []string{"*.js"}, true},
		{`src\app.js`, []string{"src/*.js"}, true},
		{"app.js", nil, false},
	}
	for _, tt := range tests {
		m, err := NewMatcher(tt.patterns)
		if err != nil {
			t.Fatalf("NewMatcher(%v): %v", tt.patterns, err)
		}
		if got := m.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) with %v = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}

func TestFromStdin(t *testing.T) {
	in, err := FromStdin(strings.NewReader("var a = 1;"), "")
	if err != nil {
		t.Fatalf("FromStdin error: %v", err)
	}
	if in.Name != StdinName {
		t.Errorf("Name = %q, want %q", in.Name, StdinName)
	}
	if in.Source != "var a = 1;" {
		t.Errorf("Source = %q", in.Source)
	}

	in, _ = FromStdin(strings.NewReader(""), "app.js")
	if in.Name != "app.js" {
		t.Errorf("Name = %q, want app.js", in.Name)
	}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func names(inputs []Input, root string) []string {
	var out []string
	for _, in := range inputs {
		rel, err := filepath.Rel(root, filepath.FromSlash(in.Name))
		if err != nil {
			rel = in.Name
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestFromPaths_WalksWithDefaults(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.js":                    "a",
		"lib/util.js":               "u",
		"lib/util.min.js":           "m",
		"node_modules/dep/index.js": "d",
		"README.md":                 "r",
	})

	inputs, err := FromPaths([]string{root}, Options{})
	if err != nil {
		t.Fatalf("FromPaths error: %v", err)
	}
	got := names(inputs, root)
	want := []string{"app.js", "lib/util.js"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
	if inputs[0].Source != "a" {
		t.Errorf("Source = %q, want %q", inputs[0].Source, "a")
	}
}

func TestFromPaths_CustomFilters(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/a.js":       "a",
		"src/gen/b.js":   "b",
		"src/c.min.js":   "c",
		"test/a_test.js": "t",
	})

	inputs, err := FromPaths([]string{root}, Options{
		Include: []string{"src/**"},
		Exclude: []string{"**/gen/**"},
	})
	if err != nil {
		t.Fatalf("FromPaths error: %v", err)
	}
	got := names(inputs, root)
	want := []string{"src/a.js", "src/c.min.js"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromPaths_ExplicitFileBypassesFilters(t *testing.T) {
	root := writeTree(t, map[string]string{"vendor.min.js": "v"})
	path := filepath.Join(root, "vendor.min.js")

	inputs, err := FromPaths([]string{path, path}, Options{})
	if err != nil {
		t.Fatalf("FromPaths error: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs, want 1 (should dedup)", len(inputs))
	}
	if inputs[0].Source != "v" {
		t.Errorf("Source = %q", inputs[0].Source)
	}
}

func TestFromPaths_SizeLimit(t *testing.T) {
	root := writeTree(t, map[string]string{
		"big.js":   strings.Repeat("x", 100),
		"small.js": "s",
	})

	inputs, err := FromPaths([]string{root}, Options{MaxFileBytes: 10})
	if err != nil {
		t.Fatalf("FromPaths error: %v", err)
	}
	if got := names(inputs, root); len(got) != 1 || got[0] != "small.js" {
		t.Errorf("got %v, want [small.js]", got)
	}

	_, err = FromPaths([]string{filepath.Join(root, "big.js")}, Options{MaxFileBytes: 10})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestFromPaths_Missing(t *testing.T) {
	_, err := FromPaths([]string{filepath.Join(t.TempDir(), "nope.js")}, Options{})
	if err == nil {
		t.Error("expected error for missing path")
	}
}

func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=Test",
			"GIT_COMMITTER_EMAIL=test@test.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, out)
		}
	}
	run("git", "init")
	run("git", "config", "user.email", "test@test.com")
	run("git", "config", "user.name", "Test")

	os.WriteFile(filepath.Join(dir, "committed.js"), []byte("var c = 1;\n"), 0o644)
	run("git", "add", ".")
	run("git", "commit", "-m", "initial")

	os.WriteFile(filepath.Join(dir, "staged.js"), []byte("var s = 1;\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("n\n"), 0o644)
	run("git", "add", "staged.js", "notes.txt")
	// Working tree changes after staging must not be seen.
	os.WriteFile(filepath.Join(dir, "staged.js"), []byte("var s = 2;\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "untracked.js"), []byte("var u;\n"), 0o644)
	return dir
}

func TestStaged(t *testing.T) {
	dir := setupTestRepo(t)
	origDir, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(origDir)

	inputs, err := Staged(Options{})
	if err != nil {
		t.Fatalf("Staged error: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs, want 1: %v", len(inputs), inputs)
	}
	if inputs[0].Name != "staged.js" {
		t.Errorf("Name = %q, want staged.js", inputs[0].Name)
	}
	if inputs[0].Source != "var s = 1;\n" {
		t.Errorf("Source = %q, want index content", inputs[0].Source)
	}
}

func TestGitDir(t *testing.T) {
	dir := setupTestRepo(t)
	origDir, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(origDir)

	gitDir, err := GitDir()
	if err != nil {
		t.Fatalf("GitDir error: %v", err)
	}
	if filepath.Base(gitDir) != ".git" {
		t.Errorf("GitDir = %q, want .git", gitDir)
	}
}
