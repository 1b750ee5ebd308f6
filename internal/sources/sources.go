package sources

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
)

// StdinName labels source read from standard input.
const StdinName = "<stdin>"

// DefaultMaxFileBytes is the per-file size limit.
const DefaultMaxFileBytes = 1 << 20 // 1MB

// Default filters applied when walking directories.
var (
	DefaultInclude = []string{"**/*.js"}
	DefaultExclude = []string{"**/node_modules/**", "**/*.min.js"}
)

// Input is one piece of JavaScript to compile.
type Input struct {
	Name   string
	Source string
}

// Options controls which files are collected. An empty Include selects
// [DefaultInclude]; a nil Exclude selects [DefaultExclude], an empty
// non-nil one excludes nothing.
type Options struct {
	Include      []string
	Exclude      []string
	MaxFileBytes int64
}

func (o Options) withDefaults() Options {
	if len(o.Include) == 0 {
		o.Include = DefaultInclude
	}
	if o.Exclude == nil {
		o.Exclude = DefaultExclude
	}
	if o.MaxFileBytes <= 0 {
		o.MaxFileBytes = DefaultMaxFileBytes
	}
	return o
}

type filters struct {
	include *Matcher
	exclude *Matcher
}

func newFilters(opts Options) (filters, error) {
	inc, err := NewMatcher(opts.Include)
	if err != nil {
		return filters{}, fmt.Errorf("include: %w", err)
	}
	exc, err := NewMatcher(opts.Exclude)
	if err != nil {
		return filters{}, fmt.Errorf("exclude: %w", err)
	}
	return filters{include: inc, exclude: exc}, nil
}

func (f filters) keep(paths ...string) bool {
	included := false
	for _, p := range paths {
		if f.exclude.Match(p) {
			return false
		}
		if f.include.Match(p) {
			included = true
		}
	}
	return included
}

// FromStdin reads a single input from r. An empty name becomes [StdinName].
func FromStdin(r io.Reader, name string) (Input, error) {
	if name == "" {
		name = StdinName
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("reading stdin: %w", err)
	}
	return Input{Name: name, Source: string(data)}, nil
}

// FromPaths collects inputs from files and directories. Files named
// explicitly are always read; directories are walked and filtered by the
// include and exclude globs. Oversized files found by the walk are skipped,
// while an explicit file over the limit is an error. Each file appears at
// most once.
func FromPaths(paths []string, opts Options) ([]Input, error) {
	opts = opts.withDefaults()
	f, err := newFilters(opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var inputs []Input
	add := func(path string) error {
		clean := filepath.Clean(path)
		if seen[clean] {
			return nil
		}
		seen[clean] = true
		src, err := readFile(clean, opts.MaxFileBytes)
		if err != nil {
			return err
		}
		inputs = append(inputs, Input{Name: filepath.ToSlash(clean), Source: src})
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}

		files, err := walk(p, f, opts.MaxFileBytes)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if err := add(file); err != nil {
				return nil, err
			}
		}
	}
	return inputs, nil
}

func walk(root string, f filters, maxBytes int64) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if !f.keep(filepath.ToSlash(path), filepath.ToSlash(rel)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxBytes {
			log.Warnf("skipping %s: %d bytes exceeds limit of %d", path, info.Size(), maxBytes)
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// ErrTooLarge is returned for an explicit file over the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

func readFile(path string, maxBytes int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if info.Size() > maxBytes {
		return "", fmt.Errorf("%s: %w (%d > %d bytes)", path, ErrTooLarge, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Staged returns the staged (index) content of added, copied and modified
// files that pass the filters. Names are relative to the repository root.
func Staged(opts Options) ([]Input, error) {
	opts = opts.withDefaults()
	f, err := newFilters(opts)
	if err != nil {
		return nil, err
	}

	out, err := gitOutput("diff", "--cached", "--name-only", "--diff-filter=ACM")
	if err != nil {
		return nil, fmt.Errorf("git diff --cached: %w", err)
	}

	var inputs []Input
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || !f.keep(name) {
			continue
		}
		src, err := gitOutput("show", ":"+name)
		if err != nil {
			return nil, fmt.Errorf("git show :%s: %w", name, err)
		}
		if int64(len(src)) > opts.MaxFileBytes {
			log.Warnf("skipping %s: %d bytes exceeds limit of %d", name, len(src), opts.MaxFileBytes)
			continue
		}
		inputs = append(inputs, Input{Name: name, Source: src})
	}
	return inputs, nil
}

// GitDir returns the git directory of the current repository.
func GitDir() (string, error) {
	out, err := gitOutput("rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
