package closure

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dshills/closurec/internal/cache"
)

// JarName is the file name of the compiler archive inside the Assets directory.
const JarName = "closure-compiler.jar"

// DefaultTimeout bounds a single compiler invocation.
const DefaultTimeout = time.Minute

// SourceStore persists source text and returns a stable file path for it.
type SourceStore interface {
	Store(source string) (string, error)
}

// Runtime resolves the java executable.
type Runtime interface {
	Executable() (string, error)
}

// Options configures how the compiler is invoked. Zero fields take the
// defaults from [DefaultOptions].
type Options struct {
	JarPath       string
	CheckLevel    string
	OptimizeLevel string
	WarningLevel  string
	Timeout       time.Duration
}

// DefaultOptions returns the invocation settings closurec ships with.
func DefaultOptions() Options {
	return Options{
		CheckLevel:    LevelAdvanced,
		OptimizeLevel: LevelWhitespaceOnly,
		WarningLevel:  WarningDefault,
		Timeout:       DefaultTimeout,
	}
}

// DefaultJarPath returns Assets/closure-compiler.jar next to the running binary.
func DefaultJarPath() (string, error) {
	assets, err := cache.AssetsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(assets, JarName), nil
}

// Compiler runs the Closure Compiler against cached source files.
type Compiler struct {
	store   SourceStore
	runtime Runtime
	opts    Options
}

// New creates a Compiler. An empty JarPath resolves to [DefaultJarPath].
func New(store SourceStore, rt Runtime, opts Options) (*Compiler, error) {
	def := DefaultOptions()
	if opts.CheckLevel == "" {
		opts.CheckLevel = def.CheckLevel
	}
	if opts.OptimizeLevel == "" {
		opts.OptimizeLevel = def.OptimizeLevel
	}
	if opts.WarningLevel == "" {
		opts.WarningLevel = def.WarningLevel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if !ValidLevel(opts.CheckLevel) {
		return nil, fmt.Errorf("invalid check level %q", opts.CheckLevel)
	}
	if !ValidLevel(opts.OptimizeLevel) {
		return nil, fmt.Errorf("invalid optimize level %q", opts.OptimizeLevel)
	}
	if !ValidWarningLevel(opts.WarningLevel) {
		return nil, fmt.Errorf("invalid warning level %q", opts.WarningLevel)
	}
	if opts.JarPath == "" {
		p, err := DefaultJarPath()
		if err != nil {
			return nil, err
		}
		opts.JarPath = p
	}
	return &Compiler{store: store, runtime: rt, opts: opts}, nil
}

// Options returns the effective invocation settings.
func (c *Compiler) Options() Options {
	return c.opts
}

// Level returns the compilation level used for mode.
func (c *Compiler) Level(mode Mode) string {
	if mode == ModeOptimize {
		return c.opts.OptimizeLevel
	}
	return c.opts.CheckLevel
}

// Args returns the java arguments that compile inputPath at level.
func (c *Compiler) Args(level, inputPath string) []string {
	return []string{
		"-jar", c.opts.JarPath,
		"--js", inputPath,
		"-O", level,
		"-W", c.opts.WarningLevel,
	}
}

// Check compiles source with the check level and reports whether the
// compiler wrote nothing but whitespace to stderr. The raw stderr text is
// returned as diagnostics in either case.
func (c *Compiler) Check(ctx context.Context, source string) (bool, string, error) {
	_, res, err := c.invoke(ctx, c.opts.CheckLevel, source)
	if err != nil {
		return false, "", err
	}
	return isBlank(res.Stderr), res.Stderr, nil
}

// Optimize compiles source with the optimize level and returns stdout as
// the optimized text and stderr as diagnostics, both verbatim. Warnings on
// stderr do not make the output invalid.
func (c *Compiler) Optimize(ctx context.Context, source string) (string, string, error) {
	_, res, err := c.invoke(ctx, c.opts.OptimizeLevel, source)
	if err != nil {
		return "", "", err
	}
	return res.Stdout, res.Stderr, nil
}

// Run compiles one named input in the given mode and returns a Result with
// parsed diagnostics. Diagnostic paths that point at the cache file are
// reported under name instead.
func (c *Compiler) Run(ctx context.Context, mode Mode, name, source string) (Result, error) {
	start := time.Now()
	cachePath, res, err := c.invoke(ctx, c.Level(mode), source)
	if err != nil {
		return Result{}, err
	}
	if name == "" {
		name = cachePath
	}

	result := Result{
		Input:       name,
		CachePath:   cachePath,
		Valid:       isBlank(res.Stderr),
		Stderr:      res.Stderr,
		ExitCode:    res.ExitCode,
		Diagnostics: relabel(ParseDiagnostics(res.Stderr), cachePath, name),
		DurationMs:  time.Since(start).Milliseconds(),
	}
	if mode == ModeOptimize {
		result.Output = res.Stdout
	}
	if !result.Valid && len(result.Diagnostics) == 0 {
		// Output the compiler did not format as a diagnostic, such as a
		// JVM startup failure.
		result.Diagnostics = []Diagnostic{{
			Path:     name,
			Severity: SeverityError,
			Message:  firstLine(res.Stderr),
		}}
	}
	return result, nil
}

func (c *Compiler) invoke(ctx context.Context, level, source string) (string, processResult, error) {
	path, err := c.store.Store(source)
	if err != nil {
		return "", processResult{}, fmt.Errorf("caching source: %w", err)
	}
	java, err := c.runtime.Executable()
	if err != nil {
		return "", processResult{}, fmt.Errorf("locating java: %w", err)
	}

	args := c.Args(level, path)
	log.WithFields(log.Fields{
		"java":  java,
		"level": level,
		"input": path,
	}).Debug("running closure compiler")

	res, err := runProcess(ctx, java, args, c.opts.Timeout)
	if err != nil {
		return "", processResult{}, err
	}
	log.Debugf("closure compiler exited with %d", res.ExitCode)
	return path, res, nil
}

func relabel(diags []Diagnostic, from, to string) []Diagnostic {
	for i := range diags {
		if diags[i].Path == from || filepath.Clean(diags[i].Path) == filepath.Clean(from) {
			diags[i].Path = to
		}
	}
	return diags
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
