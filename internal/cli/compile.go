package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dshills/closurec/internal/cache"
	"github.com/dshills/closurec/internal/closure"
	"github.com/dshills/closurec/internal/config"
	"github.com/dshills/closurec/internal/javaenv"
	"github.com/dshills/closurec/internal/output"
	"github.com/dshills/closurec/internal/sources"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Shared compile flags
var (
	flagStdin        bool
	flagStdinName    string
	flagStaged       bool
	flagPaths        string
	flagExclude      string
	flagMaxFileBytes int64
	flagFormat       string
	flagOut          string
	flagOutDir       string
	flagFailOn       string
	flagRules        string
	flagLevel        string
	flagJavaHome     string
	flagJar          string
	flagTimeout      int
)

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagStdin, "stdin", false, "Read source from stdin")
	cmd.Flags().StringVar(&flagStdinName, "stdin-name", "", "File name to report for stdin input")
	cmd.Flags().BoolVar(&flagStaged, "staged", false, "Compile staged JavaScript files from the git index")
	cmd.Flags().StringVar(&flagPaths, "paths", "", "Include file path globs for directories (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().Int64Var(&flagMaxFileBytes, "max-file-bytes", 0, "Skip files larger than this many bytes")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail threshold (any, warning, error, none)")
	cmd.Flags().StringVar(&flagRules, "rules", "", "Rules file path")
	cmd.Flags().StringVar(&flagLevel, "level", "", "Compilation level (ADVANCED, SIMPLE, WHITESPACE_ONLY, BUNDLE)")
	cmd.Flags().StringVar(&flagJavaHome, "java-home", "", "Java runtime directory (overrides JAVA_HOME)")
	cmd.Flags().StringVar(&flagJar, "jar", "", "Path to closure-compiler.jar")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Compiler timeout in seconds")
}

// buildOverrides collects non-zero flags. levelKey names the config field
// --level applies to.
func buildOverrides(levelKey string) map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagRules != "" {
		m["rulesFile"] = flagRules
	}
	if flagLevel != "" {
		m[levelKey] = flagLevel
	}
	if flagJavaHome != "" {
		m["javaHome"] = flagJavaHome
	}
	if flagJar != "" {
		m["jarPath"] = flagJar
	}
	if flagTimeout > 0 {
		m["timeoutSeconds"] = strconv.Itoa(flagTimeout)
	}
	if flagMaxFileBytes > 0 {
		m["maxFileBytes"] = strconv.FormatInt(flagMaxFileBytes, 10)
	}
	return m
}

func buildSourceOpts(cfg config.Config) sources.Options {
	opts := sources.Options{
		Include:      cfg.Include,
		Exclude:      cfg.Exclude,
		MaxFileBytes: cfg.MaxFileBytes,
	}
	if flagPaths != "" {
		opts.Include = splitComma(flagPaths)
	}
	if flagExclude != "" {
		opts.Exclude = append(append([]string{}, opts.Exclude...), splitComma(flagExclude)...)
	}
	return opts
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// errNoInput is a usage error: nothing to compile and stdin is a terminal.
var errNoInput = errors.New("no input: pass files or directories, --stdin, or --staged")

// collectInputs resolves what to compile from the arguments and flags.
// A lone "-" argument reads stdin.
func collectInputs(cmd *cobra.Command, args []string, cfg config.Config) ([]sources.Input, error) {
	opts := buildSourceOpts(cfg)
	if flagStaged {
		return sources.Staged(opts)
	}

	readStdin := flagStdin || (len(args) == 1 && args[0] == "-")
	if !readStdin && len(args) == 0 {
		if isTerminal(cmd.InOrStdin()) {
			return nil, errNoInput
		}
		readStdin = true
	}
	if readStdin {
		in, err := sources.FromStdin(cmd.InOrStdin(), flagStdinName)
		if err != nil {
			return nil, err
		}
		return []sources.Input{in}, nil
	}
	return sources.FromPaths(args, opts)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newCompiler builds the compiler, its cache and the java locator from cfg.
func newCompiler(cfg config.Config) (*closure.Compiler, error) {
	c, err := cache.New(cfg.Cache.Dir, cfg.CacheMaxAge())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return closure.New(c, javaenv.Default(cfg.JavaHome), cfg.CompilerOptions())
}

// loadCompileConfig loads and validates the effective configuration.
func loadCompileConfig(levelKey string) (config.Config, *closure.Rules, error) {
	cfg, err := config.Load(buildOverrides(levelKey))
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	if _, err := output.GetWriter(cfg.Format); err != nil {
		return config.Config{}, nil, err
	}
	rules, err := closure.LoadRules(cfg.RulesFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading rules: %w", err)
	}
	return cfg, rules, nil
}

// compileAll runs every input through the compiler in order. It stops at
// the first invocation error, which is reported and mapped to an exit code.
func compileAll(cmd *cobra.Command, comp *closure.Compiler, mode closure.Mode, inputs []sources.Input) ([]closure.Result, bool) {
	results := make([]closure.Result, 0, len(inputs))
	for _, in := range inputs {
		res, err := comp.Run(cmd.Context(), mode, in.Name, in.Source)
		if err != nil {
			fail(cmd.ErrOrStderr(), fmt.Errorf("%s: %w", in.Name, err))
			return nil, false
		}
		log.WithFields(log.Fields{
			"input":       in.Name,
			"valid":       res.Valid,
			"diagnostics": len(res.Diagnostics),
		}).Debug("compiled")
		results = append(results, res)
	}
	return results, true
}

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check JavaScript for errors and warnings",
	Long: "Compile each input with the check level (ADVANCED by default) and report " +
		"the diagnostics. An input fails when the compiler writes anything to stderr, " +
		"unless --fail-on selects a severity threshold.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, rules, err := loadCompileConfig("checkLevel")
		if err != nil {
			return err
		}
		inputs, err := collectInputs(cmd, args, cfg)
		if errors.Is(err, errNoInput) {
			return err
		}
		if err != nil {
			fail(cmd.ErrOrStderr(), err)
			return nil
		}
		if len(inputs) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No JavaScript inputs found.")
			return nil
		}

		comp, err := newCompiler(cfg)
		if err != nil {
			fail(cmd.ErrOrStderr(), err)
			return nil
		}

		start := time.Now()
		results, ok := compileAll(cmd, comp, closure.ModeCheck, inputs)
		if !ok {
			return nil
		}
		rules.ApplyResults(results)
		report := closure.BuildReport(closure.ModeCheck, cfg.CheckLevel, results, cfg.FailOn, time.Since(start))

		if err := output.WriteReport(cmd.OutOrStdout(), report, cfg.Format, flagOut); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if report.Summary.Failed > 0 {
			exitCode = ExitFindings
		}
		return nil
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize [paths...]",
	Short: "Minify JavaScript",
	Long: "Compile each input with the optimize level (WHITESPACE_ONLY by default). " +
		"Optimized code goes to stdout, --out, or one file per input under --out-dir; " +
		"diagnostics go to stderr. Warnings never block output; the command fails " +
		"only on errors unless --fail-on says otherwise.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, rules, err := loadCompileConfig("optimizeLevel")
		if err != nil {
			return err
		}
		failOn := closure.FailOnError
		if flagFailOn != "" {
			failOn = cfg.FailOn
		}

		inputs, err := collectInputs(cmd, args, cfg)
		if errors.Is(err, errNoInput) {
			return err
		}
		if err != nil {
			fail(cmd.ErrOrStderr(), err)
			return nil
		}
		if len(inputs) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No JavaScript inputs found.")
			return nil
		}
		if len(inputs) > 1 && flagOutDir == "" {
			return fmt.Errorf("%d inputs need --out-dir", len(inputs))
		}

		comp, err := newCompiler(cfg)
		if err != nil {
			fail(cmd.ErrOrStderr(), err)
			return nil
		}

		start := time.Now()
		results, ok := compileAll(cmd, comp, closure.ModeOptimize, inputs)
		if !ok {
			return nil
		}
		rules.ApplyResults(results)
		report := closure.BuildReport(closure.ModeOptimize, cfg.OptimizeLevel, results, failOn, time.Since(start))

		for _, r := range results {
			if err := writeOptimized(cmd.OutOrStdout(), r); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing output: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
		}

		if report.Summary.Counts.Errors+report.Summary.Counts.Warnings > 0 {
			if err := output.WriteReport(cmd.ErrOrStderr(), report, cfg.Format, ""); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing diagnostics: %v\n", err)
			}
		}
		if report.Summary.Failed > 0 {
			exitCode = ExitFindings
		}
		return nil
	},
}

// writeOptimized writes one result to --out-dir, --out, or w.
func writeOptimized(w io.Writer, r closure.Result) error {
	if r.Output == "" && closure.CountDiagnostics(r.Diagnostics).Errors > 0 {
		log.Warnf("no output for %s", r.Input)
		return nil
	}
	switch {
	case flagOutDir != "":
		path := outputPath(flagOutDir, r.Input)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, []byte(r.Output), 0o644)
	case flagOut != "":
		return os.WriteFile(flagOut, []byte(r.Output), 0o644)
	default:
		_, err := io.WriteString(w, r.Output)
		return err
	}
}

// outputPath maps an input name into dir. Relative names keep their
// directories; absolute names, names that climb out of the working
// directory and stdin keep only the base name.
func outputPath(dir, name string) string {
	if name == sources.StdinName {
		name = "stdin.js"
	}
	rel := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(rel)
	}
	return filepath.Join(dir, rel)
}

func init() {
	for _, cmd := range []*cobra.Command{checkCmd, optimizeCmd} {
		addCompileFlags(cmd)
	}
	checkCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	checkCmd.Flags().StringVar(&flagOut, "out", "", "Report file path (default: stdout)")

	optimizeCmd.Flags().StringVar(&flagFormat, "format", "", "Diagnostics format on stderr (text, json, markdown, sarif)")
	optimizeCmd.Flags().StringVar(&flagOut, "out", "", "Optimized output file (single input)")
	optimizeCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "Directory for optimized files (one per input)")
}
