package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dshills/closurec/internal/cache"
	"github.com/dshills/closurec/internal/closure"
	"github.com/dshills/closurec/internal/config"
	"github.com/dshills/closurec/internal/javaenv"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// versionTimeout bounds "java -version" in doctor.
const versionTimeout = 10 * time.Second

var javaCmd = &cobra.Command{
	Use:   "java",
	Short: "Inspect the Java runtime used to run the compiler",
}

var javaLocateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the java executable closurec would run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		m, err := javaenv.Default(cfg.JavaHome).Find()
		if err != nil {
			fail(cmd.ErrOrStderr(), err)
			return nil
		}
		exe, err := javaenv.FindExecutable(m.Dir)
		if err != nil {
			fail(cmd.ErrOrStderr(), err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", exe, m.Probe)
		return nil
	},
}

var javaDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the Java runtime, compiler jar and cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		exitCode = runDoctor(cmd.Context(), cmd.OutOrStdout(), cfg)
		return nil
	},
}

// runDoctor prints a report and returns the exit code: java problems take
// precedence over a missing jar.
func runDoctor(ctx context.Context, w io.Writer, cfg config.Config) int {
	code := ExitSuccess
	loc := javaenv.Default(cfg.JavaHome)

	fmt.Fprintln(w, "Java runtime probes:")
	for _, p := range loc.Probes() {
		dir, err := p.Lookup()
		switch {
		case err == nil && dir != "":
			fmt.Fprintf(w, "  [ok] %-14s %s\n", p.Name(), dir)
		case err == nil || errors.Is(err, javaenv.ErrNotFound):
			fmt.Fprintf(w, "  [--] %-14s not set\n", p.Name())
		default:
			fmt.Fprintf(w, "  [!!] %-14s %v\n", p.Name(), err)
		}
	}

	exe, err := loc.Executable()
	if err != nil {
		fmt.Fprintf(w, "java: %v\n", err)
		code = ExitJavaNotFound
	} else {
		fmt.Fprintf(w, "java: %s\n", exe)
		if v, err := javaVersion(ctx, exe); err != nil {
			fmt.Fprintf(w, "  version: %v\n", err)
		} else {
			fmt.Fprintf(w, "  version: %s\n", v)
		}
	}

	jar := cfg.JarPath
	if jar == "" {
		if jar, err = closure.DefaultJarPath(); err != nil {
			jar = closure.JarName
		}
	}
	if info, err := os.Stat(jar); err != nil {
		fmt.Fprintf(w, "jar: %s (missing)\n", jar)
		if code == ExitSuccess {
			code = ExitRuntimeError
		}
	} else {
		fmt.Fprintf(w, "jar: %s (%s, modified %s)\n", jar,
			humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
	}

	c, err := cache.New(cfg.Cache.Dir, cfg.CacheMaxAge())
	if err != nil {
		fmt.Fprintf(w, "cache: %v\n", err)
		return code
	}
	stats, err := c.GetStats()
	if err != nil {
		fmt.Fprintf(w, "cache: %s (%v)\n", c.Dir(), err)
		return code
	}
	fmt.Fprintf(w, "cache: %s (%d %s, %s, %d stale)\n", stats.Dir, stats.Entries,
		plural(stats.Entries, "entry", "entries"), humanize.Bytes(uint64(stats.TotalBytes)), stats.Stale)
	return code
}

// javaVersion returns the first line "java -version" prints.
func javaVersion(ctx context.Context, exe string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, exe, "-version").CombinedOutput()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

func init() {
	javaCmd.AddCommand(javaLocateCmd)
	javaCmd.AddCommand(javaDoctorCmd)
}
