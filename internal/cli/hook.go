package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/closurec/internal/closure"
	"github.com/dshills/closurec/internal/sources"
	"github.com/spf13/cobra"
)

const (
	hookMarkerStart = "# >>> closurec pre-commit hook >>>"
	hookMarkerEnd   = "# <<< closurec pre-commit hook <<<"
)

var (
	hookFailOn string
	hookFormat string
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage git pre-commit hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install closurec as a git pre-commit hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !closure.ValidFailOn(hookFailOn) {
			return fmt.Errorf("invalid --fail-on %q (must be any, warning, error, or none)", hookFailOn)
		}
		hookPath, err := getHookPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		section := generateHookScript(hookFailOn, hookFormat)

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		var content string
		if os.IsNotExist(err) || len(existing) == 0 {
			// No existing hook, create a new file
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceHookSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating hooks directory: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed closurec pre-commit hook at %s\n", hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the closurec pre-commit hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No pre-commit hook found.")
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		content := removeHookSection(string(existing))

		// If only shebang (and whitespace) remains, delete the file entirely
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing hook file: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed closurec pre-commit hook at %s\n", hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed closurec section from %s\n", hookPath)
		return nil
	},
}

func getHookPath() (string, error) {
	gitDir, err := sources.GitDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, "hooks", "pre-commit"), nil
}

// generateHookScript returns the marked hook section. Exit code 1 blocks
// the commit. A missing java runtime or any other failure only warns, so a
// machine without java can still commit.
func generateHookScript(failOn, format string) string {
	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString(fmt.Sprintf("closurec check --staged --fail-on %s --format %s\n", failOn, format))
	b.WriteString("CLOSUREC_EXIT=$?\n")
	b.WriteString("case $CLOSUREC_EXIT in\n")
	b.WriteString("0) ;;\n")
	b.WriteString("1)\n")
	b.WriteString("  echo \"closurec: JavaScript diagnostics above threshold, commit blocked\"\n")
	b.WriteString("  exit 1\n")
	b.WriteString("  ;;\n")
	fmt.Fprintf(&b, "%d)\n", ExitJavaNotFound)
	b.WriteString("  echo \"closurec: no java runtime found, skipping check and allowing commit\"\n")
	b.WriteString("  ;;\n")
	b.WriteString("*)\n")
	b.WriteString("  echo \"closurec: check could not run (exit $CLOSUREC_EXIT), allowing commit\"\n")
	b.WriteString("  ;;\n")
	b.WriteString("esac\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

// findHookSection returns the bounds of the marked section, end excluding
// the newline after the end marker.
func findHookSection(existing string) (start, end int, ok bool) {
	start = strings.Index(existing, hookMarkerStart)
	if start == -1 {
		return 0, 0, false
	}
	rel := strings.Index(existing[start:], hookMarkerEnd)
	if rel == -1 {
		return 0, 0, false
	}
	return start, start + rel + len(hookMarkerEnd), true
}

func replaceHookSection(existing, section string) string {
	start, end, ok := findHookSection(existing)
	if !ok {
		// No existing closurec section, append
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}
	return existing[:start] + section + strings.TrimPrefix(existing[end:], "\n")
}

func removeHookSection(existing string) string {
	start, end, ok := findHookSection(existing)
	if !ok {
		return existing
	}
	return existing[:start] + strings.TrimPrefix(existing[end:], "\n")
}

// installedCommand returns the closurec command line in an installed section.
func installedCommand(existing string) (string, bool) {
	start, end, ok := findHookSection(existing)
	if !ok {
		return "", false
	}
	for _, line := range strings.Split(existing[start:end], "\n") {
		if strings.HasPrefix(line, "closurec ") {
			return line, true
		}
	}
	return "", true
}

var hookStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the closurec pre-commit hook is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath()
		if err != nil {
			fail(cmd.ErrOrStderr(), err)
			return nil
		}
		out := cmd.OutOrStdout()
		data, err := os.ReadFile(hookPath)
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "Not installed.")
			return nil
		}
		if err != nil {
			fail(cmd.ErrOrStderr(), fmt.Errorf("reading hook file: %w", err))
			return nil
		}
		line, ok := installedCommand(string(data))
		if !ok {
			fmt.Fprintf(out, "Not installed (%s has no closurec section).\n", hookPath)
			return nil
		}
		fmt.Fprintf(out, "Installed at %s\n  %s\n", hookPath, line)
		return nil
	},
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookCmd.AddCommand(hookStatusCmd)
	hookInstallCmd.Flags().StringVar(&hookFailOn, "fail-on", "error", "Fail threshold (any, warning, error, none)")
	hookInstallCmd.Flags().StringVar(&hookFormat, "format", "text", "Output format (text, json, markdown, sarif)")
}
