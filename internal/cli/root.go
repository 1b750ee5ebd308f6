package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dshills/closurec/internal/closure"
	"github.com/dshills/closurec/internal/javaenv"
	clilog "github.com/dshills/closurec/internal/log"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitJavaNotFound = 3
	ExitRuntimeError = 4
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "closurec",
	Short: "Check and optimize JavaScript with the Closure Compiler",
	Long: "closurec runs the Closure Compiler as a local java process, caches the " +
		"submitted source, and reports diagnostics with deterministic exit codes.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		clilog.InitLogger(flagVerbose)
	},
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(javaCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")

	// An interrupt cancels the running compiler process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// fail reports err on w and records the exit code it maps to.
func fail(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	exitCode = exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, javaenv.ErrNotFound):
		return ExitJavaNotFound
	default:
		return ExitRuntimeError
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print closurec version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "closurec version %s\n", closure.Version)
	},
}
