package closure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout is returned when the compiler does not exit within the timeout.
var ErrTimeout = errors.New("closure compiler timeout")

// waitDelay bounds how long Wait keeps draining stdout/stderr after the
// process has been killed or has exited.
const waitDelay = 2 * time.Second

type processResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runProcess starts name with args, without a shell, and waits for it to
// exit. Stdin is the null device; stdout and stderr are captured. When the
// timeout elapses the process is killed, its pipes are closed and
// ErrTimeout is returned. A non-zero exit status is not an error.
func runProcess(ctx context.Context, name string, args []string, timeout time.Duration) (processResult, error) {
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = sysProcAttr()
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err := runError(err, ctx.Err(), execCtx.Err(), name, timeout); err != nil {
		return processResult{}, err
	}

	return processResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

// runError maps the outcome of cmd.Run to the error runProcess returns.
// A process that exited cleanly keeps its output even when a deadline
// expired right after it finished.
func runError(runErr, parentErr, execErr error, name string, timeout time.Duration) error {
	if runErr == nil {
		return nil
	}
	if parentErr != nil {
		return parentErr
	}
	if errors.Is(execErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	var exitErr *exec.ExitError
	// ErrWaitDelay means the process exited but a descendant kept the
	// output pipes open; what was captured is still the full result.
	if errors.As(runErr, &exitErr) || errors.Is(runErr, exec.ErrWaitDelay) {
		return nil
	}
	return fmt.Errorf("running %s: %w", name, runErr)
}
