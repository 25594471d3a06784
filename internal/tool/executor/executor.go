// Package executor runs external commands with a hard wall-clock timeout.
// The git passthrough tools are its only callers.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ErrTimeout is returned when a command exceeds its wall-clock budget.
var ErrTimeout = errors.New("command timed out")

// CommandError is returned when a command cannot be started.
type CommandError struct {
	Cmd   string
	Cause error
}

func (e *CommandError) Error() string {
	return "failed to run " + e.Cmd + ": " + e.Cause.Error()
}
func (e *CommandError) Unwrap() error { return e.Cause }

// Result represents the outcome of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// OSCommandExecutor implements command execution using os/exec.
type OSCommandExecutor struct{}

// NewOSCommandExecutor creates a new OSCommandExecutor.
func NewOSCommandExecutor() *OSCommandExecutor {
	return &OSCommandExecutor{}
}

// Run executes a command in dir with the given timeout. Output is buffered
// internally. A non-zero exit is reported through Result.ExitCode, not as an
// error; the error return covers start failures, timeouts, and cancellation.
func (f *OSCommandExecutor) Run(ctx context.Context, command []string, dir string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, &CommandError{Cmd: "", Cause: errors.New("empty command")}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return &Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
		}, ErrTimeout
	}
	if runCtx.Err() != nil {
		return nil, runCtx.Err()
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, &CommandError{Cmd: command[0], Cause: err}
		}
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}
