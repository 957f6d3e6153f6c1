// Package execx runs the external programs disko inspects the machine with,
// such as lsblk and nix.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCommandFailed is returned (wrapped in a CommandError) when a program
// exits unsuccessfully.
var ErrCommandFailed = errors.New("command failed")

// Runner provides an abstraction for running external programs.
type Runner interface {
	// Run executes name with args and returns its standard output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CommandError describes a failed invocation.
type CommandError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %s", strings.Join(e.Command, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// Details returns the failure as key/value context for error reports.
func (e *CommandError) Details() map[string]any {
	return map[string]any{
		"command":   e.Command,
		"exit_code": e.ExitCode,
		"stderr":    e.Stderr,
	}
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	// Env, if set, is appended to the inherited environment.
	Env []string
}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args. Stderr is captured and attached to the error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &CommandError{
			Command:  append([]string{name}, args...),
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return output, nil
}

// FakeRunner implements Runner with predetermined outputs for testing.
// Responses are keyed by the program name.
type FakeRunner struct {
	Outputs map[string][]byte
	Errors  map[string]error
	Calls   [][]string
}

// NewFakeRunner creates a new FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Outputs: map[string][]byte{},
		Errors:  map[string]error{},
	}
}

// Run records the invocation and returns the predetermined response.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.Calls = append(f.Calls, append([]string{name}, args...))
	if err, ok := f.Errors[name]; ok {
		return nil, err
	}
	if out, ok := f.Outputs[name]; ok {
		return out, nil
	}
	return nil, &CommandError{
		Command:  append([]string{name}, args...),
		ExitCode: 127,
		Stderr:   name + ": command not found",
		Err:      errors.New("executable file not found"),
	}
}
