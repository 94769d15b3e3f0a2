// Package execenv runs a child process with a profile's variables added
// to the inherited environment.
package execenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/internal/logging"
)

// Executor handles running commands with ephemeral environment variables
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{logger: logger}
}

// ExecOptions configures command execution
type ExecOptions struct {
	Command       []string          // Command and arguments to run
	Environment   map[string]string // Variables to add
	AllowOverride bool              // Existing variables win over Environment
	PrintVars     bool              // Print variable names with masked values to Stderr
	WorkingDir    string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError reports a child that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Exec runs the command and waits for it. The caller decides what to do
// with a non-zero exit; it is returned as *ExitError.
func (e *Executor) Exec(ctx context.Context, opts ExecOptions) error {
	if len(opts.Command) == 0 {
		return dserrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., ccm run work -- my-tool)",
		}
	}

	name := opts.Command[0]
	if _, err := exec.LookPath(name); err != nil {
		return dserrors.UserError{
			Message:    fmt.Sprintf("Command '%s' not found", name),
			Suggestion: fmt.Sprintf("Make sure '%s' is installed and in your PATH", name),
			Err:        err,
		}
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	if opts.PrintVars {
		printEnvironment(stderr, opts.Environment)
	}

	cmd := exec.CommandContext(ctx, name, opts.Command[1:]...)
	cmd.Env = buildEnvironment(os.Environ(), opts.Environment, opts.AllowOverride)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Dir = opts.WorkingDir

	e.logger.Debug("Executing command: %s", strings.Join(opts.Command, " "))
	e.logger.Debug("Environment variables set: %d", len(opts.Environment))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: name, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// buildEnvironment merges vars into base, a KEY=VALUE list.
func buildEnvironment(base []string, vars map[string]string, allowOverride bool) []string {
	env := make(map[string]string, len(base)+len(vars))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	for k, v := range vars {
		if _, exists := env[k]; exists && allowOverride {
			continue
		}
		env[k] = v
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func printEnvironment(w io.Writer, vars map[string]string) {
	if len(vars) == 0 {
		fmt.Fprintln(w, "No environment variables set")
		return
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "Setting %d environment variables:\n", len(vars))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s=%s\n", k, maskValue(vars[k]))
	}
}

// maskValue masks a secret value for display
func maskValue(value string) string {
	if len(value) == 0 {
		return "(empty)"
	}
	if len(value) <= 3 {
		return strings.Repeat("*", len(value))
	}
	if len(value) <= 8 {
		return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
	}
	return value[:3] + strings.Repeat("*", 8) + value[len(value)-2:]
}
