package webhook

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ShellResult captures the output of a shell command.
type ShellResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner invokes external tools (notification display, audio
// playback, speech synthesis, shell commands). The OS tools are opaque,
// synchronous and possibly failing; callers only see captured output and
// exit status.
type CommandRunner interface {
	// Run executes a named tool and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// RunShell executes a command line through the shell. A non-zero exit
	// is reported via ShellResult.ExitCode, not as an error.
	RunShell(ctx context.Context, command string) (ShellResult, error)
}

// ExecRunner runs commands on the local machine via os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (r *ExecRunner) RunShell(ctx context.Context, command string) (ShellResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Descendants of the shell inherit the output pipes; without a wait
	// delay a surviving grandchild keeps Wait blocked long past the
	// deadline even though the shell itself was killed.
	cmd.WaitDelay = time.Second

	err := cmd.Run()

	result := ShellResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}
