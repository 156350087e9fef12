// Package git wraps the git CLI and go-git for the repository operations the
// release pipeline needs. Every CLI invocation is a single blocking call
// bounded by a fixed per-operation timeout; authentication is delegated to
// the host's git configuration.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	shipiterrors "shipit.dev/shipit/internal/errors"
)

// DefaultCommandTimeout bounds git commands that have no operation-specific timeout
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands against one working copy
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner rooted at workingDir
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// WorkingDir returns the working copy this runner operates on
func (r *CommandRunner) WorkingDir() string {
	return r.workingDir
}

// Run executes a git command bounded by timeout and returns trimmed stdout.
// A non-zero exit, a failure to start, or hitting the timeout all surface as
// a *errors.GitCommandError carrying the captured output.
func (r *CommandRunner) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	return r.runIn(ctx, r.workingDir, timeout, args...)
}

// runIn executes a git command in an explicit directory. Clone needs this:
// it runs in the parent of a working copy that does not exist yet.
func (r *CommandRunner) runIn(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		timedOut := ctx.Err() == context.DeadlineExceeded
		return "", shipiterrors.NewGitCommandError(args, stdout.String(), stderr.String(), timedOut, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
