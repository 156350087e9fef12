package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	shipiterrors "shipit.dev/shipit/internal/errors"
)

// Fixed timeouts per operation. These are deliberately not configurable: the
// pipeline never retries, so a stuck command must terminate the invocation
// within a known bound.
const (
	cloneTimeout    = 5 * time.Minute
	checkoutTimeout = 30 * time.Second
	pullTimeout     = 2 * time.Minute
	mergeTimeout    = time.Minute
	stageTimeout    = 30 * time.Second
	commitTimeout   = 30 * time.Second
	pushTimeout     = 2 * time.Minute
	logTimeout      = 10 * time.Second
)

// Clone clones url into the runner's working copy. It is a no-op when the
// path already exists; the caller's invariant is that an existing path is a
// valid working copy. Submodules are not fetched.
func (r *CommandRunner) Clone(ctx context.Context, url string) error {
	if _, err := os.Stat(r.workingDir); err == nil {
		return nil
	}

	parent := filepath.Dir(r.workingDir)
	if parent != "" {
		if err := os.MkdirAll(parent, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", parent, err)
		}
	}

	_, err := r.runIn(ctx, parent, cloneTimeout, "clone", url, filepath.Base(r.workingDir))
	return err
}

// Checkout switches the working copy to branch
func (r *CommandRunner) Checkout(ctx context.Context, branch string) error {
	_, err := r.Run(ctx, checkoutTimeout, "checkout", branch)
	return err
}

// Pull updates branch from origin. A non-zero exit is reported as a warning
// rather than an error: many benign conditions (nothing to pull on a branch
// without upstream, for one) surface as non-zero exits, and the pipeline must
// not die on them. Only a timeout or a failure to start git is an error.
func (r *CommandRunner) Pull(ctx context.Context, branch string) (warning string, err error) {
	_, runErr := r.Run(ctx, pullTimeout, "pull", "origin", branch)
	if runErr == nil {
		return "", nil
	}

	var cmdErr *shipiterrors.GitCommandError
	var exitErr *exec.ExitError
	if stderrors.As(runErr, &cmdErr) && !cmdErr.Timeout && stderrors.As(cmdErr.Err, &exitErr) {
		return strings.TrimSpace(cmdErr.Stderr), nil
	}
	return "", runErr
}

// Merge merges branch into the current branch with the given commit message.
// Conflicts surface as a *errors.MergeConflictError; no merge --abort is run,
// the working copy is intentionally left mid-merge for manual resolution.
func (r *CommandRunner) Merge(ctx context.Context, branch, message string) error {
	_, err := r.Run(ctx, mergeTimeout, "merge", branch, "-m", message)
	if err == nil {
		return nil
	}

	var cmdErr *shipiterrors.GitCommandError
	if stderrors.As(err, &cmdErr) && isConflictOutput(cmdErr.Stdout, cmdErr.Stderr) {
		return shipiterrors.NewMergeConflictError(branch, strings.TrimSpace(cmdErr.Stdout))
	}
	return err
}

// isConflictOutput recognizes the CLI's conflict wording
func isConflictOutput(stdout, stderr string) bool {
	combined := stdout + stderr
	return strings.Contains(combined, "CONFLICT") ||
		strings.Contains(combined, "Automatic merge failed")
}

// StageAll stages every change in the working copy, untracked files included
func (r *CommandRunner) StageAll(ctx context.Context) error {
	_, err := r.Run(ctx, stageTimeout, "add", ".")
	return err
}

// Commit creates a commit with the given message
func (r *CommandRunner) Commit(ctx context.Context, message string) error {
	_, err := r.Run(ctx, commitTimeout, "commit", "-m", message)
	return err
}

// Push pushes branch to origin
func (r *CommandRunner) Push(ctx context.Context, branch string) error {
	_, err := r.Run(ctx, pushTimeout, "push", "origin", branch)
	return err
}

// Log returns the last n commits as one-line entries, best effort: an error
// here never carries useful action for the caller beyond an empty changelog.
func (r *CommandRunner) Log(ctx context.Context, n int) (string, error) {
	return r.Run(ctx, logTimeout, "log", fmt.Sprintf("-%d", n), "--pretty=format:%h - %s (%an)")
}
