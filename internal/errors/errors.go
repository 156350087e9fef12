// Package errors provides sentinel errors and custom error types for the shipit application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrMergeConflict indicates that a merge stopped on conflicts
	ErrMergeConflict = errors.New("merge conflict")

	// ErrVersionNotFound indicates that no version could be read from a descriptor
	ErrVersionNotFound = errors.New("version not found")

	// ErrNoPlatformFiles indicates that a working copy contains no platform project files
	ErrNoPlatformFiles = errors.New("no platform project files")

	// ErrUnsupportedEcosystem indicates a project type with no version strategy
	ErrUnsupportedEcosystem = errors.New("unsupported ecosystem")

	// ErrRepositoryMissing indicates that a local working copy does not exist
	ErrRepositoryMissing = errors.New("repository missing")
)

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Args    []string
	Stdout  string
	Stderr  string
	Timeout bool
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: git %v", e.Args)
	if e.Timeout {
		msg = fmt.Sprintf("git command timed out: git %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(args []string, stdout, stderr string, timeout bool, err error) *GitCommandError {
	return &GitCommandError{
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Timeout: timeout,
		Err:     err,
	}
}

// MergeConflictError represents a merge that stopped on conflicts and was
// deliberately left unresolved for manual intervention
type MergeConflictError struct {
	Branch string
	Detail string
}

func (e *MergeConflictError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("merging %s stopped on conflicts: %s", e.Branch, e.Detail)
	}
	return fmt.Sprintf("merging %s stopped on conflicts", e.Branch)
}

// Is returns true if the target error is ErrMergeConflict
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(branch, detail string) *MergeConflictError {
	return &MergeConflictError{Branch: branch, Detail: detail}
}

// VersionNotFoundError represents a descriptor that was read successfully but
// carries no recognizable version field. Guidance names the tags expected for
// the ecosystem at hand.
type VersionNotFoundError struct {
	Path     string
	Guidance string
}

func (e *VersionNotFoundError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("no version found in %s (%s)", e.Path, e.Guidance)
	}
	return fmt.Sprintf("no version found in %s", e.Path)
}

// Is returns true if the target error is ErrVersionNotFound
func (e *VersionNotFoundError) Is(target error) bool {
	return target == ErrVersionNotFound
}

// NewVersionNotFoundError creates a new VersionNotFoundError
func NewVersionNotFoundError(path, guidance string) *VersionNotFoundError {
	return &VersionNotFoundError{Path: path, Guidance: guidance}
}

// NoPlatformFilesError represents a Xamarin working copy in which discovery
// found no platform-suffixed project files at all
type NoPlatformFilesError struct {
	Root string
}

func (e *NoPlatformFilesError) Error() string {
	return fmt.Sprintf("no platform project files found under %s", e.Root)
}

// Is returns true if the target error is ErrNoPlatformFiles
func (e *NoPlatformFilesError) Is(target error) bool {
	return target == ErrNoPlatformFiles
}

// NewNoPlatformFilesError creates a new NoPlatformFilesError
func NewNoPlatformFilesError(root string) *NoPlatformFilesError {
	return &NoPlatformFilesError{Root: root}
}

// UnsupportedEcosystemError represents a project whose ecosystem has no
// version strategy
type UnsupportedEcosystemError struct {
	Ecosystem string
}

func (e *UnsupportedEcosystemError) Error() string {
	return fmt.Sprintf("ecosystem %s is not supported for automatic versioning", e.Ecosystem)
}

// Is returns true if the target error is ErrUnsupportedEcosystem
func (e *UnsupportedEcosystemError) Is(target error) bool {
	return target == ErrUnsupportedEcosystem
}

// NewUnsupportedEcosystemError creates a new UnsupportedEcosystemError
func NewUnsupportedEcosystemError(ecosystem string) *UnsupportedEcosystemError {
	return &UnsupportedEcosystemError{Ecosystem: ecosystem}
}
