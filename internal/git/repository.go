package git

import (
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	shipiterrors "shipit.dev/shipit/internal/errors"
)

// Repository wraps a go-git repository for read-only inspection of a working
// copy. Mutations always go through the CLI runner; go-git is used where no
// subprocess is warranted, such as validating the Project invariant that a
// present local path is a real working copy.
type Repository struct {
	*gogit.Repository
	path string
}

// OpenRepository opens the git repository at path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, shipiterrors.ErrRepositoryMissing
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", absPath, err)
	}

	return &Repository{Repository: repo, path: absPath}, nil
}

// Root returns the working copy root
func (r *Repository) Root() string {
	return r.path
}

// CurrentBranch returns the short name of the checked-out branch
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:8])
	}
	return head.Name().Short(), nil
}

// ValidateWorkingCopy reports whether path is absent (fine, the pipeline will
// clone) or an openable git working copy. Anything else violates the project
// invariant and is returned as an error.
func ValidateWorkingCopy(path string) error {
	if path == "" {
		return fmt.Errorf("project has no local path configured")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	_, err := OpenRepository(path)
	return err
}
