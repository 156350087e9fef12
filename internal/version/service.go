// Package version implements the per-ecosystem version strategies: reading a
// project's current version from its build descriptor, rewriting it in place,
// and computing the next version number.
package version

import (
	"fmt"
	"strconv"
	"strings"

	shipiterrors "shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/project"
)

// Increment kinds accepted by Increment
const (
	IncrementMajor = "major"
	IncrementMinor = "minor"
	IncrementPatch = "patch"
)

// Service reads and rewrites the version embedded in a project's build
// descriptor. Implementations never panic; descriptor problems surface as
// typed errors (CurrentVersion) or as a failed UpdateResult (UpdateVersion).
type Service interface {
	// CurrentVersion returns the version currently recorded in the project
	// descriptor. The error explains why no version could be read.
	CurrentVersion(p *project.Project) (string, error)

	// UpdateVersion rewrites the project descriptor(s) to carry newVersion.
	// It always returns a result; it never raises.
	UpdateVersion(p *project.Project, newVersion string) *UpdateResult
}

// UpdateResult is the outcome of an UpdateVersion call. For multi-file
// ecosystems (Xamarin) Files carries one record per discovered descriptor;
// OK is derived from those records, never the other way around.
type UpdateResult struct {
	OK      bool
	Message string
	Files   []FileOutcome
}

// FileOutcome records the independent result of updating one platform file
type FileOutcome struct {
	Path     string
	Platform Platform
	Updated  bool
	Detail   string
}

// ServiceFor returns the version strategy for a project ecosystem
func ServiceFor(eco project.Ecosystem) (Service, error) {
	switch eco {
	case project.Flutter:
		return FlutterService{}, nil
	case project.DotNetMaui:
		return DotNetMauiService{}, nil
	case project.Xamarin:
		return XamarinService{}, nil
	default:
		return nil, shipiterrors.NewUnsupportedEcosystemError(string(eco))
	}
}

// Increment computes the next version number. It is total: malformed input
// never fails, it falls back to appending ".1" to the input unchanged.
//
// A trailing "+build" suffix is stripped first. A two-part version is padded
// with a trailing zero. Anything that does not then split into exactly three
// integer parts takes the fallback path.
func Increment(version, kind string) string {
	base, _, _ := strings.Cut(version, "+")

	parts := strings.Split(base, ".")
	if len(parts) == 2 {
		parts = append(parts, "0")
	}
	if len(parts) != 3 {
		return version + ".1"
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return version + ".1"
		}
		nums[i] = n
	}

	switch kind {
	case IncrementMajor:
		nums[0]++
		nums[1], nums[2] = 0, 0
	case IncrementMinor:
		nums[1]++
		nums[2] = 0
	default: // patch
		nums[2]++
	}

	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2])
}
