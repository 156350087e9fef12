package version

import (
	"fmt"
	"os"
	"strconv"

	shipiterrors "shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/project"
)

// DotNetMauiService manages the two version fields of a single MAUI .csproj:
// ApplicationDisplayVersion, the user-facing version string, and
// ApplicationVersion, a monotonically increasing integer build counter that
// store tooling requires to grow on every release.
type DotNetMauiService struct{}

// CurrentVersion reads only the display version; the build counter is an
// internal detail callers never see through this path
func (DotNetMauiService) CurrentVersion(p *project.Project) (string, error) {
	path := p.DescriptorFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("project file not found: %s: %w", path, err)
	}

	v, ok := firstTagValue(data, "ApplicationDisplayVersion")
	if !ok {
		return "", shipiterrors.NewVersionNotFoundError(path, "expected an <ApplicationDisplayVersion> property")
	}
	return v, nil
}

// UpdateVersion sets the display version to newVersion and bumps the build
// counter by one from its current value. Both substitutions are held in
// memory until validated, so a missing display tag leaves the file untouched.
func (DotNetMauiService) UpdateVersion(p *project.Project, newVersion string) *UpdateResult {
	path := p.DescriptorFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return &UpdateResult{Message: fmt.Sprintf("project file not found: %s", path)}
	}

	content, n := replaceTagValue(data, "ApplicationDisplayVersion", newVersion)
	if n == 0 {
		return &UpdateResult{Message: fmt.Sprintf("no <ApplicationDisplayVersion> property found in %s", p.DescriptorPath)}
	}

	message := fmt.Sprintf("version set to %s in %s", newVersion, p.DescriptorPath)

	// The counter defaults to 1 when present but unparsable. A file without
	// the tag at all simply has no counter to maintain.
	if raw, ok := firstTagValue(data, "ApplicationVersion"); ok {
		counter := 1
		if cur, err := strconv.Atoi(raw); err == nil {
			counter = cur
		}
		next := counter + 1
		content, _ = replaceTagValue(content, "ApplicationVersion", strconv.Itoa(next))
		message += fmt.Sprintf(" (build counter %d -> %d)", counter, next)
	}

	if err := writeDescriptor(path, content); err != nil {
		return &UpdateResult{Message: fmt.Sprintf("failed to write %s: %v", p.DescriptorPath, err)}
	}

	return &UpdateResult{OK: true, Message: message}
}
