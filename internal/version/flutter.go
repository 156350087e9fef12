package version

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	shipiterrors "shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/project"
)

// flutterVersionLine matches the version line of a pubspec.yaml, anchored at
// line start. The optional "+N" build suffix is part of the captured version.
var flutterVersionLine = regexp.MustCompile(`(?m)^version:\s+(\d+\.\d+\.\d+(?:\+\d+)?).*$`)

// FlutterService manages the version line of a pubspec.yaml.
//
// The file is treated as plain text rather than parsed YAML: only the
// anchored version line is rewritten and every other byte is preserved.
type FlutterService struct{}

// CurrentVersion returns the version from the first matching version line
func (FlutterService) CurrentVersion(p *project.Project) (string, error) {
	path := p.DescriptorFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("project file not found: %s: %w", path, err)
	}

	m := flutterVersionLine.FindSubmatch(data)
	if m == nil {
		return "", shipiterrors.NewVersionNotFoundError(path, `expected a line like "version: 1.2.3" or "version: 1.2.3+4"`)
	}
	return string(m[1]), nil
}

// UpdateVersion rewrites the first version line to carry newVersion
func (FlutterService) UpdateVersion(p *project.Project, newVersion string) *UpdateResult {
	path := p.DescriptorFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return &UpdateResult{Message: fmt.Sprintf("project file not found: %s", path)}
	}

	loc := flutterVersionLine.FindIndex(data)
	if loc == nil {
		return &UpdateResult{Message: fmt.Sprintf("no version line found in %s", p.DescriptorPath)}
	}

	var buf bytes.Buffer
	buf.Write(data[:loc[0]])
	buf.WriteString("version: " + newVersion)
	buf.Write(data[loc[1]:])

	if err := writeDescriptor(path, buf.Bytes()); err != nil {
		return &UpdateResult{Message: fmt.Sprintf("failed to write %s: %v", p.DescriptorPath, err)}
	}

	return &UpdateResult{
		OK:      true,
		Message: fmt.Sprintf("version set to %s in %s", newVersion, p.DescriptorPath),
	}
}

// writeDescriptor writes updated descriptor content back, keeping the
// original file mode when the file already exists
func writeDescriptor(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, data, mode)
}
