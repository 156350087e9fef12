// Package project defines the project record shared by the version
// strategies, the git layer and the release pipeline.
package project

import (
	"fmt"
	"path/filepath"
)

// Ecosystem identifies the build system a project belongs to.
type Ecosystem string

const (
	// Flutter projects keep their version in pubspec.yaml
	Flutter Ecosystem = "flutter"
	// DotNetMaui projects keep their version in a single .csproj
	DotNetMaui Ecosystem = "dotnet-maui"
	// Xamarin projects spread their version across platform-suffixed .csproj files
	Xamarin Ecosystem = "xamarin"
)

// ParseEcosystem converts a configuration string into an Ecosystem
func ParseEcosystem(s string) (Ecosystem, error) {
	switch Ecosystem(s) {
	case Flutter, DotNetMaui, Xamarin:
		return Ecosystem(s), nil
	}
	return "", fmt.Errorf("unknown ecosystem %q (expected flutter, dotnet-maui or xamarin)", s)
}

// Project describes one release target: where its repository lives, which
// branches participate in a release, and where its build descriptor sits.
//
// LocalPath is either absent (the pipeline clones into it) or a valid git
// working copy. DescriptorPath is relative to LocalPath; for Xamarin it
// names the directory to scan rather than a single file.
type Project struct {
	Name           string    `yaml:"name"`
	Ecosystem      Ecosystem `yaml:"ecosystem"`
	GitURL         string    `yaml:"git_url"`
	DevBranch      string    `yaml:"dev_branch"`
	ReleaseBranch  string    `yaml:"release_branch"`
	LocalPath      string    `yaml:"local_path"`
	DescriptorPath string    `yaml:"descriptor_path,omitempty"`
}

// DescriptorFile returns the absolute path of the project descriptor
func (p *Project) DescriptorFile() string {
	return filepath.Join(p.LocalPath, p.DescriptorPath)
}
