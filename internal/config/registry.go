// Package config manages the project registry: the YAML file that records
// every project shipit can prepare releases for. The registry is the
// CLI-native stand-in for the project storage of the surrounding automation
// (an external collaborator of this tool).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"shipit.dev/shipit/internal/project"
)

// EnvConfigPath overrides the registry location when set
const EnvConfigPath = "SHIPIT_CONFIG"

// Registry is the on-disk project list
type Registry struct {
	Projects []project.Project `yaml:"projects"`
}

// DefaultPath returns the registry path: $SHIPIT_CONFIG when set, otherwise
// ~/.config/shipit/projects.yaml
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".shipit", "projects.yaml")
	}
	return filepath.Join(home, ".config", "shipit", "projects.yaml")
}

// Load reads the registry at path. A missing file is an empty registry, not
// an error; a present but invalid file is.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i := range reg.Projects {
		if err := validate(&reg.Projects[i]); err != nil {
			return nil, fmt.Errorf("%s: project %q: %w", path, reg.Projects[i].Name, err)
		}
	}
	return &reg, nil
}

// Save writes the registry to path, creating parent directories as needed
func (r *Registry) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Find returns the project with the given name
func (r *Registry) Find(name string) (*project.Project, bool) {
	for i := range r.Projects {
		if r.Projects[i].Name == name {
			return &r.Projects[i], true
		}
	}
	return nil, false
}

// Add inserts or replaces a project by name
func (r *Registry) Add(p project.Project) error {
	if err := validate(&p); err != nil {
		return err
	}
	for i := range r.Projects {
		if r.Projects[i].Name == p.Name {
			r.Projects[i] = p
			return nil
		}
	}
	r.Projects = append(r.Projects, p)
	return nil
}

// Remove deletes a project by name; it reports whether anything was removed
func (r *Registry) Remove(name string) bool {
	for i := range r.Projects {
		if r.Projects[i].Name == name {
			r.Projects = append(r.Projects[:i], r.Projects[i+1:]...)
			return true
		}
	}
	return false
}

// validate checks the fields the pipeline relies on
func validate(p *project.Project) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := project.ParseEcosystem(string(p.Ecosystem)); err != nil {
		return err
	}
	if p.GitURL == "" {
		return fmt.Errorf("git_url is required")
	}
	if p.DevBranch == "" || p.ReleaseBranch == "" {
		return fmt.Errorf("dev_branch and release_branch are required")
	}
	if p.LocalPath == "" {
		return fmt.Errorf("local_path is required")
	}
	return nil
}
