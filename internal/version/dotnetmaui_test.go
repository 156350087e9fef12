package version_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	shipiterrors "shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/project"
	"shipit.dev/shipit/internal/version"
	"shipit.dev/shipit/testhelpers"
)

func mauiProject(t *testing.T, content string) *project.Project {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Example.csproj"), []byte(content), 0644))
	return &project.Project{
		Name:           "example",
		Ecosystem:      project.DotNetMaui,
		LocalPath:      dir,
		DescriptorPath: "Example.csproj",
	}
}

func TestDotNetMauiCurrentVersion(t *testing.T) {
	t.Run("reads only the display version", func(t *testing.T) {
		p := mauiProject(t, testhelpers.MauiProject("1.2.0", 7))

		v, err := version.DotNetMauiService{}.CurrentVersion(p)
		require.NoError(t, err)
		require.Equal(t, "1.2.0", v)
	})

	t.Run("reports a missing display version tag", func(t *testing.T) {
		p := mauiProject(t, "<Project><PropertyGroup></PropertyGroup></Project>")

		_, err := version.DotNetMauiService{}.CurrentVersion(p)
		require.ErrorIs(t, err, shipiterrors.ErrVersionNotFound)
		require.Contains(t, err.Error(), "ApplicationDisplayVersion")
	})
}

func TestDotNetMauiUpdateVersion(t *testing.T) {
	t.Run("sets the display version and bumps the build counter", func(t *testing.T) {
		p := mauiProject(t, testhelpers.MauiProject("1.2.0", 7))

		res := version.DotNetMauiService{}.UpdateVersion(p, "1.2.1")
		require.True(t, res.OK)

		data, err := os.ReadFile(p.DescriptorFile())
		require.NoError(t, err)
		require.Contains(t, string(data), "<ApplicationDisplayVersion>1.2.1</ApplicationDisplayVersion>")
		require.Contains(t, string(data), "<ApplicationVersion>8</ApplicationVersion>")
		require.Contains(t, res.Message, "7 -> 8")
	})

	t.Run("defaults an unparsable counter to 1", func(t *testing.T) {
		content := `<Project><PropertyGroup>
<ApplicationDisplayVersion>1.0.0</ApplicationDisplayVersion>
<ApplicationVersion>abc</ApplicationVersion>
</PropertyGroup></Project>`
		p := mauiProject(t, content)

		res := version.DotNetMauiService{}.UpdateVersion(p, "1.0.1")
		require.True(t, res.OK)

		data, err := os.ReadFile(p.DescriptorFile())
		require.NoError(t, err)
		require.Contains(t, string(data), "<ApplicationVersion>2</ApplicationVersion>")
	})

	t.Run("leaves the file untouched when the display tag is missing", func(t *testing.T) {
		content := "<Project><PropertyGroup><ApplicationVersion>7</ApplicationVersion></PropertyGroup></Project>"
		p := mauiProject(t, content)

		res := version.DotNetMauiService{}.UpdateVersion(p, "1.0.0")
		require.False(t, res.OK)
		require.Contains(t, res.Message, "ApplicationDisplayVersion")

		data, err := os.ReadFile(p.DescriptorFile())
		require.NoError(t, err)
		require.Equal(t, content, string(data))
	})

	t.Run("preserves formatting and comments around the version tags", func(t *testing.T) {
		p := mauiProject(t, testhelpers.MauiProject("1.2.0", 7))

		res := version.DotNetMauiService{}.UpdateVersion(p, "1.2.1")
		require.True(t, res.OK)

		data, err := os.ReadFile(p.DescriptorFile())
		require.NoError(t, err)
		require.Contains(t, string(data), "<!-- Versions -->")
		require.Contains(t, string(data), "\t<PropertyGroup>")
	})
}
