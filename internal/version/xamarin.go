package version

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	shipiterrors "shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/project"
)

// Platform is the target platform a Xamarin project file is scoped to
type Platform string

const (
	// PlatformAndroid covers .Android.csproj and .Droid.csproj files
	PlatformAndroid Platform = "android"
	// PlatformIOS covers .iOS.csproj files
	PlatformIOS Platform = "ios"
	// PlatformOther covers Windows-family files, discovered but never written
	PlatformOther Platform = "other"
)

// platformSuffixes maps the fixed filename suffixes to platform kinds.
// Discovery matches these verbatim; order within the slice only matters for
// files that somehow carry two suffixes, which does not happen in practice.
var platformSuffixes = []struct {
	suffix   string
	platform Platform
}{
	{".Android.csproj", PlatformAndroid},
	{".Droid.csproj", PlatformAndroid},
	{".iOS.csproj", PlatformIOS},
	{".UWP.csproj", PlatformOther},
	{".WinPhone.csproj", PlatformOther},
}

// PlatformDescriptor is one platform project file discovered in the working copy
type PlatformDescriptor struct {
	Path     string
	Platform Platform
}

// XamarinService manages versions spread across platform-suffixed .csproj
// files. Each file is updated independently and the aggregate succeeds when
// at least one file could be written; a project that only targets Android is
// not penalized for its missing iOS descriptor.
type XamarinService struct{}

// DiscoverPlatformFiles walks the working copy collecting every platform
// project file. Hidden directories (and .git in particular) are skipped.
// The returned order is the filesystem walk order and is deterministic.
func DiscoverPlatformFiles(root string) ([]PlatformDescriptor, error) {
	var found []PlatformDescriptor
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, s := range platformSuffixes {
			if strings.HasSuffix(d.Name(), s.suffix) {
				found = append(found, PlatformDescriptor{Path: path, Platform: s.platform})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// CurrentVersion returns the first version found across the discovered files
// in walk order. iOS files fall back to CFBundleShortVersionString when they
// carry no ApplicationVersion property.
func (XamarinService) CurrentVersion(p *project.Project) (string, error) {
	root := p.LocalPath
	files, err := DiscoverPlatformFiles(root)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if len(files) == 0 {
		return "", shipiterrors.NewNoPlatformFilesError(root)
	}

	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			continue
		}
		if v, ok := firstTagValue(data, "ApplicationVersion"); ok {
			return v, nil
		}
		if f.Platform == PlatformIOS {
			if v, ok := firstTagValue(data, "CFBundleShortVersionString"); ok {
				return v, nil
			}
		}
	}

	// Platform files exist but none carries a version tag; callers get a
	// different diagnosis than for an empty working copy.
	return "", shipiterrors.NewVersionNotFoundError(root,
		"expected <ApplicationVersion> (or <CFBundleShortVersionString> for iOS) in a platform project file")
}

// UpdateVersion writes newVersion into every discovered platform file. Each
// file's outcome is recorded independently and the aggregate succeeds as soon
// as one file was updated; it fails only when zero files could be written.
func (XamarinService) UpdateVersion(p *project.Project, newVersion string) *UpdateResult {
	root := p.LocalPath
	files, err := DiscoverPlatformFiles(root)
	if err != nil {
		return &UpdateResult{Message: fmt.Sprintf("failed to scan %s: %v", root, err)}
	}
	if len(files) == 0 {
		return &UpdateResult{Message: fmt.Sprintf(
			"no platform project files found under %s (expected files ending in .Android.csproj, .Droid.csproj, .iOS.csproj, .UWP.csproj or .WinPhone.csproj)", root)}
	}

	outcomes := make([]FileOutcome, 0, len(files))
	for _, f := range files {
		outcomes = append(outcomes, updatePlatformFile(root, f, newVersion))
	}

	result := &UpdateResult{Files: outcomes}
	var lines []string
	for _, o := range outcomes {
		result.OK = result.OK || o.Updated
		marker := "updated"
		if !o.Updated {
			marker = "skipped"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", marker, o.Path, o.Detail))
	}
	result.Message = strings.Join(lines, "\n")
	return result
}

// updatePlatformFile applies the platform-specific tag writes to one file
func updatePlatformFile(root string, f PlatformDescriptor, newVersion string) FileOutcome {
	rel, err := filepath.Rel(root, f.Path)
	if err != nil {
		rel = f.Path
	}
	outcome := FileOutcome{Path: rel, Platform: f.Platform}

	if f.Platform == PlatformOther {
		outcome.Detail = "no version tags maintained for this platform"
		return outcome
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		outcome.Detail = fmt.Sprintf("read failed: %v", err)
		return outcome
	}

	var content []byte
	var detail string
	switch f.Platform {
	case PlatformAndroid:
		content, detail = updateAndroidContent(data, newVersion)
	case PlatformIOS:
		content, detail = updateIOSContent(data, newVersion)
	}
	if content == nil {
		outcome.Detail = detail
		return outcome
	}

	if err := writeDescriptor(f.Path, content); err != nil {
		outcome.Detail = fmt.Sprintf("write failed: %v", err)
		return outcome
	}

	outcome.Updated = true
	outcome.Detail = detail
	return outcome
}

// updateAndroidContent sets ApplicationVersion and derives AndroidVersionCode
// as major*10000 + minor*100 + patch. The derived write is skipped with a
// warning when the requested version is not three integers; the primary write
// still proceeds.
func updateAndroidContent(data []byte, newVersion string) ([]byte, string) {
	content, n := replaceTagValue(data, "ApplicationVersion", newVersion)
	if n == 0 {
		return nil, "no <ApplicationVersion> property found"
	}

	detail := fmt.Sprintf("version set to %s", newVersion)
	if code, ok := androidVersionCode(newVersion); ok {
		var codes int
		content, codes = replaceTagValue(content, "AndroidVersionCode", strconv.Itoa(code))
		if codes > 0 {
			detail += fmt.Sprintf(", version code %d", code)
		}
	} else {
		detail += fmt.Sprintf("; warning: AndroidVersionCode left unchanged, %q is not MAJOR.MINOR.PATCH", newVersion)
	}
	return content, detail
}

// updateIOSContent sets every known iOS version property verbatim
func updateIOSContent(data []byte, newVersion string) ([]byte, string) {
	content := data
	total := 0
	for _, tag := range []string{"ApplicationVersion", "CFBundleVersion", "CFBundleShortVersionString"} {
		var n int
		content, n = replaceTagValue(content, tag, newVersion)
		total += n
	}
	if total == 0 {
		return nil, "no <ApplicationVersion>, <CFBundleVersion> or <CFBundleShortVersionString> property found"
	}
	return content, fmt.Sprintf("version set to %s", newVersion)
}

// androidVersionCode derives the integer version code from a three-part
// version. The second return is false when the version does not parse into
// exactly three integers.
func androidVersionCode(version string) (int, bool) {
	base, _, _ := strings.Cut(version, "+")
	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return 0, false
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, false
		}
		nums[i] = n
	}
	return nums[0]*10000 + nums[1]*100 + nums[2], true
}
