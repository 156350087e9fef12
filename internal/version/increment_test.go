package version_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/version"
)

func TestIncrement(t *testing.T) {
	t.Run("patch bumps only the patch component", func(t *testing.T) {
		require.Equal(t, "1.2.4", version.Increment("1.2.3", version.IncrementPatch))
		require.Equal(t, "0.0.1", version.Increment("0.0.0", version.IncrementPatch))
	})

	t.Run("minor zeroes patch", func(t *testing.T) {
		require.Equal(t, "1.3.0", version.Increment("1.2.3", version.IncrementMinor))
	})

	t.Run("major zeroes minor and patch", func(t *testing.T) {
		require.Equal(t, "2.0.0", version.Increment("1.2.3", version.IncrementMajor))
	})

	t.Run("patch is the default for unknown kinds", func(t *testing.T) {
		require.Equal(t, "1.2.4", version.Increment("1.2.3", ""))
		require.Equal(t, "1.2.4", version.Increment("1.2.3", "hotfix"))
	})

	t.Run("build suffix is stripped before incrementing", func(t *testing.T) {
		require.Equal(t, "1.2.4", version.Increment("1.2.3+7", version.IncrementPatch))
		require.Equal(t, "2.0.0", version.Increment("1.2.3+7", version.IncrementMajor))
	})

	t.Run("two-part versions are padded with a zero patch", func(t *testing.T) {
		require.Equal(t, "1.1.0", version.Increment("1.0", version.IncrementMinor))
		require.Equal(t, "1.0.1", version.Increment("1.0", version.IncrementPatch))
	})

	t.Run("malformed input falls back to appending .1", func(t *testing.T) {
		require.Equal(t, "v1.1", version.Increment("v1", version.IncrementPatch))
		require.Equal(t, "1.0.0.0.0.1", version.Increment("1.0.0.0.0", version.IncrementPatch))
		require.Equal(t, "1.x.3.1", version.Increment("1.x.3", version.IncrementPatch))
		require.Equal(t, ".1", version.Increment("", version.IncrementPatch))
	})
}
