package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveTarget(t *testing.T) {
	t.Run("Should expose the reference matrix in order", func(t *testing.T) {
		targets := DefaultTargets()
		require.Len(t, targets, 4)
		assert.Equal(t, "darwin/amd64", targets[0].String())
		assert.Equal(t, "linux/arm64", targets[3].String())
	})

	t.Run("Should build archive globs and vendor paths", func(t *testing.T) {
		linux := ArchiveTarget{OS: "linux", Arch: "amd64", VendorTriple: "linux-amd64"}
		windows := ArchiveTarget{OS: "windows", Arch: "amd64", VendorTriple: "win32-x64"}

		assert.Equal(t, "leash_*_linux_amd64.tar.gz", linux.ArchiveGlob("leash"))
		assert.Equal(t, "linux-amd64/leash", linux.VendorBinary("leash"))
		assert.Equal(t, "win32-x64/leash.exe", windows.VendorBinary("leash"))
	})
}

func TestParseTargets(t *testing.T) {
	t.Run("Should parse targets with default and explicit triples", func(t *testing.T) {
		targets, err := ParseTargets([]string{"linux/amd64", " darwin/arm64=darwin-universal ", ""})
		require.NoError(t, err)
		assert.Equal(t, []ArchiveTarget{
			{OS: "linux", Arch: "amd64", VendorTriple: "linux-amd64"},
			{OS: "darwin", Arch: "arm64", VendorTriple: "darwin-universal"},
		}, targets)
	})

	t.Run("Should reject malformed, duplicate and empty lists", func(t *testing.T) {
		bad := [][]string{
			{"linux"},
			{"/amd64"},
			{"linux/amd64/v2"},
			{"linux/amd64=../escape"},
			{"linux/amd64", "linux/amd64=other"},
			{},
		}
		for _, specs := range bad {
			_, err := ParseTargets(specs)
			require.Error(t, err, "specs %v", specs)
			assert.True(t, IsCode(err, ErrCodeInvalidArgument))
		}
	})
}
