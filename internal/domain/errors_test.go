package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Should carry code, context and cause through wrapping", func(t *testing.T) {
		cause := errors.New("boom")
		target := ArchiveTarget{OS: "linux", Arch: "amd64", VendorTriple: "linux-amd64"}
		err := NewErrorf(ErrCodeAmbiguousArchive, "multiple archives for %s", target).
			WithTarget(target).
			WithPath("dist").
			WithFound("1 archive", "a.tar.gz", "b.tar.gz").
			Wrap(cause)
		wrapped := fmt.Errorf("collect: %w", err)

		assert.True(t, IsCode(wrapped, ErrCodeAmbiguousArchive))
		assert.False(t, IsCode(wrapped, ErrCodeArchiveNotFound))
		assert.Equal(t, CategoryAmbiguity, CategoryOf(wrapped))
		assert.ErrorIs(t, wrapped, cause)
		assert.ErrorIs(t, wrapped, Sentinel(ErrCodeAmbiguousArchive))
		assert.Equal(t, "multiple archives for linux/amd64: boom", err.Error())
		assert.Equal(t, "linux/amd64", err.Target)
		assert.Equal(t, []string{"a.tar.gz", "b.tar.gz"}, err.Found)
	})

	t.Run("Should map codes to categories", func(t *testing.T) {
		assert.Equal(t, CategorySafety, ErrCodeUnsafeArchivePath.Category())
		assert.Equal(t, CategoryExternalTool, ErrCodePackToolFailed.Category())
		assert.Equal(t, CategoryPrecondition, ErrCodeLicenseMissing.Category())
		assert.Equal(t, CategoryInput, ErrCodeInvalidArgument.Category())
		assert.Equal(t, Category(""), CategoryOf(errors.New("plain")))
	})
}

func TestTruncate(t *testing.T) {
	t.Run("Should leave short text untouched apart from trimming", func(t *testing.T) {
		assert.Equal(t, "short", TruncateDiagnostic("  short \n"))
	})

	t.Run("Should cap long text at the limit", func(t *testing.T) {
		long := strings.Repeat("x", 2000)
		got := TruncateDiagnostic(long)
		assert.Len(t, got, MaxDiagnosticLength)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("Should not split multi-byte characters at the cut", func(t *testing.T) {
		long := strings.Repeat("é", 1500)
		got := TruncateDiagnostic(long)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), MaxDiagnosticLength)
		assert.True(t, strings.HasSuffix(got, "..."))

		assert.Equal(t, "日...", Truncate("日本語", 6))
		assert.Equal(t, "日...", Truncate("日本語", 7))
		assert.Equal(t, "...", Truncate("日本語", 5))
		assert.Equal(t, "", Truncate("日本語", 2))
	})
}
