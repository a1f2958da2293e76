package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageRef(t *testing.T) {
	t.Run("Should return repo twice for references without a tag", func(t *testing.T) {
		for _, image := range []string{"app", "ghcr.io/org/app", "localhost:5000/org/app", "docker.io/library/busybox"} {
			ref, err := ParseImageRef(image)
			require.NoError(t, err)
			assert.Equal(t, ImageRef{Repository: image, Default: image}, ref)
		}
	})

	t.Run("Should split on the last colon when a tag is present", func(t *testing.T) {
		ref, err := ParseImageRef("ghcr.io/org/app:latest")
		require.NoError(t, err)
		assert.Equal(t, "ghcr.io/org/app", ref.Repository)
		assert.Equal(t, "ghcr.io/org/app:latest", ref.Default)

		ref, err = ParseImageRef("localhost:5000/app:v1")
		require.NoError(t, err)
		assert.Equal(t, "localhost:5000/app", ref.Repository)
	})

	t.Run("Should keep digest references byte-identical", func(t *testing.T) {
		images := []string{
			"ghcr.io/org/app@sha256:0123456789abcdef",
			"ghcr.io/org/app:1.0@sha256:0123456789abcdef",
		}
		for _, image := range images {
			ref, err := ParseImageRef(image)
			require.NoError(t, err)
			assert.Equal(t, image, ref.Default)
			assert.Equal(t, image[:strings.Index(image, "@")], ref.Repository)
		}
	})

	t.Run("Should accept an empty tag or an empty repository part as given", func(t *testing.T) {
		ref, err := ParseImageRef("app:")
		require.NoError(t, err)
		assert.Equal(t, ImageRef{Repository: "app", Default: "app"}, ref)

		ref, err = ParseImageRef(":latest")
		require.NoError(t, err)
		assert.Equal(t, ImageRef{Repository: ":latest", Default: ":latest"}, ref)

		res, err := ComputeTags(TagRequest{Image: "app:"}, NewGitState("main", "abc1234", false))
		require.NoError(t, err)
		assert.Equal(t, []string{"app:dev-abc1234", "app"}, res.Tags.List())
		assert.NotContains(t, res.Tags.List(), "app:")
	})

	t.Run("Should fail for an empty image or a digest without repository", func(t *testing.T) {
		for _, image := range []string{"", "@sha256:abc"} {
			_, err := ParseImageRef(image)
			require.Error(t, err, "image %q", image)
			assert.True(t, IsCode(err, ErrCodeInvalidArgument))
		}
	})
}

func TestTagSet(t *testing.T) {
	t.Run("Should keep first insertion position and drop duplicates and empties", func(t *testing.T) {
		var set TagSet
		assert.True(t, set.Append("a"))
		assert.False(t, set.Append(""))
		assert.True(t, set.Append("b"))
		assert.False(t, set.Append("a"))
		assert.True(t, set.Append("c"))

		assert.Equal(t, []string{"a", "b", "c"}, set.List())
		assert.Equal(t, "a b c", set.String())
		assert.Equal(t, "-t a -t b -t c", set.Args())
		assert.Equal(t, 3, set.Len())
	})
}

func TestComputeTags(t *testing.T) {
	clean := NewGitState("main", "abc1234", false)

	t.Run("Should compute tags for a release on main", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app:latest", Version: "1.2.3"}, clean)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"ghcr.io/org/app:1.2.3",
			"ghcr.io/org/app:dev-abc1234",
			"ghcr.io/org/app:latest",
		}, res.Tags.List())
		assert.Equal(t, "", res.BranchTag)
		assert.Equal(t, "main", res.Channel)
		assert.Equal(t, "abc1234", res.Commit)
		assert.Equal(t, "ghcr.io/org/app:1.2.3", res.VersionTag)
	})

	t.Run("Should add a branch dev tag right after the plain dev tag", func(t *testing.T) {
		state := NewGitState("Feature/X!", "abc1234", false)
		res, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app:latest", Version: "1.2.3"}, state)
		require.NoError(t, err)

		assert.Equal(t, "feature-x", res.Channel)
		assert.Equal(t, "ghcr.io/org/app:dev-abc1234-feature-x", res.BranchTag)
		assert.Equal(t, []string{
			"ghcr.io/org/app:1.2.3",
			"ghcr.io/org/app:dev-abc1234",
			"ghcr.io/org/app:dev-abc1234-feature-x",
			"ghcr.io/org/app:latest",
		}, res.Tags.List())
	})

	t.Run("Should omit the default tag when it is repo:main", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app:main"}, clean)
		require.NoError(t, err)

		assert.Equal(t, []string{"ghcr.io/org/app:dev-abc1234"}, res.Tags.List())
		assert.Equal(t, "ghcr.io/org/app:main", res.DefaultTag)
	})

	t.Run("Should not emit an empty version tag", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app"}, clean)
		require.NoError(t, err)

		assert.Empty(t, res.VersionTag)
		assert.NotContains(t, strings.Fields(res.Tags.String()), "ghcr.io/org/app:")
		assert.Equal(t, []string{"ghcr.io/org/app:dev-abc1234", "ghcr.io/org/app"}, res.Tags.List())
	})

	t.Run("Should dedup a version equal to the default tag at its first position", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app:1.2.3", Version: "1.2.3"}, clean)
		require.NoError(t, err)

		assert.Equal(t, []string{"ghcr.io/org/app:1.2.3", "ghcr.io/org/app:dev-abc1234"}, res.Tags.List())
	})

	t.Run("Should append trimmed extra tags in order", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{
			Image:     "ghcr.io/org/app:latest",
			ExtraTags: []string{" docker.io/org/app:edge ", "", "ghcr.io/org/app:latest", "docker.io/org/app:x"},
		}, clean)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"ghcr.io/org/app:dev-abc1234",
			"ghcr.io/org/app:latest",
			"docker.io/org/app:edge",
			"docker.io/org/app:x",
		}, res.Tags.List())
	})

	t.Run("Should keep the non-extra prefix stable regardless of extra order", func(t *testing.T) {
		extras := []string{"r/a:1", "r/b:2", "r/c:3"}
		reversed := []string{"r/c:3", "r/b:2", "r/a:1"}
		a, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app:latest", Version: "v1", ExtraTags: extras}, clean)
		require.NoError(t, err)
		b, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app:latest", Version: "v1", ExtraTags: reversed}, clean)
		require.NoError(t, err)

		assert.Equal(t, a.Tags.List()[:3], b.Tags.List()[:3])
		assert.ElementsMatch(t, a.Tags.List(), b.Tags.List())
	})

	t.Run("Should use the dirty suffix in dev tags", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{Image: "app"}, NewGitState("main", "abc1234", true))
		require.NoError(t, err)

		assert.Equal(t, "app:dev-abc1234-dirty", res.DevTag)
		assert.Equal(t, "abc1234-dirty", res.Commit)
	})

	t.Run("Should fail on an empty image", func(t *testing.T) {
		_, err := ComputeTags(TagRequest{}, clean)
		assert.True(t, IsCode(err, ErrCodeInvalidArgument))
	})
}

func TestTagResult_ShellAssignments(t *testing.T) {
	t.Run("Should emit every key in order with quoted values", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{Image: "ghcr.io/org/app:main", Version: "1.2.3"}, NewGitState("main", "abc1234", false))
		require.NoError(t, err)

		lines, err := res.ShellAssignments()
		require.NoError(t, err)
		require.Len(t, lines, 8)

		assert.Equal(t, "CHANNEL_NAME=main", lines[0])
		assert.Equal(t, "COMMIT=abc1234", lines[1])
		assert.Equal(t, "BRANCH_TAG=''", lines[3])
		assert.Equal(t, "TAG_LIST='ghcr.io/org/app:1.2.3 ghcr.io/org/app:dev-abc1234'", lines[5])
		assert.Equal(t, "TAG_ARGS='-t ghcr.io/org/app:1.2.3 -t ghcr.io/org/app:dev-abc1234'", lines[6])
		assert.True(t, strings.HasPrefix(lines[7], "VERSION_TAG_FULL="))
	})

	t.Run("Should expose the same values as a map", func(t *testing.T) {
		res, err := ComputeTags(TagRequest{Image: "app:latest"}, DefaultGitState())
		require.NoError(t, err)

		m := res.Map()
		assert.Len(t, m, 8)
		assert.Equal(t, "app:dev-unknown app:latest", m[KeyTagList])
		assert.Equal(t, "", m[KeyVersionTagFull])
	})
}
