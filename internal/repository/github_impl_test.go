package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strongdm/leash-release/internal/domain"
)

func TestGithubReleaseRepository_LatestRelease(t *testing.T) {
	t.Run("Should map the latest release and send the token", func(t *testing.T) {
		var gotPath, gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"tag_name": "rust-v0.40.0",
				"name": "0.40.0",
				"published_at": "2025-09-20T12:34:56Z",
				"html_url": "https://github.com/openai/codex/releases/tag/rust-v0.40.0",
				"draft": false,
				"prerelease": true
			}`))
		}))
		defer srv.Close()

		repo, err := NewGithubReleaseRepository(HTTPOptions{BaseURL: srv.URL, Token: "ghp_test"})
		require.NoError(t, err)
		rel, err := repo.LatestRelease(context.Background(), "openai/codex")
		require.NoError(t, err)

		assert.Equal(t, "/repos/openai/codex/releases/latest", gotPath)
		assert.Equal(t, "Bearer ghp_test", gotAuth)
		assert.Equal(t, "openai/codex", rel.Repo)
		require.NotNil(t, rel.TagName)
		assert.Equal(t, "rust-v0.40.0", *rel.TagName)
		require.NotNil(t, rel.PublishedAt)
		assert.Equal(t, "2025-09-20T12:34:56Z", *rel.PublishedAt)
		require.NotNil(t, rel.Prerelease)
		assert.True(t, *rel.Prerelease)
		require.NotNil(t, rel.Draft)
		assert.False(t, *rel.Draft)
	})

	t.Run("Should not send credentials without a token", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"tag_name":"v1.0.0"}`))
		}))
		defer srv.Close()

		repo, err := NewGithubReleaseRepository(HTTPOptions{BaseURL: srv.URL})
		require.NoError(t, err)
		rel, err := repo.LatestRelease(context.Background(), "sst/opencode")
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
		assert.Nil(t, rel.PublishedAt)
	})

	t.Run("Should surface HTTP errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}))
		defer srv.Close()

		repo, err := NewGithubReleaseRepository(HTTPOptions{BaseURL: srv.URL})
		require.NoError(t, err)
		_, err = repo.LatestRelease(context.Background(), "QwenLM/qwen-code")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Should reject malformed repository names", func(t *testing.T) {
		repo, err := NewGithubReleaseRepository(HTTPOptions{})
		require.NoError(t, err)
		for _, name := range []string{"", "openai", "/codex", "openai/", "a/b/c"} {
			_, err := repo.LatestRelease(context.Background(), name)
			assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidArgument), "name %q", name)
		}
	})
}
