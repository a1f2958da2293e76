package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strongdm/leash-release/internal/domain"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults with an empty environment", func(t *testing.T) {
		cfg, err := Load(environ())
		require.NoError(t, err)

		assert.Equal(t, Default(), cfg)
		targets, err := cfg.ArchiveTargets()
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTargets(), targets)
	})

	t.Run("Should apply prefixed environment overrides", func(t *testing.T) {
		cfg, err := Load(environ(
			"LEASH_RELEASE_NPM_BIN=corepack npm",
			"LEASH_RELEASE_NPM_PACKAGE_ROOT=packages/leash",
			"LEASH_RELEASE_DIST_VENDOR_DIR=out/vendor",
			"LEASH_RELEASE_PROJECT=leash-ci",
			"LEASH_RELEASE_RELEASES_TIMEOUT=45s",
			"LEASH_RELEASE_RELEASES_CONCURRENCY=2",
			"LEASH_RELEASE_TARGETS=linux/amd64, windows/arm64=win-arm64",
			"UNRELATED=ignored",
		))
		require.NoError(t, err)

		assert.Equal(t, "corepack npm", cfg.Npm.Bin)
		assert.Equal(t, "packages/leash", cfg.Npm.PackageRoot)
		assert.Equal(t, "out/vendor", cfg.Dist.VendorDir)
		assert.Equal(t, "leash-ci", cfg.Project)
		assert.Equal(t, 45*time.Second, cfg.Releases.Timeout)
		assert.Equal(t, 2, cfg.Releases.Concurrency)
		assert.Equal(t, []string{"linux/amd64", "windows/arm64=win-arm64"}, cfg.Targets)
	})

	t.Run("Should prefer GITHUB_TOKEN over the releases token", func(t *testing.T) {
		cfg, err := Load(environ("CODER_RELEASES_GITHUB_TOKEN=fallback", "GITHUB_TOKEN=primary"))
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.Releases.GithubToken)

		cfg, err = Load(environ("CODER_RELEASES_GITHUB_TOKEN=fallback"))
		require.NoError(t, err)
		assert.Equal(t, "fallback", cfg.Releases.GithubToken)
	})

	t.Run("Should read DOCKER_CONFIG into the registry section", func(t *testing.T) {
		cfg, err := Load(environ("DOCKER_CONFIG=/ci/docker"))
		require.NoError(t, err)
		assert.Equal(t, "/ci/docker", cfg.Registry.DockerConfigDir)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		for _, kv := range []string{
			"LEASH_RELEASE_RELEASES_CONCURRENCY=0",
			"LEASH_RELEASE_RELEASES_NPM_REGISTRY_URL=not a url",
			"LEASH_RELEASE_TARGETS=linux",
			"LEASH_RELEASE_NPM_BIN=",
		} {
			_, err := Load(environ(kv))
			assert.Error(t, err, kv)
		}
	})

	t.Run("Should load from the process environment", func(t *testing.T) {
		t.Setenv("LEASH_RELEASE_REGISTRY_HOST", "registry.example.com:5000")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "registry.example.com:5000", cfg.Registry.Host)
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should map sections and multi-word fields", func(t *testing.T) {
		assert.Equal(t, "npm.package_root", transformEnvKey("NPM_PACKAGE_ROOT"))
		assert.Equal(t, "project", transformEnvKey("PROJECT"))
		assert.Equal(t, "dist.dir", transformEnvKey("_DIST__DIR_"))
		assert.Equal(t, "", transformEnvKey("__"))
	})
}

func TestValidate(t *testing.T) {
	t.Run("Should reject a nil configuration", func(t *testing.T) {
		assert.Error(t, Validate(nil))
	})

	t.Run("Should reject duplicate targets", func(t *testing.T) {
		cfg := Default()
		cfg.Targets = []string{"linux/amd64", "linux/amd64"}
		err := Validate(cfg)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidArgument))
	})
}
