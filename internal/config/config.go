package config

import (
	"time"

	"github.com/strongdm/leash-release/internal/domain"
)

// Config is the release tool configuration. Every field can be overridden
// through LEASH_RELEASE_<SECTION>_<FIELD> environment variables and most by flags.
type Config struct {
	Project  string         `koanf:"project"  validate:"required"`
	Binary   string         `koanf:"binary"   validate:"required"`
	Image    string         `koanf:"image"`
	Targets  []string       `koanf:"targets"  validate:"min=1,dive,required"`
	Dist     DistConfig     `koanf:"dist"`
	Npm      NpmConfig      `koanf:"npm"`
	Registry RegistryConfig `koanf:"registry"`
	Releases ReleasesConfig `koanf:"releases"`
}

type DistConfig struct {
	Dir       string `koanf:"dir"        validate:"required"`
	VendorDir string `koanf:"vendor_dir" validate:"required"`
}

type NpmConfig struct {
	Bin         string `koanf:"bin"          validate:"required"`
	PackageRoot string `koanf:"package_root" validate:"required"`
	License     string `koanf:"license"      validate:"required"`
	StageDir    string `koanf:"stage_dir"`
	OutDir      string `koanf:"out_dir"      validate:"required"`
}

type RegistryConfig struct {
	Host            string `koanf:"host"              validate:"required"`
	DockerConfigDir string `koanf:"docker_config_dir"`
}

type ReleasesConfig struct {
	NpmRegistryURL string        `koanf:"npm_registry_url" validate:"required,url"`
	GithubAPIURL   string        `koanf:"github_api_url"   validate:"required,url"`
	GithubToken    string        `koanf:"github_token"`
	Timeout        time.Duration `koanf:"timeout"          validate:"gt=0"`
	Concurrency    int           `koanf:"concurrency"      validate:"min=1,max=16"`
}

// Default returns the layout of the leash repository.
func Default() *Config {
	targets := make([]string, 0, len(domain.DefaultTargets()))
	for _, t := range domain.DefaultTargets() {
		targets = append(targets, t.String())
	}
	return &Config{
		Project: "leash",
		Binary:  "leash",
		Targets: targets,
		Dist: DistConfig{
			Dir:       "dist",
			VendorDir: "dist/npm/vendor",
		},
		Npm: NpmConfig{
			Bin:         "npm",
			PackageRoot: "npm/leash",
			License:     "LICENSE",
			OutDir:      "dist/npm",
		},
		Registry: RegistryConfig{
			Host: "ghcr.io",
		},
		Releases: ReleasesConfig{
			NpmRegistryURL: "https://registry.npmjs.org",
			GithubAPIURL:   "https://api.github.com",
			Timeout:        30 * time.Second,
			Concurrency:    4,
		},
	}
}

// ArchiveTargets parses the configured target matrix.
func (c *Config) ArchiveTargets() ([]domain.ArchiveTarget, error) {
	return domain.ParseTargets(c.Targets)
}
