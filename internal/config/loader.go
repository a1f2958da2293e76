package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "LEASH_RELEASE_"

// Environment variables read without the prefix, in precedence order.
var tokenEnvVars = []string{"GITHUB_TOKEN", "CODER_RELEASES_GITHUB_TOKEN"}

const dockerConfigEnvVar = "DOCKER_CONFIG"

// LoadConfig loads defaults and then the process environment.
func LoadConfig() (*Config, error) {
	return Load(os.Environ)
}

// Load is LoadConfig with an injectable environment, as returned by os.Environ.
func Load(environ func() []string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc:   environ,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if cfg.Releases.GithubToken == "" {
		cfg.Releases.GithubToken = lookupFirst(environ(), tokenEnvVars)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks struct constraints and the target matrix.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if _, err := cfg.ArchiveTargets(); err != nil {
		return err
	}
	return nil
}

// transformEnv maps LEASH_RELEASE_NPM_PACKAGE_ROOT to npm.package_root. Unprefixed
// variables are dropped except DOCKER_CONFIG.
func transformEnv(key, value string) (string, any) {
	if key == dockerConfigEnvVar {
		return "registry.docker_config_dir", value
	}
	rest, ok := strings.CutPrefix(key, EnvPrefix)
	if !ok {
		return "", nil
	}
	path := transformEnvKey(rest)
	if path == "targets" {
		return path, splitList(value)
	}
	return path, value
}

// transformEnvKey converts SECTION_FIELD_NAME to section.field_name.
func transformEnvKey(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_'
	})
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + "." + strings.Join(parts[1:], "_")
	}
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func lookupFirst(environ []string, names []string) string {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}
	for _, name := range names {
		if v := strings.TrimSpace(values[name]); v != "" {
			return v
		}
	}
	return ""
}
