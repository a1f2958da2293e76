package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/pkg/logger"
	"github.com/tidwall/gjson"
)

// RegistryLoginResult reports whether a docker config carries credentials for a registry.
type RegistryLoginResult struct {
	ConfigPath string `json:"config_path"`
	Registry   string `json:"registry"`
	LoggedIn   bool   `json:"logged_in"`
	Reason     string `json:"reason"`
}

// CheckRegistryLoginUseCase inspects a docker config.json for registry credentials.
type CheckRegistryLoginUseCase struct {
	FsRepo   repository.FileSystemRepository
	Registry string
}

// DockerConfigPath returns <dockerConfigDir>/config.json, or ~/.docker/config.json
// when dockerConfigDir is empty.
func DockerConfigPath(dockerConfigDir, home string) string {
	if dockerConfigDir != "" {
		return filepath.Join(dockerConfigDir, "config.json")
	}
	return filepath.Join(home, ".docker", "config.json")
}

// Execute runs the use case. An unreadable or invalid config means not logged in.
func (uc *CheckRegistryLoginUseCase) Execute(ctx context.Context, configPath string) RegistryLoginResult {
	res := RegistryLoginResult{ConfigPath: configPath, Registry: uc.Registry}
	log := logger.FromContext(ctx)

	data, err := afero.ReadFile(uc.FsRepo, configPath)
	if err != nil {
		log.Debug("Docker config not readable", "path", configPath, "err", err)
		res.Reason = "config not readable"
		return res
	}
	if !gjson.ValidBytes(data) {
		res.Reason = "config is not valid JSON"
		return res
	}
	doc := gjson.ParseBytes(data)
	for _, section := range []string{"auths", "credHelpers"} {
		if mentionsRegistry(doc.Get(section), uc.Registry) {
			res.LoggedIn = true
			res.Reason = "credentials found in " + section
			return res
		}
	}
	for _, key := range []string{"credsStore", "credStore"} {
		if v := doc.Get(key); v.Exists() && v.Type != gjson.Null && v.String() != "" && v.Type != gjson.False {
			res.LoggedIn = true
			res.Reason = "credential store " + v.String() + " configured"
			return res
		}
	}
	res.Reason = "no credentials for " + uc.Registry
	return res
}

func mentionsRegistry(section gjson.Result, registry string) bool {
	if !section.IsObject() || registry == "" {
		return false
	}
	found := false
	section.ForEach(func(key, _ gjson.Result) bool {
		if strings.Contains(key.String(), registry) {
			found = true
			return false
		}
		return true
	})
	return found
}
