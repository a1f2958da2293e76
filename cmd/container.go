package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/strongdm/leash-release/internal/config"
	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/orchestrator"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/internal/service"
	"github.com/strongdm/leash-release/internal/usecase"
)

// container holds all the dependencies for the application.
type container struct {
	cfg     *config.Config
	targets []domain.ArchiveTarget

	fsRepo     repository.FileSystemRepository
	gitRepo    repository.GitRepository
	npmRepo    repository.NpmRegistryRepository
	githubRepo repository.GithubReleaseRepository
	npmSvc     service.NpmService
}

// newContainer creates a new container with all the dependencies.
func newContainer() (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	targets, err := cfg.ArchiveTargets()
	if err != nil {
		return nil, err
	}

	npmSvc, err := service.NewNpmService(cfg.Npm.Bin)
	if err != nil {
		return nil, err
	}

	npmRepo := repository.NewNpmRegistryRepository(repository.HTTPOptions{
		BaseURL: cfg.Releases.NpmRegistryURL,
		Timeout: cfg.Releases.Timeout,
	})
	githubRepo, err := repository.NewGithubReleaseRepository(repository.HTTPOptions{
		BaseURL: cfg.Releases.GithubAPIURL,
		Token:   cfg.Releases.GithubToken,
		Timeout: cfg.Releases.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &container{
		cfg:        cfg,
		targets:    targets,
		fsRepo:     repository.FileSystemRepository(afero.NewOsFs()),
		gitRepo:    repository.NewGitRepository("."),
		npmRepo:    npmRepo,
		githubRepo: githubRepo,
		npmSvc:     npmSvc,
	}, nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands(root *cobra.Command) error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	root.AddCommand(NewVersionCmd(&usecase.ResolveVersionUseCase{
		GitRepo: c.gitRepo,
	}))

	root.AddCommand(NewDockerTagsCmd(&usecase.ComputeDockerTagsUseCase{
		GitRepo: c.gitRepo,
	}, c.cfg.Image))

	root.AddCommand(NewCollectVendorCmd(&usecase.CollectVendorUseCase{
		FsRepo:  c.fsRepo,
		Project: c.cfg.Project,
		Binary:  c.cfg.Binary,
		Targets: c.targets,
	}, c.cfg))

	root.AddCommand(NewBuildNpmCmd(&usecase.AssemblePackageUseCase{
		NpmSvc: c.npmSvc,
	}, c.cfg))

	root.AddCommand(NewNpmReleaseCmd(orchestrator.NewReleaseNPMOrchestrator(
		c.fsRepo,
		c.gitRepo,
		c.npmSvc,
		c.cfg.Project,
		c.cfg.Binary,
		c.targets,
		os.Stdout,
	), c.cfg))

	root.AddCommand(NewCheckRegistryLoginCmd(&usecase.CheckRegistryLoginUseCase{
		FsRepo:   c.fsRepo,
		Registry: c.cfg.Registry.Host,
	}, c.cfg.Registry.DockerConfigDir))

	root.AddCommand(NewCLIReleasesCmd(&usecase.AggregateCLIReleasesUseCase{
		NpmRepo:     c.npmRepo,
		GithubRepo:  c.githubRepo,
		Concurrency: c.cfg.Releases.Concurrency,
	}))

	return nil
}
