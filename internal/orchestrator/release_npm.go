package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/internal/service"
	"github.com/strongdm/leash-release/internal/usecase"
	"github.com/strongdm/leash-release/pkg/logger"
)

// DefaultWorkflowTimeout bounds a full collect-and-pack run.
const DefaultWorkflowTimeout = 30 * time.Minute

// ReleaseNPMConfig contains configuration for the npm release workflow.
type ReleaseNPMConfig struct {
	// Tag overrides the version lookup at HEAD when set.
	Tag         string
	DistDir     string
	VendorDir   string
	PackageRoot string
	LicenseFile string
	StageDir    string
	OutDir      string
	Force       bool
	CIOutput    bool
}

// ReleaseNPMResult is what one npm release run produced.
type ReleaseNPMResult struct {
	Version  string
	Vendor   *domain.VendorTree
	Artifact string
}

// ReleaseNPMOrchestrator resolves the version, collects the vendor tree and packs the npm package.
type ReleaseNPMOrchestrator struct {
	resolver  *usecase.ResolveVersionUseCase
	collector *usecase.CollectVendorUseCase
	assembler *usecase.AssemblePackageUseCase
	out       io.Writer
}

// NewReleaseNPMOrchestrator creates a new npm release orchestrator. fsRepo must
// be backed by the OS filesystem since packing shells out to npm.
func NewReleaseNPMOrchestrator(
	fsRepo repository.FileSystemRepository,
	gitRepo repository.GitRepository,
	npmSvc service.NpmService,
	project, binary string,
	targets []domain.ArchiveTarget,
	out io.Writer,
) *ReleaseNPMOrchestrator {
	if out == nil {
		out = io.Discard
	}
	return &ReleaseNPMOrchestrator{
		resolver: &usecase.ResolveVersionUseCase{GitRepo: gitRepo},
		collector: &usecase.CollectVendorUseCase{
			FsRepo:  fsRepo,
			Project: project,
			Binary:  binary,
			Targets: targets,
		},
		assembler: &usecase.AssemblePackageUseCase{NpmSvc: npmSvc},
		out:       out,
	}
}

// Execute runs the npm release workflow.
func (o *ReleaseNPMOrchestrator) Execute(ctx context.Context, cfg ReleaseNPMConfig) (*ReleaseNPMResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	log := logger.FromContext(ctx)

	version, err := o.resolveVersion(ctx, cfg.Tag)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve version: %w", err)
	}
	log.Info("Releasing npm package", "version", version)

	tree, err := o.collector.Execute(ctx, usecase.CollectVendorInput{
		DistDir: cfg.DistDir,
		OutDir:  cfg.VendorDir,
		Force:   cfg.Force,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect vendor tree: %w", err)
	}
	o.printStatus(cfg.CIOutput, fmt.Sprintf("✅ Collected %d binaries into %s", len(tree.Binaries), tree.Root))

	artifact, err := o.assembler.Execute(ctx, usecase.AssemblePackageInput{
		PackageRoot: cfg.PackageRoot,
		VendorDir:   cfg.VendorDir,
		LicenseFile: cfg.LicenseFile,
		Version:     version,
		StageDir:    cfg.StageDir,
		OutDir:      cfg.OutDir,
		Force:       cfg.Force,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble npm package: %w", err)
	}
	o.printStatus(cfg.CIOutput, "✅ npm package created: "+artifact)
	o.printCIOutput(cfg.CIOutput, "version=%s\ntarball=%s\n", version, artifact)

	return &ReleaseNPMResult{Version: version, Vendor: tree, Artifact: artifact}, nil
}

func (o *ReleaseNPMOrchestrator) resolveVersion(ctx context.Context, tag string) (string, error) {
	if tag != "" {
		v, err := o.resolver.ResolveFromTag(tag)
		if err != nil {
			return "", err
		}
		return v.Npm(), nil
	}
	return o.resolver.Execute(ctx).Npm(), nil
}

// printCIOutput prints machine-readable output in CI mode
func (o *ReleaseNPMOrchestrator) printCIOutput(ciOutput bool, format string, args ...any) {
	if ciOutput {
		fmt.Fprintf(o.out, format, args...)
	}
}

// printStatus prints status messages when not in CI mode
func (o *ReleaseNPMOrchestrator) printStatus(ciOutput bool, message string) {
	if !ciOutput {
		fmt.Fprintln(o.out, message)
	}
}
