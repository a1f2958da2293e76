package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/service"
	"github.com/strongdm/leash-release/pkg/logger"
	"github.com/tidwall/gjson"
)

const (
	manifestFileName = "package.json"
	readmeFileName   = "README.md"
	licenseFileName  = "LICENSE"
	binDirName       = "bin"
	vendorDirName    = "vendor"
	stagePrefix      = "leash-npm-stage-"
)

// AssemblePackageInput holds the per-run inputs of the assembler.
type AssemblePackageInput struct {
	PackageRoot string
	VendorDir   string
	LicenseFile string
	Version     string
	// StageDir pins the staging directory; empty means a temporary one.
	StageDir string
	OutDir   string
	Force    bool
}

// AssemblePackageUseCase stages the npm package and packs it.
type AssemblePackageUseCase struct {
	NpmSvc service.NpmService
}

type packageSources struct {
	manifest *domain.PackageManifest
	binDir   string
	readme   string
	vendor   string
	license  string
}

// Execute runs the use case and returns the absolute path of the packed artifact.
// Every precondition is checked before anything is written.
func (uc *AssemblePackageUseCase) Execute(ctx context.Context, in AssemblePackageInput) (string, error) {
	src, err := uc.checkSources(in)
	if err != nil {
		return "", err
	}
	stage, cleanup, err := uc.prepareStage(in)
	if err != nil {
		return "", err
	}
	defer cleanup()

	if err := uc.stage(src, in.Version, stage); err != nil {
		return "", err
	}
	artifact, err := uc.pack(ctx, stage, in.OutDir)
	if err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info("Packed npm package", "version", in.Version, "artifact", artifact)
	return artifact, nil
}

func (uc *AssemblePackageUseCase) checkSources(in AssemblePackageInput) (*packageSources, error) {
	if strings.TrimSpace(in.Version) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalidArgument, "version is required")
	}
	if in.OutDir == "" {
		return nil, domain.NewError(domain.ErrCodeInvalidArgument, "output directory is required")
	}

	manifestPath := filepath.Join(in.PackageRoot, manifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewErrorf(domain.ErrCodeMissingManifestTemplate,
				"missing package.json template at %s", manifestPath).WithPath(manifestPath)
		}
		return nil, domain.NewErrorf(domain.ErrCodeMissingManifestTemplate,
			"cannot read package.json template at %s", manifestPath).WithPath(manifestPath).Wrap(err)
	}
	manifest, err := domain.ParseManifestTemplate(manifestPath, data)
	if err != nil {
		return nil, err
	}

	src := &packageSources{
		manifest: manifest,
		binDir:   filepath.Join(in.PackageRoot, binDirName),
		readme:   filepath.Join(in.PackageRoot, readmeFileName),
		vendor:   in.VendorDir,
		license:  in.LicenseFile,
	}
	checks := []struct {
		path  string
		dir   bool
		code  domain.Code
		label string
	}{
		{src.binDir, true, domain.ErrCodeMissingBinScaffold, "bin directory"},
		{src.readme, false, domain.ErrCodeMissingReadme, "README"},
		{src.vendor, true, domain.ErrCodeVendorTreeMissing, "vendor directory"},
		{src.license, false, domain.ErrCodeLicenseMissing, "license file"},
	}
	for _, c := range checks {
		if c.path == "" || !pathKind(c.path, c.dir) {
			return nil, domain.NewErrorf(c.code, "missing %s at %s", c.label, c.path).WithPath(c.path)
		}
	}
	return src, nil
}

func pathKind(path string, dir bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if dir {
		return info.IsDir()
	}
	return info.Mode().IsRegular()
}

func (uc *AssemblePackageUseCase) prepareStage(in AssemblePackageInput) (string, func(), error) {
	if in.StageDir == "" {
		dir, err := os.MkdirTemp("", stagePrefix)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create staging directory: %w", err)
		}
		return dir, func() { _ = os.RemoveAll(dir) }, nil
	}

	info, err := os.Stat(in.StageDir)
	switch {
	case err == nil && !info.IsDir():
		return "", nil, domain.NewErrorf(domain.ErrCodeStagingPathNotADirectory,
			"%s exists and is not a directory", in.StageDir).WithPath(in.StageDir)
	case err == nil && !in.Force:
		return "", nil, domain.NewErrorf(domain.ErrCodeStagingAlreadyExists,
			"staging directory %s already exists, use --force to overwrite", in.StageDir).WithPath(in.StageDir)
	case err == nil:
		if err := os.RemoveAll(in.StageDir); err != nil {
			return "", nil, fmt.Errorf("failed to clear %s: %w", in.StageDir, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", nil, fmt.Errorf("failed to stat %s: %w", in.StageDir, err)
	}
	if err := os.MkdirAll(in.StageDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create %s: %w", in.StageDir, err)
	}
	return in.StageDir, func() {}, nil
}

// stage copies the scaffold, vendor tree and license, then writes package.json last.
func (uc *AssemblePackageUseCase) stage(src *packageSources, version, stageDir string) error {
	copies := []struct{ from, to string }{
		{src.binDir, filepath.Join(stageDir, binDirName)},
		{src.readme, filepath.Join(stageDir, readmeFileName)},
		{src.vendor, filepath.Join(stageDir, vendorDirName)},
		{src.license, filepath.Join(stageDir, licenseFileName)},
	}
	for _, c := range copies {
		if err := copy.Copy(c.from, c.to); err != nil {
			return fmt.Errorf("failed to copy %s to %s: %w", c.from, c.to, err)
		}
	}
	data, err := src.manifest.Render(version)
	if err != nil {
		return fmt.Errorf("failed to render package.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stageDir, manifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write package.json: %w", err)
	}
	return nil
}

func (uc *AssemblePackageUseCase) pack(ctx context.Context, stageDir, outDir string) (string, error) {
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", outDir, err)
	}
	absStage, err := filepath.Abs(stageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", stageDir, err)
	}
	if err := os.MkdirAll(absOut, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", absOut, err)
	}
	out, err := uc.NpmSvc.Pack(ctx, absStage, absOut)
	if err != nil {
		return "", err
	}
	filename, err := parsePackOutput(out)
	if err != nil {
		return "", err
	}
	return filepath.Join(absOut, filename), nil
}

// parsePackOutput returns the filename of the first entry of `npm pack --json`.
func parsePackOutput(out []byte) (string, error) {
	excerpt := domain.TruncateDiagnostic(string(out))
	if !gjson.ValidBytes(out) {
		return "", domain.NewErrorf(domain.ErrCodePackToolOutputUnparseable,
			"failed to parse npm pack output: %s", excerpt)
	}
	res := gjson.ParseBytes(out)
	if !res.IsArray() {
		return "", domain.NewErrorf(domain.ErrCodePackToolOutputUnparseable,
			"unexpected npm pack output: %s", excerpt)
	}
	entries := res.Array()
	if len(entries) == 0 {
		return "", domain.NewError(domain.ErrCodePackToolOutputEmpty, "npm pack produced no artifacts")
	}
	filename := entries[0].Get("filename")
	if filename.Type != gjson.String || filename.String() == "" {
		return "", domain.NewErrorf(domain.ErrCodePackToolOutputUnparseable,
			"npm pack output missing filename: %s", domain.TruncateDiagnostic(entries[0].Raw))
	}
	return filename.String(), nil
}
