package usecase

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/strongdm/leash-release/internal/domain"
	"github.com/strongdm/leash-release/internal/repository"
	"github.com/strongdm/leash-release/pkg/logger"
)

const vendorBinaryMode os.FileMode = 0o755

// CollectVendorInput holds the per-run inputs of the collector.
type CollectVendorInput struct {
	DistDir string
	OutDir  string
	Force   bool
}

// CollectVendorUseCase extracts one binary per target from the goreleaser
// archives in DistDir into OutDir/<triple>/<binary>.
type CollectVendorUseCase struct {
	FsRepo  repository.FileSystemRepository
	Project string
	Binary  string
	Targets []domain.ArchiveTarget
}

type archiveEntry struct {
	index    int
	name     string
	typeflag byte
	size     int64
}

// Execute runs the use case. The first failing target aborts the run.
func (uc *CollectVendorUseCase) Execute(ctx context.Context, in CollectVendorInput) (*domain.VendorTree, error) {
	if in.DistDir == "" || in.OutDir == "" {
		return nil, domain.NewError(domain.ErrCodeInvalidArgument, "dist and output directories are required")
	}
	if uc.Project == "" || uc.Binary == "" {
		return nil, domain.NewError(domain.ErrCodeInvalidArgument, "project and binary names are required")
	}
	targets := uc.Targets
	if len(targets) == 0 {
		targets = domain.DefaultTargets()
	}
	if ok, _ := afero.DirExists(uc.FsRepo, in.DistDir); !ok {
		return nil, domain.NewErrorf(domain.ErrCodeDistDirMissing, "dist directory %s does not exist", in.DistDir).
			WithPath(in.DistDir)
	}
	if err := uc.prepareOutput(in); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	tree := &domain.VendorTree{Root: in.OutDir}
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		archive, err := uc.findArchive(in.DistDir, target)
		if err != nil {
			return nil, err
		}
		bin, err := uc.extractBinary(archive, target, in.OutDir)
		if err != nil {
			return nil, err
		}
		log.Info("Vendored binary", "target", target.String(), "archive", archive, "path", bin.Path)
		tree.Binaries = append(tree.Binaries, *bin)
	}
	return tree, nil
}

func (uc *CollectVendorUseCase) prepareOutput(in CollectVendorInput) error {
	exists, err := afero.Exists(uc.FsRepo, in.OutDir)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", in.OutDir, err)
	}
	if exists {
		if !in.Force {
			return domain.NewErrorf(domain.ErrCodeOutputAlreadyExists,
				"output directory %s already exists, use --force to overwrite", in.OutDir).WithPath(in.OutDir)
		}
		if err := uc.FsRepo.RemoveAll(in.OutDir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", in.OutDir, err)
		}
	}
	if err := uc.FsRepo.MkdirAll(in.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", in.OutDir, err)
	}
	return nil
}

func (uc *CollectVendorUseCase) findArchive(distDir string, target domain.ArchiveTarget) (string, error) {
	pattern := target.ArchiveGlob(uc.Project)
	fsys := afero.NewIOFS(afero.NewBasePathFs(uc.FsRepo, distDir))
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("failed to glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	switch len(matches) {
	case 0:
		return "", domain.NewErrorf(domain.ErrCodeArchiveNotFound,
			"no archive found for %s matching pattern %s", target, pattern).
			WithTarget(target).WithPath(distDir).WithFound(pattern)
	case 1:
		return filepath.Join(distDir, filepath.FromSlash(matches[0])), nil
	default:
		return "", domain.NewErrorf(domain.ErrCodeAmbiguousArchive,
			"multiple archives found for %s: %s", target, strings.Join(matches, ", ")).
			WithTarget(target).WithPath(distDir).WithFound("exactly one archive", matches...)
	}
}

func (uc *CollectVendorUseCase) extractBinary(
	archive string,
	target domain.ArchiveTarget,
	outDir string,
) (*domain.VendoredBinary, error) {
	entry, err := uc.selectBinaryEntry(archive, target)
	if err != nil {
		return nil, err
	}

	tripleDir := filepath.Join(outDir, target.VendorTriple)
	extracted := filepath.Join(tripleDir, filepath.FromSlash(path.Clean(entry.name)))
	if err := uc.writeEntry(archive, entry, extracted); err != nil {
		return nil, err
	}

	final := filepath.Join(tripleDir, uc.finalName(entry.name))
	if extracted != final {
		if err := uc.FsRepo.Rename(extracted, final); err != nil {
			return nil, fmt.Errorf("failed to move %s to %s: %w", extracted, final, err)
		}
		if err := uc.pruneEmptyDirs(filepath.Dir(extracted), tripleDir); err != nil {
			return nil, err
		}
	}
	if err := uc.FsRepo.Chmod(final, vendorBinaryMode); err != nil {
		return nil, fmt.Errorf("failed to chmod %s: %w", final, err)
	}
	return &domain.VendoredBinary{
		Target:  target,
		Archive: archive,
		Entry:   entry.name,
		Path:    final,
	}, nil
}

// selectBinaryEntry validates every entry path and picks the single binary.
func (uc *CollectVendorUseCase) selectBinaryEntry(archive string, target domain.ArchiveTarget) (*archiveEntry, error) {
	var candidates []archiveEntry
	err := uc.walkArchive(archive, func(index int, hdr *tar.Header, _ io.Reader) (bool, error) {
		if unsafeEntryPath(hdr.Name) {
			return false, domain.NewErrorf(domain.ErrCodeUnsafeArchivePath,
				"archive %s contains unsafe path %s", archive, hdr.Name).
				WithTarget(target).WithPath(archive).WithFound("relative path", hdr.Name)
		}
		if uc.isBinaryName(hdr.Name) {
			candidates = append(candidates, archiveEntry{
				index:    index,
				name:     hdr.Name,
				typeflag: hdr.Typeflag,
				size:     hdr.Size,
			})
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	switch len(candidates) {
	case 0:
		return nil, domain.NewErrorf(domain.ErrCodeBinaryNotFoundInArchive,
			"archive %s does not contain a %s binary", archive, uc.Binary).
			WithTarget(target).WithPath(archive)
	case 1:
	default:
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.name)
		}
		return nil, domain.NewErrorf(domain.ErrCodeAmbiguousBinaryInArchive,
			"archive %s contains multiple potential %s binaries: %s", archive, uc.Binary, strings.Join(names, ", ")).
			WithTarget(target).WithPath(archive).WithFound("exactly one binary", names...)
	}

	entry := candidates[0]
	switch {
	case entry.typeflag == tar.TypeDir || strings.HasSuffix(entry.name, "/"):
		return nil, domain.NewErrorf(domain.ErrCodeUnexpectedDirectory,
			"expected %s in %s to be a file, found directory", entry.name, archive).
			WithTarget(target).WithPath(archive)
	case entry.typeflag != tar.TypeReg:
		return nil, domain.NewErrorf(domain.ErrCodeUnsupportedArchiveEntry,
			"entry %s in %s is not a regular file", entry.name, archive).
			WithTarget(target).WithPath(archive)
	}
	return &entry, nil
}

func (uc *CollectVendorUseCase) writeEntry(archive string, entry *archiveEntry, dest string) error {
	if err := uc.FsRepo.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	written := false
	err := uc.walkArchive(archive, func(index int, _ *tar.Header, r io.Reader) (bool, error) {
		if index != entry.index {
			return true, nil
		}
		f, err := uc.FsRepo.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, vendorBinaryMode)
		if err != nil {
			return false, fmt.Errorf("failed to create %s: %w", dest, err)
		}
		if _, err := io.CopyN(f, r, entry.size); err != nil {
			_ = f.Close()
			return false, domain.NewErrorf(domain.ErrCodeArchiveUnreadable,
				"failed to extract %s from %s", entry.name, archive).WithPath(archive).Wrap(err)
		}
		if err := f.Close(); err != nil {
			return false, fmt.Errorf("failed to write %s: %w", dest, err)
		}
		written = true
		return false, nil
	})
	if err != nil {
		return err
	}
	if !written {
		return domain.NewErrorf(domain.ErrCodeArchiveUnreadable,
			"entry %s disappeared from %s", entry.name, archive).WithPath(archive)
	}
	return nil
}

// walkArchive streams the gzip-compressed tar at archive. fn returns false to stop.
func (uc *CollectVendorUseCase) walkArchive(
	archive string,
	fn func(index int, hdr *tar.Header, r io.Reader) (bool, error),
) error {
	f, err := uc.FsRepo.Open(archive)
	if err != nil {
		return domain.NewErrorf(domain.ErrCodeArchiveUnreadable, "failed to open %s", archive).
			WithPath(archive).Wrap(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return domain.NewErrorf(domain.ErrCodeArchiveUnreadable, "failed to read %s", archive).
			WithPath(archive).Wrap(err)
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	for index := 0; ; index++ {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		// insecure names are still returned with their header and rejected by fn
		if err != nil && !(errors.Is(err, tar.ErrInsecurePath) && hdr != nil) {
			return domain.NewErrorf(domain.ErrCodeArchiveUnreadable, "failed to read %s", archive).
				WithPath(archive).Wrap(err)
		}
		more, err := fn(index, hdr, tr)
		if err != nil || !more {
			return err
		}
	}
}

func (uc *CollectVendorUseCase) isBinaryName(name string) bool {
	base := path.Base(strings.TrimRight(name, "/"))
	return base == uc.Binary || base == uc.Binary+".exe"
}

func (uc *CollectVendorUseCase) finalName(entryName string) string {
	if strings.HasSuffix(entryName, ".exe") {
		return uc.Binary + ".exe"
	}
	return uc.Binary
}

func (uc *CollectVendorUseCase) pruneEmptyDirs(dir, stop string) error {
	for dir != stop && strings.HasPrefix(dir, stop+string(filepath.Separator)) {
		empty, err := afero.IsEmpty(uc.FsRepo, dir)
		if err != nil || !empty {
			return nil
		}
		if err := uc.FsRepo.Remove(dir); err != nil {
			return fmt.Errorf("failed to prune %s: %w", dir, err)
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

// unsafeEntryPath rejects absolute, drive-qualified and parent-escaping names.
func unsafeEntryPath(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return true
	}
	if len(name) >= 2 && name[1] == ':' && isASCIILetter(name[0]) {
		return true
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return true
		}
	}
	return false
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
