package domain

import (
	"fmt"
	"path"
	"strings"
)

// ArchiveTarget is one GOOS/GOARCH pair of the release matrix and its vendor directory.
type ArchiveTarget struct {
	OS           string `json:"os"`
	Arch         string `json:"arch"`
	VendorTriple string `json:"vendor_triple"`
}

// DefaultTargets is the reference release matrix.
func DefaultTargets() []ArchiveTarget {
	return []ArchiveTarget{
		{OS: "darwin", Arch: "amd64", VendorTriple: "darwin-amd64"},
		{OS: "darwin", Arch: "arm64", VendorTriple: "darwin-arm64"},
		{OS: "linux", Arch: "amd64", VendorTriple: "linux-amd64"},
		{OS: "linux", Arch: "arm64", VendorTriple: "linux-arm64"},
	}
}

// ParseTargets parses entries shaped like "linux/amd64" or "linux/amd64=linux-x64".
// When the triple is omitted it defaults to "<os>-<arch>".
func ParseTargets(specs []string) ([]ArchiveTarget, error) {
	targets := make([]ArchiveTarget, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	for _, raw := range specs {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		platform, triple, _ := strings.Cut(entry, "=")
		goos, goarch, ok := strings.Cut(platform, "/")
		if !ok || goos == "" || goarch == "" || strings.Contains(goarch, "/") {
			return nil, NewErrorf(ErrCodeInvalidArgument, "invalid target %q: expected os/arch[=triple]", raw)
		}
		if triple == "" {
			triple = goos + "-" + goarch
		}
		if strings.ContainsAny(triple, `/\`) || triple == "." || triple == ".." {
			return nil, NewErrorf(ErrCodeInvalidArgument, "invalid vendor triple %q in target %q", triple, raw)
		}
		key := goos + "/" + goarch
		if _, dup := seen[key]; dup {
			return nil, NewErrorf(ErrCodeInvalidArgument, "duplicate target %q", key)
		}
		seen[key] = struct{}{}
		targets = append(targets, ArchiveTarget{OS: goos, Arch: goarch, VendorTriple: triple})
	}
	if len(targets) == 0 {
		return nil, NewError(ErrCodeInvalidArgument, "at least one target is required")
	}
	return targets, nil
}

func (t ArchiveTarget) String() string {
	return t.OS + "/" + t.Arch
}

// ArchiveGlob is the goreleaser archive name pattern for this target.
func (t ArchiveTarget) ArchiveGlob(project string) string {
	return fmt.Sprintf("%s_*_%s_%s.tar.gz", project, t.OS, t.Arch)
}

// BinaryFileName is the binary name for this target's OS.
func (t ArchiveTarget) BinaryFileName(binary string) string {
	if t.OS == "windows" {
		return binary + ".exe"
	}
	return binary
}

// VendorBinary is the slash-separated path of the binary inside the vendor tree.
func (t ArchiveTarget) VendorBinary(binary string) string {
	return path.Join(t.VendorTriple, t.BinaryFileName(binary))
}

// VendoredBinary records where one target's binary came from and where it landed.
type VendoredBinary struct {
	Target  ArchiveTarget `json:"target"`
	Archive string        `json:"archive"`
	Entry   string        `json:"entry"`
	Path    string        `json:"path"`
}

// VendorTree is the normalized per-platform binary layout.
type VendorTree struct {
	Root     string           `json:"root"`
	Binaries []VendoredBinary `json:"binaries"`
}
