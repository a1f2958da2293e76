package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// releaseTagPattern is the only tag shape that produces a release version.
var releaseTagPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)$`)

// Version parts accepted by Version.Part.
const (
	PartMajor = "major"
	PartMinor = "minor"
	PartPatch = "patch"
)

// Version is either a release parsed from an exact vX.Y.Z tag or a dev snapshot.
type Version struct {
	Major uint64 `json:"major"`
	Minor uint64 `json:"minor"`
	Patch uint64 `json:"patch"`
	// Tag is the matched tag with its prefix preserved, or the dev label for snapshots.
	Tag      string `json:"tag"`
	Snapshot bool   `json:"snapshot"`
}

// ParseReleaseTag returns a release version for tags shaped like v1.2.3 or 1.2.3.
// Tags with leading zeros are refused so the numeric triple always reproduces the tag.
func ParseReleaseTag(tag string) (*Version, bool) {
	m := releaseTagPattern.FindStringSubmatch(tag)
	if m == nil {
		return nil, false
	}
	sv, err := semver.StrictNewVersion(strings.Join(m[1:], "."))
	if err != nil {
		return nil, false
	}
	return &Version{
		Major: sv.Major(),
		Minor: sv.Minor(),
		Patch: sv.Patch(),
		Tag:   tag,
	}, true
}

// NewSnapshotVersion returns the 0.0.0 snapshot labelled dev-<commit>[-dirty].
func NewSnapshotVersion(state GitState) *Version {
	return &Version{Tag: state.DevLabel(), Snapshot: true}
}

// IsSnapshot reports whether v is a dev snapshot rather than a tagged release.
func (v *Version) IsSnapshot() bool {
	return v.Snapshot
}

// Triple is the numeric version joined by dots.
func (v *Version) Triple() string {
	return strconv.FormatUint(v.Major, 10) + "." +
		strconv.FormatUint(v.Minor, 10) + "." +
		strconv.FormatUint(v.Patch, 10)
}

// Bin is the version string embedded into binaries.
func (v *Version) Bin() string {
	if v.Snapshot {
		return v.Tag
	}
	return v.Triple()
}

// Docker is the version used as image tag; it is intentionally the same as Bin.
func (v *Version) Docker() string {
	return v.Bin()
}

// TagName is the original tag (prefix preserved) or the dev label.
func (v *Version) TagName() string {
	return v.Tag
}

// Npm is a valid semver for package manifests. Snapshots become 0.0.0-<dev label>.
func (v *Version) Npm() string {
	if v.Snapshot {
		return "0.0.0-" + v.Tag
	}
	return v.Triple()
}

// Part returns one numeric component. Snapshots report "0" for every part.
func (v *Version) Part(name string) (string, error) {
	switch name {
	case PartMajor:
		return strconv.FormatUint(v.Major, 10), nil
	case PartMinor:
		return strconv.FormatUint(v.Minor, 10), nil
	case PartPatch:
		return strconv.FormatUint(v.Patch, 10), nil
	default:
		return "", NewErrorf(ErrCodeInvalidArgument, "unknown version part %q", name).
			WithFound("major|minor|patch", name)
	}
}

// Semver exposes the numeric triple as a semver value.
func (v *Version) Semver() *semver.Version {
	if v.Snapshot {
		sv, err := semver.NewVersion(v.Npm())
		if err == nil {
			return sv
		}
	}
	return semver.New(v.Major, v.Minor, v.Patch, "", "")
}

// Compare orders versions by numeric triple; snapshots sort before releases of the same triple.
func (v *Version) Compare(other *Version) int {
	return v.Semver().Compare(other.Semver())
}

func (v *Version) String() string {
	return v.Bin()
}
