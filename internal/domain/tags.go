package domain

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Metadata keys emitted for build orchestration, in output order.
const (
	KeyChannelName    = "CHANNEL_NAME"
	KeyCommit         = "COMMIT"
	KeyDevTag         = "DEV_TAG"
	KeyBranchTag      = "BRANCH_TAG"
	KeyDefaultTag     = "DEFAULT_TAG"
	KeyTagList        = "TAG_LIST"
	KeyTagArgs        = "TAG_ARGS"
	KeyVersionTagFull = "VERSION_TAG_FULL"
)

// TagSet is an ordered list of image references without duplicates.
type TagSet struct {
	tags []string
	seen map[string]struct{}
}

// Append adds tag unless it is empty or already present; it reports whether tag was added.
func (s *TagSet) Append(tag string) bool {
	if tag == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[tag]; ok {
		return false
	}
	s.seen[tag] = struct{}{}
	s.tags = append(s.tags, tag)
	return true
}

// List returns a copy of the tags in order.
func (s *TagSet) List() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len is the number of tags.
func (s *TagSet) Len() int {
	return len(s.tags)
}

// String joins the tags with single spaces.
func (s *TagSet) String() string {
	return strings.Join(s.tags, " ")
}

// Args renders the tags as docker build arguments: -t a -t b.
func (s *TagSet) Args() string {
	parts := make([]string, 0, len(s.tags))
	for _, tag := range s.tags {
		parts = append(parts, "-t "+tag)
	}
	return strings.Join(parts, " ")
}

// TagRequest is the caller input for tag computation.
type TagRequest struct {
	Image     string
	Version   string
	ExtraTags []string
}

// TagResult holds every derived tag plus the ordered tag set.
type TagResult struct {
	Repository string
	Channel    string
	Commit     string
	DevTag     string
	BranchTag  string
	DefaultTag string
	VersionTag string
	Tags       TagSet
}

// MetadataField is one KEY=value pair of the tag metadata.
type MetadataField struct {
	Key   string
	Value string
}

// ComputeTags derives the image tag set for req from the given git state.
// Order: version tag, dev tag, branch dev tag, default tag, extra tags.
func ComputeTags(req TagRequest, state GitState) (*TagResult, error) {
	ref, err := ParseImageRef(req.Image)
	if err != nil {
		return nil, err
	}
	channel := state.Channel()
	devBase := state.DevLabel()
	res := &TagResult{
		Repository: ref.Repository,
		Channel:    channel,
		Commit:     state.CommitSuffix(),
		DevTag:     ref.Tagged(devBase),
		DefaultTag: ref.Default,
	}
	if channel != DefaultBranch {
		res.BranchTag = ref.Tagged(devBase + "-" + channel)
	}
	if req.Version != "" {
		res.VersionTag = ref.Tagged(req.Version)
	}
	res.Tags.Append(res.VersionTag)
	res.Tags.Append(res.DevTag)
	res.Tags.Append(res.BranchTag)
	if ref.Default != ref.Tagged(DefaultBranch) {
		res.Tags.Append(ref.Default)
	}
	for _, extra := range req.ExtraTags {
		res.Tags.Append(strings.TrimSpace(extra))
	}
	return res, nil
}

// Metadata returns the orchestration fields in their stable output order.
func (r *TagResult) Metadata() []MetadataField {
	return []MetadataField{
		{Key: KeyChannelName, Value: r.Channel},
		{Key: KeyCommit, Value: r.Commit},
		{Key: KeyDevTag, Value: r.DevTag},
		{Key: KeyBranchTag, Value: r.BranchTag},
		{Key: KeyDefaultTag, Value: r.DefaultTag},
		{Key: KeyTagList, Value: r.Tags.String()},
		{Key: KeyTagArgs, Value: r.Tags.Args()},
		{Key: KeyVersionTagFull, Value: r.VersionTag},
	}
}

// Map returns the metadata keyed by field name.
func (r *TagResult) Map() map[string]string {
	fields := r.Metadata()
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

// ShellAssignments renders KEY=value lines with every value quoted for a POSIX shell.
func (r *TagResult) ShellAssignments() ([]string, error) {
	fields := r.Metadata()
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted, err := syntax.Quote(f.Value, syntax.LangPOSIX)
		if err != nil {
			return nil, NewErrorf(ErrCodeInvalidArgument, "cannot quote %s", f.Key).Wrap(err)
		}
		lines = append(lines, fmt.Sprintf("%s=%s", f.Key, quoted))
	}
	return lines, nil
}
