package domain

import "strings"

// Fallback values used when a git query cannot be answered.
const (
	DefaultBranch      = "main"
	DefaultShortCommit = "unknown"
	ShortCommitLength  = 7
)

// GitState is the slice of working-tree state that feeds version and tag derivation.
type GitState struct {
	Branch      string `json:"branch"`
	ShortCommit string `json:"short_commit"`
	Dirty       bool   `json:"dirty"`
}

// NewGitState builds a GitState, sanitizing the branch and filling defaults.
func NewGitState(branch, shortCommit string, dirty bool) GitState {
	if shortCommit == "" {
		shortCommit = DefaultShortCommit
	}
	return GitState{
		Branch:      SanitizeBranch(branch),
		ShortCommit: shortCommit,
		Dirty:       dirty,
	}
}

// DefaultGitState is what a build outside of any checkout resolves to.
func DefaultGitState() GitState {
	return NewGitState("", "", false)
}

// CommitSuffix is the short commit with "-dirty" appended for modified trees.
func (s GitState) CommitSuffix() string {
	if s.Dirty {
		return s.ShortCommit + "-dirty"
	}
	return s.ShortCommit
}

// DevLabel is the snapshot identity, e.g. dev-abc1234-dirty.
func (s GitState) DevLabel() string {
	return "dev-" + s.CommitSuffix()
}

// Channel is the sanitized branch used to qualify non-default tags.
func (s GitState) Channel() string {
	if s.Branch == "" {
		return DefaultBranch
	}
	return s.Branch
}

// SanitizeBranch maps a branch name onto [a-z0-9._-]+. Detached HEAD and names
// that sanitize to nothing collapse to DefaultBranch. The function is idempotent.
func SanitizeBranch(branch string) string {
	branch = strings.TrimSpace(branch)
	if branch == "" || branch == "HEAD" {
		return DefaultBranch
	}
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(branch) {
		if !isBranchRune(r) {
			r = '-'
		}
		if r == '-' {
			if lastDash {
				continue
			}
			lastDash = true
		} else {
			lastDash = false
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return DefaultBranch
	}
	return out
}

func isBranchRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	default:
		return false
	}
}
