package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// CLISource pairs an npm package with the GitHub repository that releases it.
type CLISource struct {
	Key    string
	NPM    string
	GitHub string
}

// DefaultCLISources is the fixed list of bundled coder CLIs.
func DefaultCLISources() []CLISource {
	return []CLISource{
		{Key: "@openai/codex", NPM: "@openai/codex", GitHub: "openai/codex"},
		{Key: "@anthropic-ai/claude-code", NPM: "@anthropic-ai/claude-code", GitHub: "anthropics/claude-code"},
		{Key: "@google/gemini-cli", NPM: "@google/gemini-cli", GitHub: "google-gemini/gemini-cli"},
		{Key: "@qwen-code/qwen-code", NPM: "@qwen-code/qwen-code", GitHub: "QwenLM/qwen-code"},
		{Key: "opencode-ai@latest", NPM: "opencode-ai", GitHub: "sst/opencode"},
	}
}

// NpmRelease is the latest published npm version of a package.
type NpmRelease struct {
	Package       string            `json:"Package"`
	LatestVersion string            `json:"LatestVersion"`
	PublishedAt   *string           `json:"PublishedAt"`
	Tarball       *string           `json:"Tarball"`
	Integrity     *string           `json:"Integrity"`
	DistTags      map[string]string `json:"DistTags"`
}

// GithubRelease is the latest GitHub release of a repository.
type GithubRelease struct {
	Repo        string  `json:"Repo"`
	TagName     *string `json:"TagName"`
	Name        *string `json:"Name"`
	PublishedAt *string `json:"PublishedAt"`
	URL         *string `json:"URL"`
	Draft       *bool   `json:"Draft"`
	Prerelease  *bool   `json:"Prerelease"`
}

// CLIRelease is one aggregated record; either side may be missing when its fetch failed.
type CLIRelease struct {
	Error  *string        `json:"Error"`
	GitHub *GithubRelease `json:"GitHub"`
	NPM    *NpmRelease    `json:"NPM"`
}

// ReleaseSummary names the most recently published package.
type ReleaseSummary struct {
	MostRecentPublishedAt string `json:"MostRecentPublishedAt"`
	Package               string `json:"Package"`
}

// CLIReleaseReport is the aggregator output. Order lists the CoderCLIs keys in
// source order; keys missing from it are encoded after, sorted.
type CLIReleaseReport struct {
	Summary   *ReleaseSummary       `json:"Summary"`
	CoderCLIs map[string]CLIRelease `json:"CoderCLIs"`
	Order     []string              `json:"-"`
}

// MarshalJSON encodes CoderCLIs as an object whose keys follow Order.
func (r CLIReleaseReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"Summary":`)
	summary, err := json.Marshal(r.Summary)
	if err != nil {
		return nil, err
	}
	buf.Write(summary)
	buf.WriteString(`,"CoderCLIs":`)
	if r.CoderCLIs == nil {
		buf.WriteString("null}")
		return buf.Bytes(), nil
	}
	buf.WriteByte('{')
	for i, key := range r.orderedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.CoderCLIs[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func (r CLIReleaseReport) orderedKeys() []string {
	keys := make([]string, 0, len(r.CoderCLIs))
	seen := make(map[string]bool, len(r.CoderCLIs))
	for _, key := range r.Order {
		if _, ok := r.CoderCLIs[key]; ok && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	var rest []string
	for key := range r.CoderCLIs {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// PublishTime parses the npm publish timestamp, if any.
func (r CLIRelease) PublishTime() (time.Time, bool) {
	if r.NPM == nil || r.NPM.PublishedAt == nil || *r.NPM.PublishedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *r.NPM.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// FormatSummaryTime renders t as a second-precision UTC timestamp with a Z suffix.
func FormatSummaryTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}
