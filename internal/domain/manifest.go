package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// PackageManifest is the recognized subset of package.json. Templates carrying
// any other top-level field are rejected instead of being merged blindly.
type PackageManifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version,omitempty"`
	Description          string            `json:"description,omitempty"`
	Keywords             []string          `json:"keywords,omitempty"`
	Homepage             string            `json:"homepage,omitempty"`
	Bugs                 json.RawMessage   `json:"bugs,omitempty"`
	License              string            `json:"license,omitempty"`
	Author               json.RawMessage   `json:"author,omitempty"`
	Repository           json.RawMessage   `json:"repository,omitempty"`
	Type                 string            `json:"type,omitempty"`
	Main                 string            `json:"main,omitempty"`
	Bin                  json.RawMessage   `json:"bin,omitempty"`
	Files                []string          `json:"files,omitempty"`
	OS                   []string          `json:"os,omitempty"`
	CPU                  []string          `json:"cpu,omitempty"`
	Engines              map[string]string `json:"engines,omitempty"`
	Scripts              map[string]string `json:"scripts,omitempty"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
	PublishConfig        json.RawMessage   `json:"publishConfig,omitempty"`
	PreferUnplugged      *bool             `json:"preferUnplugged,omitempty"`

	raw []byte
}

// ParseManifestTemplate decodes a package.json template. The version field is
// owned by the assembler, so a template that sets it is an error.
func ParseManifestTemplate(path string, data []byte) (*PackageManifest, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, NewErrorf(ErrCodeManifestInvalid, "package.json template at %s is not a JSON object", path).
			WithPath(path)
	}
	if gjson.GetBytes(data, "version").Exists() {
		return nil, NewErrorf(ErrCodeManifestHasExplicitVersion,
			"package.json template should not define 'version' (found in %s)", path).WithPath(path)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var m PackageManifest
	if err := dec.Decode(&m); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, NewErrorf(ErrCodeManifestUnrecognizedField,
				"package.json template %s has an unrecognized field", path).WithPath(path).Wrap(err)
		}
		return nil, NewErrorf(ErrCodeManifestInvalid, "failed to decode package.json template %s", path).
			WithPath(path).Wrap(err)
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, NewErrorf(ErrCodeManifestInvalid, "package.json template %s is missing 'name'", path).
			WithPath(path)
	}
	m.raw = append([]byte(nil), data...)
	return &m, nil
}

// Render returns the manifest with version injected, indented by two spaces and newline-terminated.
// Keys keep the template's order and version is appended after them.
func (m *PackageManifest) Render(version string) ([]byte, error) {
	if m.raw == nil {
		out := *m
		out.Version = version
		data, err := json.MarshalIndent(&out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	gjson.ParseBytes(m.raw).ForEach(func(key, value gjson.Result) bool {
		if err = writeMember(&buf, key.String(), []byte(value.Raw)); err != nil {
			return false
		}
		buf.WriteByte(',')
		return true
	})
	if err != nil {
		return nil, err
	}
	v, err := json.Marshal(version)
	if err != nil {
		return nil, err
	}
	if err := writeMember(&buf, "version", v); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value []byte) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return json.Compact(buf, value)
}
