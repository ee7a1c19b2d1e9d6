// Package manifest reads and edits plugin.json and package.json while
// keeping their key order and formatting stable.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	// PluginFile is the required SiYuan plugin manifest
	PluginFile = "plugin.json"
	// PackageFile is the optional npm manifest
	PackageFile = "package.json"
)

var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Manifest is a JSON manifest loaded from disk
type Manifest struct {
	Path string
	data []byte
}

// Load reads a manifest. A missing file is a MANIFEST_NOT_FOUND error.
func Load(fsys types.FS, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrManifestNotFound, "%s not found", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Newf(errors.ErrValidation, "%s is not valid JSON", path).
			WithDetail("path", path)
	}
	return &Manifest{Path: path, data: data}, nil
}

// LoadOptional is Load, returning nil without error when the file is missing
func LoadOptional(fsys types.FS, path string) (*Manifest, error) {
	m, err := Load(fsys, path)
	if errors.IsErrorCode(err, errors.ErrManifestNotFound) {
		return nil, nil
	}
	return m, err
}

// String returns a top-level string field, "" when absent
func (m *Manifest) String(field string) string {
	return gjson.GetBytes(m.data, escapeKey(field)).String()
}

// Has reports whether field is present
func (m *Manifest) Has(field string) bool {
	return gjson.GetBytes(m.data, escapeKey(field)).Exists()
}

// Set replaces or appends a top-level string field
func (m *Manifest) Set(field, value string) error {
	data, err := sjson.SetBytes(m.data, escapeKey(field), value)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to set %s in %s", field, m.Path)
	}
	m.data = data
	return nil
}

// Bytes returns the manifest re-indented with two spaces and a trailing newline
func (m *Manifest) Bytes() []byte {
	return pretty.PrettyOptions(m.data, prettyOptions)
}

// Save writes the manifest back to its path
func (m *Manifest) Save(fsys types.FS) error {
	perm := os.FileMode(0644)
	if info, err := fsys.Stat(m.Path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fsys.WriteFile(m.Path, m.Bytes(), perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", m.Path)
	}
	return nil
}

// Name returns the plugin identity. It must be usable as a single path
// segment under the plugins directory.
func (m *Manifest) Name() (string, error) {
	name := m.String("name")
	if err := ValidateName(name); err != nil {
		return "", errors.Wrapf(err, errors.ErrValidation, "invalid \"name\" in %s", m.Path).
			WithDetail("path", m.Path).
			WithDetail("field", "name")
	}
	return name, nil
}

// ValidateName rejects names that are empty or not a single path segment
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("name is empty")
	case name == "." || name == "..":
		return fmt.Errorf("name %q is not a directory name", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("name contains a NUL byte")
	}
	return nil
}

// escapeKey makes a top-level key safe for gjson/sjson path syntax
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
