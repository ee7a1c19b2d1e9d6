package manifest

import (
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
)

// Set is a project's plugin manifest plus its optional package manifest
type Set struct {
	Plugin  *Manifest
	Package *Manifest
}

// LoadSet loads both manifests of a project. plugin.json is required.
func LoadSet(fsys types.FS, project paths.Project, pluginFile, packageFile string) (*Set, error) {
	if pluginFile == "" {
		pluginFile = PluginFile
	}
	if packageFile == "" {
		packageFile = PackageFile
	}

	plugin, err := Load(fsys, project.File(pluginFile))
	if err != nil {
		return nil, err
	}
	pkg, err := LoadOptional(fsys, project.File(packageFile))
	if err != nil {
		return nil, err
	}
	return &Set{Plugin: plugin, Package: pkg}, nil
}

// ReadIdentity returns the validated plugin name from plugin.json
func ReadIdentity(fsys types.FS, project paths.Project, pluginFile string) (string, error) {
	if pluginFile == "" {
		pluginFile = PluginFile
	}
	m, err := Load(fsys, project.File(pluginFile))
	if err != nil {
		return "", err
	}
	return m.Name()
}

// Manifests returns the loaded manifests, plugin first
func (s *Set) Manifests() []*Manifest {
	out := []*Manifest{s.Plugin}
	if s.Package != nil {
		out = append(out, s.Package)
	}
	return out
}

// SetField writes value into field of every manifest
func (s *Set) SetField(field, value string) error {
	for _, m := range s.Manifests() {
		if err := m.Set(field, value); err != nil {
			return err
		}
	}
	return nil
}

// Save writes every manifest
func (s *Set) Save(fsys types.FS) error {
	for _, m := range s.Manifests() {
		if err := m.Save(fsys); err != nil {
			return err
		}
	}
	return nil
}

// RawVersion is plugin.json's version, falling back to package.json's
func (s *Set) RawVersion() (string, error) {
	for _, m := range s.Manifests() {
		if v := m.String("version"); v != "" {
			return v, nil
		}
	}
	return "", errors.Newf(errors.ErrValidation, "no \"version\" field in %s", s.Plugin.Path).
		WithDetail("path", s.Plugin.Path).
		WithDetail("field", "version")
}
