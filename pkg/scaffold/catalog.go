package scaffold

import (
	_ "embed"
	"strings"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtinCatalog []byte

// Template is a git repository a new plugin project is cloned from
type Template struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadCatalog returns the built-in templates, or those of overrideFile
// when it is set.
func LoadCatalog(fsys types.FS, overrideFile string) ([]Template, error) {
	data, source := builtinCatalog, "built-in catalog"
	if overrideFile != "" {
		var err error
		data, err = fsys.ReadFile(overrideFile)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read template catalog %s", overrideFile)
		}
		source = overrideFile
	}
	return parseCatalog(data, source)
}

func parseCatalog(data []byte, source string) ([]Template, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "invalid template catalog %s", source)
	}
	if len(cf.Templates) == 0 {
		return nil, errors.Newf(errors.ErrConfigLoad, "template catalog %s lists no templates", source)
	}
	for i, t := range cf.Templates {
		if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.URL) == "" {
			return nil, errors.Newf(errors.ErrConfigLoad, "template %d in %s needs a name and a url", i+1, source)
		}
	}
	return cf.Templates, nil
}
