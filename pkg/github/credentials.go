package github

import (
	"os"
	"path/filepath"
	"time"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// Credentials is the content of credentials.toml
type Credentials struct {
	Token   string    `toml:"token"`
	User    string    `toml:"user,omitempty"`
	Source  string    `toml:"source,omitempty"`
	Created time.Time `toml:"created"`
}

// LoadCredentials reads stored credentials. A missing file yields empty
// credentials and no error.
func LoadCredentials(fsys types.FS, path string) (Credentials, error) {
	var creds Credentials
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	if err := toml.Unmarshal(data, &creds); err != nil {
		return creds, errors.Wrapf(err, errors.ErrConfigLoad, "invalid credentials file %s", path)
	}
	return creds, nil
}

// SaveCredentials writes creds readable by the owner only
func SaveCredentials(fsys types.FS, path string, creds Credentials) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}
	data, err := toml.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode credentials")
	}
	if err := fsys.WriteFile(path, data, 0600); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}
