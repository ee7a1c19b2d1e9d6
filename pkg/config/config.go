package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the fully merged syplug configuration
type Config struct {
	SiYuan   SiYuanConfig   `koanf:"siyuan"`
	Project  ProjectConfig  `koanf:"project"`
	GitHub   GitHubConfig   `koanf:"github"`
	Scaffold ScaffoldConfig `koanf:"scaffold"`
}

// SiYuanConfig controls plugins directory resolution
type SiYuanConfig struct {
	API          string        `koanf:"api"`
	Token        string        `koanf:"token"`
	ProbeTimeout time.Duration `koanf:"probe_timeout"`
	PluginsDir   string        `koanf:"plugins_dir"`
}

// ProjectConfig names the project's build outputs and manifests
type ProjectConfig struct {
	DevDir          string `koanf:"dev_dir"`
	DistDir         string `koanf:"dist_dir"`
	PluginManifest  string `koanf:"plugin_manifest"`
	PackageManifest string `koanf:"package_manifest"`
}

// GitHubConfig configures repository publishing
type GitHubConfig struct {
	API             string `koanf:"api"`
	Web             string `koanf:"web"`
	Token           string `koanf:"token"`
	ClientID        string `koanf:"client_id"`
	CredentialsFile string `koanf:"credentials_file"`
	DefaultBranch   string `koanf:"default_branch"`
}

// ScaffoldConfig configures project creation
type ScaffoldConfig struct {
	TemplatesFile string `koanf:"templates_file"`
}

// envBindings maps environment variables to config keys
var envBindings = map[string]string{
	paths.EnvPluginDir:        "siyuan.plugins_dir",
	"SIYUAN_API":              "siyuan.api",
	"SIYUAN_TOKEN":            "siyuan.token",
	"GITHUB_TOKEN":            "github.token",
	"SYPLUG_GITHUB_CLIENT_ID": "github.client_id",
}

// userOnlyKeys cannot come from a project's .syplug.toml: a cloned project
// must not be able to redirect tokens or choose where they are stored.
var userOnlyKeys = []string{"github", "siyuan.api", "siyuan.token"}

// LoadOptions selects the optional config layers
type LoadOptions struct {
	// ProjectRoot is searched for .syplug.toml
	ProjectRoot string
	// ExtraFile is an explicit config file; it must exist when set
	ExtraFile string
}

// Load merges all configuration layers into a Config
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config
	if path := paths.ConfigFile(); fileExists(path) {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Project config, without the keys that carry or route credentials
	if opts.ProjectRoot != "" {
		path := filepath.Join(opts.ProjectRoot, paths.ProjectConfigFile)
		if fileExists(path) {
			pk := koanf.New(".")
			if err := pk.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
			}
			for _, key := range userOnlyKeys {
				if pk.Exists(key) {
					logger.Warn().Str("path", path).Str("key", key).Msg("Ignoring key that may only be set outside the project")
					pk.Delete(key)
				}
			}
			if err := k.Merge(pk); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to merge config from %s", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded project config file")
		}
	}

	// 4. Explicit file
	if opts.ExtraFile != "" {
		path := paths.Expand(opts.ExtraFile)
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// 5. Environment
	if env := environment(); len(env) > 0 {
		if err := k.Load(confmap.Provider(env, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to decode configuration")
	}

	cfg.SiYuan.PluginsDir = paths.Expand(cfg.SiYuan.PluginsDir)
	cfg.GitHub.CredentialsFile = paths.Expand(cfg.GitHub.CredentialsFile)
	if cfg.GitHub.CredentialsFile == "" {
		cfg.GitHub.CredentialsFile = paths.CredentialsFile()
	}
	cfg.Scaffold.TemplatesFile = paths.Expand(cfg.Scaffold.TemplatesFile)

	return &cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// environment collects the bound environment variables that are set
func environment() map[string]interface{} {
	env := make(map[string]interface{})
	for name, key := range envBindings {
		if value := os.Getenv(name); value != "" {
			env[key] = value
		}
	}
	return env
}
