package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/dynval/internal/catalog"
	dverrors "github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/paths"
	"github.com/thoreinstein/dynval/pkg/fileutil"
	"github.com/thoreinstein/dynval/pkg/result"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "DYNVAL"

// Config represents the top-level configuration structure.
type Config struct {
	Version int            `mapstructure:"version" yaml:"version"`
	Format  string         `mapstructure:"format" yaml:"format"`
	Rules   []catalog.Rule `mapstructure:"rules" yaml:"rules,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Version: 1,
		Format:  string(result.FormatText),
	}
}

// Init resets Viper and configures search paths, environment overrides and
// defaults. Call this once at application startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault("version", def.Version)
	viper.SetDefault("format", def.Format)
}

// Load reads and validates the configuration against the default catalog.
// If path is empty the search paths are used and a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	return LoadWithCatalog(path, catalog.Default())
}

// LoadWithCatalog is Load with rule kinds checked against cat.
func LoadWithCatalog(path string, cat *catalog.Catalog) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file: defaults apply.
		case errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist):
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), dverrors.ErrNotFound)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg, cat); len(errs) > 0 {
		err := errors.Wrap(errors.Join(errs...), "validating config")
		return nil, errors.Mark(err, dverrors.ErrInvalidConfig)
	}
	return &cfg, nil
}

// FileUsed returns the file Load read, or "" when defaults were used.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// Save writes cfg to path as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return err
	}
	return fileutil.AtomicWriteYAML(path, cfg, 0o600)
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
