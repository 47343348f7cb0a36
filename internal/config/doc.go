// Package config loads the dynval CLI configuration using Viper.
//
// # Configuration File
//
// The file is named config.yaml and is searched for in the current directory,
// then in the per-user config directory (~/.config/dynval on Linux, or
// $DYNVAL_CONFIG_DIR when set):
//
//	version: 1
//	format: text        # text, json or yaml
//	rules:              # applied to every record the CLI validates
//	  - kind: minimum
//	    options:
//	      field: age
//	      minimum: 18
//
// Settings can also be given as DYNVAL_* environment variables, for example
// DYNVAL_FORMAT=json.
//
// # Loading Configuration
//
// Call [Init] once before [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// An empty path searches the default locations and falls back to defaults
// when no file exists. An explicit path must exist; a missing one returns an
// error matching errors.ErrNotFound.
//
// # Validation
//
// Loaded configurations are checked with [Validate]: the version must be at
// least 1, the format must be a known report format and every rule must name
// a kind in the catalog.
package config
