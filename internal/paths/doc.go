// Package paths resolves the filesystem locations dynval reads and writes.
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// compliance. The config directory is <ConfigHome>/dynval unless
// DYNVAL_CONFIG_DIR overrides it:
//
//	paths.ConfigDir()  // ~/.config/dynval on Linux
//	paths.ConfigFile() // ~/.config/dynval/config.yaml
//
// [ExpandHome] turns a leading "~" in user-supplied paths into the home
// directory.
package paths
