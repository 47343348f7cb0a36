package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dynval/internal/config"
	"github.com/thoreinstein/dynval/internal/editor"
	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/paths"
	"github.com/thoreinstein/dynval/pkg/fileutil"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit dynval configuration",
	Long: `Inspect and edit the dynval configuration.

The config file is read from ./config.yaml, then from the user config
directory (~/.config/dynval/config.yaml, or $DYNVAL_CONFIG_DIR). DYNVAL_*
environment variables override file values.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show the effective configuration
  dynval config

  # Print the config file in use
  dynval config path

  # Write a starter config file
  dynval config init

  # Edit the config file and check it afterwards
  dynval config edit

See Also: dynval validate`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after defaults, the config file and environment overrides are merged, in YAML format.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Long: `Print the config file that was loaded. When none was found, print the
default location instead.`,
	RunE: runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with default values to the user config directory.

Refuses to overwrite an existing file unless --force is given.`,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in an editor",
	Long: `Open the config file in $EDITOR (or $VISUAL), writing a default one first
when none exists. The file is validated after the editor exits.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	data, err := fileutil.MarshalYAML(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if used := config.FileUsed(); used != "" {
		fmt.Fprintln(cmd.OutOrStdout(), used)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (not found)\n", paths.ConfigFile())
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := paths.ConfigFile()
	if config.Exists(path) && !configInitForce {
		return errors.NewUserError(errors.Newf("config file already exists: %s", path), "Pass --force to overwrite it")
	}
	if err := config.Save(path, config.Default()); err != nil {
		return errors.NewSystemError(err, "Check permissions on "+paths.ConfigDir())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = config.FileUsed()
	}
	if path == "" {
		path = paths.ConfigFile()
		if err := config.Save(path, config.Default()); err != nil {
			return errors.NewSystemError(err, "Check permissions on "+paths.ConfigDir())
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Location: %s\n", path)
	session := editor.Session{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	if err := session.Open(cmd.Context(), path); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to your editor command")
	}

	config.Init()
	if _, err := config.LoadWithCatalog(path, kinds); err != nil {
		return errors.NewUserError(err, "Run: dynval config edit")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
	return nil
}
