// Package catalog implements the dynval catalog commands.
package catalog

import (
	"github.com/spf13/cobra"

	dvcatalog "github.com/thoreinstein/dynval/internal/catalog"
)

// kinds is the catalog the commands describe.
var kinds = dvcatalog.Default()

// SetCatalog replaces the catalog the commands describe.
func SetCatalog(c *dvcatalog.Catalog) {
	kinds = c
}

// Cmd is the parent command for catalog subcommands.
var Cmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the validator kinds rules can use",
	Long: `Browse the validator kinds available to rules in config files, record
files and the --rule flag.`,
	Example: `  # List all kinds
  dynval catalog list

  # Show the options of one kind
  dynval catalog show minimum`,
}
