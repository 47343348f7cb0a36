package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List validator kinds",
	Long:  `List every validator kind with a one-line description.`,
	Example: `  # List kinds
  dynval catalog list

  # Output as JSON
  dynval catalog list --json

  See Also:
    dynval catalog show  - Show the options of a kind`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(cmd.OutOrStdout())
	},
}

func runList(w io.Writer) error {
	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(kinds.Kinds()), "encoding kinds")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tDESCRIPTION")
	for _, k := range kinds.Kinds() {
		fmt.Fprintf(tw, "%s\t%s\n", k.Name, k.Description)
	}
	return tw.Flush()
}
