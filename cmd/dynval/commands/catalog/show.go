package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	dvcatalog "github.com/thoreinstein/dynval/internal/catalog"
	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
)

func init() {
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [kind]",
	Short: "Show the options of a validator kind",
	Long: `Show the description and options of a validator kind.

Without an argument on a terminal, pick the kind interactively.`,
	Example: `  # Show one kind
  dynval catalog show length

  # Pick interactively
  dynval catalog show

  See Also:
    dynval catalog list  - List validator kinds`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		k, ok := kinds.Kind(args[0])
		if !ok {
			return errors.NewUserError(errors.Wrapf(errors.ErrUnknownValidator, "%q", args[0]), "Run: dynval catalog list")
		}
		return writeKind(out, k)
	}

	if !logging.IsTTY(out) || !logging.IsTTY(os.Stdin) {
		return errors.NewUserError(errors.New("kind argument required"), "Run: dynval catalog show <kind>")
	}

	k, err := pick(kinds.Kinds())
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive selection failed")
	}
	return writeKind(out, k)
}

func pick(all []dvcatalog.Kind) (dvcatalog.Kind, error) {
	idx, err := fuzzyfinder.Find(
		all,
		func(i int) string {
			return all[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			var b strings.Builder
			_ = writeKind(&b, all[i])
			return b.String()
		}),
	)
	if err != nil {
		return dvcatalog.Kind{}, err
	}
	return all[idx], nil
}

func writeKind(w io.Writer, k dvcatalog.Kind) error {
	fmt.Fprintf(w, "%s\n  %s\n", k.Name, k.Description)
	if len(k.Options) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nOptions:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range k.Options {
		req := ""
		if o.Required {
			req = "required"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", o.Name, o.Type, req, o.Doc)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nExample:\n  --rule %s\n", example(k))
	return nil
}

// example builds a --rule value using every required option.
func example(k dvcatalog.Kind) string {
	rule := dvcatalog.Rule{Kind: k.Name, Options: map[string]any{}}
	for _, o := range k.Options {
		if o.Required {
			rule.Options[o.Name] = "<" + o.Type + ">"
		}
	}
	return rule.String()
}
