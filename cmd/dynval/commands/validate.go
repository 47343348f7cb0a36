package commands

import (
	"context"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/dynval/internal/catalog"
	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
	"github.com/thoreinstein/dynval/internal/records"
	"github.com/thoreinstein/dynval/pkg/result"
)

var (
	validateFormat      string
	validateRules       []string
	validateInputFormat string
)

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "",
		"report format: text, json, yaml (default from config)")
	validateCmd.Flags().StringArrayVarP(&validateRules, "rule", "r", nil,
		"add a rule to every record, as kind:key=value,... (repeatable)")
	validateCmd.Flags().StringVar(&validateInputFormat, "input-format", string(records.FormatYAML),
		"format of standard input when a file is -: yaml, json, toml, markdown")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate record files",
	Long: `Validate every record in the given files and report the issues found.

Rules from the config file come first, then --rule flags, then the file's
rules, then each record's own rules. A later rule of the same kind replaces an
earlier one for that record. Use - to read records from standard input.

In a --rule value, a comma followed by text without "=" continues the previous
value, so pattern:field=code,pattern=^[A-Z]{2,4}$ works. A value that itself
contains ",key=" must go in a config or record file rule instead.

With --format json each record is reported as one JSON object per line
(NDJSON). With --format yaml each record is its own YAML document.

Exits with status 1 if any record has errors. Warnings are reported but do
not fail the run.`,
	Example: `  # Validate one file
  dynval validate people.yaml

  # Require a minimum age for this run
  dynval validate people.yaml --rule minimum:field=age,minimum=18

  # Machine-readable output
  dynval validate people.json --format json

  # Read from standard input
  cat people.toml | dynval validate - --input-format toml

  See Also: dynval catalog list`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	format := validateFormat
	if format == "" {
		format = cfg.Format
	}
	reportFormat, err := result.ParseFormat(format)
	if err != nil {
		return errors.NewUserError(err, "Use --format text, json or yaml")
	}

	flagRules, err := catalog.ParseRules(validateRules)
	if err != nil {
		return errors.NewUserError(err, "Run: dynval catalog list")
	}
	extra := slices.Concat(cfg.Rules, flagRules)

	out := cmd.OutOrStdout()
	color.NoColor = !logging.SupportsColor(out)
	reporter := result.NewReporter(out, reportFormat)

	total, invalid := 0, 0
	for _, path := range args {
		items, err := loadItems(cmd.Context(), cmd.InOrStdin(), path, extra)
		if err != nil {
			if errors.Is(err, errors.ErrUnknownValidator) {
				return errors.NewUserError(err, "Run: dynval catalog list")
			}
			return errors.NewUserError(err, "Check the file's format and fields")
		}

		for _, item := range items {
			total++
			res := item.Account.Validate()
			if res.HasErrors() {
				invalid++
			}
			if err := reporter.Report(item.Label, res); err != nil {
				return errors.NewSystemError(err, "")
			}
		}
	}

	logging.FromContext(cmd.Context()).Info("validated records", "total", total, "invalid", invalid)

	if invalid > 0 {
		return errors.NewExitError(errors.Wrapf(errors.ErrInvalidRecord, "%d of %d records", invalid, total), errors.ExitUser)
	}
	return nil
}

func loadItems(ctx context.Context, stdin io.Reader, path string, extra []catalog.Rule) ([]*records.Item, error) {
	var (
		f   *records.File
		err error
	)
	if path == "-" {
		f, err = records.LoadReader(stdin, "-", records.Format(validateInputFormat))
	} else {
		f, err = records.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return records.Build(ctx, f, kinds, extra...)
}
