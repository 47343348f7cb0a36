package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dynval/internal/config"
	"github.com/thoreinstein/dynval/internal/doctor"
	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/paths"
)

var (
	doctorJSON bool
	doctorAll  bool
)

// Sentinels carried by the doctor exit error.
var (
	errDoctorWarnings = errors.New("warnings found")
	errDoctorErrors   = errors.New("errors found")
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false, "show passed and informational checks too")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the dynval config file.

Loads and validates the config file, checks its permissions, and builds each
configured rule so option errors show up before a validate run.

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = config.FileUsed()
	}
	if path == "" {
		path = paths.ConfigFile()
	}

	runner := doctor.NewRunner(
		doctor.NewConfigFileCheck(configFile, kinds),
		doctor.NewPermissionCheck(filepath.Clean(path)),
		doctor.NewRulesCheck(cfg.Rules, kinds),
	)
	report := runner.Run()

	out := cmd.OutOrStdout()
	if doctorJSON {
		if err := writeDoctorJSON(out, report); err != nil {
			return err
		}
	} else {
		writeDoctorText(out, report, doctorAll)
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func writeDoctorJSON(w io.Writer, report *doctor.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func writeDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	shown := 0
	for _, res := range report.Results {
		problem := res.Status == doctor.SeverityError || res.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}
		shown++
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(res.Status), res.Category, res.Name, res.Message)
		if failures, ok := res.Details["failures"].([]string); ok {
			for _, f := range failures {
				fmt.Fprintf(w, "    %s\n", f)
			}
		}
		if problem && res.FixHint != "" {
			fmt.Fprintf(w, "  hint: %s\n", res.FixHint)
		}
	}
	if shown > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
