package result

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces one compact JSON object per line (NDJSON).
	FormatJSON Format = "json"
	// FormatYAML produces one YAML document per report.
	FormatYAML Format = "yaml"
)

// maxValueWidth bounds how much of an offending value the text report prints.
const maxValueWidth = 50

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the supported report formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Report is the structured form written by the JSON and YAML formats.
type Report struct {
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	Valid  bool    `json:"valid" yaml:"valid"`
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
	count  int
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes res under label. A nil result reports as valid with no issues.
func (r *Reporter) Report(label string, res *Result) error {
	if res == nil {
		res = &Result{}
	}
	defer func() { r.count++ }()

	switch r.format {
	case FormatJSON:
		return r.reportJSON(label, res)
	case FormatYAML:
		return r.reportYAML(label, res)
	default:
		return r.reportText(label, res)
	}
}

func structured(label string, res *Result) Report {
	issues := res.Issues
	if issues == nil {
		issues = []Issue{}
	}
	return Report{Label: label, Valid: !res.HasErrors(), Issues: issues}
}

func (r *Reporter) reportJSON(label string, res *Result) error {
	return errors.Wrap(json.NewEncoder(r.out).Encode(structured(label, res)), "encoding JSON report")
}

func (r *Reporter) reportYAML(label string, res *Result) error {
	if r.count > 0 {
		if _, err := io.WriteString(r.out, "---\n"); err != nil {
			return errors.Wrap(err, "writing YAML document separator")
		}
	}
	encoder := yaml.NewEncoder(r.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(structured(label, res)); err != nil {
		return errors.Wrap(err, "encoding YAML report")
	}
	return errors.Wrap(encoder.Close(), "flushing YAML report")
}

func (r *Reporter) reportText(label string, res *Result) error {
	prefix := ""
	if label != "" {
		prefix = label + ": "
	}

	if !res.HasErrors() && !res.HasWarnings() {
		fmt.Fprintln(r.out, color.GreenString("✓ %svalid", prefix))
		return nil
	}

	errs := res.Errors()
	warnings := res.Warnings()

	summary := []string{}
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	mark := color.RedString("✗")
	if len(errs) == 0 {
		mark = color.YellowString("!")
	}
	fmt.Fprintf(r.out, "%s %s%s\n", mark, prefix, strings.Join(summary, ", "))

	for _, issue := range errs {
		r.printIssue(issue, color.FgRed)
	}
	for _, issue := range warnings {
		r.printIssue(issue, color.FgYellow)
	}

	return nil
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	muted := color.New(color.FgHiBlack)

	// Format:  • field: message (context) [value]
	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		parts := make([]string, 0, len(i.Context))
		for k, v := range i.Context {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
		sort.Strings(parts)

		sb.WriteString(" ")
		sb.WriteString(muted.Sprintf("(%s)", strings.Join(parts, ", ")))
	}

	if i.Value != nil {
		valStr := fmt.Sprintf("%v", i.Value)
		valStr = truncate(valStr, maxValueWidth)
		sb.WriteString(muted.Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
