package result

import (
	"fmt"
	"strings"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a recommended but non-blocking issue.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name so reports stay readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name written by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Issue is a single entry in a record's error collection.
type Issue struct {
	// Severity indicates the impact of the issue.
	Severity Severity `json:"severity" yaml:"severity"`
	// Field is the field the issue is keyed by. Empty means the record as a whole.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Message is a human-readable description of the problem.
	Message string `json:"message" yaml:"message"`
	// Value is the offending value (optional).
	Value any `json:"value,omitempty" yaml:"value,omitempty"`
	// Context carries extra key/value detail, such as the rule that fired.
	Context map[string]string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString("field \"")
		sb.WriteString(i.Field)
		sb.WriteString("\": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result is an ordered, append-only collection of issues keyed by field.
// The zero value is empty and ready to use.
type Result struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Add appends an issue as given.
func (r *Result) Add(i Issue) {
	r.Issues = append(r.Issues, i)
}

// AddError appends an error issue.
func (r *Result) AddError(field, message string, value any) {
	r.Add(Issue{Severity: SeverityError, Field: field, Message: message, Value: value})
}

// AddWarning appends a warning issue.
func (r *Result) AddWarning(field, message string, value any) {
	r.Add(Issue{Severity: SeverityWarning, Field: field, Message: message, Value: value})
}

// AddInfo appends an info issue.
func (r *Result) AddInfo(field, message string, value any) {
	r.Add(Issue{Severity: SeverityInfo, Field: field, Message: message, Value: value})
}

// Reset drops every issue while keeping the backing array.
func (r *Result) Reset() {
	if r == nil {
		return
	}
	clear(r.Issues)
	r.Issues = r.Issues[:0]
}

// Len returns the number of issues of any severity.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Issues)
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

// Errors returns all issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.filter(func(i Issue) bool { return i.Severity == SeverityError })
}

// Warnings returns all issues with SeverityWarning.
func (r *Result) Warnings() []Issue {
	return r.filter(func(i Issue) bool { return i.Severity == SeverityWarning })
}

// OnField returns every issue recorded against field, in insertion order.
func (r *Result) OnField(field string) []Issue {
	return r.filter(func(i Issue) bool { return i.Field == field })
}

// Fields returns the distinct fields that carry issues, in order of first appearance.
func (r *Result) Fields() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(r.Issues))
	var fields []string
	for _, i := range r.Issues {
		if _, ok := seen[i.Field]; ok {
			continue
		}
		seen[i.Field] = struct{}{}
		fields = append(fields, i.Field)
	}
	return fields
}

func (r *Result) count(s Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

func (r *Result) filter(keep func(Issue) bool) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if keep(i) {
			res = append(res, i)
		}
	}
	return res
}
