package config

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/dynval/internal/catalog"
	dverrors "github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/pkg/result"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidFormat indicates an unrecognized report format.
	ErrInvalidFormat = errors.New("invalid format")
)

// Validate checks a Config for validity. Rule kinds are checked against cat
// when it is non-nil. Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config, cat *catalog.Catalog) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if _, err := result.ParseFormat(cfg.Format); err != nil {
		errs = append(errs, &FieldError{Field: "format", Value: cfg.Format, Err: ErrInvalidFormat})
	}

	if cat != nil {
		for i, rule := range cfg.Rules {
			if !cat.Has(rule.Kind) {
				errs = append(errs, &RuleError{Index: i, Kind: rule.Kind, Err: dverrors.ErrUnknownValidator})
			}
		}
	}

	return errs
}

// FieldError represents an invalid value for a top-level field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v: %q", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RuleError represents an invalid entry in the rules list.
type RuleError struct {
	Index int
	Kind  string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rules[%d] (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
