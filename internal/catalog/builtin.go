package catalog

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/pkg/dynval"
)

// Fielder is a record whose fields built-in kinds can read by name.
type Fielder interface {
	Field(name string) (any, bool)
}

// Target holds the options every built-in kind accepts. Kinds registered
// from outside the package can embed it with `mapstructure:",squash"`.
type Target struct {
	Field   string `mapstructure:"field"`
	Message string `mapstructure:"message"`
}

// Check reports a missing field option.
func (t Target) Check() error {
	if t.Field == "" {
		return errors.New("field option is required")
	}
	return nil
}

// Value reads t.Field from rec. When the field cannot be read an issue is
// recorded and ok is false.
func (t Target) Value(rec dynval.Record) (v any, ok bool) {
	f, isFielder := rec.(Fielder)
	if !isFielder {
		rec.Errors().AddError(t.Field, fmt.Sprintf("cannot be read from %T", rec), nil)
		return nil, false
	}
	v, ok = f.Field(t.Field)
	if !ok {
		rec.Errors().AddError(t.Field, "is not a known field", nil)
	}
	return v, ok
}

// Fail records an error on t.Field with t.Message, or fallback when no
// message option was given.
func (t Target) Fail(rec dynval.Record, value any, fallback string) {
	msg := t.Message
	if msg == "" {
		msg = fallback
	}
	rec.Errors().AddError(t.Field, msg, value)
}

// decoded adapts a constructor taking typed options to a BuildFunc.
func decoded[O any, U dynval.Unit](mk func(O) (U, error)) BuildFunc {
	return func(opts dynval.Options) (any, error) {
		var o O
		if err := opts.Decode(&o); err != nil {
			return nil, err
		}
		return mk(o)
	}
}

type builtin struct {
	name        string
	description string
	build       BuildFunc
	options     []OptionDoc
}

var (
	optField   = OptionDoc{Name: "field", Type: "string", Required: true, Doc: "record field to check"}
	optMessage = OptionDoc{Name: "message", Type: "string", Doc: "replaces the default message"}
)

func builtins() []builtin {
	return []builtin{
		{
			name:        "required",
			description: "Field must be present and non-zero.",
			build:       decoded(newRequired),
			options:     []OptionDoc{optField, optMessage},
		},
		{
			name:        "minimum",
			description: "Numeric field must be at least the minimum.",
			build:       decoded(newMinimum),
			options: []OptionDoc{optField,
				{Name: "minimum", Type: "number", Required: true, Doc: "smallest accepted value"}, optMessage},
		},
		{
			name:        "maximum",
			description: "Numeric field must be at most the maximum.",
			build:       decoded(newMaximum),
			options: []OptionDoc{optField,
				{Name: "maximum", Type: "number", Required: true, Doc: "largest accepted value"}, optMessage},
		},
		{
			name:        "length",
			description: "Text field length in characters must fall within min and max.",
			build:       decoded(newLength),
			options: []OptionDoc{optField,
				{Name: "min", Type: "integer", Doc: "fewest characters"},
				{Name: "max", Type: "integer", Doc: "most characters"}, optMessage},
		},
		{
			name:        "pattern",
			description: "Text field must match a regular expression.",
			build:       decoded(newPattern),
			options: []OptionDoc{optField,
				{Name: "pattern", Type: "regexp", Required: true, Doc: "RE2 expression the value must match"}, optMessage},
		},
		{
			name:        "one_of",
			description: "Field must equal one of the listed values.",
			build:       decoded(newOneOf),
			options: []OptionDoc{optField,
				{Name: "values", Type: "list", Required: true, Doc: "accepted values"}, optMessage},
		},
		{
			name:        "tag",
			description: "Field must pass a go-playground/validator tag, e.g. email or url.",
			build:       decoded(newTag),
			options: []OptionDoc{optField,
				{Name: "tag", Type: "string", Required: true, Doc: "validator tag expression"}, optMessage},
		},
	}
}

type required struct {
	Target `mapstructure:",squash"`
}

func newRequired(o required) (*required, error) {
	return &o, o.Check()
}

func (r *required) Validate(rec dynval.Record) {
	v, ok := r.Value(rec)
	if !ok {
		return
	}
	if isBlank(v) {
		r.Fail(rec, v, "can't be blank")
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return reflect.ValueOf(v).IsZero()
}

type minimum struct {
	Target  `mapstructure:",squash"`
	Minimum *float64 `mapstructure:"minimum"`
}

func newMinimum(o minimum) (*minimum, error) {
	if err := o.Check(); err != nil {
		return nil, err
	}
	if o.Minimum == nil {
		return nil, errors.New("minimum option is required")
	}
	return &o, nil
}

func (m *minimum) Validate(rec dynval.Record) {
	n, v, ok := number(rec, m.Target)
	if ok && n < *m.Minimum {
		m.Fail(rec, v, "must be at least "+formatNumber(*m.Minimum))
	}
}

type maximum struct {
	Target  `mapstructure:",squash"`
	Maximum *float64 `mapstructure:"maximum"`
}

func newMaximum(o maximum) (*maximum, error) {
	if err := o.Check(); err != nil {
		return nil, err
	}
	if o.Maximum == nil {
		return nil, errors.New("maximum option is required")
	}
	return &o, nil
}

func (m *maximum) Validate(rec dynval.Record) {
	n, v, ok := number(rec, m.Target)
	if ok && n > *m.Maximum {
		m.Fail(rec, v, "must be at most "+formatNumber(*m.Maximum))
	}
}

// number reads t.Field as a float64, recording an issue if it is not numeric.
// Blank values are skipped; pair with required to reject them.
func number(rec dynval.Record, t Target) (float64, any, bool) {
	v, ok := t.Value(rec)
	if !ok || isBlankText(v) {
		return 0, v, false
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		t.Fail(rec, v, "is not a number")
		return 0, v, false
	}
	return n, v, true
}

func isBlankText(v any) bool {
	s, ok := v.(string)
	return v == nil || ok && s == ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type length struct {
	Target `mapstructure:",squash"`
	Min    *int `mapstructure:"min"`
	Max    *int `mapstructure:"max"`
}

func newLength(o length) (*length, error) {
	if err := o.Check(); err != nil {
		return nil, err
	}
	switch {
	case o.Min == nil && o.Max == nil:
		return nil, errors.New("length needs a min or max option")
	case o.Min != nil && o.Max != nil && *o.Min > *o.Max:
		return nil, errors.Newf("length min %d is greater than max %d", *o.Min, *o.Max)
	}
	return &o, nil
}

func (l *length) Validate(rec dynval.Record) {
	v, ok := l.Value(rec)
	if !ok {
		return
	}
	n := utf8.RuneCountInString(cast.ToString(v))
	switch {
	case l.Min != nil && n < *l.Min:
		l.Fail(rec, v, fmt.Sprintf("is too short (minimum is %d characters)", *l.Min))
	case l.Max != nil && n > *l.Max:
		l.Fail(rec, v, fmt.Sprintf("is too long (maximum is %d characters)", *l.Max))
	}
}

type pattern struct {
	Target  `mapstructure:",squash"`
	Pattern string `mapstructure:"pattern"`

	re *regexp.Regexp
}

func newPattern(o pattern) (*pattern, error) {
	if err := o.Check(); err != nil {
		return nil, err
	}
	if o.Pattern == "" {
		return nil, errors.New("pattern option is required")
	}
	re, err := regexp.Compile(o.Pattern)
	if err != nil {
		return nil, errors.Wrap(err, "compiling pattern")
	}
	o.re = re
	return &o, nil
}

func (p *pattern) Validate(rec dynval.Record) {
	v, ok := p.Value(rec)
	if !ok || isBlankText(v) {
		return
	}
	if !p.re.MatchString(cast.ToString(v)) {
		p.Fail(rec, v, "is invalid")
	}
}

type oneOf struct {
	Target `mapstructure:",squash"`
	Values []string `mapstructure:"values"`
}

func newOneOf(o oneOf) (*oneOf, error) {
	if err := o.Check(); err != nil {
		return nil, err
	}
	if len(o.Values) == 0 {
		return nil, errors.New("values option is required")
	}
	return &o, nil
}

func (o *oneOf) Validate(rec dynval.Record) {
	v, ok := o.Value(rec)
	if !ok || isBlankText(v) {
		return
	}
	if !lo.Contains(o.Values, cast.ToString(v)) {
		o.Fail(rec, v, "must be one of "+strings.Join(o.Values, ", "))
	}
}

// tagValidator is shared by every tag unit; validator.Validate is safe for
// concurrent use and caches parsed tags.
var tagValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

type tag struct {
	Target `mapstructure:",squash"`
	Tag    string `mapstructure:"tag"`
}

func newTag(o tag) (t *tag, err error) {
	if err := o.Check(); err != nil {
		return nil, err
	}
	if o.Tag == "" {
		return nil, errors.New("tag option is required")
	}

	// Unknown tags panic inside validator; surface them at build time.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, errors.Newf("invalid tag %q: %v", o.Tag, r)
		}
	}()
	_ = tagValidator().Var("", o.Tag)

	return &o, nil
}

func (t *tag) Validate(rec dynval.Record) {
	v, ok := t.Value(rec)
	if !ok {
		return
	}
	err := tagValidator().Var(v, t.Tag)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("failed the %q check", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed the %q check (%s)", fe.Tag(), fe.Param())
		}
		t.Fail(rec, v, msg)
		return
	}
	t.Fail(rec, v, err.Error())
}
