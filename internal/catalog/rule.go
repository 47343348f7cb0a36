package catalog

import (
	"strings"

	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/pkg/dynval"
)

// ErrInvalidRule is returned by ParseRule for malformed input.
var ErrInvalidRule = errors.New("invalid rule")

// Rule is one validator kind applied with options.
type Rule struct {
	Kind    string         `mapstructure:"kind" json:"kind" yaml:"kind" toml:"kind"`
	Options dynval.Options `mapstructure:"options" json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// String formats r in the form ParseRule accepts, with keys sorted.
func (r Rule) String() string {
	if len(r.Options) == 0 {
		return r.Kind
	}
	var b strings.Builder
	b.WriteString(r.Kind)
	b.WriteByte(':')
	for i, key := range sortedKeys(r.Options) {
		if i > 0 {
			b.WriteByte(',')
		}
		writeOption(&b, key, r.Options[key])
	}
	return b.String()
}

// ParseRule reads "kind" or "kind:key=value,key=value". Values stay strings
// and are converted when the kind decodes its options. A key given more than
// once collects its values into a list.
func ParseRule(s string) (Rule, error) {
	kind, rest, hasOpts := strings.Cut(strings.TrimSpace(s), ":")
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return Rule{}, errors.Wrapf(ErrInvalidRule, "%q: missing kind", s)
	}

	rule := Rule{Kind: kind, Options: dynval.Options{}}
	if !hasOpts || strings.TrimSpace(rest) == "" {
		return rule, nil
	}

	// A segment without "=" continues the previous value, so values such as
	// the pattern ^[a-z]{1,3}$ may contain commas.
	lastKey := ""
	for _, pair := range strings.Split(rest, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok && lastKey != "" {
			rule.Options[lastKey] = continueValue(rule.Options[lastKey], pair)
			continue
		}
		if !ok || key == "" {
			return Rule{}, errors.Wrapf(ErrInvalidRule, "%q: option %q is not key=value", s, pair)
		}
		value = strings.TrimSpace(value)
		lastKey = key

		switch prev := rule.Options[key].(type) {
		case nil:
			rule.Options[key] = value
		case string:
			rule.Options[key] = []string{prev, value}
		case []string:
			rule.Options[key] = append(prev, value)
		}
	}
	return rule, nil
}

// ParseRules parses each element of specs.
func ParseRules(specs []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		r, err := ParseRule(spec)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// continueValue appends "," and more to the last value held in v.
func continueValue(v any, more string) any {
	switch prev := v.(type) {
	case string:
		return prev + "," + strings.TrimRight(more, " ")
	case []string:
		prev[len(prev)-1] += "," + strings.TrimRight(more, " ")
		return prev
	}
	return v
}
