package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
	"github.com/thoreinstein/dynval/pkg/dynval"
	"github.com/thoreinstein/dynval/pkg/result"
)

// row is a record backed by a map.
type row struct {
	dynval.Registry

	fields map[string]any
	errs   result.Result
}

func (r *row) Errors() *result.Result { return &r.errs }

func (r *row) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// check applies rules to a fresh row and runs them once.
func check(t *testing.T, c *Catalog, fields map[string]any, rules ...Rule) *result.Result {
	t.Helper()
	r := &row{fields: fields}
	require.NoError(t, c.Apply(logging.NewContext(t.Context(), logging.ForTest(t)), &r.Registry, rules))
	r.Errors().Reset()
	r.Run(r)
	return r.Errors()
}

func TestDefaultNames(t *testing.T) {
	want := []string{"length", "maximum", "minimum", "one_of", "pattern", "required", "tag"}
	assert.Equal(t, want, Default().Names())

	kinds := Default().Kinds()
	require.Len(t, kinds, len(want))
	for _, k := range kinds {
		assert.NotEmpty(t, k.Description, k.Name)
		assert.NotNil(t, k.Ref(), k.Name)
		assert.Equal(t, k.Name, k.Ref().Name())
	}
}

func TestDefaultReturnsIndependentCatalogs(t *testing.T) {
	a, b := Default(), Default()
	require.NoError(t, a.Register("extra", "", func(dynval.Options) (any, error) { return nil, nil }))
	assert.True(t, a.Has("extra"))
	assert.False(t, b.Has("extra"))
}

func TestLookup(t *testing.T) {
	c := Default()

	ref, err := c.Lookup("minimum")
	require.NoError(t, err)
	again, err := c.Lookup("minimum")
	require.NoError(t, err)
	assert.Same(t, ref, again, "a kind has one identity")

	_, err = c.Lookup("shout")
	assert.ErrorIs(t, err, errors.ErrUnknownValidator)
	assert.Contains(t, err.Error(), `"shout"`)
}

func TestDescribe(t *testing.T) {
	c := Default()
	desc, err := c.Describe("pattern")
	require.NoError(t, err)
	assert.Contains(t, desc, "regular expression")

	_, err = c.Describe("missing")
	assert.ErrorIs(t, err, errors.ErrUnknownValidator)
}

func TestRegister(t *testing.T) {
	build := func(dynval.Options) (any, error) { return dynval.UnitFunc(func(dynval.Record) {}), nil }

	tests := []struct {
		name    string
		kind    string
		wantErr error
	}{
		{"new kind", "even", nil},
		{"duplicate", "minimum", ErrKindAlreadyRegistered},
		{"empty", "", ErrInvalidKindName},
		{"separator", "a:b", ErrInvalidKindName},
		{"space", "a b", ErrInvalidKindName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().Register(tt.kind, "desc", build)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyPluginWithoutValidate(t *testing.T) {
	c := New()
	require.NoError(t, c.Register("BadValidator", "returns a value that is not a unit",
		func(dynval.Options) (any, error) { return struct{}{}, nil }))

	r := &row{}
	err := c.Apply(t.Context(), &r.Registry, []Rule{{Kind: "BadValidator"}})
	require.ErrorIs(t, err, dynval.ErrContractViolation)
	assert.Contains(t, err.Error(), "BadValidator must implement a validate(record) method.")
	assert.Zero(t, r.Len())
}

func TestApplyUnknownKind(t *testing.T) {
	r := &row{}
	err := Default().Apply(t.Context(), &r.Registry, []Rule{{Kind: "minimum", Options: dynval.Options{"field": "age", "minimum": 1}}, {Kind: "nope"}})
	require.ErrorIs(t, err, errors.ErrUnknownValidator)
	assert.Contains(t, err.Error(), "rule 2")
	assert.Equal(t, 1, r.Len(), "rules before the failing one stay applied")
}

func TestApplySameKindReplaces(t *testing.T) {
	res := check(t, Default(), map[string]any{"age": 5},
		Rule{Kind: "minimum", Options: dynval.Options{"field": "age", "minimum": 4}},
		Rule{Kind: "minimum", Options: dynval.Options{"field": "age", "minimum": 7}},
	)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "must be at least 7", res.Issues[0].Message)
}

func TestValidateRules(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate([]Rule{{Kind: "required"}, {Kind: "tag"}}))

	err := c.Validate([]Rule{{Kind: "required"}, {Kind: "x"}, {Kind: "y"}})
	require.ErrorIs(t, err, errors.ErrUnknownValidator)
	assert.Contains(t, err.Error(), `"x"`)
	assert.Contains(t, err.Error(), `"y"`)
}
