package dynval_test

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/dynval/pkg/dynval"
	"github.com/thoreinstein/dynval/pkg/pipeline"
	"github.com/thoreinstein/dynval/pkg/result"
)

// widget is a minimal host type.
type widget struct {
	dynval.Registry

	Name  string
	Value int

	errs result.Result
}

func (w *widget) Errors() *result.Result { return &w.errs }

var widgets = pipeline.Must(pipeline.New[*widget]("widget"))

func init() {
	widgets.Use("name_present", func(w *widget) {
		if w.Name == "" {
			w.Errors().AddError("name", "can't be blank", w.Name)
		}
	})
	dynval.Attach(widgets)
}

type failing struct {
	field, message string
}

func (f failing) Validate(rec dynval.Record) {
	rec.Errors().AddError(f.field, f.message, nil)
}

var (
	failOnValue = dynval.Static("FailOnValue", failing{field: "value", message: "is wrong"})
	failOnName  = dynval.Static("FailOnName", failing{field: "name", message: "is taken"})
)

type minimum struct {
	Minimum int `mapstructure:"minimum"`
}

func (m *minimum) Validate(rec dynval.Record) {
	w := rec.(*widget)
	if w.Value < m.Minimum {
		w.Errors().AddError("value", fmt.Sprintf("must be at least %d", m.Minimum), w.Value)
	}
}

var minimumValidator = dynval.Define("MinimumValidator", func(opts dynval.Options) (*minimum, error) {
	m := &minimum{}
	if err := opts.Decode(m); err != nil {
		return nil, err
	}
	return m, nil
})

type twoArgs struct{}

func (twoArgs) Validate(rec dynval.Record, strict bool) {}

type noValidate struct{}

func newWidget() *widget {
	return &widget{Name: "gear", Value: 5}
}

func TestNoValidatorsIsValid(t *testing.T) {
	w := newWidget()
	assert.True(t, widgets.Valid(w))
	assert.Zero(t, w.Errors().Len())
	assert.Equal(t, []string{"name_present", dynval.StepName}, widgets.Steps())
}

func TestSingleValidatorAppendsOncePerPass(t *testing.T) {
	w := newWidget()
	require.NoError(t, w.AddValidator(failOnValue, nil))

	for range 3 {
		assert.False(t, widgets.Valid(w))
		issues := w.Errors().OnField("value")
		require.Len(t, issues, 1)
		assert.Equal(t, "is wrong", issues[0].Message)
	}
}

func TestValidatorsRunInRegistrationOrder(t *testing.T) {
	w := newWidget()
	require.NoError(t, w.AddValidators([]*dynval.Ref{failOnValue, failOnName}, nil, nil))

	res := widgets.Validate(w)
	assert.Equal(t, []string{"value", "name"}, res.Fields())
}

func TestStaticAndDynamicErrorsMerge(t *testing.T) {
	w := newWidget()
	w.Name = ""
	require.NoError(t, w.AddValidator(failOnValue, nil))

	res := widgets.Validate(w)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, "name", res.Issues[0].Field, "static step runs first")
	assert.Equal(t, "value", res.Issues[1].Field)
}

func TestOptionsOverwriteByIdentity(t *testing.T) {
	w := newWidget()

	require.NoError(t, w.AddValidator(minimumValidator, dynval.Options{"minimum": 4}))
	assert.True(t, widgets.Valid(w))

	require.NoError(t, w.AddValidator(minimumValidator, dynval.Options{"minimum": 7}))
	assert.False(t, widgets.Valid(w))
	assert.Equal(t, 1, w.Len())

	issues := w.Errors().OnField("value")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "7")
}

func TestOverwriteKeepsPosition(t *testing.T) {
	var r dynval.Registry
	require.NoError(t, r.AddValidator(minimumValidator, dynval.Options{"minimum": 1}))
	require.NoError(t, r.AddValidator(failOnName, nil))
	require.NoError(t, r.AddValidator(minimumValidator, dynval.Options{"minimum": 2}))

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Same(t, minimumValidator, entries[0].Ref)
	assert.Equal(t, 2, entries[0].Options["minimum"])
	assert.Same(t, failOnName, entries[1].Ref)
}

func TestContractViolation(t *testing.T) {
	tests := []struct {
		name string
		ref  *dynval.Ref
	}{
		{
			name: "validate with two arguments",
			ref:  dynval.Dynamic("StrictValidator", func(dynval.Options) (any, error) { return twoArgs{}, nil }),
		},
		{
			name: "no validate method",
			ref:  dynval.Dynamic("EmptyValidator", func(dynval.Options) (any, error) { return noValidate{}, nil }),
		},
		{
			name: "typed nil from define",
			ref:  dynval.Define("NilMinimum", func(dynval.Options) (*minimum, error) { return nil, nil }),
		},
		{
			name: "typed nil from dynamic",
			ref:  dynval.Dynamic("NilDynamic", func(dynval.Options) (any, error) { return (*minimum)(nil), nil }),
		},
		{
			name: "nil unit func",
			ref:  dynval.Dynamic("NilFunc", func(dynval.Options) (any, error) { return dynval.UnitFunc(nil), nil }),
		},
		{
			name: "nil interface",
			ref:  dynval.Static("NilStatic", nil),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWidget()
			err := w.AddValidator(tt.ref, nil)
			require.Error(t, err)

			var cv *dynval.ContractViolation
			require.True(t, errors.As(err, &cv))
			assert.Equal(t, tt.ref.Name()+" must implement a validate(record) method.", err.Error())
			assert.ErrorIs(t, err, dynval.ErrContractViolation)
			assert.NotEmpty(t, cv.Reason)

			assert.Zero(t, w.Len())
			assert.True(t, widgets.Valid(w))
		})
	}
}

func TestContractViolationRegistersNothingFromCall(t *testing.T) {
	bad := dynval.Dynamic("BadValidator", func(dynval.Options) (any, error) { return noValidate{}, nil })
	blockRan := false

	w := newWidget()
	err := w.AddValidators([]*dynval.Ref{failOnValue, bad}, nil, func(dynval.Record) { blockRan = true })
	require.ErrorIs(t, err, dynval.ErrContractViolation)
	assert.Equal(t, "BadValidator must implement a validate(record) method.", err.Error())

	assert.Zero(t, w.Len())
	assert.True(t, widgets.Valid(w))
	assert.False(t, blockRan)
}

func TestBuildErrorIsWrapped(t *testing.T) {
	w := newWidget()
	err := w.AddValidator(minimumValidator, dynval.Options{"minimum": 1, "maximum": 3})
	require.Error(t, err)
	assert.NotErrorIs(t, err, dynval.ErrContractViolation)
	assert.Contains(t, err.Error(), `building validator "MinimumValidator"`)
}

func TestBlocksAreIndependent(t *testing.T) {
	w := newWidget()
	w.Value = 8

	require.NoError(t, w.AddBlock(func(rec dynval.Record) {
		if rec.(*widget).Value > 10 {
			rec.Errors().AddError("value", "must be at most 10", nil)
		}
	}))
	require.NoError(t, w.AddBlock(func(rec dynval.Record) {
		if rec.(*widget).Value > 6 {
			rec.Errors().AddError("value", "must be at most 6", nil)
		}
	}))
	require.Equal(t, 2, w.Len())

	res := widgets.Validate(w)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "must be at most 6", res.Issues[0].Message)

	for _, e := range w.Entries() {
		assert.Equal(t, dynval.KindBlock, e.Kind)
		assert.Len(t, e.Options, 1)
		assert.Contains(t, e.Options, dynval.BlockKey)
	}
}

func TestBlockAlongsideObjects(t *testing.T) {
	w := newWidget()
	calls := 0
	err := w.AddValidators([]*dynval.Ref{failOnValue}, nil, func(dynval.Record) { calls++ })
	require.NoError(t, err)

	assert.Equal(t, 2, w.Len())
	widgets.Valid(w)
	assert.Equal(t, 1, calls)
}

func TestNilBlockIsRejected(t *testing.T) {
	w := newWidget()
	assert.ErrorIs(t, w.AddBlock(nil), dynval.ErrContractViolation)
	assert.Zero(t, w.Len())
}

func TestInstanceIsolation(t *testing.T) {
	a := newWidget()
	b := newWidget()

	require.NoError(t, a.AddValidator(failOnValue, nil))

	assert.False(t, widgets.Valid(a))
	assert.True(t, widgets.Valid(b))
	assert.Zero(t, b.Len())
}

func TestDeleteValidator(t *testing.T) {
	w := newWidget()
	require.NoError(t, w.AddValidator(failOnValue, nil))
	require.False(t, widgets.Valid(w))

	w.DeleteValidator(failOnValue)

	assert.True(t, widgets.Valid(w))
	assert.False(t, w.Has(failOnValue))
}

func TestDeleteValidatorNoOps(t *testing.T) {
	var r dynval.Registry
	r.DeleteValidator(failOnValue)
	r.DeleteValidator(nil)
	assert.Zero(t, r.Len())

	require.NoError(t, r.AddValidator(failOnName, nil))
	r.DeleteValidator(failOnValue)
	assert.Equal(t, 1, r.Len())
}

func TestAllIsRestartable(t *testing.T) {
	var r dynval.Registry
	require.NoError(t, r.AddValidators([]*dynval.Ref{failOnValue, failOnName}, dynval.Options{"shared": true}, nil))

	for range 2 {
		var names []string
		for ref, opts := range r.All() {
			names = append(names, ref.Name())
			assert.Equal(t, true, opts["shared"])
		}
		assert.Equal(t, []string{"FailOnValue", "FailOnName"}, names)
	}

	// Breaking early stops the sequence.
	n := 0
	for range r.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestEntriesOptionsAreCopies(t *testing.T) {
	var r dynval.Registry
	require.NoError(t, r.AddValidator(minimumValidator, dynval.Options{"minimum": 3}))

	r.Entries()[0].Options["minimum"] = 99

	assert.Equal(t, 3, r.Entries()[0].Options["minimum"])
	for _, opts := range r.All() {
		assert.Equal(t, 3, opts["minimum"])
	}
}

func TestSharedOptionsAreCopiedPerEntry(t *testing.T) {
	opts := dynval.Options{"minimum": 3}
	var r dynval.Registry
	require.NoError(t, r.AddValidators([]*dynval.Ref{minimumValidator, failOnName}, opts, nil))

	opts["minimum"] = 99
	entries := r.Entries()
	assert.Equal(t, 3, entries[0].Options["minimum"])
	assert.Equal(t, 3, entries[1].Options["minimum"])
}

func TestRegistryChangesDuringPassApplyNextPass(t *testing.T) {
	w := newWidget()
	w.Value = 0
	require.NoError(t, w.AddBlock(func(rec dynval.Record) {
		rec.(*widget).DeleteValidator(minimumValidator)
	}))
	require.NoError(t, w.AddValidator(minimumValidator, dynval.Options{"minimum": 1}))

	// The block runs first and removes minimumValidator, which still runs
	// this pass.
	assert.False(t, widgets.Valid(w))
	assert.Equal(t, 1, w.Len())

	assert.True(t, widgets.Valid(w))
}

func TestAttachIsIdempotent(t *testing.T) {
	dynval.Attach(widgets)
	dynval.Attach(widgets)

	count := 0
	for _, name := range widgets.Steps() {
		if name == dynval.StepName {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUnitPanicPropagates(t *testing.T) {
	w := newWidget()
	require.NoError(t, w.AddBlock(func(dynval.Record) { panic("boom") }))
	assert.PanicsWithValue(t, "boom", func() { widgets.Valid(w) })
}
