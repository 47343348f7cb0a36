package dynval

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/cockroachdb/errors"
)

// ErrContractViolation matches every *ContractViolation via errors.Is.
var ErrContractViolation = errors.New("validator contract violation")

// BlockKey is the single option a block unit is built from.
const BlockKey = "block"

// ContractViolation reports a validator that cannot be used as a Unit.
type ContractViolation struct {
	// Name is the validator name exactly as supplied.
	Name string
	// Reason describes what was wrong with the value, for diagnostics.
	Reason string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("%s must implement a validate(record) method.", e.Name)
}

// Is reports whether target is ErrContractViolation.
func (e *ContractViolation) Is(target error) bool {
	return target == ErrContractViolation
}

// build constructs the unit for ref and checks it satisfies Unit.
func build(ref *Ref, opts Options) (Unit, error) {
	if ref == nil || ref.build == nil {
		return nil, &ContractViolation{Name: ref.Name(), Reason: "no build function"}
	}

	v, err := ref.build(opts)
	if err != nil {
		if errors.Is(err, ErrContractViolation) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "building validator %q", ref.Name())
	}

	u, ok := v.(Unit)
	if !ok || isNil(v) {
		cv := &ContractViolation{Name: ref.Name(), Reason: describe(v)}
		slog.Debug("rejected validator", "validator", cv.Name, "reason", cv.Reason)
		return nil, cv
	}
	return u, nil
}

// isNil reports whether v is a typed nil that would panic when called.
func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// describe explains why v does not satisfy Unit.
func describe(v any) string {
	if v == nil {
		return "build returned nil"
	}
	t := reflect.TypeOf(v)
	if isNil(v) {
		return "build returned a nil " + t.String()
	}
	m, ok := t.MethodByName("Validate")
	if !ok {
		return fmt.Sprintf("%s has no Validate method", t)
	}
	// Method types from a concrete Type include the receiver.
	if args := m.Type.NumIn() - 1; args != 1 {
		return fmt.Sprintf("%s.Validate takes %d arguments, want 1", t, args)
	}
	return fmt.Sprintf("%s.Validate has signature %s", t, m.Type)
}

// buildBlock is the build function shared by every block Ref.
func buildBlock(opts Options) (any, error) {
	v, ok := opts.Get(BlockKey)
	if !ok {
		return nil, &ContractViolation{Name: blockName, Reason: "missing " + BlockKey + " option"}
	}
	var fn BlockFunc
	switch f := v.(type) {
	case BlockFunc:
		fn = f
	case func(Record):
		fn = f
	}
	if fn == nil {
		return nil, &ContractViolation{Name: blockName, Reason: fmt.Sprintf("%s option is %T", BlockKey, v)}
	}
	return UnitFunc(fn), nil
}

const blockName = "BlockValidator"

func newBlockRef() *Ref {
	return &Ref{name: blockName, kind: KindBlock, build: buildBlock}
}
