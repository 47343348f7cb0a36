package dynval

import (
	"github.com/thoreinstein/dynval/pkg/pipeline"
)

// Record is the value every unit validates: anything exposing a shared error
// collection.
type Record = pipeline.Record

// Unit is a single validator. Validate appends zero or more issues to
// rec.Errors().
type Unit interface {
	Validate(rec Record)
}

// UnitFunc adapts a plain function to Unit.
type UnitFunc func(rec Record)

// Validate calls f(rec).
func (f UnitFunc) Validate(rec Record) { f(rec) }

// BlockFunc is inline validation logic added with Registry.AddBlock.
type BlockFunc func(rec Record)

// Kind tags which variant of unit an entry holds.
type Kind int

const (
	// KindObject is a unit built by a Ref from options.
	KindObject Kind = iota
	// KindBlock is an inline closure wrapped as a unit.
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Ref identifies a validator kind. Two entries share an identity only when
// they were added with the same *Ref.
type Ref struct {
	name  string
	kind  Kind
	build func(Options) (any, error)
}

// Define declares a validator kind whose build function returns a concrete
// Unit, so the contract is checked at compile time.
func Define[U Unit](name string, build func(Options) (U, error)) *Ref {
	return &Ref{
		name: name,
		kind: KindObject,
		build: func(opts Options) (any, error) {
			return build(opts)
		},
	}
}

// Dynamic declares a validator kind whose build function is not known to
// return a Unit, such as one looked up from configuration. The result is
// checked each time the Ref is added to a registry.
func Dynamic(name string, build func(Options) (any, error)) *Ref {
	return &Ref{name: name, kind: KindObject, build: build}
}

// Static declares a validator kind for a unit that ignores options.
func Static(name string, u Unit) *Ref {
	return Define(name, func(Options) (Unit, error) { return u, nil })
}

// Name returns the name the Ref was declared with.
func (r *Ref) Name() string {
	if r == nil {
		return "<nil>"
	}
	return r.name
}

// Kind reports whether the Ref builds object units or wraps a block.
func (r *Ref) Kind() Kind {
	return r.kind
}

func (r *Ref) String() string {
	return r.Name()
}
