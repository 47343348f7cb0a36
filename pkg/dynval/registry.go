package dynval

import (
	"iter"
	"slices"
)

// Entry is one registered validator.
type Entry struct {
	Ref     *Ref
	Options Options
	Kind    Kind

	unit Unit
}

// Registry is the ordered set of validators added to one record.
//
// Embed it by value in the host type; the zero value is empty and ready.
// Entries run in the order they were first added. Re-adding a Ref replaces its
// options in place. A Registry must not be copied after first use, and it is
// not safe for concurrent mutation.
type Registry struct {
	entries []*Entry
}

// DynamicValidators returns r. It lets any type that embeds a Registry
// satisfy Host.
func (r *Registry) DynamicValidators() *Registry {
	return r
}

// AddValidators builds and checks every ref with the shared opts, plus block
// when it is non-nil, then registers them all. If any check fails nothing from
// this call is registered and the error is returned; a *ContractViolation
// names the offending validator.
func (r *Registry) AddValidators(refs []*Ref, opts Options, block BlockFunc) error {
	pending := make([]*Entry, 0, len(refs)+1)

	for _, ref := range refs {
		entryOpts := opts.Clone()
		u, err := build(ref, entryOpts)
		if err != nil {
			return err
		}
		pending = append(pending, &Entry{Ref: ref, Options: entryOpts, Kind: ref.kind, unit: u})
	}

	if block != nil {
		ref := newBlockRef()
		blockOpts := Options{BlockKey: block}
		u, err := build(ref, blockOpts)
		if err != nil {
			return err
		}
		pending = append(pending, &Entry{Ref: ref, Options: blockOpts, Kind: KindBlock, unit: u})
	}

	for _, e := range pending {
		r.put(e)
	}
	return nil
}

// AddValidator adds a single ref built with opts.
func (r *Registry) AddValidator(ref *Ref, opts Options) error {
	return r.AddValidators([]*Ref{ref}, opts, nil)
}

// AddBlock adds fn as a validator with its own identity.
func (r *Registry) AddBlock(fn BlockFunc) error {
	if fn == nil {
		return &ContractViolation{Name: blockName, Reason: "nil block"}
	}
	return r.AddValidators(nil, nil, fn)
}

// DeleteValidator removes ref. Removing a ref that was never added is a no-op.
func (r *Registry) DeleteValidator(ref *Ref) {
	if i := r.index(ref); i >= 0 {
		r.entries = slices.Delete(r.entries, i, i+1)
	}
}

// Has reports whether ref is registered.
func (r *Registry) Has(ref *Ref) bool {
	return r.index(ref) >= 0
}

// Len returns the number of registered validators.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Reset removes every validator.
func (r *Registry) Reset() {
	clear(r.entries)
	r.entries = r.entries[:0]
}

// Entries returns a snapshot of the registered validators in run order. Each
// entry carries its own copy of the options.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = *e
		out[i].Options = e.Options.Clone()
	}
	return out
}

// All yields each registered ref with its options in run order. The sequence
// iterates a snapshot and can be ranged over any number of times.
func (r *Registry) All() iter.Seq2[*Ref, Options] {
	return func(yield func(*Ref, Options) bool) {
		for _, e := range slices.Clone(r.entries) {
			if !yield(e.Ref, e.Options) {
				return
			}
		}
	}
}

// Run invokes every registered unit against rec in run order. Units added or
// removed by a unit while running take effect on the next pass.
func (r *Registry) Run(rec Record) {
	for _, e := range slices.Clone(r.entries) {
		e.unit.Validate(rec)
	}
}

func (r *Registry) put(e *Entry) {
	if i := r.index(e.Ref); i >= 0 {
		r.entries[i] = e
		return
	}
	r.entries = append(r.entries, e)
}

func (r *Registry) index(ref *Ref) int {
	if ref == nil {
		return -1
	}
	return slices.IndexFunc(r.entries, func(e *Entry) bool { return e.Ref == ref })
}
