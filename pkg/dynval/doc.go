// Package dynval lets a single record carry extra validators on top of the
// static rules its type declares, without those validators leaking to other
// records of the same type.
//
// # Core Concepts
//
//   - [Unit]: anything with a Validate(rec) method that appends issues to the
//     record's error collection.
//   - [Ref]: the identity of a validator kind and the recipe to build it from
//     [Options]. Declared once, usually as a package-level variable.
//   - [Registry]: the per-record ordered set of (Ref, Options) entries. Embed
//     it by value in the host type; the zero value is ready to use.
//   - [Attach]: adds the single dynamic step to a host type's pipeline. At
//     validation time the step runs the calling record's own registry.
//
// # Basic Usage
//
//	var Minimum = dynval.Define("MinimumValidator", func(opts dynval.Options) (*minimum, error) {
//		m := &minimum{}
//		return m, opts.Decode(m)
//	})
//
//	type Account struct {
//		dynval.Registry `validate:"-"`
//		Age  int
//		errs result.Result
//	}
//
//	func (a *Account) Errors() *result.Result { return &a.errs }
//
//	var accounts = pipeline.Must(pipeline.New[*Account]("account"))
//
//	func init() { dynval.Attach(accounts) }
//
//	acct := &Account{Age: 5}
//	_ = acct.AddValidator(Minimum, dynval.Options{"minimum": 7})
//	accounts.Valid(acct) // false
//
// # Identity
//
// Adding the same Ref to one registry twice replaces the options of the first
// entry instead of running the validator twice. Blocks added with
// [Registry.AddBlock] each get a fresh identity and never replace one another.
//
// # Contract Checking
//
// Refs made with [Define] are checked by the compiler. Refs made with
// [Dynamic], typically loaded from configuration, are built and checked when
// added; a value without a single-argument Validate method fails with a
// [ContractViolation].
//
// # Concurrency
//
// A Registry has no internal locking. Callers that mutate one record's
// registry from several goroutines must synchronise access themselves.
package dynval
