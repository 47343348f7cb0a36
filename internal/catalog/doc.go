// Package catalog names the validator kinds that record files, the config
// file and --rule flags can refer to.
//
// Every kind is a [dynval.Ref] declared with [dynval.Dynamic], so kinds
// registered at runtime are contract-checked when they are added to a
// record. Built-in kinds read record fields through [Fielder]:
//
//	required  field
//	minimum   field, minimum
//	maximum   field, maximum
//	length    field, min, max
//	pattern   field, pattern
//	one_of    field, values
//	tag       field, tag (a go-playground/validator tag such as "email")
//
// Every kind also accepts a message option that replaces the default text.
//
// A [Rule] pairs a kind with its options. [ParseRule] reads the compact
// form used on the command line:
//
//	minimum:field=age,minimum=18
//	one_of:field=role,values=admin,values=member
package catalog
