// Package records loads account records and the rules that apply to them
// from YAML, JSON, TOML or Markdown files.
//
// A YAML file looks like:
//
//	rules:                 # applied to every record in the file
//	  - kind: required
//	    options: {field: email}
//	records:
//	  - label: alice       # optional, shown in reports
//	    name: alice
//	    email: alice@example.com
//	    age: 17
//	    rules:             # applied to this record only
//	      - kind: minimum
//	        options: {field: age, minimum: 18}
//
// JSON and TOML files use the same keys. A Markdown file holds a single
// record in its YAML frontmatter; the body is ignored.
//
// Rules are applied in order: rules passed to [Build], then file rules, then
// record rules. Rules of the same kind share one identity, so the most
// specific one wins.
package records
