// Package frontmatter parses YAML frontmatter from Markdown files.
//
// dynval accepts record files written as Markdown: the frontmatter holds the
// rules and records, and the body is free-form notes about them.
//
// Frontmatter is delimited by lines containing only "---" at the start and end.
// The content between delimiters is parsed as YAML and unmarshaled into the
// type parameter T. The remaining content after the closing delimiter is
// returned as the body.
//
//	type Doc struct {
//		Rules []string `yaml:"rules"`
//	}
//
//	doc, body, err := frontmatter.ParseFile[Doc]("accounts.md")
//
// # Error Handling
//
//   - [ErrNoFrontmatter]: content does not open and close a "---" block
//   - [ErrInvalidYAML]: the block exists but is not valid YAML
//
// Both LF and CRLF line endings are accepted; the returned body uses LF.
package frontmatter
