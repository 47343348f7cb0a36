package frontmatter

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/dynval/pkg/fileutil"
)

var (
	// ErrNoFrontmatter is returned when content has no complete "---" block.
	ErrNoFrontmatter = errors.New("no frontmatter found")

	// ErrInvalidYAML is returned when the frontmatter cannot be unmarshaled.
	ErrInvalidYAML = errors.New("invalid YAML")
)

var delim = []byte("---")

// Split separates content into the raw frontmatter and the body.
func Split(content []byte) (matter, body []byte, err error) {
	s := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	rest, ok := bytes.CutPrefix(s, []byte("---\n"))
	if !ok {
		return nil, nil, ErrNoFrontmatter
	}

	// Walk lines until one is exactly the delimiter.
	offset := 0
	for offset <= len(rest) {
		line := rest[offset:]
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		if bytes.Equal(line, delim) {
			matter = rest[:offset]
			if end < 0 {
				return matter, nil, nil
			}
			return matter, rest[offset+end+1:], nil
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, nil, ErrNoFrontmatter
}

// ParseBytes unmarshals the frontmatter of content into a new T and returns
// it with the body.
func ParseBytes[T any](content []byte) (*T, string, error) {
	matter, body, err := Split(content)
	if err != nil {
		return nil, "", err
	}

	var meta T
	if err := yaml.Unmarshal(matter, &meta); err != nil {
		return nil, "", errors.Mark(errors.Wrap(err, "invalid YAML in frontmatter"), ErrInvalidYAML)
	}
	return &meta, string(body), nil
}

// Parse is ParseBytes over everything read from r.
func Parse[T any](r io.Reader) (*T, string, error) {
	content, err := fileutil.ReadAllWithLimit(r)
	if err != nil {
		return nil, "", err
	}
	return ParseBytes[T](content)
}

// ParseFile is ParseBytes over the file at path.
func ParseFile[T any](path string) (*T, string, error) {
	content, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, "", err
	}
	return ParseBytes[T](content)
}
