package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/dynval/internal/account"
	"github.com/thoreinstein/dynval/internal/catalog"
	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
	"github.com/thoreinstein/dynval/pkg/fileutil"
	"github.com/thoreinstein/dynval/pkg/frontmatter"
)

// ErrNoRecords is returned for files that define no records.
var ErrNoRecords = errors.New("no records found")

// Format identifies a record file encoding.
type Format string

// Supported record file formats.
const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "%s", path)
	}
}

// File is a parsed record file.
type File struct {
	Path    string
	Rules   []catalog.Rule
	Records []Spec
}

// Spec is one record as written in a file: its fields plus the rules that
// apply only to it.
type Spec struct {
	Label  string         `mapstructure:"label"`
	Rules  []catalog.Rule `mapstructure:"rules"`
	Fields map[string]any `mapstructure:",remain"`
}

type rawFile struct {
	Rules   []catalog.Rule   `mapstructure:"rules"`
	Records []map[string]any `mapstructure:"records"`
}

// Load reads and parses the record file at path.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return Parse(path, data, format)
}

// LoadReader parses records read from r. name labels the records and errors.
func LoadReader(r io.Reader, name string, format Format) (*File, error) {
	data, err := fileutil.ReadAllWithLimit(r)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", name)
	}
	return Parse(name, data, format)
}

// Parse decodes data in the given format.
func Parse(name string, data []byte, format Format) (*File, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}

	var raw rawFile
	if err := decodeMap(doc, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	if len(raw.Records) == 0 {
		return nil, errors.Wrapf(ErrNoRecords, "%s", name)
	}

	f := &File{Path: name, Rules: raw.Rules, Records: make([]Spec, 0, len(raw.Records))}
	for i, rec := range raw.Records {
		var spec Spec
		if err := decodeMap(rec, &spec); err != nil {
			return nil, errors.Wrapf(err, "parsing %s: record %d", name, i+1)
		}
		if spec.Label == "" {
			spec.Label = defaultLabel(name, i, len(raw.Records))
		}
		f.Records = append(f.Records, spec)
	}
	return f, nil
}

func decode(data []byte, format Format) (map[string]any, error) {
	doc := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "decoding YAML")
		}
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return doc, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "decoding JSON")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "decoding TOML")
		}
	case FormatMarkdown:
		matter, _, err := frontmatter.ParseBytes[map[string]any](data)
		if err != nil {
			return nil, err
		}
		// The frontmatter is a single record.
		return map[string]any{"records": []any{*matter}}, nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "%q", format)
	}
	return doc, nil
}

func decodeMap(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "creating decoder")
	}
	return dec.Decode(in)
}

func defaultLabel(name string, i, n int) string {
	base := filepath.Base(name)
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s#%d", base, i+1)
}

// Item is a record ready for validation.
type Item struct {
	Label   string
	Account *account.Account
}

// Build decodes every record in f into an Account and adds its rules from
// cat: extra first, then the file rules, then the record's own rules. A rule
// that replaces an earlier one of the same kind is logged as a warning.
func Build(ctx context.Context, f *File, cat *catalog.Catalog, extra ...catalog.Rule) ([]*Item, error) {
	logger := logging.FromContext(ctx)

	items := make([]*Item, 0, len(f.Records))
	for _, spec := range f.Records {
		acct, err := account.FromMap(spec.Fields)
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", spec.Label)
		}

		rules := slices.Concat(extra, f.Rules, spec.Rules)
		recCtx := logging.NewContext(ctx, logger.With("record", spec.Label))
		if err := cat.Apply(recCtx, &acct.Registry, rules); err != nil {
			return nil, errors.Wrapf(err, "record %s", spec.Label)
		}

		items = append(items, &Item{Label: spec.Label, Account: acct})
	}
	return items, nil
}
