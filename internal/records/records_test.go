package records

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/dynval/internal/catalog"
	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
	"github.com/thoreinstein/dynval/pkg/dynval"
)

const yamlRecords = `rules:
  - kind: required
    options: {field: role}
records:
  - label: alice
    name: alice
    email: alice@example.com
    age: 17
    role: member
    rules:
      - kind: minimum
        options: {field: age, minimum: 18}
  - name: bob
    email: bob@example.com
    age: "40"
`

const jsonRecords = `{
  "rules": [{"kind": "required", "options": {"field": "role"}}],
  "records": [
    {
      "label": "alice",
      "name": "alice",
      "email": "alice@example.com",
      "age": 17,
      "role": "member",
      "rules": [{"kind": "minimum", "options": {"field": "age", "minimum": 18}}]
    },
    {"name": "bob", "email": "bob@example.com", "age": "40"}
  ]
}`

const tomlRecords = `rules = [{ kind = "required", options = { field = "role" } }]

[[records]]
label = "alice"
name = "alice"
email = "alice@example.com"
age = 17
role = "member"
rules = [{ kind = "minimum", options = { field = "age", minimum = 18 } }]

[[records]]
name = "bob"
email = "bob@example.com"
age = "40"
`

const markdownRecord = `---
name: carol
email: carol@example.com
role: guest
rules:
  - kind: one_of
    options:
      field: role
      values: [admin, member]
---
# Carol

Notes about this account are ignored.
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "people.yaml", yamlRecords},
		{"yml", "people.yml", yamlRecords},
		{"json", "people.json", jsonRecords},
		{"toml", "people.toml", tomlRecords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(write(t, tt.file, tt.content))
			require.NoError(t, err)

			require.Len(t, f.Rules, 1)
			assert.Equal(t, "required", f.Rules[0].Kind)

			require.Len(t, f.Records, 2)
			assert.Equal(t, "alice", f.Records[0].Label)
			assert.Equal(t, tt.file+"#2", f.Records[1].Label)
			require.Len(t, f.Records[0].Rules, 1)
			assert.Equal(t, "minimum", f.Records[0].Rules[0].Kind)
			assert.Equal(t, "alice", f.Records[0].Fields["name"])
			assert.NotContains(t, f.Records[0].Fields, "rules")
			assert.NotContains(t, f.Records[0].Fields, "label")

			items, err := Build(t.Context(), f, catalog.Default())
			require.NoError(t, err)
			require.Len(t, items, 2)

			alice, bob := items[0].Account, items[1].Account
			assert.Equal(t, 17, alice.Age)
			assert.Equal(t, 40, bob.Age)

			assert.False(t, alice.Valid())
			assert.Equal(t, "must be at least 18", alice.Errors().OnField("age")[0].Message)

			assert.False(t, bob.Valid())
			assert.Equal(t, []string{"role"}, bob.Errors().Fields(), "file rules apply to every record")
		})
	}
}

func TestLoadMarkdown(t *testing.T) {
	f, err := Load(write(t, "carol.md", markdownRecord))
	require.NoError(t, err)
	require.Len(t, f.Records, 1)
	assert.Equal(t, "carol.md", f.Records[0].Label)

	items, err := Build(t.Context(), f, catalog.Default())
	require.NoError(t, err)
	acct := items[0].Account
	assert.False(t, acct.Valid())
	assert.Equal(t, "must be one of admin, member", acct.Errors().OnField("role")[0].Message)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		wantMsg string
	}{
		{name: "unsupported extension", file: "people.csv", content: "a,b", wantErr: errors.ErrUnsupportedFormat},
		{name: "no records", file: "empty.yaml", content: "rules: []\n", wantErr: ErrNoRecords},
		{name: "empty json", file: "empty.json", content: "  \n", wantErr: ErrNoRecords},
		{name: "malformed yaml", file: "bad.yaml", content: "records: [\n", wantMsg: "decoding YAML"},
		{name: "malformed toml", file: "bad.toml", content: "records = \n", wantMsg: "decoding TOML"},
		{name: "unknown top-level key", file: "extra.yaml", content: "people: []\nrecords: [{name: a}]\n", wantMsg: "people"},
		{name: "markdown without frontmatter", file: "plain.md", content: "# Title\n", wantMsg: "no frontmatter found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadReader(t *testing.T) {
	f, err := LoadReader(strings.NewReader("records:\n  - name: dan\n    email: dan@example.com\n"), "-", FormatYAML)
	require.NoError(t, err)
	require.Len(t, f.Records, 1)
	assert.Equal(t, "-", f.Records[0].Label)
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.YAML":     FormatYAML,
		"a.json":     FormatJSON,
		"dir/a.toml": FormatTOML,
		"a.markdown": FormatMarkdown,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestBuildRuleOrder(t *testing.T) {
	f, err := Parse("inline.yaml", []byte(`rules:
  - kind: minimum
    options: {field: age, minimum: 21}
records:
  - name: erin
    email: erin@example.com
    age: 19
    rules:
      - kind: minimum
        options: {field: age, minimum: 18}
  - name: finn
    email: finn@example.com
    age: 19
`), FormatYAML)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := logging.NewContext(t.Context(), logger)

	extra := catalog.Rule{Kind: "minimum", Options: dynval.Options{"field": "age", "minimum": 30}}
	items, err := Build(ctx, f, catalog.Default(), extra)
	require.NoError(t, err)

	assert.True(t, items[0].Account.Valid(), "the record rule replaces the file and extra rules")
	assert.False(t, items[1].Account.Valid(), "the file rule replaces the extra rule")
	assert.Equal(t, "must be at least 21", items[1].Account.Errors().Issues[0].Message)

	out := buf.String()
	assert.Contains(t, out, "rule replaces an earlier rule of the same kind")
	assert.Contains(t, out, "record=inline.yaml#1")
	assert.Contains(t, out, "record=inline.yaml#2")
}

func TestBuildErrors(t *testing.T) {
	f, err := Parse("bad.yaml", []byte("records:\n  - name: gil\n    nickname: g\n"), FormatYAML)
	require.NoError(t, err)
	_, err = Build(t.Context(), f, catalog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nickname")

	f, err = Parse("bad.yaml", []byte("records:\n  - name: gil\n    rules: [{kind: shout}]\n"), FormatYAML)
	require.NoError(t, err)
	_, err = Build(t.Context(), f, catalog.Default())
	assert.ErrorIs(t, err, errors.ErrUnknownValidator)
}
