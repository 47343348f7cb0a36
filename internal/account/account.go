// Package account defines the record type the dynval CLI validates.
//
// Every Account runs the same type-level rules: the `validate` struct tags
// and a warning for plain-http websites. Rules loaded from files or flags are
// added to a single Account through its embedded dynval.Registry and never
// affect other accounts.
package account

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"

	"github.com/thoreinstein/dynval/pkg/dynval"
	"github.com/thoreinstein/dynval/pkg/pipeline"
	"github.com/thoreinstein/dynval/pkg/result"
)

// Account is a user account record.
type Account struct {
	dynval.Registry `json:"-" yaml:"-" mapstructure:"-" validate:"-"`

	Name    string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Email   string `json:"email" yaml:"email" mapstructure:"email" validate:"required,email"`
	Age     int    `json:"age,omitempty" yaml:"age,omitempty" mapstructure:"age" validate:"gte=0,lte=150"`
	Role    string `json:"role,omitempty" yaml:"role,omitempty" mapstructure:"role" validate:"omitempty,oneof=admin member guest"`
	Website string `json:"website,omitempty" yaml:"website,omitempty" mapstructure:"website" validate:"omitempty,url"`

	errs result.Result
}

// StepWebsiteScheme warns about websites served over plain http.
const StepWebsiteScheme = "website_scheme"

var accounts = pipeline.Must(pipeline.New[*Account]("account", pipeline.WithStructTags()))

func init() {
	accounts.Use(StepWebsiteScheme, func(a *Account) {
		if strings.HasPrefix(a.Website, "http://") {
			a.Errors().AddWarning("website", "should use https", a.Website)
		}
	})
	dynval.Attach(accounts)
}

// Pipeline returns the pipeline shared by every Account.
func Pipeline() *pipeline.Pipeline[*Account] {
	return accounts
}

// FromMap decodes fields into a new Account. Values are converted weakly, so
// "30" is accepted for age; keys that match no field are an error.
func FromMap(fields map[string]any) (*Account, error) {
	a := &Account{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           a,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating account decoder")
	}
	if err := dec.Decode(fields); err != nil {
		return nil, errors.Wrap(err, "decoding account")
	}
	return a, nil
}

// Errors returns the issues recorded by the most recent validation pass.
func (a *Account) Errors() *result.Result {
	return &a.errs
}

// Validate runs the account pipeline and returns the recorded issues.
func (a *Account) Validate() *result.Result {
	return accounts.Validate(a)
}

// Valid runs the account pipeline and reports whether no errors were
// recorded. Warnings do not make an account invalid.
func (a *Account) Valid() bool {
	return accounts.Valid(a)
}

// Field returns the value of the field with the given input name.
func (a *Account) Field(name string) (any, bool) {
	switch name {
	case "name":
		return a.Name, true
	case "email":
		return a.Email, true
	case "age":
		return a.Age, true
	case "role":
		return a.Role, true
	case "website":
		return a.Website, true
	default:
		return nil, false
	}
}

// Fields lists the names Field accepts.
func Fields() []string {
	return []string{"name", "email", "age", "role", "website"}
}
