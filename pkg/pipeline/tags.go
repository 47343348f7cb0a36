package pipeline

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/thoreinstein/dynval/pkg/result"
)

// ErrTranslatorNotFound indicates the English translator could not be loaded.
var ErrTranslatorNotFound = errors.New("translator not found")

// tagEngine checks `validate` struct tags with go-playground/validator.
type tagEngine struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newTagEngine() (*tagEngine, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so messages match what users wrote.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, errors.Wrap(err, "registering default translations")
	}

	return &tagEngine{validate: validate, trans: trans}, nil
}

func (e *tagEngine) register(tag string, fn validator.Func, message string) error {
	if err := e.validate.RegisterValidation(tag, fn); err != nil {
		return errors.Wrapf(err, "registering tag %q", tag)
	}

	err := e.validate.RegisterTranslation(tag, e.trans,
		func(t ut.Translator) error {
			return t.Add(tag, message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	return errors.Wrapf(err, "registering translation for tag %q", tag)
}

// check appends one issue per failed tag to res.
func (e *tagEngine) check(rec any, res *result.Result) {
	err := e.validate.Struct(rec)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.AddError("", err.Error(), nil)
		return
	}

	for _, fe := range verrs {
		issue := result.Issue{
			Severity: result.SeverityError,
			Field:    fieldPath(fe.Namespace()),
			Message:  fe.Translate(e.trans),
			Value:    fe.Value(),
			Context:  map[string]string{"tag": fe.Tag()},
		}
		if fe.Param() != "" {
			issue.Context["param"] = fe.Param()
		}
		res.Add(issue)
	}
}

// fieldPath strips the root type name from a validator namespace,
// e.g. "Account.address.city" becomes "address.city".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
